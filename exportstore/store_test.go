package exportstore

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"it_inventory/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exercise(t *testing.T, s Store) {
	ctx := context.Background()
	body := "a,b\n1,2"
	info, err := s.Put(ctx, "inventory/one.csv", strings.NewReader(body), "text/csv", map[string]string{"rows": "1"})
	require.NoError(t, err)
	assert.Equal(t, "inventory/one.csv", info.Key)
	assert.EqualValues(t, len(body), info.Size)
	assert.Len(t, info.Checksum, 16)

	_, err = s.Put(ctx, "inventory/one.csv", strings.NewReader("x"), "text/csv", nil)
	assert.ErrorIs(t, err, ErrExists)

	_, err = s.Put(ctx, "borrow/two.csv", strings.NewReader("y"), "text/csv", nil)
	require.NoError(t, err)

	got, rc, err := s.Get(ctx, "inventory/one.csv")
	require.NoError(t, err)
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, body, string(b))
	assert.Equal(t, info.Checksum, got.Checksum)
	assert.Equal(t, "text/csv", got.ContentType)
	assert.Equal(t, map[string]string{"rows": "1"}, got.Metadata)

	_, _, err = s.Get(ctx, "inventory/missing.csv")
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "borrow/two.csv", all[0].Key)

	inv, err := s.List(ctx, "inventory/")
	require.NoError(t, err)
	require.Len(t, inv, 1)
	assert.Equal(t, info.Checksum, inv[0].Checksum)
}

func TestMemoryStore(t *testing.T) { exercise(t, NewMemory()) }

func TestFSStore(t *testing.T) {
	s, err := NewFS(t.TempDir())
	require.NoError(t, err)
	exercise(t, s)
}

func TestCleanKeyRejectsTraversal(t *testing.T) {
	for _, k := range []string{"", " ", "/etc/passwd", "../x", "a/../../b"} {
		_, err := CleanKey(k)
		assert.Error(t, err, k)
	}
	k, err := CleanKey("inventory//a.csv")
	require.NoError(t, err)
	assert.Equal(t, "inventory/a.csv", k)
}

func TestOpenSelectsDriver(t *testing.T) {
	s, err := Open(context.Background(), config.Export{Driver: "memory"})
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, s.Driver())

	s, err = Open(context.Background(), config.Export{Driver: "fs", FSRoot: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, DriverFilesystem, s.Driver())

	_, err = Open(context.Background(), config.Export{Driver: "ftp"})
	assert.Error(t, err)
}

func TestReportKey(t *testing.T) {
	at := time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "inventory/20240610T093000Z-inventory-report-2024-06-10.csv",
		ReportKey("inventory", "inventory-report-2024-06-10.csv", at))
}
