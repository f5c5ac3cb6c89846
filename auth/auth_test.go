package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	h, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", h)
	assert.NoError(t, CheckPassword(h, "s3cret!"))
	assert.ErrorIs(t, CheckPassword(h, "wrong"), ErrBadPassword)
}

func TestIssueAndParse(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	iss := NewIssuer("test-secret", time.Hour)
	iss.Now = func() time.Time { return now }

	tok, exp, err := iss.Issue("user-1", "manager", "sess-1")
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), exp)

	c, err := iss.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", c.Subject)
	assert.Equal(t, "sess-1", c.SessionID)
	assert.Equal(t, "manager", c.Role)
}

func TestParseRejects(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	iss := NewIssuer("test-secret", time.Hour)
	iss.Now = func() time.Time { return now }
	tok, _, err := iss.Issue("user-1", "user", "sess-1")
	require.NoError(t, err)

	other := NewIssuer("other-secret", time.Hour)
	other.Now = iss.Now
	_, err = other.Parse(tok)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	iss.Now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = iss.Parse(tok)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	_, err = iss.Parse("not.a.token")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}
