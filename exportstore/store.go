// Package exportstore archives generated report files. Backends: local
// filesystem (default), process memory (tests) and S3 or MinIO.
package exportstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"it_inventory/config"
)

type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverS3         Driver = "s3"
	DriverMemory     Driver = "memory"
)

var (
	ErrNotFound = errors.New("export not found")
	ErrExists   = errors.New("export already exists")
)

// Info describes one archived object. Checksum is the hex xxhash64 of the
// content.
type Info struct {
	Key          string            `json:"key"`
	Size         int64             `json:"size"`
	ContentType  string            `json:"contentType,omitempty"`
	Checksum     string            `json:"checksum,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	LastModified time.Time         `json:"lastModified"`
}

// Store is create-only: Put fails with ErrExists when the key is taken.
type Store interface {
	Driver() Driver
	Put(ctx context.Context, key string, r io.Reader, contentType string, md map[string]string) (Info, error)
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	List(ctx context.Context, prefix string) ([]Info, error)
}

// Open builds the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.Export) (Store, error) {
	switch Driver(cfg.Driver) {
	case DriverFilesystem, "":
		return NewFS(cfg.FSRoot)
	case DriverMemory:
		return NewMemory(), nil
	case DriverS3:
		return NewS3(ctx, S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			PathStyle:       cfg.S3PathStyle,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
		})
	default:
		return nil, fmt.Errorf("unsupported export driver %q", cfg.Driver)
	}
}

func checksum(b []byte) string { return fmt.Sprintf("%016x", xxhash.Sum64(b)) }

// CleanKey rejects empty, absolute and escaping keys and normalizes the rest.
func CleanKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return path.Clean(key), nil
}

// ReportKey names an archived report: <kind>/<timestamp>-<filename>.
func ReportKey(kind, filename string, at time.Time) string {
	return kind + "/" + at.UTC().Format("20060102T150405Z") + "-" + filename
}

func cloneMetadata(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
