// Package store keeps the loan book snapshot in a key-value blob store.
//
// Three backends are available: a directory of files, a SQLite database and a
// Redis server. They all store the same JSON snapshot under a key, so a book can
// be moved from one backend to another by copying the blob.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Blob.Get when nothing is stored under the key.
var ErrNotFound = errors.New("blob not found")

// Blob is a minimal key-value store of opaque byte slices.
type Blob interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Backend names a Blob implementation.
type Backend string

const (
	FileBackend   Backend = "file"
	SQLiteBackend Backend = "sqlite"
	RedisBackend  Backend = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend    Backend
	Dir        string // file backend directory
	SQLitePath string // sqlite database file
	RedisAddr  string
	RedisDB    int
}

// Open returns the Blob selected by opt.Backend.
func Open(ctx context.Context, opt Options) (Blob, error) {
	switch opt.Backend {
	case FileBackend, "":
		return NewFile(opt.Dir)
	case SQLiteBackend:
		return OpenSQLite(ctx, opt.SQLitePath)
	case RedisBackend:
		return OpenRedis(ctx, opt.RedisAddr, opt.RedisDB)
	default:
		return nil, fmt.Errorf("unknown store backend %q, want one of %q, %q or %q", opt.Backend, FileBackend, SQLiteBackend, RedisBackend)
	}
}
