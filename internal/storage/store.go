package storage

import (
	"errors"
	"regexp"
)

var (
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	ErrNotFound      = errors.New("record not found")
	ErrCorrupt       = errors.New("record corrupt")
	ErrInvalidKey    = errors.New("invalid storage key")
)

// KVStore is a string-keyed byte store with a fixed capacity. Every Set
// replaces the whole value or leaves the previous one untouched.
type KVStore interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Remove(key string) error
	// Usage is the number of bytes counted against the quota.
	Usage() int64
	Close() error
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return ErrInvalidKey
	}
	return nil
}

func entrySize(key string, value []byte) int64 {
	return int64(len(key) + len(value))
}

// fits reports whether replacing an entry of oldSize with one of newSize
// keeps the total within limit. A limit of 0 disables the check.
func fits(limit, usage, oldSize, newSize int64) bool {
	if limit <= 0 {
		return true
	}
	return usage-oldSize+newSize <= limit
}
