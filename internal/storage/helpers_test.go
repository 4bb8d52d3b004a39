package storage

import (
	"studymate/internal/structures"
	"testing"
)

func testConfig(t *testing.T, backend string) *structures.Config {
	t.Helper()
	return &structures.Config{
		Storage: structures.StorageConfig{
			Backend:  backend,
			Dir:      t.TempDir(),
			Compress: true,
		},
	}
}
