package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"studymate/internal/providers"
	"studymate/internal/storage/interfaces"
	"sync"
)

const recordExt = ".rec.zst"

// FileStore keeps one compressed file per key. The quota counts
// uncompressed bytes so every backend enforces the same capacity.
type FileStore struct {
	mu         sync.RWMutex
	dir        string
	limit      int64
	usage      int64
	sizes      map[string]int64
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileStore(dir string, limit int64, compressor interfaces.CompressorInterface, logger providers.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	fs := &FileStore{
		dir:        dir,
		limit:      limit,
		sizes:      make(map[string]int64),
		compressor: compressor,
		logger:     logger,
	}
	if err := fs.restoreIndex(); err != nil {
		return nil, err
	}
	return fs, nil
}

// restoreIndex rebuilds the per-key size index from the files on disk.
func (fs *FileStore) restoreIndex() error {
	files, err := filepath.Glob(filepath.Join(fs.dir, "*"+recordExt))
	if err != nil {
		return err
	}
	for _, file := range files {
		key := strings.TrimSuffix(filepath.Base(file), recordExt)
		raw, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		data, err := fs.compressor.Decompress(raw)
		if err != nil {
			fs.logger.Warnf(providers.TypeStorage, "Record %s is unreadable, counting raw size: %s", key, err)
			data = raw
		}
		size := entrySize(key, data)
		fs.sizes[key] = size
		fs.usage += size
	}
	return nil
}

func (fs *FileStore) Get(key string) ([]byte, bool, error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	raw, err := os.ReadFile(fs.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	data, err := fs.compressor.Decompress(raw)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s", ErrCorrupt, err)
	}
	return data, true, nil
}

func (fs *FileStore) Set(key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()

	newSize := entrySize(key, value)
	if !fits(fs.limit, fs.usage, fs.sizes[key], newSize) {
		return ErrQuotaExceeded
	}

	data, err := fs.compressor.Compress(value)
	if err != nil {
		return err
	}
	if err := writeAtomic(fs.path(key), data); err != nil {
		return err
	}

	fs.usage += newSize - fs.sizes[key]
	fs.sizes[key] = newSize
	return nil
}

func (fs *FileStore) Remove(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := os.Remove(fs.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	fs.usage -= fs.sizes[key]
	delete(fs.sizes, key)
	return nil
}

func (fs *FileStore) Usage() int64 {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.usage
}

func (fs *FileStore) Close() error {
	fs.compressor.Close()
	return nil
}

func (fs *FileStore) path(key string) string {
	return filepath.Join(fs.dir, key+recordExt)
}

// writeAtomic writes data to a temp file, syncs it and renames it over
// the target so readers see either the old or the new record.
func writeAtomic(fileName string, data []byte) error {
	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}
