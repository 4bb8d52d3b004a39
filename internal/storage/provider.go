package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"studymate/internal/providers"
	"studymate/internal/storage/interfaces"
	"studymate/internal/structures"
)

// NewKVStore opens the configured backend behind the record cache.
func NewKVStore(conf *structures.Config, logger providers.Logger, cache providers.CacheProviderInterface) (KVStore, error) {
	var (
		kv  KVStore
		err error
	)

	switch conf.Storage.Backend {
	case "memory":
		kv = NewMemoryStore(conf.Storage.QuotaBytes)
	case "file":
		var compressor interfaces.CompressorInterface = plainCodec{}
		if conf.Storage.Compress {
			compressor, err = NewZstdCompressor()
			if err != nil {
				return nil, err
			}
		}
		kv, err = NewFileStore(conf.Storage.Dir, conf.Storage.QuotaBytes, compressor, logger)
	case "sqlite":
		if err = os.MkdirAll(conf.Storage.Dir, 0755); err != nil {
			return nil, err
		}
		kv, err = NewSQLiteStore(filepath.Join(conf.Storage.Dir, sqliteFileName), conf.Storage.QuotaBytes)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", conf.Storage.Backend)
	}
	if err != nil {
		return nil, err
	}

	logger.Infof(providers.TypeStorage, "Storage backend %s opened, quota %d bytes, usage %d bytes",
		conf.Storage.Backend, conf.Storage.QuotaBytes, kv.Usage())
	return NewCachedStore(kv, cache), nil
}
