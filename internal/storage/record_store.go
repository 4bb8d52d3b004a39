package storage

import (
	"errors"
	"fmt"
	"reflect"
	"studymate/internal/providers"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gookit/validate"
)

type RecordStoreInterface interface {
	Load(key string, dst any) error
	Save(key string, v any) error
	Remove(key string) error
}

// checker is implemented by records with rules struct tags cannot express.
type checker interface {
	Check() error
}

// RecordStore stores JSON records in a KVStore. Loaded records are
// validated before they reach the caller.
type RecordStore struct {
	kv      KVStore
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewRecordStore(kv KVStore, logger providers.Logger, metrics providers.MetricsProviderInterface) RecordStoreInterface {
	return &RecordStore{kv: kv, logger: logger, metrics: metrics}
}

// Load decodes the record under key into dst. It returns ErrNotFound when
// the key is absent and ErrCorrupt when the stored bytes cannot be read,
// parsed or validated.
func (rs *RecordStore) Load(key string, dst any) error {
	data, ok, err := rs.kv.Get(key)
	if err != nil {
		return rs.corrupt(key, err)
	}
	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return rs.corrupt(key, err)
	}
	if err := validateRecord(reflect.ValueOf(dst)); err != nil {
		return rs.corrupt(key, err)
	}
	return nil
}

func (rs *RecordStore) Save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	start := time.Now()
	err = rs.kv.Set(key, data)
	rs.metrics.ObserveStorageWrite(time.Since(start))
	if err != nil {
		if errors.Is(err, ErrQuotaExceeded) {
			rs.metrics.IncQuotaExceeded(key)
			rs.logger.Warnf(providers.TypeStorage, "Quota exceeded writing %s (%d bytes, usage %d)", key, len(data), rs.kv.Usage())
		} else {
			rs.logger.Errorf(providers.TypeStorage, "Failed to write %s: %s", key, err)
		}
		return err
	}
	rs.logger.Debugf(providers.TypeStorage, "Wrote %s (%d bytes)", key, len(data))
	return nil
}

func (rs *RecordStore) Remove(key string) error {
	if err := rs.kv.Remove(key); err != nil {
		rs.logger.Errorf(providers.TypeStorage, "Failed to remove %s: %s", key, err)
		return err
	}
	return nil
}

func (rs *RecordStore) corrupt(key string, err error) error {
	rs.logger.Warnf(providers.TypeStorage, "Record %s is corrupt: %s", key, err)
	if errors.Is(err, ErrCorrupt) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrCorrupt, err)
}

// LoadOrDefault returns the stored record or the value built by def when
// the record is absent or corrupt. It never fails.
func LoadOrDefault[T any](rs RecordStoreInterface, key string, def func() T) T {
	var v T
	if err := rs.Load(key, &v); err != nil {
		return def()
	}
	return v
}

func validateRecord(v reflect.Value) error {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			if err := validateRecord(v.Index(i)); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
	case reflect.Struct:
		if !v.CanAddr() {
			cp := reflect.New(v.Type())
			cp.Elem().Set(v)
			v = cp.Elem()
		}
		ptr := v.Addr().Interface()
		if vd := validate.Struct(ptr); !vd.Validate() {
			return vd.Errors
		}
		if c, ok := ptr.(checker); ok {
			if err := c.Check(); err != nil {
				return err
			}
		}
		for i := 0; i < v.NumField(); i++ {
			f := v.Field(i)
			if f.Kind() == reflect.Slice && f.Type().Elem().Kind() == reflect.Struct {
				if err := validateRecord(f); err != nil {
					return fmt.Errorf("%s%w", v.Type().Field(i).Name, err)
				}
			}
		}
	}
	return nil
}
