package storage

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("key not found")

// Store is a small local key-value store holding serialized values.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Close() error
}

type Config struct {
	Driver string `yaml:"driver" toml:"driver"`
	Path   string `yaml:"path" toml:"path"`
}

const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

func Open(cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", DriverFile:
		s, err := NewFile(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverSQLite:
		s, err := NewSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
