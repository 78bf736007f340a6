// Package localstore persists small string values between runs of the
// console. It is the durable half of the session: one key holds the bearer
// token verbatim, another the JSON-serialized user profile.
package localstore

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("localstore: key not found")

// Storage is any store that can durably keep string values by key.
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// FileStorage keeps each key in its own file under a directory.
type FileStorage struct {
	dir string
}

var _ Storage = (*FileStorage)(nil)

func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.Wrapf(err, "creating storage dir %s", dir)
	}
	return &FileStorage{dir: dir}, nil
}

func (fs *FileStorage) path(key string) string {
	return filepath.Join(fs.dir, key)
}

func (fs *FileStorage) Get(key string) (string, error) {
	data, err := ioutil.ReadFile(fs.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", errors.Wrapf(err, "reading key %s", key)
	}
	return string(data), nil
}

func (fs *FileStorage) Set(key, value string) error {
	if err := ioutil.WriteFile(fs.path(key), []byte(value), 0600); err != nil {
		return errors.Wrapf(err, "writing key %s", key)
	}
	return nil
}

func (fs *FileStorage) Delete(key string) error {
	if err := os.Remove(fs.path(key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "deleting key %s", key)
	}
	return nil
}
