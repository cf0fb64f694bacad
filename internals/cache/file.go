package cache

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dchest/uniuri"
	"github.com/pkg/errors"
)

const expiresSuffix = ".expires"

// FileStore keeps entries as files in Dir. The expiry time is kept in a `<key>.expires` file next to it
type FileStore struct {
	Dir string
	Now Clock
}

// NewFileStore returns a FileStore using the system clock
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir, Now: time.Now}
}

func (f *FileStore) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if key == "" || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.Wrap(ErrInvalidKey, key)
	}
	return filepath.Join(f.Dir, clean), nil
}

func (f *FileStore) now() time.Time {
	if f.Now == nil {
		return time.Now()
	}
	return f.Now()
}

// Get returns a cached file if it did not expire yet
func (f *FileStore) Get(key string) ([]byte, bool) {
	path, err := f.path(key)
	if err != nil {
		return nil, false
	}

	rawExpires, err := os.ReadFile(path + expiresSuffix)
	if err != nil {
		return nil, false
	}
	var expires time.Time
	if trimmed := strings.TrimSpace(string(rawExpires)); trimmed != "" {
		expires, err = time.Parse(time.RFC3339Nano, trimmed)
		if err != nil {
			return nil, false
		}
	}
	if expired(f.now(), expires) {
		return nil, false
	}

	value, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return value, true
}

// Put writes value to disk
func (f *FileStore) Put(key string, value []byte, ttl time.Duration) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}

	if err := writeAtomic(path, value); err != nil {
		return errors.Wrapf(err, "writing cache entry %s", key)
	}

	var expires string
	if at := expiry(f.now(), ttl); !at.IsZero() {
		expires = at.UTC().Format(time.RFC3339Nano)
	}
	return writeAtomic(path+expiresSuffix, []byte(expires))
}

// Delete removes a cached file
func (f *FileStore) Delete(key string) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}
	for _, p := range []string{path, path + expiresSuffix} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Clear removes the whole cache directory
func (f *FileStore) Clear() error {
	return os.RemoveAll(f.Dir)
}

func writeAtomic(path string, data []byte) error {
	tmp := path + "." + uniuri.NewLen(8) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
