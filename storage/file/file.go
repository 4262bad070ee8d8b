// Package file persists each table as one JSON file under a state
// directory.
package file

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/aquilax/guestbook/storage"
)

type File struct {
	dir string
}

func New() *File {
	return &File{}
}

// Open creates the state directory when missing. The driver argument
// is ignored; dsn is the directory path.
func (f *File) Open(driver, dsn string) error {
	f.dir = dsn
	return os.MkdirAll(dsn, 0o755)
}

func (f *File) Load(table string) (storage.Blob, error) {
	raw, err := os.ReadFile(f.path(table))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var data storage.Blob
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func (f *File) Flush(table string, data storage.Blob) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	tmp := f.path(table) + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path(table))
}

func (f *File) Close() error {
	return nil
}

func (f *File) path(table string) string {
	return filepath.Join(f.dir, table+".json")
}
