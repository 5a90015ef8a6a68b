// Package storage keeps uploaded files on the local filesystem under a root
// directory. Keys are slash-separated paths relative to that root.
package storage

import (
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrInvalidKey = errors.New("invalid storage key")

type Disk struct {
	root string
}

func NewDisk(root string) (*Disk, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, errors.Wrap(err, "create upload directory")
	}
	return &Disk{root: root}, nil
}

// EmployeeKey builds employees/{id}/{uuid}_{name}.
func EmployeeKey(employeeID int64, fileName string) string {
	return path.Join("employees", strconv.FormatInt(employeeID, 10), uuid.NewString()+"_"+SanitizeName(fileName))
}

// Save writes r under key and returns the number of bytes written.
func (d *Disk) Save(key string, r io.Reader) (int64, error) {
	full, err := d.resolve(key)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return 0, errors.Wrap(err, "create directory")
	}
	f, err := os.OpenFile(full, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o640)
	if err != nil {
		return 0, errors.Wrap(err, "create file")
	}
	n, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(full)
		return 0, errors.Wrap(err, "write file")
	}
	return n, nil
}

func (d *Disk) Open(key string) (io.ReadCloser, error) {
	full, err := d.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, errors.Wrap(err, "open file")
	}
	return f, nil
}

// Delete is a no-op for missing files.
func (d *Disk) Delete(key string) error {
	full, err := d.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove file")
	}
	return nil
}

func (d *Disk) resolve(key string) (string, error) {
	cleaned := path.Clean("/" + strings.TrimSpace(key))
	if cleaned == "/" || strings.Contains(key, "..") {
		return "", ErrInvalidKey
	}
	return filepath.Join(d.root, filepath.FromSlash(strings.TrimPrefix(cleaned, "/"))), nil
}

// SanitizeName keeps the base name and drops characters that are unsafe in paths.
func SanitizeName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r == '/' || r == ':' || r < 32:
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" || out == "." || out == ".." {
		return "file"
	}
	return out
}
