package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// localDisk stores files on the local filesystem under a root directory.
type localDisk struct {
	root    string
	baseURL string
}

func newLocalDisk(root, baseURL string) *localDisk {
	if root == "" {
		root = "storage"
	}
	return &localDisk{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

// fullPath resolves a storage path to an absolute filesystem path, rejecting
// anything that escapes the root.
func (d *localDisk) fullPath(path string) (string, error) {
	clean := filepath.Clean("/" + path)
	if strings.Contains(clean, "..") {
		return "", fmt.Errorf("storage: invalid path %q", path)
	}
	return filepath.Join(d.root, clean), nil
}

func (d *localDisk) Put(path string, content []byte) error {
	full, err := d.fullPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}
	return os.WriteFile(full, content, 0o644)
}

func (d *localDisk) PutStream(path string, r io.Reader) error {
	full, err := d.fullPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}
	f, err := os.Create(full)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, r)
	return err
}

func (d *localDisk) Get(path string) ([]byte, error) {
	full, err := d.fullPath(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(full)
}

func (d *localDisk) GetStream(path string) (io.ReadCloser, error) {
	full, err := d.fullPath(path)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

func (d *localDisk) Exists(path string) bool {
	full, err := d.fullPath(path)
	if err != nil {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && !info.IsDir()
}

func (d *localDisk) Size(path string) (int64, error) {
	full, err := d.fullPath(path)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(full)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (d *localDisk) URL(path string) string {
	return d.baseURL + "/" + strings.TrimLeft(path, "/")
}

func (d *localDisk) Delete(path string) error {
	full, err := d.fullPath(path)
	if err != nil {
		return err
	}
	err = os.Remove(full)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
