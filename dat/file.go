package dat

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileInfo is the subset of a stat result the widgets display.
type FileInfo struct {
	Size  int64
	Mtime time.Time
}

// FileAccess is the file service of the router.
type FileAccess interface {
	Stat(path string) (*FileInfo, error)
	Read(path string) ([]byte, error)
	Write(path string, data []byte) error
}

// OSFileAccess uses the local filesystem.
type OSFileAccess struct{}

func (OSFileAccess) Stat(path string) (*FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &FileInfo{Size: info.Size(), Mtime: info.ModTime()}, nil
}

func (OSFileAccess) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Write 先写临时文件再rename, 避免读到写了一半的文件
func (OSFileAccess) Write(path string, data []byte) error {
	tmp := path + tempSuffix
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

const (
	datSuffix  = ".dat"
	tempSuffix = ".tmp"
)

// ValidName reports whether name can be used as a data file base name.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.HasPrefix(name, ".")
}

// DataFilePath returns <dir>/<name>.dat.
func DataFilePath(dir, name string) string {
	return filepath.Join(dir, name+datSuffix)
}
