package dat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lureiny/xrayluci/common/log/logger"
)

const unknownDatetime = "Unknown"

// 新建但未保存的section的id以cfg开头, 没有对应的文件
const unsavedSectionPrefix = "cfg"

// IsUnsavedSection reports whether sectionID names a section that was never saved.
func IsUnsavedSection(sectionID string) bool {
	return strings.HasPrefix(sectionID, unsavedSectionPrefix)
}

const datetimeLayout = "2006/01/02 15:04:05"

// Status is the display record of a data file.
type Status struct {
	Count    string `json:"count"`
	Datetime string `json:"datetime"`
}

// DefaultStatus is shown when the data file can not be inspected.
func DefaultStatus() Status {
	return Status{Count: "0", Datetime: unknownDatetime}
}

var sizeUnits = []string{"", "K", "M", "G", "T", "P", "E"}

// FormatSize renders a byte count with a binary magnitude suffix, e.g. "1.50 MB".
func FormatSize(size int64) string {
	if size < 0 {
		size = 0
	}
	value := float64(size)
	i := 0
	for ; i < len(sizeUnits)-1 && value > 1024; i++ {
		value /= 1024
	}
	if i == 0 {
		return fmt.Sprintf("%d B", size)
	}
	return fmt.Sprintf("%.2f %sB", value, sizeUnits[i])
}

// FormatDatetime renders t as a 24h calendar string in local time.
func FormatDatetime(t time.Time) string {
	return t.Local().Format(datetimeLayout)
}

// StatusFromFileInfo converts a stat result into a display record.
func StatusFromFileInfo(info *FileInfo) Status {
	if info == nil {
		return DefaultStatus()
	}
	return Status{
		Count:    FormatSize(info.Size),
		Datetime: FormatDatetime(info.Mtime),
	}
}

// StatusSource produces the status record of a data file.
type StatusSource interface {
	Status(ctx context.Context, name string) (Status, error)
}

// FileStatusSource stats <Dir>/<name>.dat through a FileAccess.
type FileStatusSource struct {
	Dir   string
	Files FileAccess
}

func NewFileStatusSource(dir string, files FileAccess) *FileStatusSource {
	if files == nil {
		files = OSFileAccess{}
	}
	return &FileStatusSource{Dir: dir, Files: files}
}

// Status never fails, stat errors fall back to DefaultStatus.
func (s *FileStatusSource) Status(ctx context.Context, name string) (Status, error) {
	if !ValidName(name) {
		return DefaultStatus(), nil
	}
	info, err := s.Files.Stat(DataFilePath(s.Dir, name))
	if err != nil {
		logger.Debug("Msg=stat data file fail|Name=%s|Err=%v", name, err)
		return DefaultStatus(), nil
	}
	return StatusFromFileInfo(info), nil
}
