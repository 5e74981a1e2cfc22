package view

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strings"

	widgetTemplate "github.com/lureiny/xrayluci/common/template"
	"github.com/lureiny/xrayluci/dat"
	"github.com/lureiny/xrayluci/uci"
)

const defaultTextRows = 20

// TextValue is a textarea backed either by a file (Filepath set) or by a uci option.
type TextValue struct {
	AbstractValue
	Filepath string
	Files    dat.FileAccess
	Store    uci.Store
	Required bool
	IsJSON   bool
	Readonly bool
	Rows     int
}

func NewFileTextValue(option, title, filepath string, files dat.FileAccess) *TextValue {
	if files == nil {
		files = dat.OSFileAccess{}
	}
	return &TextValue{
		AbstractValue: AbstractValue{OptionName: option, Title: title},
		Filepath:      filepath,
		Files:         files,
	}
}

func NewConfigTextValue(option, title string, store uci.Store) *TextValue {
	return &TextValue{
		AbstractValue: AbstractValue{OptionName: option, Title: title},
		Store:         store,
	}
}

func (t *TextValue) fileBacked() bool { return t.Filepath != "" }

func (t *TextValue) CfgValue(ctx context.Context, sectionID string) (interface{}, error) {
	return t.value(sectionID)
}

func (t *TextValue) value(sectionID string) (string, error) {
	if t.fileBacked() {
		data, err := t.Files.Read(t.Filepath)
		if err != nil {
			// 文件不存在时显示为空
			return "", nil
		}
		return string(data), nil
	}
	if t.Store == nil {
		return "", nil
	}
	value, _ := t.Store.Get(t.config(), sectionID, t.OptionName)
	return value, nil
}

func (t *TextValue) Render(ctx context.Context, optionIndex int, sectionID string) (template.HTML, error) {
	value, err := t.value(sectionID)
	if err != nil {
		return "", err
	}
	vars := t.baseVars(optionIndex, sectionID, widgetTemplate.TextValueWidget)
	vars["Value"] = value
	rows := t.Rows
	if rows <= 0 {
		rows = defaultTextRows
	}
	vars["Rows"] = rows
	vars["Readonly"] = t.Readonly
	return widgetTemplate.RenderWidget(widgetTemplate.TextValueWidget, vars)
}

// NormalizeText trims value, converts CRLF to LF and ends it with a single newline.
func NormalizeText(value string) string {
	value = strings.ReplaceAll(value, "\r\n", "\n")
	return strings.TrimSpace(value) + "\n"
}

func (t *TextValue) Write(sectionID, value string) error {
	if t.Readonly {
		return fmt.Errorf("%s is readonly", t.OptionName)
	}
	value = NormalizeText(value)
	if t.fileBacked() {
		if err := t.Files.Write(t.Filepath, []byte(value)); err != nil {
			return fmt.Errorf("write %s fail > %v", t.Filepath, err)
		}
		return nil
	}
	if t.Store == nil {
		return fmt.Errorf("no config store for %s", t.OptionName)
	}
	return t.Store.Set(t.config(), sectionID, t.OptionName, value)
}

// Remove clears the content, a file-backed value is truncated instead of deleted.
func (t *TextValue) Remove(sectionID string) error {
	if t.Readonly {
		return nil
	}
	if t.fileBacked() {
		return t.Files.Write(t.Filepath, []byte{})
	}
	if t.Store == nil {
		return nil
	}
	return t.Store.Set(t.config(), sectionID, t.OptionName, "")
}

func (t *TextValue) Validate(sectionID, value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" && t.Required {
		return fmt.Errorf("%s is required.", t.Title)
	}
	// 空内容不是合法的json
	if t.IsJSON && !isJSONContainer(trimmed) {
		return errors.New("Invalid JSON content.")
	}
	return nil
}

// 只接受对象或数组
func isJSONContainer(value string) bool {
	var content interface{}
	if err := json.Unmarshal([]byte(value), &content); err != nil {
		return false
	}
	switch content.(type) {
	case map[string]interface{}, []interface{}:
		return true
	}
	return false
}
