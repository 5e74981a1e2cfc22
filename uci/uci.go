// Package uci reads options from the router's unified configuration store.
package uci

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Reader returns the value of config.section.option, ok is false when the option is unset.
type Reader interface {
	Get(config, section, option string) (string, bool)
}

// Store is a Reader that can also persist options.
type Store interface {
	Reader
	Set(config, section, option, value string) error
}

const defaultUciBin = "uci"
const defaultCommandTimeout = 3 * time.Second

// CommandReader 通过uci命令行读取配置
type CommandReader struct {
	Bin     string
	Timeout time.Duration
	// run is replaced in tests
	run func(ctx context.Context, bin string, args ...string) ([]byte, error)
}

func NewCommandReader(bin string) *CommandReader {
	if bin == "" {
		bin = defaultUciBin
	}
	return &CommandReader{Bin: bin, Timeout: defaultCommandTimeout}
}

func runCommand(ctx context.Context, bin string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, err
	}
	return stdout.Bytes(), nil
}

func (r *CommandReader) Get(config, section, option string) (string, bool) {
	if !validName(config) || !validName(section) || !validName(option) {
		return "", false
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = defaultCommandTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	run := r.run
	if run == nil {
		run = runCommand
	}
	// uci -q get 在选项不存在时返回非0
	out, err := run(ctx, r.Bin, "-q", "get", fmt.Sprintf("%s.%s.%s", config, section, option))
	if err != nil {
		return "", false
	}
	value := strings.TrimRight(string(out), "\n")
	return value, true
}

// Set runs "uci set" followed by "uci commit <config>".
func (r *CommandReader) Set(config, section, option, value string) error {
	if !validName(config) || !validName(section) || !validName(option) {
		return fmt.Errorf("invalid uci path %s.%s.%s", config, section, option)
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = defaultCommandTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	run := r.run
	if run == nil {
		run = runCommand
	}
	// exec不经过shell, value无需转义
	if _, err := run(ctx, r.Bin, "-q", "set", fmt.Sprintf("%s.%s.%s=%s", config, section, option, value)); err != nil {
		return fmt.Errorf("uci set fail > %w", err)
	}
	if _, err := run(ctx, r.Bin, "-q", "commit", config); err != nil {
		return fmt.Errorf("uci commit fail > %w", err)
	}
	return nil
}

// uci names are limited to [A-Za-z0-9_], anything else would change the query path
func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range name {
		if !(c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}

// Sections maps config -> section -> option -> value.
type Sections map[string]map[string]map[string]string

// StaticReader serves options from memory, used off-router and in tests.
type StaticReader struct {
	lock     sync.RWMutex
	sections Sections
}

func NewStaticReader(sections Sections) *StaticReader {
	if sections == nil {
		sections = Sections{}
	}
	return &StaticReader{sections: sections}
}

// NewStaticReaderFromMap decodes a loosely typed tree (as produced by viper) into a StaticReader.
func NewStaticReaderFromMap(raw interface{}) (*StaticReader, error) {
	sections := Sections{}
	if raw == nil {
		return NewStaticReader(sections), nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &sections,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode uci sections fail > %w", err)
	}
	return NewStaticReader(sections), nil
}

func (r *StaticReader) Get(config, section, option string) (string, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	value, ok := r.sections[config][section][option]
	return value, ok
}

func (r *StaticReader) Set(config, section, option, value string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.sections[config] == nil {
		r.sections[config] = map[string]map[string]string{}
	}
	if r.sections[config][section] == nil {
		r.sections[config][section] = map[string]string{}
	}
	r.sections[config][section][option] = value
	return nil
}
