package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

var stdout io.Writer = os.Stdout

func isTerminal() bool {
	f, ok := stdout.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// printResult writes v in the --format, json is indented when stdout is a terminal.
func printResult(v interface{}) error {
	switch format {
	case formatYaml:
		// 先转为json, 保证字段名与json tag一致
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var content interface{}
		if err := json.Unmarshal(data, &content); err != nil {
			return err
		}
		out, err := yaml.Marshal(content)
		if err != nil {
			return err
		}
		_, err = stdout.Write(out)
		return err
	case formatJson, "":
		var data []byte
		var err error
		if isTerminal() {
			data, err = json.MarshalIndent(v, "", "  ")
		} else {
			data, err = json.Marshal(v)
		}
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, string(data))
		return err
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
