package cmd

import "time"

var (
	// rootCmd flags
	configFile string
	remote     string
	token      string
	format     string

	// update flags
	section     string
	mirror      string
	downloadUrl string

	// outbound flags
	tag        string
	serverArgs []string

	// version flags
	checkLatest bool
)

const (
	formatJson = "json"
	formatYaml = "yaml"

	remoteTimeout = 150 * time.Second
)
