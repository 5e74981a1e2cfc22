package common

import "time"

// config
const (
	// xray
	ConfigXrayBin     = "xray.bin"
	ConfigXrayDataDir = "xray.data_dir"
	ConfigXrayOwner   = "xray.release.owner"
	ConfigXrayRepo    = "xray.release.repo"
	ConfigXrayCheck   = "xray.release.check_latest"

	// update
	ConfigUpdateProxy       = "update.proxy"
	ConfigUpdateTimeout     = "update.timeout"
	ConfigUpdateMaxBytes    = "update.max_bytes"
	ConfigUpdateSuccessCode = "update.success_code"

	// server
	ConfigServerListen            = "server.listen"
	ConfigServerHttpPort          = "server.http.port"
	ConfigServerHttpToken         = "server.http.token"
	ConfigServerName              = "server.name"
	ConfigSupportPrometheus       = "server.http.support_prometheus"
	ConfigServerStatusPollSeconds = "server.status.poll_seconds"

	// uci
	ConfigUciBackend  = "uci.backend"
	ConfigUciSections = "uci.sections"

	// log
	ConfigLogLevel = "log.level"
)

const (
	DefaultXrayBin     = "xray"
	DefaultDataDir     = "/usr/share/xray"
	DefaultXrayOwner   = "XTLS"
	DefaultXrayRepo    = "Xray-core"
	DefaultListen      = "127.0.0.1"
	DefaultHttpPort    = 8089
	DefaultServerName  = "xrayluci"
	DefaultUciBackend  = UciBackendCommand
	DefaultSuccessCode = 0

	// 单个数据文件的下载上限
	DefaultUpdateMaxBytes int64 = 64 * 1024 * 1024
	DefaultUpdateTimeout        = 120 * time.Second
	DefaultPollInterval         = 5 * time.Second
)

const (
	UciBackendCommand = "command"
	UciBackendStatic  = "static"

	// uci config holding the data file mirror options
	UciConfigXrayCore = "xray_core"
)

// rpc response code
const (
	CodeSuccess int = 0
	CodeFailed  int = 1
)

const ErrMsgSplitSign = "|"

// rpc uri, relative to the http server root
const (
	ListStatusURI     = "xray/listStatus"
	UpdateDataFileURI = "xray/updatedatafile"
	RunningStatusURI  = "xray/runningStatus"
	VersionURI        = "xray/version"

	ViewURI        = "view/xray"
	ViewUpdateURI  = "view/xray/update"
	ViewStatusURI  = "view/xray/status"
	ViewDismissURI = "view/xray/dismiss"
)
