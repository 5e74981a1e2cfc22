package logger

import (
	"io"

	"github.com/lureiny/xrayluci/common/log"
)

var logger = log.Logger{}

func SetServerName(name string) {
	logger.SetServerName(name)
}

func SetComponent(component string) {
	logger.SetComponent(component)
}

func SetLogLevel(logLevel int) {
	logger.SetLogLevel(logLevel)
}

func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

func Debug(format string, a ...interface{}) {
	logger.Debug(format, a...)
}

func Info(format string, a ...interface{}) {
	logger.Info(format, a...)
}

func Error(format string, a ...interface{}) {
	logger.Error(format, a...)
}

func Warn(format string, a ...interface{}) {
	logger.Warn(format, a...)
}

func Fatalf(format string, a ...interface{}) {
	logger.Fatalf(format, a...)
}

func init() {
	logger.Init()
}
