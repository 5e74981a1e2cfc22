package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

type Logger struct {
	baseLogger *log.Logger
	serverName string
	component  string
	logLevel   int
	mu         sync.RWMutex
}

const (
	DEBUG_LEVEL = 0
	INFO_LEVEL  = 1
	WARN_LEVEL  = 2
	ERR_LEVEL   = 3
)

var logLevelPrefixMap = map[int]string{
	DEBUG_LEVEL: "DEBUG",
	INFO_LEVEL:  "INFO",
	WARN_LEVEL:  "WARN",
	ERR_LEVEL:   "ERR",
}

const baseLogString = "%s|File=%s:%d|Func=%s|Component=%s|ServerName=%s|%s"

func (logger *Logger) Init() {
	logger.baseLogger = log.New(os.Stdout, "", log.Ldate|log.LUTC|log.Lmicroseconds)
	logger.logLevel = INFO_LEVEL
}

func (logger *Logger) SetOutput(w io.Writer) {
	logger.baseLogger.SetOutput(w)
}

func (logger *Logger) SetServerName(name string) {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	logger.serverName = name
}

func (logger *Logger) SetComponent(component string) {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	logger.component = component
}

func (logger *Logger) SetLogLevel(logLevel int) {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	logger.logLevel = logLevel
}

// ParseLevel 不认识的级别按INFO处理
func ParseLevel(level string) int {
	for l, prefix := range logLevelPrefixMap {
		if strings.EqualFold(prefix, level) {
			return l
		}
	}
	switch strings.ToLower(level) {
	case "warning":
		return WARN_LEVEL
	case "error":
		return ERR_LEVEL
	}
	return INFO_LEVEL
}

func (logger *Logger) Debug(format string, a ...interface{}) {
	logger.baseLogOut(DEBUG_LEVEL, format, a...)
}

func (logger *Logger) Info(format string, a ...interface{}) {
	logger.baseLogOut(INFO_LEVEL, format, a...)
}

func (logger *Logger) Error(format string, a ...interface{}) {
	logger.baseLogOut(ERR_LEVEL, format, a...)
}

func (logger *Logger) Warn(format string, a ...interface{}) {
	logger.baseLogOut(WARN_LEVEL, format, a...)
}

func (logger *Logger) Fatalf(format string, a ...interface{}) {
	logger.baseLogOut(ERR_LEVEL, format, a...)
	os.Exit(-1)
}

func (logger *Logger) baseLogOut(logLevel int, format string, a ...interface{}) {
	logger.mu.RLock()
	defer logger.mu.RUnlock()
	if logLevel < logger.logLevel {
		return
	}
	pc, file, line, _ := runtime.Caller(3)
	file = filepath.Base(file)
	funcName := "unknown"
	if f := runtime.FuncForPC(pc); f != nil {
		longFuncName := filepath.Base(f.Name())
		funcName = longFuncName
		if index := strings.Index(longFuncName, "."); index > 0 {
			funcName = longFuncName[index+1:]
		}
	}
	format = fmt.Sprintf(
		baseLogString,
		logLevelPrefixMap[logLevel],
		file,
		line,
		funcName,
		logger.component,
		logger.serverName,
		format,
	)
	logger.baseLogger.Printf(format, a...)
}
