package config

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/lureiny/xrayluci/common"
	"github.com/lureiny/xrayluci/common/config"
)

var globalConfigManager *config.ConfigManager = &config.ConfigManager{}

// 获取全局的ConfigManager, 获取后需要初始化
func GetGlobalConfigManager() *config.ConfigManager {
	if globalConfigManager == nil {
		globalConfigManager = &config.ConfigManager{}
	}
	return globalConfigManager
}

// InitGlobalConfig reads configFile and applies the defaults, an empty configFile uses defaults only.
func InitGlobalConfig(configFile string) error {
	if err := globalConfigManager.Init(configFile); err != nil {
		return err
	}
	setDefaults(globalConfigManager)
	return nil
}

func setDefaults(cm *config.ConfigManager) {
	cm.SetDefault(common.ConfigXrayBin, common.DefaultXrayBin)
	cm.SetDefault(common.ConfigXrayDataDir, common.DefaultDataDir)
	cm.SetDefault(common.ConfigXrayOwner, common.DefaultXrayOwner)
	cm.SetDefault(common.ConfigXrayRepo, common.DefaultXrayRepo)
	cm.SetDefault(common.ConfigXrayCheck, false)

	cm.SetDefault(common.ConfigUpdateTimeout, common.DefaultUpdateTimeout)
	cm.SetDefault(common.ConfigUpdateMaxBytes, common.DefaultUpdateMaxBytes)
	cm.SetDefault(common.ConfigUpdateSuccessCode, common.DefaultSuccessCode)

	cm.SetDefault(common.ConfigServerListen, common.DefaultListen)
	cm.SetDefault(common.ConfigServerHttpPort, common.DefaultHttpPort)
	cm.SetDefault(common.ConfigServerName, common.DefaultServerName)
	cm.SetDefault(common.ConfigServerStatusPollSeconds, int(common.DefaultPollInterval/time.Second))

	cm.SetDefault(common.ConfigUciBackend, common.DefaultUciBackend)
	cm.SetDefault(common.ConfigLogLevel, "info")
}

// CheckConfig check global config
func CheckConfig() error {
	if globalConfigManager == nil {
		return fmt.Errorf("global config is not init")
	}
	if err := checkXrayConfig(globalConfigManager); err != nil {
		return err
	}
	if err := checkServerConfig(globalConfigManager); err != nil {
		return err
	}
	return checkUciConfig(globalConfigManager)
}

func checkXrayConfig(cm *config.ConfigManager) error {
	if cm.GetString(common.ConfigXrayDataDir) == "" {
		return fmt.Errorf("xray data dir can't be empty")
	}
	if proxy := cm.GetString(common.ConfigUpdateProxy); proxy != "" {
		if _, err := url.Parse(proxy); err != nil {
			return fmt.Errorf("invalid update proxy > %v", err)
		}
	}
	if cm.GetInt64(common.ConfigUpdateMaxBytes) <= 0 {
		return fmt.Errorf("update max bytes must be positive")
	}
	return nil
}

func checkServerConfig(cm *config.ConfigManager) error {
	port := cm.GetInt(common.ConfigServerHttpPort)
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid http port: %d", port)
	}
	if cm.GetString(common.ConfigServerName) == "" {
		return fmt.Errorf("server name can't be empty")
	}
	if cm.GetInt(common.ConfigServerStatusPollSeconds) <= 0 {
		return fmt.Errorf("status poll seconds must be positive")
	}
	return nil
}

func checkUciConfig(cm *config.ConfigManager) error {
	switch backend := cm.GetString(common.ConfigUciBackend); backend {
	case common.UciBackendCommand, common.UciBackendStatic:
		return nil
	default:
		return fmt.Errorf("unknown uci backend: %s", backend)
	}
}

func Set(key string, value interface{}) {
	globalConfigManager.Set(key, value)
}

func Get(key string) interface{} {
	return globalConfigManager.Get(key)
}

func GetString(key string) string {
	return globalConfigManager.GetString(key)
}

func GetInt(key string) int {
	return globalConfigManager.GetInt(key)
}

func GetInt64(key string) int64 {
	return globalConfigManager.GetInt64(key)
}

func GetBool(key string) bool {
	return globalConfigManager.GetBool(key)
}

func GetDuration(key string) time.Duration {
	return globalConfigManager.GetDuration(key)
}

func Flush() error {
	return globalConfigManager.Flush()
}

// cycle 刷新周期
func AutoFlush(ctx context.Context, cycle time.Duration) {
	globalConfigManager.AutoFlush(ctx, cycle)
}
