package config

import (
	"context"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// 管理进程本身配置
type ConfigManager struct {
	v         *viper.Viper
	lock      sync.RWMutex
	needFlush bool
}

// 返回初始化后的ConfigManager实例, configFile为空时只使用默认值
func NewConfigManager(configFile string) (*ConfigManager, error) {
	cm := &ConfigManager{}
	if err := cm.Init(configFile); err != nil {
		return nil, err
	}
	return cm, nil
}

// Init...
func (cm *ConfigManager) Init(configFile string) error {
	cm.lock.Lock()
	defer cm.lock.Unlock()
	cm.needFlush = false
	cm.v = viper.New()
	cm.v.SetEnvPrefix("XRAYLUCI")
	cm.v.AutomaticEnv()
	if configFile == "" {
		return nil
	}
	cm.v.SetConfigFile(configFile)
	return cm.v.ReadInConfig()
}

func (cm *ConfigManager) SetDefault(key string, value interface{}) {
	cm.lock.Lock()
	defer cm.lock.Unlock()
	cm.v.SetDefault(key, value)
}

func (cm *ConfigManager) Set(key string, value interface{}) {
	cm.lock.Lock()
	defer cm.lock.Unlock()
	cm.v.Set(key, value)
	cm.needFlush = true
}

func (cm *ConfigManager) IsSet(key string) bool {
	cm.lock.RLock()
	defer cm.lock.RUnlock()
	return cm.v.IsSet(key)
}

func (cm *ConfigManager) Get(key string) interface{} {
	cm.lock.RLock()
	defer cm.lock.RUnlock()
	return cm.v.Get(key)
}

func (cm *ConfigManager) GetString(key string) string {
	cm.lock.RLock()
	defer cm.lock.RUnlock()
	return cm.v.GetString(key)
}

func (cm *ConfigManager) GetStringSlice(key string) []string {
	cm.lock.RLock()
	defer cm.lock.RUnlock()
	return cm.v.GetStringSlice(key)
}

func (cm *ConfigManager) UnmarshalKey(key string, rawVal interface{}) error {
	cm.lock.RLock()
	defer cm.lock.RUnlock()
	return cm.v.UnmarshalKey(key, rawVal)
}

func (cm *ConfigManager) GetStringMapString(key string) map[string]string {
	cm.lock.RLock()
	defer cm.lock.RUnlock()
	return cm.v.GetStringMapString(key)
}

func (cm *ConfigManager) GetInt(key string) int {
	cm.lock.RLock()
	defer cm.lock.RUnlock()
	return cm.v.GetInt(key)
}

func (cm *ConfigManager) GetInt64(key string) int64 {
	cm.lock.RLock()
	defer cm.lock.RUnlock()
	return cm.v.GetInt64(key)
}

func (cm *ConfigManager) GetBool(key string) bool {
	cm.lock.RLock()
	defer cm.lock.RUnlock()
	return cm.v.GetBool(key)
}

func (cm *ConfigManager) GetDuration(key string) time.Duration {
	cm.lock.RLock()
	defer cm.lock.RUnlock()
	return cm.v.GetDuration(key)
}

func (cm *ConfigManager) Flush() error {
	cm.lock.Lock()
	defer cm.lock.Unlock()
	if cm.v.ConfigFileUsed() == "" {
		return nil
	}
	if err := cm.v.WriteConfig(); err != nil {
		return err
	}
	cm.needFlush = false
	return nil
}

// cycle 刷新周期, ctx结束后停止
func (cm *ConfigManager) AutoFlush(ctx context.Context, cycle time.Duration) {
	go func() {
		timeTicker := time.NewTicker(cycle)
		defer timeTicker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-timeTicker.C:
				cm.lock.RLock()
				needFlush := cm.needFlush
				cm.lock.RUnlock()
				if needFlush {
					cm.Flush()
				}
			}
		}
	}()
}
