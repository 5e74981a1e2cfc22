package global

import (
	"context"
	"fmt"
	"time"

	"github.com/lureiny/xrayluci/common"
	"github.com/lureiny/xrayluci/common/log"
	"github.com/lureiny/xrayluci/common/log/logger"
	"github.com/lureiny/xrayluci/dat"
	"github.com/lureiny/xrayluci/global/config"
	"github.com/lureiny/xrayluci/proxy/manager"
	"github.com/lureiny/xrayluci/uci"
)

func initConfig(configFile string) error {
	if err := config.InitGlobalConfig(configFile); err != nil {
		return err
	}
	return config.CheckConfig()
}

func initLogger(component string) {
	logger.SetLogLevel(log.ParseLevel(config.GetString(common.ConfigLogLevel)))
	logger.SetServerName(config.GetString(common.ConfigServerName))
	logger.SetComponent(component)
}

// InitGlobalInfra loads configFile and sets up the logger of component.
func InitGlobalInfra(configFile, component string) error {
	if err := initConfig(configFile); err != nil {
		return fmt.Errorf("init config fail > %v", err)
	}
	initLogger(component)
	return nil
}

// StartConfigFlush writes runtime config changes back to the file until ctx ends.
func StartConfigFlush(ctx context.Context) {
	config.AutoFlush(ctx, time.Second)
}

func NewUciStore() (uci.Store, error) {
	if config.GetString(common.ConfigUciBackend) == common.UciBackendStatic {
		return uci.NewStaticReaderFromMap(config.Get(common.ConfigUciSections))
	}
	return uci.NewCommandReader(""), nil
}

func NewDatService() (*dat.Service, error) {
	dir := config.GetString(common.ConfigXrayDataDir)
	files := dat.OSFileAccess{}
	updater, err := dat.NewUpdater(dir, files, dat.UpdaterOptions{
		Timeout:  config.GetDuration(common.ConfigUpdateTimeout),
		MaxBytes: config.GetInt64(common.ConfigUpdateMaxBytes),
		Proxy:    config.GetString(common.ConfigUpdateProxy),
	})
	if err != nil {
		return nil, fmt.Errorf("init updater fail > %v", err)
	}
	return dat.NewService(dir, files, updater), nil
}

func NewProxyServer() *manager.ProxyServer {
	info := *manager.GetSoftwareGithubInfo("xray")
	info.Owner = config.GetString(common.ConfigXrayOwner)
	info.Repo = config.GetString(common.ConfigXrayRepo)
	return manager.NewProxyServer(config.GetString(common.ConfigXrayBin), &info)
}

func StatusPollInterval() time.Duration {
	return time.Duration(config.GetInt(common.ConfigServerStatusPollSeconds)) * time.Second
}
