package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lureiny/xrayluci/common"
	"github.com/lureiny/xrayluci/common/log/logger"
	"github.com/lureiny/xrayluci/global"
	"github.com/lureiny/xrayluci/global/config"
	"github.com/lureiny/xrayluci/server"
	"github.com/lureiny/xrayluci/server/http"
	"github.com/spf13/cobra"
)

// serverCmd restful api
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the rpc and view http server.",
	Run:   startServer,
}

const shutdownTimeout = 10 * time.Second

func initGlobalInfo(component string) {
	if err := global.InitGlobalInfra(configFile, component); err != nil {
		log.Fatal(err)
	}
}

func newHttpServer() (*http.HttpServer, error) {
	datService, err := global.NewDatService()
	if err != nil {
		return nil, err
	}
	store, err := global.NewUciStore()
	if err != nil {
		return nil, err
	}
	return http.NewHttpServer(http.HttpServerOptions{
		ServerConfig: server.ServerConfig{
			Host: config.GetString(common.ConfigServerListen),
			Port: config.GetInt(common.ConfigServerHttpPort),
			Type: "http",
			Name: config.GetString(common.ConfigServerName),
		},
		Token:             config.GetString(common.ConfigServerHttpToken),
		SupportPrometheus: config.GetBool(common.ConfigSupportPrometheus),
	}, &http.Services{
		Dat:          datService,
		Proxy:        global.NewProxyServer(),
		Config:       store,
		CheckLatest:  config.GetBool(common.ConfigXrayCheck),
		SuccessCode:  config.GetInt(common.ConfigUpdateSuccessCode),
		PollInterval: global.StatusPollInterval(),
	}), nil
}

func startServer(cmd *cobra.Command, args []string) {
	initGlobalInfo("server")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	global.StartConfigFlush(ctx)

	httpServer, err := newHttpServer()
	if err != nil {
		logger.Fatalf("Err=%v", err)
	}
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatalf("Err=http server exit > %v", err)
		}
	}()

	// listen signal
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGINT)
	sig := <-c
	logger.Info("Msg=Exit With signal: %v", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, shutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("Err=stop http server fail > %v", err)
	}
	if err := config.Flush(); err != nil {
		logger.Error("Err=flush config fail > %v", err)
	}
}
