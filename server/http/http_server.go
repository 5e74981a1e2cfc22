// Package http serves the xray rpc methods and the settings view over gin.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lureiny/xrayluci/common"
	"github.com/lureiny/xrayluci/common/log/logger"
	"github.com/lureiny/xrayluci/dat"
	"github.com/lureiny/xrayluci/proxy/manager"
	"github.com/lureiny/xrayluci/server"
	prometheusdesc "github.com/lureiny/xrayluci/server/http/prometheus_desc"
	"github.com/lureiny/xrayluci/uci"
	"github.com/lureiny/xrayluci/view"
	"github.com/prometheus/client_golang/prometheus"
)

// Services are the backends behind the http endpoints.
type Services struct {
	Dat    *dat.Service
	Proxy  *manager.ProxyServer
	Config uci.Store
	// ask github for the latest xray release in the version method
	CheckLatest bool
	// response code the update controller treats as success
	SuccessCode  int
	PollInterval time.Duration
}

type HttpServer struct {
	RestfulServer *gin.Engine
	server.ServerConfig
	token             string
	supportPrometheus bool
	handlersMap       map[string]HttpHandlerInterface

	services *Services
	local    *localServices
	metrics  *serverMetrics
	registry *prometheus.Registry

	statusWidget *view.RunningStatus
	modals       *pendingModals

	lock       sync.Mutex
	httpServer *http.Server
}

type HttpServerOptions struct {
	server.ServerConfig
	Token             string
	SupportPrometheus bool
}

func NewHttpServer(opts HttpServerOptions, services *Services) *HttpServer {
	s := &HttpServer{
		ServerConfig:      opts.ServerConfig,
		token:             opts.Token,
		supportPrometheus: opts.SupportPrometheus,
		services:          services,
	}
	if err := s.Init(); err != nil {
		logger.Fatalf("Err=init http server fail > %v", err)
	}
	return s
}

func (s *HttpServer) Init() error {
	if s.services == nil || s.services.Dat == nil || s.services.Proxy == nil {
		return errors.New("http server services are not configured")
	}
	if s.Name == "" {
		s.Name = common.DefaultServerName
	}
	gin.SetMode(gin.ReleaseMode)
	s.RestfulServer = gin.New()
	s.RestfulServer.Use(gin.Recovery())
	s.handlersMap = map[string]HttpHandlerInterface{}
	s.registry = prometheus.NewRegistry()
	s.metrics = newServerMetrics(s.registry)
	s.local = &localServices{
		dat:         s.services.Dat,
		proxy:       s.services.Proxy,
		checkLatest: s.services.CheckLatest,
		metrics:     s.metrics,
		node:        s.Name,
	}
	s.modals = newPendingModals(maxPendingModals)

	s.statusWidget = view.NewRunningStatus("_status", s.local)
	if s.services.PollInterval > 0 {
		s.statusWidget.Interval = s.services.PollInterval
	}
	s.statusWidget.OnChange = func(snapshot view.RunningStatusSnapshot) {
		s.metrics.setRunning(s.Name, snapshot.State)
	}

	s.registerHandlers()
	return nil
}

func (s *HttpServer) registerHandlers() {
	s.RegisterHandler(&HelpHandler{}, false)

	s.RegisterHandler(&ListStatusHandler{}, true)
	s.RegisterHandler(&UpdateDataFileHandler{}, true)
	s.RegisterHandler(&RunningStatusHandler{}, true)
	s.RegisterHandler(&VersionHandler{}, true)

	s.RegisterHandler(&ViewHandler{}, true)
	s.RegisterHandler(&ViewUpdateHandler{}, true)
	s.RegisterHandler(&ViewStatusHandler{}, true)
	s.RegisterHandler(&ViewDismissHandler{}, true)

	if s.supportPrometheus {
		s.registry.MustRegister(prometheusdesc.NewDataFileDesc(s.Name, s.services.Dat.Dir, s.services.Dat.Files, dat.Categories))
		s.RegisterHandler(&MetricHandler{}, true)
	}
}

func (s *HttpServer) RegisterHandler(handler HttpHandlerInterface, needAuth bool) {
	handler.setHttpServer(s)
	handlers := handler.getHandlers()
	if needAuth {
		handlers = append([]gin.HandlerFunc{getAuthHandlerFunc(s)}, handlers...)
	}
	s.RestfulServer.GET(handler.getRelativePath(), handlers...)
	s.handlersMap[handler.getRelativePath()] = handler
}

func (s *HttpServer) Handler() http.Handler {
	return s.RestfulServer
}

func (s *HttpServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	s.lock.Lock()
	s.httpServer = &http.Server{Addr: addr, Handler: s.RestfulServer}
	httpServer := s.httpServer
	s.lock.Unlock()

	logger.Info(
		"Msg=http server start, listen at %s",
		addr,
	)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the listener down and stops the running status poll.
func (s *HttpServer) Stop(ctx context.Context) error {
	s.statusWidget.Stop()
	s.lock.Lock()
	httpServer := s.httpServer
	s.lock.Unlock()
	if httpServer == nil {
		return nil
	}
	return httpServer.Shutdown(ctx)
}
