package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lureiny/xrayluci/common"
	"github.com/lureiny/xrayluci/view"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type serverMetrics struct {
	dataFileUpdate *prometheus.CounterVec
	xrayRunning    *prometheus.GaugeVec
}

func newServerMetrics(registry *prometheus.Registry) *serverMetrics {
	m := &serverMetrics{
		dataFileUpdate: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "xrayluci_datafile_update_total",
			Help: "data file updates by result",
		}, []string{"node", "name", "result"}),
		xrayRunning: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "xrayluci_xray_running",
			Help: "1 when the xray process is running",
		}, []string{"node"}),
	}
	registry.MustRegister(m.dataFileUpdate, m.xrayRunning)
	return m
}

func (m *serverMetrics) observeUpdate(node, name string, code int) {
	result := "success"
	if code != common.CodeSuccess {
		result = "fail"
	}
	m.dataFileUpdate.WithLabelValues(node, name, result).Inc()
}

// 状态未知时不更新
func (m *serverMetrics) setRunning(node, state string) {
	switch state {
	case view.StateRunning:
		m.xrayRunning.WithLabelValues(node).Set(1)
	case view.StateStopped:
		m.xrayRunning.WithLabelValues(node).Set(0)
	}
}

type MetricHandler struct{ HttpHandlerImp }

func prometheusHandler(handler http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		handler.ServeHTTP(c.Writer, c.Request)
	}
}

// handlerFunc refreshes the running gauge before the scrape.
func (handler *MetricHandler) handlerFunc(c *gin.Context) {
	s := handler.getHttpServer()
	reply, _ := s.local.RunningStatus(c.Request.Context())
	state := view.StateStopped
	if reply.Code == common.CodeSuccess {
		state = view.StateRunning
	}
	s.metrics.setRunning(s.Name, state)
	c.Next()
}

func (handler *MetricHandler) getHandlers() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		handler.handlerFunc,
		prometheusHandler(promhttp.HandlerFor(handler.getHttpServer().registry, promhttp.HandlerOpts{})),
	}
}

func (handler *MetricHandler) getRelativePath() string {
	return "/metrics"
}

func (handler *MetricHandler) help() string {
	usage := `/metrics
	prometheus指标: 数据文件更新次数, 数据文件大小与修改时间, xray运行状态
	/metrics?token={token}
	`
	return usage
}
