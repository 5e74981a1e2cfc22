package http

import (
	htmlTemplate "html/template"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/lureiny/xrayluci/common"
	"github.com/lureiny/xrayluci/common/log/logger"
	widgetTemplate "github.com/lureiny/xrayluci/common/template"
	"github.com/lureiny/xrayluci/view"
)

const (
	defaultSection   = "main"
	maxPendingModals = 64
)

// pendingModals keeps the recorders of modals that are still waiting to be dismissed.
type pendingModals struct {
	lock      sync.Mutex
	limit     int
	order     []string
	recorders map[string]*view.Recorder
}

func newPendingModals(limit int) *pendingModals {
	return &pendingModals{limit: limit, recorders: map[string]*view.Recorder{}}
}

func (p *pendingModals) add(id string, recorder *view.Recorder) {
	p.lock.Lock()
	defer p.lock.Unlock()
	// 超过上限丢弃最早的modal
	for len(p.order) >= p.limit {
		delete(p.recorders, p.order[0])
		p.order = p.order[1:]
	}
	p.order = append(p.order, id)
	p.recorders[id] = recorder
}

func (p *pendingModals) take(id string) (*view.Recorder, bool) {
	p.lock.Lock()
	defer p.lock.Unlock()
	recorder, ok := p.recorders[id]
	if !ok {
		return nil, false
	}
	delete(p.recorders, id)
	for i, v := range p.order {
		if v == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	return recorder, true
}

func (s *HttpServer) updateController(notifier view.Notifier) *view.UpdateDatController {
	controller := view.NewUpdateDatController(s.services.Config, s.local, notifier)
	controller.SuccessCode = s.services.SuccessCode
	return controller
}

type ViewHandler struct{ HttpHandlerImp }

func (handler *ViewHandler) parseParam(c *gin.Context) map[string]string {
	return map[string]string{
		"section": c.DefaultQuery("section", defaultSection),
	}
}

func (handler *ViewHandler) handlerFunc(c *gin.Context) {
	s := handler.getHttpServer()
	params := handler.parseParam(c)
	ctx := c.Request.Context()

	status, err := s.statusWidget.Render(ctx, 0, params["section"])
	if err != nil {
		logger.Error("Err=render running status fail > %v", err)
		c.String(500, err.Error())
		return
	}
	fields := view.UpdateDatOptions(s.services.Config, s.local, nil)
	body, err := view.RenderSection(ctx, params["section"], fields...)
	if err != nil {
		logger.Error("Err=%v|Section=%s", err, params["section"])
		c.String(500, err.Error())
		return
	}
	page, err := widgetTemplate.RenderWidget(widgetTemplate.Page, map[string]interface{}{
		"Title":    "Xray",
		"TabTitle": "GeoData",
		"Config":   common.UciConfigXrayCore,
		"Section":  params["section"],
		"Status":   status,
		"Body":     htmlTemplate.HTML(body),
	})
	if err != nil {
		c.String(500, err.Error())
		return
	}
	htmlResponse(c, string(page))
}

func (handler *ViewHandler) getHandlers() []gin.HandlerFunc {
	return []gin.HandlerFunc{handler.handlerFunc}
}

func (handler *ViewHandler) getRelativePath() string {
	return "/" + common.ViewURI
}

func (handler *ViewHandler) help() string {
	usage := `/view/xray
	返回数据文件设置页面与xray运行状态
	/view/xray?section={section}&token={token}
	`
	return usage
}

type ViewUpdateHandler struct{ HttpHandlerImp }

func (handler *ViewUpdateHandler) parseParam(c *gin.Context) map[string]string {
	return map[string]string{
		"section": c.DefaultQuery("section", defaultSection),
		"name":    c.DefaultQuery("name", ""),
	}
}

// handlerFunc runs the update button of a list and returns the ui events it produced.
func (handler *ViewUpdateHandler) handlerFunc(c *gin.Context) {
	s := handler.getHttpServer()
	params := handler.parseParam(c)
	if err := requiredParams(params, "name"); err != nil {
		c.String(400, err.Error())
		return
	}
	recorder := view.NewRecorder()
	fields := view.UpdateDatOptions(s.services.Config, s.local, s.updateController(recorder))
	listStatus, ok := view.FindListStatus(fields, params["name"])
	if !ok {
		c.String(400, "unknown list: "+params["name"])
		return
	}
	if err := listStatus.Click(c.Request.Context(), &view.Event{Type: "click", Target: params["name"]}, params["section"]); err != nil {
		logger.Error("Err=%v|Section=%s|Name=%s", err, params["section"], params["name"])
	}
	events := recorder.Events()
	for _, event := range events {
		if event.Type == view.EventModal {
			s.modals.add(event.ID, recorder)
		}
	}
	c.JSON(200, gin.H{"events": events})
}

func (handler *ViewUpdateHandler) getHandlers() []gin.HandlerFunc {
	return []gin.HandlerFunc{handler.handlerFunc}
}

func (handler *ViewUpdateHandler) getRelativePath() string {
	return "/" + common.ViewUpdateURI
}

func (handler *ViewUpdateHandler) help() string {
	usage := `/view/xray/update
	点击数据文件的更新按钮, 返回界面事件(modal/notification)
	/view/xray/update?section={section}&name={name}&token={token}
	参数列表:
	section: uci section, 默认main
	name: geosite或geoip
	`
	return usage
}

type ViewDismissHandler struct{ HttpHandlerImp }

func (handler *ViewDismissHandler) parseParam(c *gin.Context) map[string]string {
	return map[string]string{
		"id": c.DefaultQuery("id", ""),
	}
}

func (handler *ViewDismissHandler) handlerFunc(c *gin.Context) {
	params := handler.parseParam(c)
	recorder, ok := handler.getHttpServer().modals.take(params["id"])
	if !ok || !recorder.Dismiss(params["id"]) {
		c.String(404, "unknown modal: "+params["id"])
		return
	}
	// 只返回dismiss之后产生的事件
	events := recorder.Events()
	for i, event := range events {
		if event.ID == params["id"] {
			events = events[i+1:]
			break
		}
	}
	c.JSON(200, gin.H{"events": events})
}

func (handler *ViewDismissHandler) getHandlers() []gin.HandlerFunc {
	return []gin.HandlerFunc{handler.handlerFunc}
}

func (handler *ViewDismissHandler) getRelativePath() string {
	return "/" + common.ViewDismissURI
}

func (handler *ViewDismissHandler) help() string {
	usage := `/view/xray/dismiss
	关闭更新成功的modal, 返回hide_modal与reload事件
	/view/xray/dismiss?id={id}&token={token}
	`
	return usage
}

type ViewStatusHandler struct{ HttpHandlerImp }

func (handler *ViewStatusHandler) handlerFunc(c *gin.Context) {
	c.JSON(200, handler.getHttpServer().statusWidget.Snapshot())
}

func (handler *ViewStatusHandler) getHandlers() []gin.HandlerFunc {
	return []gin.HandlerFunc{handler.handlerFunc}
}

func (handler *ViewStatusHandler) getRelativePath() string {
	return "/" + common.ViewStatusURI
}

func (handler *ViewStatusHandler) help() string {
	usage := `/view/xray/status
	返回运行状态控件当前显示的内容, 轮询在第一次打开/view/xray后开始
	/view/xray/status?token={token}
	`
	return usage
}
