package http

import (
	"github.com/gin-gonic/gin"
	"github.com/lureiny/xrayluci/common"
	"github.com/lureiny/xrayluci/dat"
)

type ListStatusHandler struct{ HttpHandlerImp }

func (handler *ListStatusHandler) parseParam(c *gin.Context) map[string]string {
	return map[string]string{
		"name": c.DefaultQuery("name", ""),
	}
}

func (handler *ListStatusHandler) handlerFunc(c *gin.Context) {
	params := handler.parseParam(c)
	reply := handler.getHttpServer().local.ListStatus(c.Request.Context(), params["name"])
	c.JSON(200, reply)
}

func (handler *ListStatusHandler) getHandlers() []gin.HandlerFunc {
	return []gin.HandlerFunc{handler.handlerFunc}
}

func (handler *ListStatusHandler) getRelativePath() string {
	return "/" + common.ListStatusURI
}

func (handler *ListStatusHandler) help() string {
	usage := `/xray/listStatus
	查询数据文件的大小与更新时间
	/xray/listStatus?name={name}&token={token}
	参数列表:
	name: 数据文件名, geosite或geoip
	返回: {"code": 0, "count": "5.20 MB", "datetime": "2024/03/01 08:00:00"}, 文件不存在时code为1
	`
	return usage
}

type UpdateDataFileHandler struct{ HttpHandlerImp }

func (handler *UpdateDataFileHandler) parseParam(c *gin.Context) map[string]string {
	return map[string]string{
		"name": c.DefaultQuery("name", ""),
		"url":  c.DefaultQuery("url", ""),
	}
}

func (handler *UpdateDataFileHandler) handlerFunc(c *gin.Context) {
	params := handler.parseParam(c)
	if err := requiredParams(params, "name", "url"); err != nil {
		c.JSON(200, dat.UpdateReply{Code: common.CodeFailed, Msg: err.Error()})
		return
	}
	reply, _ := handler.getHttpServer().local.UpdateDataFile(c.Request.Context(), params["name"], params["url"])
	c.JSON(200, reply)
}

func (handler *UpdateDataFileHandler) getHandlers() []gin.HandlerFunc {
	return []gin.HandlerFunc{handler.handlerFunc}
}

func (handler *UpdateDataFileHandler) getRelativePath() string {
	return "/" + common.UpdateDataFileURI
}

func (handler *UpdateDataFileHandler) help() string {
	usage := `/xray/updatedatafile
	下载并替换数据文件
	/xray/updatedatafile?name={name}&url={url}&token={token}
	参数列表:
	name: 数据文件名, geosite或geoip
	url: 下载地址, 仅支持http/https
	返回: {"code": 0}, 失败时code为1, msg为失败原因
	`
	return usage
}

type RunningStatusHandler struct{ HttpHandlerImp }

func (handler *RunningStatusHandler) handlerFunc(c *gin.Context) {
	reply, _ := handler.getHttpServer().local.RunningStatus(c.Request.Context())
	c.JSON(200, reply)
}

func (handler *RunningStatusHandler) getHandlers() []gin.HandlerFunc {
	return []gin.HandlerFunc{handler.handlerFunc}
}

func (handler *RunningStatusHandler) getRelativePath() string {
	return "/" + common.RunningStatusURI
}

func (handler *RunningStatusHandler) help() string {
	usage := `/xray/runningStatus
	查询xray进程是否运行, code为0表示运行中
	/xray/runningStatus?token={token}
	`
	return usage
}

type VersionHandler struct{ HttpHandlerImp }

func (handler *VersionHandler) handlerFunc(c *gin.Context) {
	reply, _ := handler.getHttpServer().local.Version(c.Request.Context())
	c.JSON(200, reply)
}

func (handler *VersionHandler) getHandlers() []gin.HandlerFunc {
	return []gin.HandlerFunc{handler.handlerFunc}
}

func (handler *VersionHandler) getRelativePath() string {
	return "/" + common.VersionURI
}

func (handler *VersionHandler) help() string {
	usage := `/xray/version
	查询本地xray版本, 开启xray.release.check_latest时同时返回github上的最新版本
	/xray/version?token={token}
	`
	return usage
}
