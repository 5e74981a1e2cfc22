package http

import (
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

type HelpHandler struct{ HttpHandlerImp }

func (handler *HelpHandler) parseParam(c *gin.Context) map[string]string {
	return map[string]string{
		"relativePath": c.Param("relativePath"),
		"format":       c.DefaultQuery("format", "text"),
	}
}

func (handler *HelpHandler) handlerFunc(c *gin.Context) {
	params := handler.parseParam(c)
	helpInfos := map[string]string{}
	if h, ok := handler.getHttpServer().handlersMap[params["relativePath"]]; ok {
		helpInfos[params["relativePath"]] = h.help()
	} else {
		for path, h := range handler.getHttpServer().handlersMap {
			if h.help() != "" {
				helpInfos[path] = h.help()
			}
		}
	}
	if params["format"] == "json" {
		c.JSON(200, helpInfos)
		return
	}
	paths := make([]string, 0, len(helpInfos))
	for path := range helpInfos {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	usages := make([]string, 0, len(paths))
	for _, path := range paths {
		usages = append(usages, helpInfos[path])
	}
	c.String(200, strings.Join(usages, "\n"))
}

func (handler *HelpHandler) getHandlers() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		handler.handlerFunc,
	}
}

func (handler *HelpHandler) getRelativePath() string {
	return "/help/*relativePath"
}

func (handler *HelpHandler) help() string {
	usage := `/help/{relativePath}
	返回指定路径的help信息, 当relativePath为空时返回全部help信息
	/help/{relativePath}?format={format}
	format: text或json, 默认text
	`
	return usage
}
