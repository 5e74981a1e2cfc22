package http

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"github.com/lureiny/xrayluci/common/log/logger"
)

// 未配置token时不校验
func getAuthHandlerFunc(httpServer *HttpServer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if httpServer.token == "" {
			c.Next()
			return
		}
		token := c.DefaultQuery("token", "")
		if token == "" {
			token = c.GetHeader("token")
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(httpServer.token)) != 1 {
			logger.Error("Err=invalid token|HttpPath=%s", c.FullPath())
			c.String(401, "invalid token")
			c.Abort()
			return
		}
		c.Next()
	}
}
