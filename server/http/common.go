package http

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

func requiredParams(params map[string]string, keys ...string) error {
	for _, key := range keys {
		if params[key] == "" {
			return fmt.Errorf("%s is required", key)
		}
	}
	return nil
}

func htmlResponse(c *gin.Context, html string) {
	c.Data(200, "text/html; charset=utf-8", []byte(html))
}
