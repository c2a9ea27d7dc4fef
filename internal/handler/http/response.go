package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"tweeter/internal/domain"
	"tweeter/internal/middleware"
)

func ErrorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

func SuccessResponse(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}

// actorFrom 取出认证中间件放入请求 context 的用户身份，未认证时返回零值
func actorFrom(c *gin.Context) domain.Actor {
	actor, _ := middleware.ActorFromContext(c.Request.Context())
	return actor
}

// pathID 解析路径参数中的 ID，无法解析时返回 false
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
