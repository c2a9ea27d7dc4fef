package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers 汇总所有 HTTP handler，便于一次性注册路由
type Handlers struct {
	Auth     *AuthHandler
	Tweet    *TweetHandler
	Comment  *CommentHandler
	Activity *ActivityHandler
}

// RegisterRoutes 在 /api 下注册全部路由。
// auth 是认证中间件，除注册和 token 接口外的路由都需要它。
// 带 /create/、/update/、/delete/ 后缀的路径是旧客户端使用的别名。
func RegisterRoutes(router *gin.Engine, h Handlers, auth gin.HandlerFunc) {
	router.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })

	api := router.Group("/api")
	{
		api.POST("/users/", h.Auth.Register)
		api.POST("/token/", h.Auth.Login)
		api.POST("/token/refresh/", h.Auth.Refresh)
	}

	tweets := api.Group("/tweets", auth)
	{
		tweets.GET("/", h.Tweet.List)
		tweets.POST("/", h.Tweet.Create)
		tweets.POST("/create/", h.Tweet.Create)
		tweets.GET("/showDeleteButton", h.Tweet.ShowDeleteButton)
		tweets.GET("/:id/", h.Tweet.Get)
		tweets.PUT("/:id/", h.Tweet.Update)
		tweets.PATCH("/:id/", h.Tweet.Update)
		tweets.DELETE("/:id/", h.Tweet.Delete)
		tweets.PUT("/:id/update/", h.Tweet.Update)
		tweets.PATCH("/:id/update/", h.Tweet.Update)
		tweets.DELETE("/:id/delete/", h.Tweet.Delete)
	}

	comments := api.Group("/comments", auth)
	{
		comments.POST("/", h.Comment.Create)
		comments.POST("/create/", h.Comment.Create)
		comments.PUT("/:id/", h.Comment.Update)
		comments.PATCH("/:id/", h.Comment.Update)
		comments.DELETE("/:id/", h.Comment.Delete)
		comments.PUT("/:id/update/", h.Comment.Update)
		comments.PATCH("/:id/update/", h.Comment.Update)
		comments.DELETE("/:id/delete/", h.Comment.Delete)
	}

	user := api.Group("/user", auth)
	{
		user.GET("/feed/", h.Tweet.Feed)
		user.GET("/activity/", h.Activity.ListMine)
	}
}
