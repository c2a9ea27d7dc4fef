package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tweeter/internal/service"
)

// TweetHandler 处理 Tweet 相关的 HTTP 请求
type TweetHandler struct {
	tweetService *service.TweetService
}

// NewTweetHandler 创建 TweetHandler 实例
func NewTweetHandler(tweetService *service.TweetService) *TweetHandler {
	return &TweetHandler{tweetService: tweetService}
}

// Create 以当前用户为作者创建 Tweet
func (h *TweetHandler) Create(c *gin.Context) {
	var req TweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	tweet, err := h.tweetService.Create(c.Request.Context(), actorFrom(c), req.Title, req.Text)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, toTweetResponse(tweet))
}

func (h *TweetHandler) List(c *gin.Context) {
	tweets, err := h.tweetService.List(c.Request.Context(), actorFrom(c))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, toTweetResponses(tweets))
}

// Feed 返回当前用户自己发布的 Tweet
func (h *TweetHandler) Feed(c *gin.Context) {
	tweets, err := h.tweetService.Feed(c.Request.Context(), actorFrom(c))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, toTweetResponses(tweets))
}

func (h *TweetHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		HandleServiceError(c, service.ErrTweetNotFound)
		return
	}
	tweet, err := h.tweetService.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, toTweetResponse(tweet))
}

// Update 处理 PUT (全量) 和 PATCH (部分) 更新
func (h *TweetHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		HandleServiceError(c, service.ErrTweetNotFound)
		return
	}

	var changes service.TweetChanges
	if c.Request.Method == http.MethodPatch {
		var req PatchTweetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		changes = service.TweetChanges{Title: req.Title, Text: req.Text}
	} else {
		var req TweetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		changes = service.TweetChanges{Title: &req.Title, Text: &req.Text}
	}

	tweet, err := h.tweetService.Update(c.Request.Context(), actorFrom(c), id, changes)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, toTweetResponse(tweet))
}

func (h *TweetHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		HandleServiceError(c, service.ErrTweetNotFound)
		return
	}
	if err := h.tweetService.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ShowDeleteButton 返回 {"show": 1} 表示当前用户是作者，否则 {"show": 0}。
// 仅用于界面展示，真正的删除权限由 Delete 判断。
func (h *TweetHandler) ShowDeleteButton(c *gin.Context) {
	raw := c.Query("id")
	if raw == "" {
		ErrorResponse(c, http.StatusBadRequest, "query parameter 'id' is required")
		return
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "query parameter 'id' must be a positive integer")
		return
	}

	canDelete, err := h.tweetService.CanDelete(c.Request.Context(), actorFrom(c), uint(id))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	show := 0
	if canDelete {
		show = 1
	}
	SuccessResponse(c, http.StatusOK, gin.H{"show": show})
}
