package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tweeter/internal/service"
)

// CommentHandler 处理评论相关的 HTTP 请求
type CommentHandler struct {
	commentService *service.CommentService
}

// NewCommentHandler 创建 CommentHandler 实例
func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// Create 在 tweet_id 指定的 Tweet 下创建评论。tweet_id 缺失或非法时返回 400。
func (h *CommentHandler) Create(c *gin.Context) {
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	tweetID, ok := req.tweetID()
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "tweet_id is required and must be a positive integer")
		return
	}

	comment, err := h.commentService.Create(c.Request.Context(), actorFrom(c), tweetID, req.Text)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, toCommentResponse(comment))
}

// Update 处理 PUT 和 PATCH，tweet 与 author 不可修改
func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		HandleServiceError(c, service.ErrCommentNotFound)
		return
	}

	var text *string
	if c.Request.Method == http.MethodPatch {
		var req PatchCommentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		text = req.Text
	} else {
		var req ReplaceCommentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		text = &req.Text
	}

	comment, err := h.commentService.Update(c.Request.Context(), actorFrom(c), id, text)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, toCommentResponse(comment))
}

func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		HandleServiceError(c, service.ErrCommentNotFound)
		return
	}
	if err := h.commentService.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
