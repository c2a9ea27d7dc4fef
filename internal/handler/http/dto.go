package http

import (
	"encoding/json"
	"strconv"
	"time"

	"tweeter/internal/domain"
)

// --- 请求 ---

// RegisterRequest 定义注册请求的结构体
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,max=150"`
	Password  string `json:"password" binding:"required"`
	Email     string `json:"email" binding:"omitempty,email"`
	FirstName string `json:"first_name" binding:"max=150"`
}

// LoginRequest 定义登录请求的结构体
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// TweetRequest 用于创建和 PUT 更新，只接受可写字段。
// author、created_at 等只读字段即使出现在请求体中也会被忽略。
type TweetRequest struct {
	Title string `json:"title" binding:"required,max=100"`
	Text  string `json:"text" binding:"required"`
}

// PatchTweetRequest 用于 PATCH，未提供的字段保持不变
type PatchTweetRequest struct {
	Title *string `json:"title" binding:"omitempty,max=100"`
	Text  *string `json:"text"`
}

// CreateCommentRequest 中 tweet_id 可以是数字，也可以是数字字符串
type CreateCommentRequest struct {
	Text    string      `json:"text" binding:"required"`
	TweetID json.Number `json:"tweet_id"`
}

// tweetID 解析 tweet_id，缺失或格式错误时返回 false
func (r CreateCommentRequest) tweetID() (uint, bool) {
	if r.TweetID == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(r.TweetID.String(), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

type ReplaceCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type PatchCommentRequest struct {
	Text *string `json:"text"`
}

// --- 响应 ---

type UserResponse struct {
	ID        uint            `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	FirstName string          `json:"first_name"`
	Tweets    []TweetResponse `json:"tweets"`
}

type TweetResponse struct {
	ID        uint              `json:"id"`
	Title     string            `json:"title"`
	Text      string            `json:"text"`
	CreatedAt time.Time         `json:"created_at"`
	Author    string            `json:"author"` // 作者用户名
	Comments  []CommentResponse `json:"comments"`
}

type CommentResponse struct {
	ID        uint      `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Author    string    `json:"author"`
	Tweet     uint      `json:"tweet"`
}

type TokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

type ActivityResponse struct {
	Verb       domain.ActivityVerb `json:"verb"`
	TargetID   uint                `json:"target_id"`
	OccurredAt time.Time           `json:"occurred_at"`
}

func toUserResponse(u *domain.User) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		Tweets:    make([]TweetResponse, 0, len(u.Tweets)),
	}
	for i := range u.Tweets {
		resp.Tweets = append(resp.Tweets, toTweetResponse(&u.Tweets[i]))
	}
	return resp
}

func toTweetResponse(t *domain.Tweet) TweetResponse {
	resp := TweetResponse{
		ID:        t.ID,
		Title:     t.Title,
		Text:      t.Text,
		CreatedAt: t.CreatedAt,
		Author:    t.Author.Username,
		Comments:  make([]CommentResponse, 0, len(t.Comments)),
	}
	for i := range t.Comments {
		resp.Comments = append(resp.Comments, toCommentResponse(&t.Comments[i]))
	}
	return resp
}

func toTweetResponses(tweets []domain.Tweet) []TweetResponse {
	out := make([]TweetResponse, 0, len(tweets))
	for i := range tweets {
		out = append(out, toTweetResponse(&tweets[i]))
	}
	return out
}

func toCommentResponse(cm *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        cm.ID,
		Text:      cm.Text,
		CreatedAt: cm.CreatedAt,
		Author:    cm.Author.Username,
		Tweet:     cm.TweetID,
	}
}
