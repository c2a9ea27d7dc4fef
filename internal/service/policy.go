package service

import (
	"fmt"

	"tweeter/internal/domain"
)

// Operation 是需要授权的变更操作
type Operation string

const (
	OpCreateTweet   Operation = "create_tweet"
	OpUpdateTweet   Operation = "update_tweet"
	OpDeleteTweet   Operation = "delete_tweet"
	OpCreateComment Operation = "create_comment"
	OpUpdateComment Operation = "update_comment"
	OpDeleteComment Operation = "delete_comment"
)

var deniedMessages = map[Operation]string{
	OpUpdateTweet:   "you do not have permission to edit this tweet",
	OpDeleteTweet:   "you do not have permission to delete this tweet",
	OpUpdateComment: "you do not have permission to edit this comment",
	OpDeleteComment: "you do not have permission to delete this comment",
}

// Policy 决定一个已认证用户能否对某个实体执行变更。
// 它是一个纯函数，不访问存储，实体所有者 ID 由调用方传入。
type Policy struct {
	// AllowAnyTweetDelete 为 true 时任何已认证用户都能删除 Tweet (旧行为)。
	// 默认 false：只有作者能删除。
	AllowAnyTweetDelete bool
}

// Authorize 在允许时返回 nil，否则返回包装了
// ErrAuthenticationRequired 或 ErrPermissionDenied 的错误。
// 对创建类操作 ownerID 被忽略。
func (p Policy) Authorize(actor domain.Actor, op Operation, ownerID uint) error {
	if !actor.Authenticated() {
		return ErrAuthenticationRequired
	}

	switch op {
	case OpCreateTweet, OpCreateComment:
		return nil
	case OpDeleteTweet:
		if p.AllowAnyTweetDelete {
			return nil
		}
	case OpUpdateTweet, OpUpdateComment, OpDeleteComment:
	default:
		return fmt.Errorf("%w: unknown operation %q", ErrPermissionDenied, op)
	}

	if !IsAuthor(actor, ownerID) {
		return fmt.Errorf("%w: %s", ErrPermissionDenied, deniedMessages[op])
	}
	return nil
}

// IsAuthor 判断 actor 是否为实体作者。只用于展示 (例如是否显示删除按钮)，本身不做授权。
func IsAuthor(actor domain.Actor, ownerID uint) bool {
	return actor.Authenticated() && actor.UserID == ownerID
}
