package domain

import "time"

// ActivityVerb 描述一次数据变更的类型。
type ActivityVerb string

const (
	VerbUserRegistered ActivityVerb = "user.registered"
	VerbTweetCreated   ActivityVerb = "tweet.created"
	VerbTweetUpdated   ActivityVerb = "tweet.updated"
	VerbTweetDeleted   ActivityVerb = "tweet.deleted"
	VerbCommentCreated ActivityVerb = "comment.created"
	VerbCommentUpdated ActivityVerb = "comment.updated"
	VerbCommentDeleted ActivityVerb = "comment.deleted"
)

// Activity 是一条审计记录，由后台 worker 异步写入数据库。
type Activity struct {
	ID         uint         `gorm:"primaryKey"`
	ActorID    uint         `gorm:"index;not null"`    // 执行操作的用户
	Verb       ActivityVerb `gorm:"size:50;not null"`  // 操作类型
	TargetID   uint         `gorm:"index;not null"`    // 被操作的实体 ID
	OccurredAt time.Time    `gorm:"index;not null"`    // 操作发生的时间
	CreatedAt  time.Time    `gorm:"autoCreateTime"`    // 记录写入时间
}
