package domain

import "time"

// Comment 是对某条 Tweet 的回复。
type Comment struct {
	ID        uint      `gorm:"primaryKey"`
	Text      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	AuthorID  uint      `gorm:"index;not null"`
	TweetID   uint      `gorm:"index;not null"`

	Author User  `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Tweet  Tweet `gorm:"foreignKey:TweetID;constraint:OnDelete:CASCADE"`
}

// IsAuthoredBy 判断评论是否由指定用户创建。
func (c *Comment) IsAuthoredBy(userID uint) bool {
	return userID != 0 && c.AuthorID == userID
}
