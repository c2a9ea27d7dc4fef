package domain

import "time"

// TitleMaxLength 是 Tweet 标题允许的最大字符数。
const TitleMaxLength = 100

// Tweet 表示一条带标题的帖子，只属于一个作者。
type Tweet struct {
	ID        uint      `gorm:"primaryKey"`
	Title     string    `gorm:"type:varchar(100);not null"`
	Text      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"` // 只在创建时由服务端写入
	AuthorID  uint      `gorm:"index;not null"`       // 创建后不可变

	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Comments []Comment `gorm:"foreignKey:TweetID;constraint:OnDelete:CASCADE"`
}

// IsAuthoredBy 判断 tweet 是否由指定用户创建。
func (t *Tweet) IsAuthoredBy(userID uint) bool {
	return userID != 0 && t.AuthorID == userID
}
