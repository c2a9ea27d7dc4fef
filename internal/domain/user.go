// Package domain 定义了应用程序中的核心实体 (同时也是数据库模型)。
package domain

import "time"

// User 表示应用程序中的用户。
type User struct {
	ID        uint      `gorm:"primaryKey"`                                          // 用户唯一标识符 (主键)
	Username  string    `gorm:"type:varchar(150);uniqueIndex:idx_username;not null"` // 全局唯一
	Password  string    `gorm:"type:varchar(255);not null"`                          // 存储的是 bcrypt 哈希，不会返回给客户端
	Email     string    `gorm:"type:varchar(191)"`
	FirstName string    `gorm:"type:varchar(150)"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Tweets []Tweet `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}
