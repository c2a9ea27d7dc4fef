package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tweeter/internal/domain"
)

// MigrateDB 执行所有数据库迁移。
// MySQL 下 users 表使用显式 DDL 创建 (控制索引长度和字符集)，其余表交给 AutoMigrate。
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	if db.Dialector.Name() == "mysql" {
		if err := migrateUsersTable(db); err != nil {
			return fmt.Errorf("failed to migrate users table: %w", err)
		}
	}

	// AutoMigrate 会按依赖顺序建表，并为 belongs-to 关系创建外键
	err := db.AutoMigrate(
		&domain.User{},
		&domain.Tweet{},
		&domain.Comment{},
		&domain.Activity{},
	)
	if err != nil {
		logrus.Errorf("Failed to auto-migrate tables: %v", err)
		return fmt.Errorf("failed to auto-migrate tables: %w", err)
	}

	logrus.Info("Database migration completed successfully")
	return nil
}

// migrateUsersTable 在 users 表不存在时创建它
func migrateUsersTable(db *gorm.DB) error {
	var count int64
	err := db.Raw("SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = 'users'").
		Scan(&count).Error
	if err != nil {
		return fmt.Errorf("failed to inspect information_schema: %w", err)
	}
	if count > 0 {
		return nil
	}
	return createUsersTable(db)
}

// createUsersTable 创建 users 表
func createUsersTable(db *gorm.DB) error {
	sql := `
	CREATE TABLE users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(150) NOT NULL,
		password VARCHAR(255) NOT NULL,
		email VARCHAR(191),
		first_name VARCHAR(150),
		created_at DATETIME(3),
		updated_at DATETIME(3),
		UNIQUE INDEX idx_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_general_ci;
	`
	if err := db.Exec(sql).Error; err != nil {
		logrus.Errorf("Failed to create users table: %v", err)
		return fmt.Errorf("failed to create users table: %w", err)
	}
	logrus.Info("Users table created successfully")
	return nil
}
