package database

import (
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"linkup/config"
	"linkup/logger"
)

var DB *sql.DB

func Connect() error {
	var err error
	DB, err = sql.Open("mysql", config.Cfg.MysqlDSN)
	if err != nil {
		return err
	}

	if err = DB.Ping(); err != nil {
		return err
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(5)

	logger.L.Info("database connected")
	return nil
}

func Close() {
	if DB != nil {
		DB.Close()
	}
}

func CreateTables() error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            VARCHAR(36) PRIMARY KEY,
			username      VARCHAR(50) NOT NULL,
			display_name  VARCHAR(100),
			avatar        VARCHAR(255),
			bio           VARCHAR(500),
			location      VARCHAR(100),
			is_onboarded  TINYINT(1) NOT NULL DEFAULT 0,
			password      VARCHAR(255) NOT NULL,
			created_at    DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uk_username (username),
			INDEX idx_onboarded (is_onboarded)
		)`,
		// One row per unordered pair: user_a is always the lexicographically
		// smaller id, so uk_pair makes concurrent duplicate requests collide.
		`CREATE TABLE IF NOT EXISTS friendships (
			id            VARCHAR(36) PRIMARY KEY,
			user_a        VARCHAR(36) NOT NULL,
			user_b        VARCHAR(36) NOT NULL,
			requester_id  VARCHAR(36) NOT NULL,
			status        ENUM('pending', 'accepted') NOT NULL DEFAULT 'pending',
			created_at    DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uk_pair (user_a, user_b),
			INDEX idx_user_b (user_b),
			INDEX idx_requester (requester_id)
		)`,
	}

	for _, table := range tables {
		if _, err := DB.Exec(table); err != nil {
			return err
		}
	}

	logger.L.Info("database tables created", zap.Int("tables", len(tables)))
	return nil
}
