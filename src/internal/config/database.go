package config

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

var DBPool *sql.DB

// InitDB 初始化 MySQL 连接池
func InitDB(ctx context.Context) (*sql.DB, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("Loading configuration failed: %w", err)
	}

	// 1. 尝试直接连接指定数据库
	dsn := config.GetDatabaseDSN(true)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("InitDB: %w", err)
	}

	// 检查连接
	ctxPing, cancelPing := context.WithTimeout(ctx, 2*time.Second)
	err = db.PingContext(ctxPing)
	cancelPing()

	if err != nil {
		// 2. 如果连接失败（可能是数据库不存在），尝试连接到 MySQL server root 并创建数据库
		fmt.Printf("Database ping failed for '%s': %v\n", config.Database.Name, err)

		dsnRoot := config.GetDatabaseDSN(false)
		dbRoot, errRoot := sql.Open("mysql", dsnRoot)
		if errRoot != nil {
			return nil, fmt.Errorf("InitDB: %w", errRoot)
		}
		defer dbRoot.Close()

		createDBSQL := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s` DEFAULT CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci", config.Database.Name)
		if _, errExec := dbRoot.ExecContext(ctx, createDBSQL); errExec != nil {
			return nil, fmt.Errorf("InitDB: %w", errExec)
		}
		fmt.Printf("✅  Database '%s' created successfully (or already exists)\n", config.Database.Name)

		// 重新连接到新创建的数据库
		_ = db.Close()
		db, err = sql.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("InitDB: %w", err)
		}
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("InitDB ping failed: %w", err)
	}

	// 3. 自动迁移表结构
	if err := AutoMigrate(ctx, db, config); err != nil {
		db.Close()
		return nil, fmt.Errorf("AutoMigrate failed: %w", err)
	}

	DBPool = db
	return db, nil
}

// AutoMigrate 自动检查并创建注入记录表
func AutoMigrate(ctx context.Context, db *sql.DB, cfg *AppConfig) error {
	const tableSchema = `
CREATE TABLE IF NOT EXISTS %s (
    id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    content_hash CHAR(66) NOT NULL COMMENT 'Keccak256 Hash of Injected Source',
    source_contract VARCHAR(512) NOT NULL COMMENT 'Source Contract Path',
    output_contract VARCHAR(512) NOT NULL COMMENT 'Output Contract Path',
    vulnerability_type VARCHAR(64) NOT NULL COMMENT 'Injected Vulnerability Type',
    injection_mode VARCHAR(16) NOT NULL COMMENT 'Injection Mode (point/coupled)',
    template_name VARCHAR(128) NOT NULL COMMENT 'Template Name',
    solidity_version VARCHAR(16) NOT NULL COMMENT 'Compiler Version',
    region_count INT NOT NULL DEFAULT 0 COMMENT 'Number of Injected Regions',
    verified TINYINT(1) DEFAULT 0 COMMENT 'Verified by Static Analyzer',
    createtime DATETIME NOT NULL COMMENT 'Record Creation Time',
    UNIQUE INDEX idx_content_hash (content_hash),
    INDEX idx_vulnerability_type (vulnerability_type),
    INDEX idx_createtime (createtime)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci COMMENT='Vulnerability Injection Records';
`
	tableName := cfg.Database.Table
	if tableName == "" {
		tableName = "injection_records"
	}

	query := fmt.Sprintf(tableSchema, tableName)
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return nil
}
