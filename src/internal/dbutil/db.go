package dbutil

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/VectorBits/Serpens/src/internal/config"
	"github.com/VectorBits/Serpens/src/internal/report"
)

// InjectionRecord 入库的注入记录
type InjectionRecord struct {
	ID          int64
	ContentHash string
	Metadata    report.Metadata
	RegionCount int
	Verified    bool
	CreateTime  time.Time
}

type RecordStore struct {
	db    *sql.DB
	table string
}

func NewRecordStore(db *sql.DB) (*RecordStore, error) {
	if db == nil {
		return nil, fmt.Errorf("NewRecordStore: db is nil")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("Loading configuration failed: %w", err)
	}

	return &RecordStore{db: db, table: cfg.Database.Table}, nil
}

// ContentHash 注入产物的 keccak256 哈希，用作去重键
func ContentHash(content []byte) string {
	return crypto.Keccak256Hash(content).Hex()
}

// Insert 写入一条注入记录，内容哈希冲突时静默跳过
func (s *RecordStore) Insert(ctx context.Context, meta *report.Metadata, content []byte, verified bool) (string, error) {
	if meta == nil {
		return "", fmt.Errorf("Insert: metadata is nil")
	}

	hash := ContentHash(content)
	query := fmt.Sprintf(`
		INSERT IGNORE INTO %s
			(content_hash, source_contract, output_contract, vulnerability_type,
			 injection_mode, template_name, solidity_version, region_count, verified, createtime)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.table)

	verifiedInt := 0
	if verified {
		verifiedInt = 1
	}

	_, err := s.db.ExecContext(ctx, query,
		hash,
		meta.SourceContract,
		meta.OutputContract,
		meta.VulnType,
		meta.InjectionMode,
		meta.TemplateName,
		meta.SolidityVersion,
		len(meta.InjectedRegions),
		verifiedInt,
		time.Now(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert injection record: %w", err)
	}

	return hash, nil
}

// GetRecordsByVulnType 按漏洞类型查询记录
func (s *RecordStore) GetRecordsByVulnType(ctx context.Context, vulnType string, limit int) ([]InjectionRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, content_hash, source_contract, output_contract, vulnerability_type,
		       injection_mode, template_name, solidity_version, region_count, verified, createtime
		FROM %s
		WHERE vulnerability_type = ?
		ORDER BY createtime DESC
	`, s.table)
	args := []interface{}{vulnType}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]InjectionRecord, 0)
	for rows.Next() {
		var r InjectionRecord
		var verifiedInt int
		if err := rows.Scan(
			&r.ID,
			&r.ContentHash,
			&r.Metadata.SourceContract,
			&r.Metadata.OutputContract,
			&r.Metadata.VulnType,
			&r.Metadata.InjectionMode,
			&r.Metadata.TemplateName,
			&r.Metadata.SolidityVersion,
			&r.RegionCount,
			&verifiedInt,
			&r.CreateTime,
		); err != nil {
			return nil, err
		}
		r.Verified = verifiedInt != 0
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// MarkVerified 更新验证结果
func (s *RecordStore) MarkVerified(ctx context.Context, contentHash string, verified bool) error {
	query := fmt.Sprintf("UPDATE %s SET verified = ? WHERE content_hash = ?", s.table)

	verifiedInt := 0
	if verified {
		verifiedInt = 1
	}

	if _, err := s.db.ExecContext(ctx, query, verifiedInt, contentHash); err != nil {
		return fmt.Errorf("failed to update verification status: %w", err)
	}
	return nil
}
