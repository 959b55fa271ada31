package handler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/VectorBits/Serpens/src/internal/config"
	"github.com/VectorBits/Serpens/src/internal/dbutil"
	"github.com/VectorBits/Serpens/src/internal/injector"
	"github.com/VectorBits/Serpens/src/internal/logger"
	"github.com/VectorBits/Serpens/src/internal/report"
	"github.com/VectorBits/Serpens/src/internal/ui"
)

// InjectConfiguration 一次注入任务的全部参数
type InjectConfiguration struct {
	ContractPath string
	VulnType     string
	TemplateName string
	OutputPath   string
	OutputDir    string
	Seed         int64
	Randomize    bool
	NoMetadata   bool
	SaveRecord   bool
	Verbose      bool
}

func newSelector(cfg InjectConfiguration) injector.Selector {
	if !cfg.Randomize {
		return injector.FirstSelector{}
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.InfoFileOnly("随机种子: %d", seed)
	return injector.NewRandomSelector(seed)
}

// resolveOutputPath 未指定输出路径时按输入名派生 <stem>_injected.sol
func resolveOutputPath(cfg InjectConfiguration) string {
	if cfg.OutputPath != "" {
		return cfg.OutputPath
	}

	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = "output"
	}

	base := filepath.Base(cfg.ContractPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, fmt.Sprintf("%s_injected.sol", stem))
}

// finishInjection 写出注入产物、溯源 sidecar 和可选的数据库记录
func finishInjection(ctx context.Context, cfg InjectConfiguration, contract *LoadedContract, result *injector.Result) error {
	outputPath := resolveOutputPath(cfg)
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, result.Content, 0644); err != nil {
		return fmt.Errorf("failed to write injected contract: %w", err)
	}
	logger.Info("📄 注入产物已写入: %s", outputPath)

	meta := report.NewMetadata(
		cfg.ContractPath, outputPath, result.Vuln, result.Mode, result.Template, contract.Version)
	for _, region := range result.Regions {
		meta.AddRegion(region.Start, region.End, region.Component,
			fmt.Sprintf("Injected %s code", region.Component))
	}

	if !cfg.NoMetadata {
		metaPath, err := meta.Save(outputPath)
		if err != nil {
			return fmt.Errorf("failed to save metadata: %w", err)
		}
		logger.Info("🧾 溯源元数据已写入: %s", metaPath)
	}

	if cfg.SaveRecord {
		if err := saveRecord(ctx, meta, result.Content); err != nil {
			logger.Warn("⚠️  注入记录入库失败（不影响产物）: %v", err)
		}
	}

	ui.LogInjected(outputPath, result.Vuln, result.Template)
	logger.InfoFileOnly("✅ %s 注入完成: %s -> %s", result.Mode, result.Vuln, outputPath)
	return nil
}

func saveRecord(ctx context.Context, meta *report.Metadata, content []byte) error {
	db, err := config.InitDB(ctx)
	if err != nil {
		return fmt.Errorf("failed to init database: %w", err)
	}
	defer db.Close()

	store, err := dbutil.NewRecordStore(db)
	if err != nil {
		return err
	}

	hash, err := store.Insert(ctx, meta, content, false)
	if err != nil {
		return err
	}
	logger.InfoFileOnly("注入记录已入库: %s", hash)
	return nil
}
