package benchmark

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/VectorBits/Serpens/src/internal/handler"
	"github.com/VectorBits/Serpens/src/internal/injector"
	"github.com/VectorBits/Serpens/src/internal/logger"
	"github.com/VectorBits/Serpens/src/internal/report"
	"github.com/VectorBits/Serpens/src/internal/static_analyzer"
	"github.com/VectorBits/Serpens/src/internal/templates"
	"github.com/VectorBits/Serpens/src/internal/ui"
)

// BatchConfig 批量注入与验证的参数
type BatchConfig struct {
	DatasetDir  string
	Mode        string // point | coupled
	VulnType    string
	Template    string
	OutputDir   string
	ReportDir   string
	Concurrency int
	Seed        int64
	Randomize   bool
	NoMetadata  bool
	Verify      bool
	SlitherPath string
	Timeout     time.Duration
}

// Run 对数据集目录下的所有 .sol 合约批量注入，可选地用静态分析器验证产物
func Run(ctx context.Context, cfg BatchConfig) error {
	files, err := filepath.Glob(filepath.Join(cfg.DatasetDir, "*.sol"))
	if err != nil {
		return fmt.Errorf("failed to glob dataset: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no .sol files found in %s", cfg.DatasetDir)
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = "output"
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	registry, err := templates.Load()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	analyzerName := "none"
	var analyzer static_analyzer.Analyzer = static_analyzer.NewNoOpAnalyzer()
	if cfg.Verify {
		analyzerName = string(static_analyzer.BackendSlither)
		analyzer, err = static_analyzer.NewAnalyzer(static_analyzer.AnalyzerConfig{
			Backend:     static_analyzer.BackendSlither,
			SlitherPath: cfg.SlitherPath,
			Timeout:     cfg.Timeout,
			Enabled:     true,
		})
		if err != nil {
			return fmt.Errorf("failed to create analyzer: %w", err)
		}
	}
	defer analyzer.Close()

	logger.Info("📋 Loaded %d contracts from %s. Running with concurrency: %d", len(files), cfg.DatasetDir, concurrency)

	batchReport := report.NewReport(cfg.Mode, analyzerName)
	pb := ui.NewProgressBar(len(files), "💉 Injecting")
	startTime := time.Now()

	baseSeed := cfg.Seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	var mu sync.Mutex
	var failCount int

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			result := injectOne(gctx, cfg, registry, analyzer, file, outputDir, baseSeed+int64(i))

			mu.Lock()
			batchReport.AddResult(result)
			if result.OutputPath == "" {
				failCount++
			}
			mu.Unlock()

			if result.OutputPath != "" {
				pb.AddInjected()
				pb.PrintMsg(ui.FormatInjectMsg(filepath.Base(file), result.VulnType, result.TemplateName))
			}
			pb.Increment()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Warn("⚠️  Batch interrupted: %v", err)
	}
	pb.Finish()

	ui.PrintStats(len(files), batchReport.InjectedCount, failCount, batchReport.VerifiedCount, time.Since(startTime))

	reporter := report.NewReporter(report.NewMarkdownGenerator(), report.NewFileStorage(cfg.ReportDir))
	reportPath, err := reporter.GenerateAndSave(batchReport)
	if err != nil {
		return fmt.Errorf("failed to save batch report: %w", err)
	}
	ui.LogSuccess("📝 Detailed report saved to: %s", reportPath)
	logger.InfoFileOnly("报告已写入: %s", reportPath)

	return nil
}

// injectOne 单个合约的注入与验证，失败记录在结果里而不中断批次
func injectOne(ctx context.Context, cfg BatchConfig, registry *templates.Registry, analyzer static_analyzer.Analyzer, file, outputDir string, seed int64) report.InjectionResult {
	res := report.NewInjectionResult(file)

	contract, err := handler.LoadContract(file)
	if err != nil {
		res.SetStatus("❌ Load Failed")
		res.SetError(err)
		return res
	}
	res.Version = contract.Version

	var selector injector.Selector = injector.FirstSelector{}
	if cfg.Randomize {
		selector = injector.NewRandomSelector(seed)
	}

	var injected *injector.Result
	if strings.EqualFold(cfg.Mode, templates.ModeCoupled) {
		ci := injector.NewCoupledInjector(contract.Doc, contract.Content, contract.Version, registry, selector)
		injected, err = ci.Inject(cfg.Template)
	} else {
		pi := injector.NewPointInjector(contract.Doc, contract.Content, contract.Version, registry, selector)
		injected, err = pi.Inject(cfg.VulnType, cfg.Template)
	}
	if err != nil {
		res.SetStatus("❌ Injection Failed")
		res.SetError(err)
		return res
	}

	base := filepath.Base(file)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	outputPath := filepath.Join(outputDir, fmt.Sprintf("%s_injected.sol", stem))
	if err := os.WriteFile(outputPath, injected.Content, 0644); err != nil {
		res.SetStatus("❌ Write Failed")
		res.SetError(err)
		return res
	}

	res.OutputPath = outputPath
	res.VulnType = injected.Vuln
	res.TemplateName = injected.Template
	res.Mode = injected.Mode

	if !cfg.NoMetadata {
		meta := report.NewMetadata(file, outputPath, injected.Vuln, injected.Mode, injected.Template, contract.Version)
		for _, region := range injected.Regions {
			meta.AddRegion(region.Start, region.End, region.Component,
				fmt.Sprintf("Injected %s code", region.Component))
		}
		if _, err := meta.Save(outputPath); err != nil {
			logger.Warn("⚠️  Failed to save metadata for %s: %v", outputPath, err)
		}
	}

	verification := static_analyzer.Verify(ctx, analyzer, outputPath, injected.Vuln, contract.Version)
	res.Detectors = verification.DetectorsFound
	res.Verified = verification.Success && verification.Correct && verification.Detected
	if verification.Error != "" {
		logger.InfoFileOnly("验证 %s 时分析器报错: %s", outputPath, verification.Error)
	}

	return res
}
