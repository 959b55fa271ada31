package cmd

import (
	"context"
	"fmt"

	"github.com/VectorBits/Serpens/src/internal/benchmark"
	"github.com/VectorBits/Serpens/src/internal/config"
	"github.com/VectorBits/Serpens/src/internal/handler"
	"github.com/VectorBits/Serpens/src/internal/ui"
)

func (c *CLIConfig) toInjectConfiguration(appConfig *config.AppConfig) handler.InjectConfiguration {
	cfg := handler.InjectConfiguration{
		ContractPath: c.ContractPath,
		VulnType:     c.VulnType,
		TemplateName: c.Template,
		OutputPath:   c.Output,
		OutputDir:    c.OutputDir,
		Seed:         c.Seed,
		Randomize:    !c.NoRandomize,
		NoMetadata:   c.NoMetadata,
		SaveRecord:   c.SaveRecord,
		Verbose:      c.Verbose,
	}

	if appConfig != nil {
		if cfg.OutputDir == "" {
			cfg.OutputDir = appConfig.Injector.OutputDir
		}
		if appConfig.Injector.NoMetadata {
			cfg.NoMetadata = true
		}
	}
	return cfg
}

func ExecuteBatch(ctx context.Context, cfg *CLIConfig) error {
	batchCfg := benchmark.BatchConfig{
		DatasetDir:  cfg.DatasetDir,
		Mode:        cfg.Mode,
		VulnType:    cfg.VulnType,
		Template:    cfg.Template,
		OutputDir:   cfg.OutputDir,
		ReportDir:   cfg.ReportDir,
		Concurrency: cfg.Concurrency,
		Seed:        cfg.Seed,
		Randomize:   !cfg.NoRandomize,
		NoMetadata:  cfg.NoMetadata,
		Verify:      cfg.Verify,
		SlitherPath: cfg.SlitherPath,
		Timeout:     cfg.Timeout,
	}
	return benchmark.Run(ctx, batchCfg)
}

// ExecuteInject 注入命令入口
func ExecuteInject(ctx context.Context, cfg *CLIConfig) error {
	appConfig, err := config.LoadConfig()
	if err != nil {
		fmt.Printf(ui.Yellow+"⚠️  Warning: Failed to load config: %v"+ui.Reset+"\n", err)
	}

	injectConfig := cfg.toInjectConfiguration(appConfig)

	// 模式分派
	switch cfg.Mode {
	case "point":
		return handler.RunPointInjection(ctx, injectConfig)

	case "coupled":
		return handler.RunCoupledInjection(ctx, injectConfig)

	default:
		return fmt.Errorf("unsupported mode: %s", cfg.Mode)
	}
}

func Execute(ctx context.Context, cfg *CLIConfig) error {
	if err := handler.InitInjectLogger(); err != nil {
		fmt.Printf(ui.Yellow+"⚠️  Warning: Failed to init logger: %v"+ui.Reset+"\n", err)
	}
	defer handler.CloseInjectLogger()

	if cfg.ListVulns {
		return handler.RunListVulnTypes(ctx)
	}

	if cfg.ListLocations {
		appConfig, err := config.LoadConfig()
		if err != nil {
			fmt.Printf(ui.Yellow+"⚠️  Warning: Failed to load config: %v"+ui.Reset+"\n", err)
		}
		return handler.RunListLocations(ctx, cfg.toInjectConfiguration(appConfig), cfg.Mode == "coupled")
	}

	if cfg.Batch {
		return ExecuteBatch(ctx, cfg)
	}

	if cfg.Verbose {
		fmt.Printf(ui.Gray+"Running Serpens with config: %+v"+ui.Reset+"\n", cfg)
	}

	return ExecuteInject(ctx, cfg)
}
