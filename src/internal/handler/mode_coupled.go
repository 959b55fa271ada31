package handler

import (
	"context"
	"fmt"

	"github.com/VectorBits/Serpens/src/internal/injector"
	"github.com/VectorBits/Serpens/src/internal/logger"
	"github.com/VectorBits/Serpens/src/internal/templates"
)

// RunCoupledInjection 组合注入入口：setter 和 executor 两个函数配对注入
func RunCoupledInjection(ctx context.Context, cfg InjectConfiguration) error {
	logger.Info("💉 Starting Coupled Injection...")

	contract, err := LoadContract(cfg.ContractPath)
	if err != nil {
		return fmt.Errorf("failed to load contract: %w", err)
	}
	logger.Info("📋 Contract: %s (solidity %s)", contract.Path, contract.Version)

	registry, err := templates.Load()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	ci := injector.NewCoupledInjector(contract.Doc, contract.Content, contract.Version, registry, newSelector(cfg))

	result, err := ci.Inject(cfg.TemplateName)
	if err != nil {
		return fmt.Errorf("coupled injection failed: %w", err)
	}

	return finishInjection(ctx, cfg, contract, result)
}
