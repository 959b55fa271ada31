package handler

import (
	"context"
	"fmt"

	"github.com/VectorBits/Serpens/src/internal/injector"
	"github.com/VectorBits/Serpens/src/internal/logger"
	"github.com/VectorBits/Serpens/src/internal/templates"
)

// RunPointInjection 单点注入入口
func RunPointInjection(ctx context.Context, cfg InjectConfiguration) error {
	logger.Info("💉 Starting Point Injection...")

	contract, err := LoadContract(cfg.ContractPath)
	if err != nil {
		return fmt.Errorf("failed to load contract: %w", err)
	}
	logger.Info("📋 Contract: %s (solidity %s)", contract.Path, contract.Version)

	registry, err := templates.Load()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	pi := injector.NewPointInjector(contract.Doc, contract.Content, contract.Version, registry, newSelector(cfg))

	result, err := pi.Inject(cfg.VulnType, cfg.TemplateName)
	if err != nil {
		return fmt.Errorf("point injection failed: %w", err)
	}

	return finishInjection(ctx, cfg, contract, result)
}

// RunListLocations 列出合约里的候选注入位置
func RunListLocations(ctx context.Context, cfg InjectConfiguration, coupled bool) error {
	contract, err := LoadContract(cfg.ContractPath)
	if err != nil {
		return fmt.Errorf("failed to load contract: %w", err)
	}

	registry, err := templates.Load()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	if coupled {
		ci := injector.NewCoupledInjector(contract.Doc, contract.Content, contract.Version, registry, injector.FirstSelector{})
		sets := ci.FindLocations()
		logger.Info("🔍 Found %d coupled function pairs:", len(sets))
		for i, set := range sets {
			logger.Info("   %d. %s: setter=%s executor=%s", i+1, set.Contract.Name, set.Setter.Name, set.Executor.Name)
		}
		return nil
	}

	pi := injector.NewPointInjector(contract.Doc, contract.Content, contract.Version, registry, injector.FirstSelector{})
	locations := pi.FindLocations(cfg.VulnType)
	logger.Info("🔍 Found %d injection locations:", len(locations))
	for i, loc := range locations {
		flags := locationFlags(loc)
		logger.Info("   %d. %s.%s%s", i+1, loc.Contract.Name, loc.Function.Name, flags)
	}
	return nil
}

func locationFlags(loc injector.PointLocation) string {
	var flags string
	if loc.IsPayable {
		flags += " [payable]"
	}
	if loc.HasAddressParam {
		flags += " [addr-param]"
	}
	if loc.HasUintParam {
		flags += " [uint-param]"
	}
	if !loc.IsStateModifying {
		flags += " [read-only]"
	}
	if loc.StateVariable != "" {
		flags += fmt.Sprintf(" [writes %s]", loc.StateVariable)
	}
	return flags
}

// RunListVulnTypes 列出支持的漏洞类型和各自的模板数
func RunListVulnTypes(ctx context.Context) error {
	registry, err := templates.Load()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	logger.Info("📚 Supported point vulnerability types:")
	for _, vt := range templates.PointVulnTypes {
		count := len(registry.PointForVuln(vt))
		logger.Info("   - %-20s (%d templates)", vt, count)
	}
	logger.Info("📚 Coupled templates: %d", len(registry.Coupled()))
	return nil
}
