package static_analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/VectorBits/Serpens/src/internal/logger"
	"github.com/VectorBits/Serpens/src/internal/static_analyzer/backend"
)

type BackendType string

const (
	BackendSlither BackendType = "slither"
	BackendNoOp    BackendType = "noop" // No-op implementation for testing
)

type AnalyzerConfig struct {
	Backend     BackendType
	SlitherPath string // slither executable path
	Timeout     time.Duration
	Enabled     bool // Whether the analyzer is enabled
}

// NewAnalyzer creates an analyzer instance
func NewAnalyzer(cfg AnalyzerConfig) (Analyzer, error) {
	if !cfg.Enabled {
		return NewNoOpAnalyzer(), nil
	}

	switch cfg.Backend {
	case BackendSlither:
		slitherBackend := backend.NewSlitherBackend(cfg.SlitherPath, cfg.Timeout)
		return &slitherAdapter{backend: slitherBackend}, nil

	case BackendNoOp:
		return NewNoOpAnalyzer(), nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s (supported: slither, noop)", cfg.Backend)
	}
}

func DefaultConfig() AnalyzerConfig {
	return AnalyzerConfig{
		Backend:     BackendSlither,
		SlitherPath: "slither",
		Timeout:     120 * time.Second,
		Enabled:     true,
	}
}

type slitherAdapter struct {
	backend *backend.SlitherBackend
}

func (a *slitherAdapter) AnalyzeFile(ctx context.Context, filePath string, config *AnalysisConfig) (*AnalysisResult, error) {
	solcVersion := ""
	if config != nil {
		solcVersion = config.SolcVersion
	}

	rawDetectors, err := a.backend.AnalyzeFile(ctx, filePath, solcVersion)
	if err != nil {
		return nil, err
	}

	result := &AnalysisResult{Detectors: make([]Detector, 0, len(rawDetectors))}
	for _, raw := range rawDetectors {
		var d Detector
		if err := json.Unmarshal(raw, &d); err != nil {
			logger.Debug("跳过无法解析的 detector 记录: %v", err)
			continue
		}
		result.Detectors = append(result.Detectors, d)
	}

	return result, nil
}

func (a *slitherAdapter) Close() error {
	return a.backend.Close()
}
