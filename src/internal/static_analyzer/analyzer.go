package static_analyzer

import (
	"context"
	"time"
)

type Analyzer interface {
	AnalyzeFile(ctx context.Context, filePath string, config *AnalysisConfig) (*AnalysisResult, error)

	Close() error
}

// Verify 对注入产物运行分析器并给出验证结论
func Verify(ctx context.Context, a Analyzer, filePath, vulnType, solcVersion string) *VerificationResult {
	start := time.Now()

	result, err := a.AnalyzeFile(ctx, filePath, &AnalysisConfig{
		SolcVersion: solcVersion,
		VulnType:    vulnType,
	})
	if err != nil {
		return &VerificationResult{
			Success:           false,
			ExpectedDetectors: ExpectedSlitherDetectors(vulnType),
			TimeTaken:         time.Since(start),
			Error:             err.Error(),
		}
	}

	found := result.DetectorNames()
	relevant := FilterRelevantDetectors(found)

	return &VerificationResult{
		Success:           true,
		Detected:          len(relevant) > 0,
		Correct:           IsDetectionCorrect(vulnType, found, "slither"),
		DetectorsFound:    found,
		ExpectedDetectors: ExpectedSlitherDetectors(vulnType),
		TimeTaken:         time.Since(start),
	}
}

type NoOpAnalyzer struct{}

func (n *NoOpAnalyzer) AnalyzeFile(ctx context.Context, filePath string, config *AnalysisConfig) (*AnalysisResult, error) {
	return &AnalysisResult{}, nil
}

func (n *NoOpAnalyzer) Close() error {
	return nil
}

func NewNoOpAnalyzer() Analyzer {
	return &NoOpAnalyzer{}
}
