package report

import (
	"fmt"
	"time"
)

type Reporter struct {
	generator Generator
	storage   Storage
}

func NewReporter(generator Generator, storage Storage) *Reporter {
	return &Reporter{
		generator: generator,
		storage:   storage,
	}
}

func (r *Reporter) GenerateAndSave(report *Report) (string, error) {
	// 生成报告内容
	content, err := r.generator.Generate(report)
	if err != nil {
		return "", fmt.Errorf("failed to generate report: %w", err)
	}

	// 保存报告
	filepath, err := r.storage.Save(report, content)
	if err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}

	return filepath, nil
}

func NewReport(mode, analyzer string) *Report {
	return &Report{
		Mode:             mode,
		Analyzer:         analyzer,
		StartTime:        time.Now(),
		TotalContracts:   0,
		InjectedCount:    0,
		VerifiedCount:    0,
		VulnDistribution: make(map[string]int),
		Results:          make([]InjectionResult, 0),
	}
}

func (r *Report) AddResult(result InjectionResult) {
	r.Results = append(r.Results, result)
	r.TotalContracts++

	if result.OutputPath != "" {
		r.InjectedCount++
		r.VulnDistribution[result.VulnType]++
	}
	if result.Verified {
		r.VerifiedCount++
	}
}

func NewInjectionResult(contractPath string) InjectionResult {
	return InjectionResult{
		ContractPath: contractPath,
		InjectTime:   time.Now(),
		Status:       "✅ Injection Completed",
		Detectors:    make([]string, 0),
	}
}

func (s *InjectionResult) SetStatus(status string) {
	s.Status = status
}

func (s *InjectionResult) SetError(err error) {
	if err != nil {
		s.Error = err.Error()
	}
}
