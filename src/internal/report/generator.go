package report

import (
	"fmt"
	"strings"
	"time"
)

type InjectionResult struct {
	ContractPath string
	OutputPath   string
	InjectTime   time.Time
	Status       string
	VulnType     string
	TemplateName string
	Mode         string
	Version      string
	Detectors    []string
	Verified     bool
	Error        string
}

type Report struct {
	Mode             string
	Analyzer         string
	StartTime        time.Time
	TotalContracts   int
	InjectedCount    int
	VerifiedCount    int
	VulnDistribution map[string]int
	Results          []InjectionResult
}

type Generator interface {
	Generate(report *Report) (string, error)
}

type MarkdownGenerator struct{}

func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{}
}

// Generate 生成 markdown 报告
func (g *MarkdownGenerator) Generate(report *Report) (string, error) {
	var result string

	// 报告头部
	result += fmt.Sprintf("# Serpens Injection Report\n\n")
	result += fmt.Sprintf("**Injection Mode**: %s\n", report.Mode)
	result += fmt.Sprintf("**Analyzer**: %s\n", report.Analyzer)
	result += fmt.Sprintf("**Start Time**: %s\n\n", report.StartTime.Format("2006-01-02 15:04:05"))

	// 注入统计
	result += fmt.Sprintf("## Injection Statistics\n\n")
	result += fmt.Sprintf("- **Total Contracts**: %d\n", report.TotalContracts)
	result += fmt.Sprintf("- **Injected Contracts**: %d\n", report.InjectedCount)
	result += fmt.Sprintf("- **Verified Contracts**: %d\n\n", report.VerifiedCount)

	// 漏洞类型分布
	if len(report.VulnDistribution) > 0 {
		result += fmt.Sprintf("## Vulnerability Type Distribution\n\n")
		for vulnType, count := range report.VulnDistribution {
			result += fmt.Sprintf("- **%s**: %d\n", vulnType, count)
		}
		result += "\n"
	}

	// 详细结果
	result += fmt.Sprintf("## Detailed Results\n\n")

	for i, injResult := range report.Results {
		result += fmt.Sprintf("# Contract: %s\n\n", injResult.ContractPath)
		result += fmt.Sprintf("**Inject Time**: %s\n", injResult.InjectTime.Format("2006-01-02 15:04:05"))
		result += fmt.Sprintf("**Status**: %s\n\n", injResult.Status)

		if injResult.OutputPath != "" {
			result += fmt.Sprintf("### Injection Details\n\n")
			result += fmt.Sprintf("- %s **Vulnerability**: %s\n", getVerifiedIcon(injResult.Verified), injResult.VulnType)
			result += fmt.Sprintf("- **Template**: %s\n", injResult.TemplateName)
			result += fmt.Sprintf("- **Mode**: %s\n", injResult.Mode)
			result += fmt.Sprintf("- **Solidity Version**: %s\n", injResult.Version)
			result += fmt.Sprintf("- **Output**: %s\n\n", injResult.OutputPath)
		}

		// 静态分析验证结果
		if len(injResult.Detectors) > 0 {
			result += fmt.Sprintf("### Detector Findings\n\n")
			for j, detector := range injResult.Detectors {
				result += fmt.Sprintf("%d. `%s`\n", j+1, detector)
			}
			result += "\n"
		}

		if injResult.Error != "" {
			result += fmt.Sprintf("### Error\n\n")
			errText := strings.TrimSpace(injResult.Error)
			result += fmt.Sprintf("```\n%s\n```\n\n", errText)
		}

		// 如果不是最后一个结果，添加分隔线
		if i < len(report.Results)-1 {
			result += fmt.Sprintf("---\n\n")
		}
	}

	return result, nil
}

func getVerifiedIcon(verified bool) string {
	if verified {
		return "🟢"
	}
	return "🔴"
}
