package report

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestReportAddResult 测试统计口径：有输出路径才算注入成功
func TestReportAddResult(t *testing.T) {
	report := NewReport("point", "slither")

	ok := NewInjectionResult("a.sol")
	ok.OutputPath = "output/a_injected.sol"
	ok.VulnType = "tx_origin"
	ok.Verified = true
	report.AddResult(ok)

	failed := NewInjectionResult("b.sol")
	failed.SetError(errors.New("no suitable injection locations found"))
	report.AddResult(failed)

	second := NewInjectionResult("c.sol")
	second.OutputPath = "output/c_injected.sol"
	second.VulnType = "tx_origin"
	report.AddResult(second)

	assert.Equal(t, 3, report.TotalContracts)
	assert.Equal(t, 2, report.InjectedCount)
	assert.Equal(t, 1, report.VerifiedCount)
	assert.Equal(t, map[string]int{"tx_origin": 2}, report.VulnDistribution)
}

// TestMarkdownGenerate 测试 markdown 报告的关键段落
func TestMarkdownGenerate(t *testing.T) {
	report := NewReport("point", "slither")
	report.StartTime = time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	ok := NewInjectionResult("contracts/vault.sol")
	ok.OutputPath = "output/vault_injected.sol"
	ok.VulnType = "reentrancy"
	ok.TemplateName = "call_value_legacy"
	ok.Mode = "point"
	ok.Version = "0.4.18"
	ok.Detectors = []string{"reentrancy-eth", "timestamp"}
	ok.Verified = true
	report.AddResult(ok)

	failed := NewInjectionResult("contracts/broken.sol")
	failed.SetStatus("❌ Injection Failed")
	failed.SetError(errors.New("no compatible injection templates"))
	report.AddResult(failed)

	content, err := NewMarkdownGenerator().Generate(report)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(content, "# Serpens Injection Report"))
	assert.Contains(t, content, "**Injection Mode**: point")
	assert.Contains(t, content, "**Analyzer**: slither")
	assert.Contains(t, content, "- **Total Contracts**: 2")
	assert.Contains(t, content, "- **Injected Contracts**: 1")
	assert.Contains(t, content, "- **Verified Contracts**: 1")
	assert.Contains(t, content, "- **reentrancy**: 1")
	assert.Contains(t, content, "# Contract: contracts/vault.sol")
	assert.Contains(t, content, "🟢 **Vulnerability**: reentrancy")
	assert.Contains(t, content, "- **Template**: call_value_legacy")
	assert.Contains(t, content, "1. `reentrancy-eth`")
	assert.Contains(t, content, "```\nno compatible injection templates\n```")

	// 失败的合约没有注入详情段落
	failedSection := content[strings.Index(content, "contracts/broken.sol"):]
	assert.NotContains(t, failedSection, "### Injection Details")
}

// TestMarkdownGenerateEmptyReport 测试空报告不崩
func TestMarkdownGenerateEmptyReport(t *testing.T) {
	content, err := NewMarkdownGenerator().Generate(NewReport("coupled", "none"))
	require.NoError(t, err)
	assert.Contains(t, content, "- **Total Contracts**: 0")
	assert.NotContains(t, content, "## Vulnerability Type Distribution")
}

type memStorage struct {
	saved string
	path  string
	err   error
}

func (m *memStorage) Save(report *Report, content string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.saved = content
	return m.path, nil
}

// TestReporterGenerateAndSave 测试生成与保存的串联
func TestReporterGenerateAndSave(t *testing.T) {
	storage := &memStorage{path: "reports/inject_report_test.md"}
	reporter := NewReporter(NewMarkdownGenerator(), storage)

	path, err := reporter.GenerateAndSave(NewReport("point", "slither"))
	require.NoError(t, err)
	assert.Equal(t, "reports/inject_report_test.md", path)
	assert.Contains(t, storage.saved, "# Serpens Injection Report")

	storage.err = errors.New("disk full")
	_, err = reporter.GenerateAndSave(NewReport("point", "slither"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save report")
}
