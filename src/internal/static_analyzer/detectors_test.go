package static_analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestExpectedSlitherDetectors 测试漏洞类型到检测器的映射
func TestExpectedSlitherDetectors(t *testing.T) {
	assert.Equal(t, []string{"tx-origin"}, ExpectedSlitherDetectors("tx_origin"))
	assert.Equal(t, []string{"tx-origin"}, ExpectedSlitherDetectors("TX_ORIGIN"))
	assert.Empty(t, ExpectedSlitherDetectors("overflow"))
	assert.Len(t, ExpectedSlitherDetectors("reentrancy"), 5)
	assert.Nil(t, ExpectedSlitherDetectors("unknown_vuln"))
}

// TestExpectedSWCIDs 测试 SWC 编号映射
func TestExpectedSWCIDs(t *testing.T) {
	assert.Equal(t, []string{"101"}, ExpectedSWCIDs("overflow"))
	assert.Equal(t, []string{"101"}, ExpectedSWCIDs("underflow"))
	assert.Equal(t, []string{"107"}, ExpectedSWCIDs("reentrancy"))
	assert.Equal(t, []string{"104"}, ExpectedSWCIDs("unchecked_send"))
}

// TestFilterRelevantDetectors 测试信息级告警过滤
func TestFilterRelevantDetectors(t *testing.T) {
	in := []string{"solc-version", "tx-origin", "naming-convention", "reentrancy-eth", "pragma"}
	assert.Equal(t, []string{"tx-origin", "reentrancy-eth"}, FilterRelevantDetectors(in))

	assert.Empty(t, FilterRelevantDetectors([]string{"solc-version", "pragma"}))
	assert.Empty(t, FilterRelevantDetectors(nil))
}

// TestIsDetectionCorrectSlither 测试 Slither 结果判定
func TestIsDetectionCorrectSlither(t *testing.T) {
	// Slither 不检测整数溢出，这两类始终算通过
	assert.True(t, IsDetectionCorrect("overflow", nil, "slither"))
	assert.True(t, IsDetectionCorrect("underflow", []string{"anything"}, "slither"))

	// 命中预期检测器
	assert.True(t, IsDetectionCorrect("tx_origin", []string{"tx-origin"}, "slither"))
	assert.True(t, IsDetectionCorrect("reentrancy", []string{"solc-version", "reentrancy-no-eth"}, "slither"))

	// 只报了无关或信息级检测器
	assert.False(t, IsDetectionCorrect("tx_origin", []string{"timestamp"}, "slither"))
	assert.False(t, IsDetectionCorrect("tx_origin", []string{"solc-version"}, "slither"))
	assert.False(t, IsDetectionCorrect("tx_origin", nil, "slither"))

	// 未知类型没有预期检测器，视为通过
	assert.True(t, IsDetectionCorrect("unknown_vuln", nil, "slither"))

	// 工具名大小写不敏感
	assert.True(t, IsDetectionCorrect("timestamp", []string{"timestamp"}, "Slither"))
}

// TestIsDetectionCorrectMythril 测试 Mythril 按 SWC 编号判定
func TestIsDetectionCorrectMythril(t *testing.T) {
	assert.True(t, IsDetectionCorrect("reentrancy", []string{"107"}, "mythril"))
	assert.True(t, IsDetectionCorrect("overflow", []string{"110", "101"}, "mythril"))
	assert.False(t, IsDetectionCorrect("reentrancy", []string{"101"}, "mythril"))
	assert.False(t, IsDetectionCorrect("reentrancy", nil, "mythril"))
}

// TestIsDetectionCorrectUnknownTool 测试未知工具一律不通过
func TestIsDetectionCorrectUnknownTool(t *testing.T) {
	assert.False(t, IsDetectionCorrect("tx_origin", []string{"tx-origin"}, "securify"))
	assert.False(t, IsDetectionCorrect("overflow", []string{"101"}, ""))
}

// TestDetectorNames 测试名字去重且保持出现顺序
func TestDetectorNames(t *testing.T) {
	r := &AnalysisResult{Detectors: []Detector{
		{Check: "tx-origin"},
		{Check: "timestamp"},
		{Check: "tx-origin"},
		{Check: "reentrancy-eth"},
	}}
	assert.Equal(t, []string{"tx-origin", "timestamp", "reentrancy-eth"}, r.DetectorNames())

	empty := &AnalysisResult{}
	assert.Empty(t, empty.DetectorNames())
}
