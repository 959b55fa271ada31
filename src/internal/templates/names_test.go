package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type firstPicker struct{}

func (firstPicker) Pick(n int) int { return 0 }

// seqPicker 依次返回递增下标，用来驱动池内的名字轮换
type seqPicker struct{ next int }

func (p *seqPicker) Pick(n int) int {
	idx := p.next % n
	p.next++
	return idx
}

// TestGeneratePointNames 测试变量名按种类生成且确定可复现
func TestGeneratePointNames(t *testing.T) {
	names := GeneratePointNames([]string{"mapping", "addr"}, nil, firstPicker{})

	require.Len(t, names, 2)
	assert.Equal(t, "balances", names["var_mapping"])
	assert.Equal(t, "recipient", names["var_addr"])

	again := GeneratePointNames([]string{"mapping", "addr"}, nil, firstPicker{})
	assert.Equal(t, names, again)
}

// TestGeneratePointNamesAvoidsExisting 测试与现有标识符冲突时换名
func TestGeneratePointNamesAvoidsExisting(t *testing.T) {
	existing := map[string]bool{"recipient": true, "sender": true}

	names := GeneratePointNames([]string{"addr"}, existing, &seqPicker{})
	got := names["var_addr"]
	assert.NotEmpty(t, got)
	assert.False(t, existing[got], "picked a name already taken: %s", got)
}

// TestGeneratePointNamesAddressAlias 测试 "address" 种类按 "addr" 处理
func TestGeneratePointNamesAddressAlias(t *testing.T) {
	names := GeneratePointNames([]string{"address"}, nil, firstPicker{})
	require.Contains(t, names, "var_addr")
	assert.Equal(t, "recipient", names["var_addr"])
}

// TestGeneratePointNamesDistinctPerKind 测试不同种类各得一个名字且互不相同
func TestGeneratePointNamesDistinctPerKind(t *testing.T) {
	names := GeneratePointNames([]string{"addr", "uint", "mapping", "bool", "time"}, nil, firstPicker{})
	require.Len(t, names, 5)

	seen := map[string]bool{}
	for placeholder, name := range names {
		assert.NotEmpty(t, name, placeholder)
		assert.False(t, seen[name], "duplicate name %s", name)
		seen[name] = true
	}
}

// TestGenerateCoupledNames 测试跨函数池的名字拼接
func TestGenerateCoupledNames(t *testing.T) {
	names := GenerateCoupledNames([]string{"addr", "amt", "array"}, nil, firstPicker{})

	require.Len(t, names, 3)
	assert.Equal(t, "pendingRecipient", names["var_addr"])
	assert.Equal(t, "pendingAmount", names["var_amt"])
	assert.Equal(t, "participants", names["var_array"])
}

// TestGenerateNamesExhaustedPoolFallsBack 测试池子被占满时退回带数字后缀的名字
func TestGenerateNamesExhaustedPoolFallsBack(t *testing.T) {
	existing := map[string]bool{}
	for _, name := range uintVarNames {
		existing[name] = true
	}

	names := GeneratePointNames([]string{"uint"}, existing, firstPicker{})
	got := names["var_uint"]
	require.NotEmpty(t, got)
	assert.False(t, existing[got])
	assert.Regexp(t, `^[a-zA-Z]+\d+$`, got)
}

// TestGenerateNamesUnknownKindIgnored 测试未知种类被跳过
func TestGenerateNamesUnknownKindIgnored(t *testing.T) {
	names := GeneratePointNames([]string{"weird"}, nil, firstPicker{})
	assert.Empty(t, names)
}
