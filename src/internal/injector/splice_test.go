package injector

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSpliceSinglePayload 测试单段载荷的拼接
func TestSpliceSinglePayload(t *testing.T) {
	content := []byte("contract A { function f() public { } }")
	payloads := []Payload{
		{Offset: 35, Content: []byte("x = 1;"), Component: "vulnerable_code"},
	}

	out, regions, err := Splice(content, payloads)
	require.NoError(t, err)

	assert.Equal(t, "contract A { function f() public { x = 1;} }", string(out))
	require.Len(t, regions, 1)
	assert.Equal(t, 35, regions[0].Start)
	assert.Equal(t, 41, regions[0].End)
	assert.Equal(t, "vulnerable_code", regions[0].Component)
	assert.Equal(t, "x = 1;", string(out[regions[0].Start:regions[0].End]))
}

// TestSpliceMultiplePayloads 测试多段载荷：按偏移从高到低应用，
// 最终范围等于原始偏移加上更低偏移载荷的总长度
func TestSpliceMultiplePayloads(t *testing.T) {
	content := []byte(strings.Repeat("a", 200))
	high := Payload{Offset: 100, Content: []byte("0123456789"), Component: "vulnerable_code"}
	low := Payload{Offset: 40, Content: []byte(strings.Repeat("S", 25)), Component: "state"}

	out, regions, err := Splice(content, []Payload{high, low})
	require.NoError(t, err)
	assert.Len(t, out, 235)

	require.Len(t, regions, 2)
	// 高偏移载荷被低偏移的 25 字节整体后推
	assert.Equal(t, AppliedRegion{Start: 125, End: 135, Component: "vulnerable_code"}, regions[0])
	assert.Equal(t, AppliedRegion{Start: 40, End: 65, Component: "state"}, regions[1])

	assert.Equal(t, "0123456789", string(out[125:135]))
	assert.Equal(t, strings.Repeat("S", 25), string(out[40:65]))
}

// TestSpliceOrderIndependent 测试载荷输入顺序不影响结果
func TestSpliceOrderIndependent(t *testing.T) {
	content := []byte(strings.Repeat("b", 150))
	p1 := Payload{Offset: 10, Content: []byte("AAAA"), Component: "state"}
	p2 := Payload{Offset: 70, Content: []byte("BBBBBB"), Component: "setter"}
	p3 := Payload{Offset: 120, Content: []byte("CC"), Component: "executor"}

	out1, regions1, err := Splice(content, []Payload{p1, p2, p3})
	require.NoError(t, err)
	out2, regions2, err := Splice(content, []Payload{p3, p1, p2})
	require.NoError(t, err)

	assert.Equal(t, out1, out2)
	assert.Equal(t, regions1, regions2)
}

// TestSpliceRegionsMatchPayloads 测试每段范围切出来的内容就是对应载荷
func TestSpliceRegionsMatchPayloads(t *testing.T) {
	content := []byte("pragma solidity ^0.4.18;\ncontract Bank {\n  function put() public payable {\n  }\n}\n")
	payloads := []Payload{
		{Offset: 41, Content: []byte("\n  uint256 total;\n"), Component: "state"},
		{Offset: 76, Content: []byte("\n    total = total + 1;\n  "), Component: "vulnerable_code"},
	}

	out, regions, err := Splice(content, payloads)
	require.NoError(t, err)
	require.Len(t, regions, 2)

	byComponent := map[string][]byte{}
	for _, p := range payloads {
		byComponent[p.Component] = p.Content
	}
	for _, r := range regions {
		assert.Equal(t, string(byComponent[r.Component]), string(out[r.Start:r.End]))
	}
}

// TestSpliceEmptyPayloads 测试空载荷列表：返回内容副本，不共享底层数组
func TestSpliceEmptyPayloads(t *testing.T) {
	content := []byte("contract A { }")

	out, regions, err := Splice(content, nil)
	require.NoError(t, err)
	assert.Nil(t, regions)
	assert.Equal(t, content, out)

	out[0] = 'X'
	assert.Equal(t, byte('c'), content[0])
}

// TestSpliceAtBounds 测试偏移 0 和文件末尾都是合法插入点
func TestSpliceAtBounds(t *testing.T) {
	content := []byte("middle")
	payloads := []Payload{
		{Offset: 0, Content: []byte("head-"), Component: "state"},
		{Offset: len(content), Content: []byte("-tail"), Component: "vulnerable_code"},
	}

	out, regions, err := Splice(content, payloads)
	require.NoError(t, err)
	assert.Equal(t, "head-middle-tail", string(out))
	require.Len(t, regions, 2)
	assert.Equal(t, AppliedRegion{Start: 11, End: 16, Component: "vulnerable_code"}, regions[0])
	assert.Equal(t, AppliedRegion{Start: 0, End: 5, Component: "state"}, regions[1])
}

// TestSpliceDuplicateOffset 测试同一偏移上的两段载荷被拒绝
func TestSpliceDuplicateOffset(t *testing.T) {
	content := []byte("contract A { }")
	payloads := []Payload{
		{Offset: 12, Content: []byte("x"), Component: "state"},
		{Offset: 12, Content: []byte("y"), Component: "vulnerable_code"},
	}

	out, regions, err := Splice(content, payloads)
	require.ErrorIs(t, err, ErrDuplicateOffset)
	assert.Nil(t, out)
	assert.Nil(t, regions)
}

// TestSpliceOffsetOutOfRange 测试越界偏移
func TestSpliceOffsetOutOfRange(t *testing.T) {
	content := []byte("contract A { }")

	for _, offset := range []int{-1, len(content) + 1, 9999} {
		_, _, err := Splice(content, []Payload{
			{Offset: offset, Content: []byte("x"), Component: "state"},
		})
		assert.ErrorIs(t, err, ErrUnresolvedRange, "offset %d", offset)
	}
}

// TestSpliceValidatesBeforeModifying 测试校验失败时原内容保持原样
func TestSpliceValidatesBeforeModifying(t *testing.T) {
	content := []byte("contract A { }")
	snapshot := make([]byte, len(content))
	copy(snapshot, content)

	_, _, err := Splice(content, []Payload{
		{Offset: 3, Content: []byte("ok"), Component: "state"},
		{Offset: 500, Content: []byte("bad"), Component: "vulnerable_code"},
	})
	require.ErrorIs(t, err, ErrUnresolvedRange)
	assert.True(t, bytes.Equal(snapshot, content))
}

// TestSpliceDoesNotMutateInput 测试成功路径同样不改动输入切片
func TestSpliceDoesNotMutateInput(t *testing.T) {
	content := []byte("contract A { }")
	snapshot := make([]byte, len(content))
	copy(snapshot, content)

	_, _, err := Splice(content, []Payload{
		{Offset: 12, Content: []byte("uint x;"), Component: "state"},
	})
	require.NoError(t, err)
	assert.True(t, bytes.Equal(snapshot, content))
}
