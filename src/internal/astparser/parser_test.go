package astparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSource = "pragma solidity ^0.4.18;\ncontract Wallet {\n  uint256 balance;\n}\n"

const sampleAST = `{
  "name": "SourceUnit",
  "id": 1,
  "src": "0:62:0",
  "children": [
    {
      "name": "ContractDefinition",
      "id": 2,
      "src": "25:36:0",
      "attributes": {"name": "Wallet", "contractKind": "contract"},
      "children": [
        {
          "name": "VariableDeclaration",
          "id": 3,
          "src": "44:15:0",
          "attributes": {"name": "balance", "type": "uint256", "stateVariable": true}
        }
      ]
    }
  ]
}`

// TestParse 测试旧版 AST JSON 的解析和按 id 索引
func TestParse(t *testing.T) {
	doc, err := Parse([]byte(sampleAST), sampleSource)
	require.NoError(t, err)

	assert.Equal(t, "SourceUnit", doc.Root.Kind)
	require.Len(t, doc.Root.Children, 1)

	contract := doc.Root.Children[0]
	assert.Equal(t, "ContractDefinition", contract.Kind)
	assert.Equal(t, "Wallet", contract.AttrString("name"))

	byID, ok := doc.FindByID(3)
	require.True(t, ok)
	assert.Equal(t, "balance", byID.AttrString("name"))

	_, ok = doc.FindByID(99)
	assert.False(t, ok)
}

// TestParseRejectsInvalid 测试坏输入
func TestParseRejectsInvalid(t *testing.T) {
	_, err := Parse([]byte("not json"), "")
	require.Error(t, err)

	// 缺少类型标签的根节点
	_, err = Parse([]byte(`{"id": 1, "src": "0:1:0"}`), "")
	require.Error(t, err)
}

// TestParseSolcOutput 测试 solc 混合输出里的文件头剥离
func TestParseSolcOutput(t *testing.T) {
	mixed := "JSON AST:\n\n======= contract.sol =======\n" + sampleAST
	doc, err := ParseSolcOutput([]byte(mixed), sampleSource)
	require.NoError(t, err)
	assert.Equal(t, "SourceUnit", doc.Root.Kind)

	_, err = ParseSolcOutput([]byte("no json here"), "")
	require.Error(t, err)
}

// TestParseSrc 测试 src 字段解析
func TestParseSrc(t *testing.T) {
	loc, err := ParseSrc("120:86:0")
	require.NoError(t, err)
	assert.Equal(t, SrcLocation{Offset: 120, Length: 86, FileIndex: 0}, loc)
	assert.Equal(t, 206, loc.End())

	loc, err = ParseSrc("5:10")
	require.NoError(t, err)
	assert.Equal(t, 5, loc.Offset)

	for _, bad := range []string{"", "120", "a:b:c", "12:xx:0"} {
		_, err := ParseSrc(bad)
		assert.Error(t, err, "src %q", bad)
	}
}

// TestNodeLocation 测试节点源码范围
func TestNodeLocation(t *testing.T) {
	n := &Node{Src: "10:5:0"}
	loc, ok := n.Location()
	require.True(t, ok)
	assert.Equal(t, 10, loc.Offset)

	_, ok = (&Node{}).Location()
	assert.False(t, ok)
	_, ok = (&Node{Src: "garbage"}).Location()
	assert.False(t, ok)
}

// TestAttrAccessors 测试 attributes 读取，JSON 数字是 float64
func TestAttrAccessors(t *testing.T) {
	n := &Node{Attributes: map[string]interface{}{
		"name":                  "f",
		"isConstructor":         true,
		"referencedDeclaration": float64(42),
	}}

	assert.Equal(t, "f", n.AttrString("name"))
	assert.Equal(t, "", n.AttrString("missing"))
	assert.True(t, n.AttrBool("isConstructor"))
	assert.False(t, n.AttrBool("missing"))

	ref, ok := n.AttrInt("referencedDeclaration")
	require.True(t, ok)
	assert.Equal(t, 42, ref)
	_, ok = n.AttrInt("name")
	assert.False(t, ok)

	var nilNode *Node
	assert.Equal(t, "", nilNode.AttrString("name"))
	assert.False(t, nilNode.AttrBool("x"))
}

// TestWalkPruning 测试 fn 返回 false 时跳过子树
func TestWalkPruning(t *testing.T) {
	doc, err := Parse([]byte(sampleAST), sampleSource)
	require.NoError(t, err)

	var visited []string
	doc.Walk(func(n *Node) bool {
		visited = append(visited, n.Kind)
		return n.Kind != "ContractDefinition"
	})
	assert.Equal(t, []string{"SourceUnit", "ContractDefinition"}, visited)
}

// TestFindByKind 测试按种类查找
func TestFindByKind(t *testing.T) {
	doc, err := Parse([]byte(sampleAST), sampleSource)
	require.NoError(t, err)

	vars := doc.FindByKind("VariableDeclaration")
	require.Len(t, vars, 1)
	assert.Equal(t, "balance", vars[0].AttrString("name"))

	assert.Empty(t, doc.FindByKind("FunctionDefinition"))

	inContract := FindByKindIn(doc.Root.Children[0], "VariableDeclaration")
	assert.Len(t, inContract, 1)
}

// TestIdentifiers 测试标识符收集覆盖声明节点
func TestIdentifiers(t *testing.T) {
	doc, err := Parse([]byte(sampleAST), sampleSource)
	require.NoError(t, err)

	names := doc.Identifiers()
	assert.True(t, names["Wallet"])
	assert.True(t, names["balance"])
	assert.False(t, names["unrelated"])
}

// TestStateVariables 测试状态变量提取只认 stateVariable 标记
func TestStateVariables(t *testing.T) {
	doc, err := Parse([]byte(sampleAST), sampleSource)
	require.NoError(t, err)

	contract := doc.Root.Children[0]
	vars := StateVariables(contract)
	assert.Equal(t, map[int]string{3: "balance"}, vars)

	contract.Children = append(contract.Children, &Node{
		Kind:       "VariableDeclaration",
		ID:         9,
		Src:        "0:1:0",
		Attributes: map[string]interface{}{"name": "local"},
	})
	vars = StateVariables(contract)
	assert.NotContains(t, vars, 9)

	assert.Empty(t, StateVariables(nil))
}

// TestSourceRange 测试源码切片和越界保护
func TestSourceRange(t *testing.T) {
	doc, err := Parse([]byte(sampleAST), sampleSource)
	require.NoError(t, err)

	assert.Equal(t, "pragma", doc.SourceRange("0:6:0"))
	assert.Equal(t, "", doc.SourceRange("0:9999:0"))
	assert.Equal(t, "", doc.SourceRange("garbage"))
	assert.Equal(t, "", doc.SourceRange("-1:3:0"))
}
