package injector

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VectorBits/Serpens/src/internal/astparser"
)

// TestFindContracts 测试合约枚举
func TestFindContracts(t *testing.T) {
	doc := vaultDoc(t)

	contracts := FindContracts(doc)
	require.Len(t, contracts, 1)
	assert.Equal(t, "Vault", contracts[0].Name)
	assert.Equal(t, "contract", contracts[0].Kind)
	assert.True(t, contracts[0].IsConcrete())
}

// TestContractKindDefault 测试 contractKind 缺失时按 contract 处理
func TestContractKindDefault(t *testing.T) {
	raw := []byte(`{"name":"SourceUnit","id":1,"src":"0:10:0","children":[
		{"name":"ContractDefinition","id":2,"src":"0:10:0","attributes":{"name":"A"}}]}`)
	doc, err := astparser.Parse(raw, "contract A")
	require.NoError(t, err)

	contracts := FindContracts(doc)
	require.Len(t, contracts, 1)
	assert.Equal(t, "contract", contracts[0].Kind)
	assert.True(t, contracts[0].IsConcrete())
}

// TestInterfaceAndLibraryNotConcrete 测试接口和库被排除在注入目标之外
func TestInterfaceAndLibraryNotConcrete(t *testing.T) {
	for _, kind := range []string{"interface", "library"} {
		node := &astparser.Node{
			Kind:       "ContractDefinition",
			ID:         1,
			Src:        "0:10:0",
			Attributes: map[string]interface{}{"name": "X", "contractKind": kind},
		}
		c, ok := ContractFromNode(node)
		require.True(t, ok)
		assert.False(t, c.IsConcrete(), "kind %s", kind)
	}
}

// TestFunctionFromNode 测试函数视图的提取和字段
func TestFunctionFromNode(t *testing.T) {
	doc := vaultDoc(t)
	contracts := FindContracts(doc)
	require.Len(t, contracts, 1)

	funcs := FunctionsInContract(contracts[0])
	require.Len(t, funcs, 3)

	set := funcs[0]
	assert.Equal(t, "set", set.Name)
	assert.Equal(t, "public", set.Visibility)
	require.Len(t, set.Params, 2)
	assert.Equal(t, Parameter{Name: "_to", Type: "address"}, set.Params[0])
	assert.Equal(t, Parameter{Name: "_amount", Type: "uint256"}, set.Params[1])
	assert.True(t, set.IsExternallyCallable())
	assert.True(t, set.IsStateModifying())
	assert.False(t, set.IsPayable())
	assert.Equal(t, "_to", set.FirstParamOfType("address"))
	assert.Equal(t, "_amount", set.FirstParamOfType("uint"))
	assert.Equal(t, "_to", set.FirstParam())

	pay := funcs[1]
	assert.True(t, pay.IsPayable())
	assert.False(t, pay.HasParams())
	assert.Equal(t, "", pay.FirstParam())

	peek := funcs[2]
	assert.False(t, peek.IsStateModifying())
}

// TestFunctionFromNodeRejections 测试构造函数、匿名函数和无函数体的声明被拒绝
func TestFunctionFromNodeRejections(t *testing.T) {
	cases := map[string]*astparser.Node{
		"wrong kind": {Kind: "ContractDefinition", ID: 1, Src: "0:5:0"},
		"unnamed": {
			Kind: "FunctionDefinition", ID: 2, Src: "0:5:0",
			Attributes: map[string]interface{}{"name": ""},
			Children:   []*astparser.Node{{Kind: "Block", ID: 3, Src: "0:5:0"}},
		},
		"constructor": {
			Kind: "FunctionDefinition", ID: 4, Src: "0:5:0",
			Attributes: map[string]interface{}{"name": "Vault", "isConstructor": true},
			Children:   []*astparser.Node{{Kind: "Block", ID: 5, Src: "0:5:0"}},
		},
		"no body": {
			Kind: "FunctionDefinition", ID: 6, Src: "0:5:0",
			Attributes: map[string]interface{}{"name": "f"},
		},
	}
	for name, node := range cases {
		_, ok := FunctionFromNode(node)
		assert.False(t, ok, name)
	}
}

// TestFindPointLocations 测试单点候选位置及其事实标记
func TestFindPointLocations(t *testing.T) {
	doc := vaultDoc(t)

	locations := FindPointLocations(doc)
	require.Len(t, locations, 3)

	set := locations[0]
	assert.Equal(t, "Vault", set.Contract.Name)
	assert.Equal(t, "set", set.Function.Name)
	assert.True(t, set.HasParams)
	assert.True(t, set.HasAddressParam)
	assert.True(t, set.HasUintParam)
	assert.False(t, set.IsPayable)
	assert.True(t, set.IsStateModifying)

	pay := locations[1]
	assert.Equal(t, "pay", pay.Function.Name)
	assert.False(t, pay.HasParams)
	assert.True(t, pay.IsPayable)
	assert.True(t, pay.IsStateModifying)

	peek := locations[2]
	assert.Equal(t, "peek", peek.Function.Name)
	assert.False(t, peek.IsStateModifying)
}

// TestFindPointLocationsIdempotent 测试同一文档上重复枚举结果一致
func TestFindPointLocationsIdempotent(t *testing.T) {
	doc := vaultDoc(t)

	first := FindPointLocations(doc)
	second := FindPointLocations(doc)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Function.ID, second[i].Function.ID)
	}
}

// TestFindPointLocationsSkipsInterface 测试接口里的函数不产生候选
func TestFindPointLocationsSkipsInterface(t *testing.T) {
	root := astNode("SourceUnit", 1, "0:50:0", nil,
		astNode("ContractDefinition", 2, "0:50:0", map[string]interface{}{
			"name":         "IThing",
			"contractKind": "interface",
		},
			astNode("FunctionDefinition", 3, "0:40:0", map[string]interface{}{
				"name":       "f",
				"visibility": "public",
			},
				astNode("ParameterList", 4, "10:2:0", nil),
				astNode("Block", 5, "20:10:0", nil),
			),
		),
	)
	raw, err := json.Marshal(root)
	require.NoError(t, err)
	doc, err := astparser.Parse(raw, "interface IThing { function f() public {} }")
	require.NoError(t, err)

	assert.Empty(t, FindPointLocations(doc))
}

// TestFindReentrancyLocations 测试状态变量赋值定位：
// 每条命中的赋值单独算一个候选
func TestFindReentrancyLocations(t *testing.T) {
	doc := vaultDoc(t)

	locations := FindReentrancyLocations(doc)
	require.Len(t, locations, 2)

	assert.Equal(t, "set", locations[0].Function.Name)
	assert.Equal(t, "total", locations[0].StateVariable)
	assert.NotEmpty(t, locations[0].AssignmentSrc)

	assert.Equal(t, "pay", locations[1].Function.Name)
	assert.Equal(t, "total", locations[1].StateVariable)
}

// TestFindReentrancyLocationsNoAssignments 测试没有状态赋值时没有重入候选
func TestFindReentrancyLocationsNoAssignments(t *testing.T) {
	doc := readOnlyDoc(t)
	assert.Empty(t, FindReentrancyLocations(doc))
}

// TestFindCoupledSets 测试 setter/executor 配对规则
func TestFindCoupledSets(t *testing.T) {
	doc := vaultDoc(t)

	sets := FindCoupledSets(doc)
	require.Len(t, sets, 1)
	assert.Equal(t, "Vault", sets[0].Contract.Name)
	assert.Equal(t, "set", sets[0].Setter.Name)
	assert.Equal(t, "pay", sets[0].Executor.Name)
}

// TestFindCoupledSetsNoPairs 测试只有一个函数时无法配对
func TestFindCoupledSetsNoPairs(t *testing.T) {
	assert.Empty(t, FindCoupledSets(ledgerDoc(t)))
	assert.Empty(t, FindCoupledSets(readOnlyDoc(t)))
}
