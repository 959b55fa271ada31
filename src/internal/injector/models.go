package injector

import (
	"strings"

	"github.com/VectorBits/Serpens/src/internal/astparser"
)

// Parameter 函数入参
type Parameter struct {
	Name string
	Type string
}

// Function 从 FunctionDefinition 节点提炼出的函数视图
type Function struct {
	Node            *astparser.Node
	ID              int
	Name            string
	Src             string
	BodySrc         string
	Visibility      string
	StateMutability string
	Params          []Parameter
}

// FunctionFromNode 解析函数节点。构造函数、匿名函数和无函数体的
// 声明（接口、abstract）不是注入目标，返回 false。
func FunctionFromNode(node *astparser.Node) (*Function, bool) {
	if node == nil || node.Kind != "FunctionDefinition" {
		return nil, false
	}
	name := node.AttrString("name")
	if name == "" || node.AttrBool("isConstructor") {
		return nil, false
	}

	var params []Parameter
	for _, child := range node.Children {
		if child == nil || child.Kind != "ParameterList" {
			continue
		}
		// 只取第一个 ParameterList（入参），第二个是返回值
		for _, p := range child.Children {
			if p != nil && p.Kind == "VariableDeclaration" {
				params = append(params, Parameter{
					Name: p.AttrString("name"),
					Type: p.AttrString("type"),
				})
			}
		}
		break
	}

	body := node.FirstChildOfKind("Block")
	if body == nil {
		return nil, false
	}

	return &Function{
		Node:            node,
		ID:              node.ID,
		Name:            name,
		Src:             node.Src,
		BodySrc:         body.Src,
		Visibility:      node.AttrString("visibility"),
		StateMutability: node.AttrString("stateMutability"),
		Params:          params,
	}, true
}

// IsExternallyCallable 是否可从合约外调用
func (f *Function) IsExternallyCallable() bool {
	return f.Visibility == "public" || f.Visibility == "external"
}

// IsStateModifying view/pure/constant 以外的函数都算会改状态
func (f *Function) IsStateModifying() bool {
	switch f.StateMutability {
	case "view", "pure", "constant":
		return false
	}
	return true
}

func (f *Function) IsPayable() bool {
	return f.StateMutability == "payable"
}

func (f *Function) HasParams() bool {
	return len(f.Params) > 0
}

// FirstParamOfType 返回第一个类型包含 typeSubstr 的参数名
func (f *Function) FirstParamOfType(typeSubstr string) string {
	for _, p := range f.Params {
		if strings.Contains(p.Type, typeSubstr) {
			return p.Name
		}
	}
	return ""
}

// FirstParam 返回第一个参数名，没有参数时返回空串
func (f *Function) FirstParam() string {
	if len(f.Params) > 0 {
		return f.Params[0].Name
	}
	return ""
}

// hasParamTypeContaining 大小写不敏感的参数类型匹配
func (f *Function) hasParamTypeContaining(substr string) bool {
	for _, p := range f.Params {
		if strings.Contains(strings.ToLower(p.Type), substr) {
			return true
		}
	}
	return false
}

// Contract 从 ContractDefinition 节点提炼出的合约视图
type Contract struct {
	Node *astparser.Node
	ID   int
	Name string
	Src  string
	Kind string
}

// ContractFromNode 解析合约节点，contractKind 缺省按 contract 处理
func ContractFromNode(node *astparser.Node) (*Contract, bool) {
	if node == nil || node.Kind != "ContractDefinition" {
		return nil, false
	}
	kind := node.AttrString("contractKind")
	if kind == "" {
		kind = "contract"
	}
	return &Contract{
		Node: node,
		ID:   node.ID,
		Name: node.AttrString("name"),
		Src:  node.Src,
		Kind: kind,
	}, true
}

// IsConcrete 接口和库不能持有注入的状态和逻辑
func (c *Contract) IsConcrete() bool {
	return c.Kind != "interface" && c.Kind != "library"
}

// PointLocation 单点注入候选位置及其事实标记
type PointLocation struct {
	Contract *Contract
	Function *Function

	HasParams        bool
	HasAddressParam  bool
	HasUintParam     bool
	IsPayable        bool
	IsStateModifying bool

	// 重入定位时记录命中的状态变量赋值
	StateVariable string
	AssignmentSrc string
}

// CoupledSet 同一合约内的 setter/executor 函数对
type CoupledSet struct {
	Contract *Contract
	Setter   *Function
	Executor *Function
}

// Payload 一段待拼接的注入内容
type Payload struct {
	Offset    int
	Content   []byte
	Component string
}
