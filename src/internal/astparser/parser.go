package astparser

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Document 一棵已解析的旧版 solc AST，带按 id 的节点索引
type Document struct {
	Root       *Node
	SourceCode string
	byID       map[int]*Node
}

// Parse 解析 solc --ast-json 输出的 JSON（单棵 SourceUnit 树）
func Parse(jsonContent []byte, sourceCode string) (*Document, error) {
	var root Node
	if err := json.Unmarshal(jsonContent, &root); err != nil {
		return nil, fmt.Errorf("解析 AST JSON 失败: %w", err)
	}
	if root.Kind == "" {
		return nil, fmt.Errorf("AST 根节点缺少类型标签")
	}

	doc := &Document{
		Root:       &root,
		SourceCode: sourceCode,
		byID:       make(map[int]*Node),
	}
	doc.index(&root)
	return doc, nil
}

// ParseSolcOutput 从 solc 的混合输出中抽取 AST JSON 并解析。
// solc --ast-json 会在 JSON 之前打印文件头注释行。
func ParseSolcOutput(output []byte, sourceCode string) (*Document, error) {
	text := string(output)
	jsonStart := strings.Index(text, "{")
	if jsonStart == -1 {
		return nil, fmt.Errorf("无法在 solc 输出中找到 JSON")
	}
	return Parse([]byte(text[jsonStart:]), sourceCode)
}

func (d *Document) index(n *Node) {
	if n == nil {
		return
	}
	d.byID[n.ID] = n
	for _, child := range n.Children {
		d.index(child)
	}
}

// FindByID 按节点 id 查找
func (d *Document) FindByID(id int) (*Node, bool) {
	n, ok := d.byID[id]
	return n, ok
}

// Walk 先序遍历整棵树，fn 返回 false 时跳过该节点的子树
func (d *Document) Walk(fn func(*Node) bool) {
	walk(d.Root, fn)
}

func walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		walk(child, fn)
	}
}

// FindByKind 返回所有指定种类的节点（先序）
func (d *Document) FindByKind(kind string) []*Node {
	var out []*Node
	d.Walk(func(n *Node) bool {
		if n.Kind == kind {
			out = append(out, n)
		}
		return true
	})
	return out
}

// FindByKindIn 在指定子树内查找
func FindByKindIn(root *Node, kind string) []*Node {
	var out []*Node
	walk(root, func(n *Node) bool {
		if n.Kind == kind {
			out = append(out, n)
		}
		return true
	})
	return out
}

// declarationKinds 带有自身名字的声明节点种类
var declarationKinds = map[string]bool{
	"ContractDefinition":  true,
	"FunctionDefinition":  true,
	"VariableDeclaration": true,
	"EventDefinition":     true,
	"ModifierDefinition":  true,
	"StructDefinition":    true,
	"EnumDefinition":      true,
}

// Identifiers 收集全文件已占用的标识符名，供新变量起名时避撞
func (d *Document) Identifiers() map[string]bool {
	names := make(map[string]bool)
	d.Walk(func(n *Node) bool {
		if declarationKinds[n.Kind] || n.Kind == "Identifier" {
			if name := n.AttrString("name"); name != "" {
				names[name] = true
			}
		}
		return true
	})
	return names
}

// StateVariables 返回合约状态变量的 id -> 名字 映射
func StateVariables(contract *Node) map[int]string {
	vars := make(map[int]string)
	if contract == nil {
		return vars
	}
	for _, child := range contract.Children {
		if child == nil || child.Kind != "VariableDeclaration" {
			continue
		}
		if child.AttrBool("stateVariable") {
			if name := child.AttrString("name"); name != "" {
				vars[child.ID] = name
			}
		}
	}
	return vars
}

// SourceRange 返回 src 范围对应的源码片段，越界时返回空串
func (d *Document) SourceRange(src string) string {
	loc, err := ParseSrc(src)
	if err != nil {
		return ""
	}
	if loc.Offset < 0 || loc.Offset >= len(d.SourceCode) || loc.End() > len(d.SourceCode) {
		return ""
	}
	return d.SourceCode[loc.Offset:loc.End()]
}
