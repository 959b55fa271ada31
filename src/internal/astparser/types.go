package astparser

import (
	"fmt"
	"strconv"
	"strings"
)

// 旧版 solc AST 格式（solc --ast-json）：
// {"name": "FunctionDefinition", "id": 12, "src": "120:86:0",
//  "attributes": {...}, "children": [...]}
// 其中 "name" 是节点种类标签，节点自己的名字放在 attributes.name 里。
type Node struct {
	Kind       string                 `json:"name"`
	ID         int                    `json:"id"`
	Src        string                 `json:"src"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
	Children   []*Node                `json:"children,omitempty"`
}

// SrcLocation 源码范围，对应 src 字段的 "offset:length:fileIndex"
type SrcLocation struct {
	Offset    int
	Length    int
	FileIndex int
}

func (l SrcLocation) End() int {
	return l.Offset + l.Length
}

// ParseSrc 解析 "offset:length:fileIndex" 形式的源码范围
func ParseSrc(src string) (SrcLocation, error) {
	parts := strings.Split(src, ":")
	if len(parts) < 2 {
		return SrcLocation{}, fmt.Errorf("invalid src location %q", src)
	}
	offset, err := strconv.Atoi(parts[0])
	if err != nil {
		return SrcLocation{}, fmt.Errorf("invalid src offset in %q: %w", src, err)
	}
	length, err := strconv.Atoi(parts[1])
	if err != nil {
		return SrcLocation{}, fmt.Errorf("invalid src length in %q: %w", src, err)
	}
	loc := SrcLocation{Offset: offset, Length: length}
	if len(parts) >= 3 {
		if idx, err := strconv.Atoi(parts[2]); err == nil {
			loc.FileIndex = idx
		}
	}
	return loc, nil
}

// Location 返回节点的源码范围；src 缺失或畸形时返回 false
func (n *Node) Location() (SrcLocation, bool) {
	if n == nil || n.Src == "" {
		return SrcLocation{}, false
	}
	loc, err := ParseSrc(n.Src)
	if err != nil {
		return SrcLocation{}, false
	}
	return loc, true
}

// AttrString 读取 attributes 中的字符串字段，缺失时返回空串
func (n *Node) AttrString(key string) string {
	if n == nil || n.Attributes == nil {
		return ""
	}
	if v, ok := n.Attributes[key].(string); ok {
		return v
	}
	return ""
}

// AttrBool 读取 attributes 中的布尔字段
func (n *Node) AttrBool(key string) bool {
	if n == nil || n.Attributes == nil {
		return false
	}
	if v, ok := n.Attributes[key].(bool); ok {
		return v
	}
	return false
}

// AttrInt 读取 attributes 中的整数字段。
// encoding/json 把 JSON 数字解码成 float64，这里统一转回 int。
func (n *Node) AttrInt(key string) (int, bool) {
	if n == nil || n.Attributes == nil {
		return 0, false
	}
	switch v := n.Attributes[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// FirstChildOfKind 返回第一个指定种类的直接子节点
func (n *Node) FirstChildOfKind(kind string) *Node {
	if n == nil {
		return nil
	}
	for _, child := range n.Children {
		if child != nil && child.Kind == kind {
			return child
		}
	}
	return nil
}
