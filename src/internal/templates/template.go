package templates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// 注入模式
const (
	ModePoint     = "point"      // 单函数注入
	ModeCoupled   = "coupled"    // 跨函数 setter/executor 注入
	ModeStateOnly = "state_only" // 仅状态变量声明
)

// 漏洞类别
const (
	VulnReentrancy         = "REENTRANCY"
	VulnOverflow           = "OVERFLOW"
	VulnUnderflow          = "UNDERFLOW"
	VulnTxOrigin           = "TX_ORIGIN"
	VulnUncheckedSend      = "UNCHECKED_SEND"
	VulnUnhandledException = "UNHANDLED_EXCEPTION"
	VulnTimestamp          = "TIMESTAMP"
	VulnTOD                = "TOD"
	VulnDOS                = "DOS"
	VulnAccessControl      = "ACCESS_CONTROL"
)

// PointVulnTypes 单点注入支持的漏洞类型（CLI 侧小写）
var PointVulnTypes = []string{
	"reentrancy",
	"overflow",
	"underflow",
	"tx_origin",
	"unchecked_send",
	"unhandled_exception",
	"timestamp",
}

// Template 一条注入模板。point 模式用 Code，coupled 模式用 Setter/Executor，
// State 两种模式通用（合约体级别的声明片段）。
type Template struct {
	Name        string
	Description string
	Vuln        string
	MinVersion  string
	MaxVersion  string
	Mode        string

	State    string
	Code     string
	Setter   string
	Executor string

	// 模板占位符声明的变量种类（addr/uint/mapping/bool/time/amt/array）
	VarKinds []string

	NeedsAddrParam      bool
	NeedsUintParam      bool
	NeedsStateModifying bool

	RequiresPayableExecutor bool
	NeedsPayableSetter      bool
	SetterNeedsArgs         bool
}

// Registry 按注册顺序保存模板，保证同一输入下选择结果可复现
type Registry struct {
	point   []Template
	coupled []Template
}

var placeholderRe = regexp.MustCompile(`\{[a-z_]+\}`)

// NewRegistry 构建并校验模板库。占位符必须能解析：
// {indent}/{input_param}/{uint_param} 固定可用，{var_X} 要求 X 在 VarKinds 中声明。
func NewRegistry(point, coupled []Template) (*Registry, error) {
	seen := map[string]bool{}
	for setIdx, set := range [][]Template{point, coupled} {
		for i := range set {
			t := &set[i]
			if t.Name == "" {
				return nil, fmt.Errorf("template without name (vuln %s)", t.Vuln)
			}
			key := fmt.Sprintf("%d/%s", setIdx, t.Name)
			if seen[key] {
				return nil, fmt.Errorf("duplicate template name %q", t.Name)
			}
			seen[key] = true
			if err := validatePlaceholders(t); err != nil {
				return nil, fmt.Errorf("template %q: %w", t.Name, err)
			}
		}
	}
	return &Registry{point: point, coupled: coupled}, nil
}

func validatePlaceholders(t *Template) error {
	declared := map[string]bool{}
	for _, kind := range t.VarKinds {
		declared["var_"+normalizeKind(kind)] = true
	}
	for _, text := range []string{t.State, t.Code, t.Setter, t.Executor} {
		for _, ph := range placeholderRe.FindAllString(text, -1) {
			inner := strings.Trim(ph, "{}")
			switch inner {
			case "indent", "input_param", "uint_param":
				continue
			}
			if strings.HasPrefix(inner, "var_") && declared[inner] {
				continue
			}
			return fmt.Errorf("placeholder %s not declared in var kinds %v", ph, t.VarKinds)
		}
	}
	return nil
}

// Load 构建内置模板库
func Load() (*Registry, error) {
	point := append([]Template{}, pointTemplates...)
	point = append(point, reentrancyPointTemplates...)
	return NewRegistry(point, coupledTemplates)
}

// Point 返回全部单点模板（含 state_only）
func (r *Registry) Point() []Template { return r.point }

// Coupled 返回全部跨函数模板
func (r *Registry) Coupled() []Template { return r.coupled }

// FindPoint 按名字查找单点模板
func (r *Registry) FindPoint(name string) (*Template, bool) {
	for i := range r.point {
		if r.point[i].Name == name {
			return &r.point[i], true
		}
	}
	return nil, false
}

// FindCoupled 按名字查找跨函数模板
func (r *Registry) FindCoupled(name string) (*Template, bool) {
	for i := range r.coupled {
		if r.coupled[i].Name == name {
			return &r.coupled[i], true
		}
	}
	return nil, false
}

// PointForVuln 按漏洞类别过滤单点模板；vuln 为空返回全部。
// state_only 模板不参与按类别的注入选择。
func (r *Registry) PointForVuln(vuln string) []Template {
	if vuln == "" {
		return r.point
	}
	class := strings.ToUpper(vuln)
	if class == "UNHANDLED_CALL" {
		class = VulnUnhandledException
	}
	var out []Template
	for _, t := range r.point {
		if t.Vuln == class && t.Mode == ModePoint {
			out = append(out, t)
		}
	}
	return out
}

// CompatiblePoint 返回与版本和漏洞类别都兼容的单点模板
func (r *Registry) CompatiblePoint(version, vuln string) []Template {
	var out []Template
	for _, t := range r.PointForVuln(vuln) {
		if VersionCompatible(version, t.MinVersion, t.MaxVersion) {
			out = append(out, t)
		}
	}
	return out
}

// CompatibleCoupled 返回与版本兼容的跨函数模板
func (r *Registry) CompatibleCoupled(version string) []Template {
	var out []Template
	for _, t := range r.coupled {
		if VersionCompatible(version, t.MinVersion, t.MaxVersion) {
			out = append(out, t)
		}
	}
	return out
}

// VersionCompatible 判断 version 是否落在 [min, max] 区间内。
// 任一版本号解析失败时按兼容处理。
func VersionCompatible(version, minVersion, maxVersion string) bool {
	ver, ok1 := parseVersion(version)
	minV, ok2 := parseVersion(minVersion)
	maxV, ok3 := parseVersion(maxVersion)
	if !ok1 || !ok2 || !ok3 {
		return true
	}
	return compareParts(minV, ver) <= 0 && compareParts(ver, maxV) <= 0
}

func parseVersion(v string) ([]int, bool) {
	for _, prefix := range []string{"^", ">=", "<=", ">", "<", "~", "="} {
		v = strings.ReplaceAll(v, prefix, "")
	}
	v = strings.TrimSpace(v)
	parts := strings.Split(v, ".")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	var out []int
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, false
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func compareParts(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	// 前缀相同时短的视为小，与按元组比较一致
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// Apply 对模板文本做字面量占位符替换。
// Solidity 自身的花括号（如 call{value: x}）不匹配占位符形式，不受影响。
func Apply(text string, vars map[string]string, inputParam, indent string) string {
	result := text
	for placeholder, name := range vars {
		result = strings.ReplaceAll(result, "{"+placeholder+"}", name)
	}
	if inputParam != "" {
		result = strings.ReplaceAll(result, "{input_param}", inputParam)
	}
	return strings.ReplaceAll(result, "{indent}", indent)
}
