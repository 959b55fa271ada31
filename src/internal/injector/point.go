package injector

import (
	"fmt"
	"strings"

	"github.com/VectorBits/Serpens/src/internal/astparser"
	"github.com/VectorBits/Serpens/src/internal/logger"
	"github.com/VectorBits/Serpens/src/internal/templates"
)

// Result 一次注入的产物：改写后的源码和每段载荷在输出里的位置
type Result struct {
	Content  []byte
	Regions  []AppliedRegion
	Template string
	Vuln     string
	Mode     string
	Contract string

	// point 模式的目标函数
	Function string

	// coupled 模式的函数对
	Setter   string
	Executor string
}

// PointInjector 单点注入：选一个对外可调的函数，在函数体开头插入
// 漏洞代码，必要时在合约体插入配套状态声明。
type PointInjector struct {
	doc      *astparser.Document
	content  []byte
	version  string
	registry *templates.Registry
	selector Selector
}

func NewPointInjector(doc *astparser.Document, content []byte, version string, registry *templates.Registry, selector Selector) *PointInjector {
	return &PointInjector{
		doc:      doc,
		content:  content,
		version:  version,
		registry: registry,
		selector: selector,
	}
}

// FindLocations 列出候选注入位置。重入类型额外要求函数里有状态变量赋值。
func (pi *PointInjector) FindLocations(vulnType string) []PointLocation {
	if strings.EqualFold(vulnType, "reentrancy") {
		return FindReentrancyLocations(pi.doc)
	}
	return FindPointLocations(pi.doc)
}

func templateFitsLocation(t *templates.Template, loc PointLocation) bool {
	if t.NeedsAddrParam && !loc.HasAddressParam {
		return false
	}
	if t.NeedsUintParam && !loc.HasUintParam {
		return false
	}
	if t.NeedsStateModifying && !loc.IsStateModifying {
		return false
	}
	// 状态声明带辅助函数，注入进 view/pure 函数所在位置没有意义
	if t.State != "" && !loc.IsStateModifying {
		return false
	}
	return true
}

// AvailableVulnTypes 给定位置上有可用模板的漏洞类型
func (pi *PointInjector) AvailableVulnTypes(loc PointLocation) []string {
	var available []string
	for _, vt := range templates.PointVulnTypes {
		for _, t := range pi.registry.CompatiblePoint(pi.version, vt) {
			if templateFitsLocation(&t, loc) {
				available = append(available, vt)
				break
			}
		}
	}
	return available
}

// Inject 执行单点注入。vulnType 为空时自动选一个可行的类型，
// templateName 为空时由 selector 在可行模板里挑选；显式指定的
// 模板名必须精确命中，不做静默替换。
func (pi *PointInjector) Inject(vulnType, templateName string) (*Result, error) {
	named, err := pi.resolveNamedTemplate(vulnType, templateName)
	if err != nil {
		return nil, err
	}
	if named != nil && vulnType == "" {
		vulnType = strings.ToLower(named.Vuln)
	}

	locations := pi.FindLocations(vulnType)
	if len(locations) == 0 {
		return nil, ErrNoLocations
	}

	selected := locations[pi.selector.Pick(len(locations))]
	logger.Info("选中注入位置 %s.%s（候选共 %d 处）",
		selected.Contract.Name, selected.Function.Name, len(locations))

	if vulnType == "" {
		available := pi.AvailableVulnTypes(selected)
		if len(available) == 0 {
			return nil, fmt.Errorf("%w: no vulnerability type fits %s.%s",
				ErrNoCompatibleTemplate, selected.Contract.Name, selected.Function.Name)
		}
		vulnType = available[pi.selector.Pick(len(available))]
		logger.Info("自动选择漏洞类型: %s", vulnType)
	}

	var tmpl *templates.Template
	if named != nil {
		if !templateFitsLocation(named, selected) {
			return nil, fmt.Errorf("%w: template %s does not fit function %s",
				ErrTemplateIncompatible, named.Name, selected.Function.Name)
		}
		tmpl = named
	} else {
		compatible := pi.registry.CompatiblePoint(pi.version, vulnType)
		if len(compatible) == 0 {
			return nil, fmt.Errorf("%w: solidity %s, vuln type %s",
				ErrNoCompatibleTemplate, pi.version, vulnType)
		}

		var fitted []templates.Template
		for _, t := range compatible {
			if templateFitsLocation(&t, selected) {
				fitted = append(fitted, t)
			}
		}
		if len(fitted) == 0 {
			return nil, fmt.Errorf("%w: no template fits function %s",
				ErrNoCompatibleTemplate, selected.Function.Name)
		}
		tmpl = &fitted[pi.selector.Pick(len(fitted))]
	}

	existing := pi.doc.Identifiers()
	names := templates.GeneratePointNames(tmpl.VarKinds, existing, pi.selector)

	fn := selected.Function
	inputParam := firstNonEmpty(fn.FirstParamOfType("address"), fn.FirstParam(), "msg.sender")
	uintParam := firstNonEmpty(fn.FirstParamOfType("uint"), "1")

	funcOffset := FunctionBodyOffset(fn)
	if funcOffset == -1 {
		return nil, fmt.Errorf("%w: function %s has no body offset", ErrUnresolvedRange, fn.Name)
	}
	funcIndent := DetectIndentation(pi.content, funcOffset)

	var payloads []Payload
	if tmpl.State != "" {
		contractOffset := ContractBodyOffset(pi.content, selected.Contract)
		if contractOffset == -1 {
			return nil, fmt.Errorf("%w: contract %s has no body brace",
				ErrUnresolvedRange, selected.Contract.Name)
		}
		stateIndent := DetectIndentation(pi.content, contractOffset)
		stateCode := templates.Apply(tmpl.State, names, inputParam, stateIndent)
		payloads = append(payloads, Payload{
			Offset:    contractOffset,
			Content:   []byte("\n" + stateIndent + stateCode + "\n"),
			Component: "state",
		})
	}

	code := strings.ReplaceAll(tmpl.Code, "{uint_param}", uintParam)
	code = templates.Apply(code, names, inputParam, funcIndent)
	payloads = append(payloads, Payload{
		Offset:    funcOffset,
		Content:   []byte("\n" + funcIndent + code + "\n" + funcIndent),
		Component: "vulnerable_code",
	})

	modified, regions, err := Splice(pi.content, payloads)
	if err != nil {
		return nil, err
	}

	logger.Info("✅ 注入完成: %s (%s)", tmpl.Name, tmpl.Vuln)
	return &Result{
		Content:  modified,
		Regions:  regions,
		Template: tmpl.Name,
		Vuln:     strings.ToLower(tmpl.Vuln),
		Mode:     templates.ModePoint,
		Contract: selected.Contract.Name,
		Function: fn.Name,
	}, nil
}

// resolveNamedTemplate 显式指定的模板名按精确匹配解析：名字不存在、
// 漏洞类别不符、版本区间不含当前版本时分别报告具体原因。
func (pi *PointInjector) resolveNamedTemplate(vulnType, name string) (*templates.Template, error) {
	if name == "" {
		return nil, nil
	}
	t, ok := pi.registry.FindPoint(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}
	if t.Mode != templates.ModePoint {
		return nil, fmt.Errorf("%w: %s is not a point-mode template",
			ErrTemplateIncompatible, name)
	}
	if vulnType != "" {
		match := false
		for _, c := range pi.registry.PointForVuln(vulnType) {
			if c.Name == name {
				match = true
				break
			}
		}
		if !match {
			return nil, fmt.Errorf("%w: template %s is not a %s template",
				ErrTemplateIncompatible, name, vulnType)
		}
	}
	if !templates.VersionCompatible(pi.version, t.MinVersion, t.MaxVersion) {
		return nil, fmt.Errorf("%w: %s requires solidity [%s, %s], contract uses %s",
			ErrTemplateVersionMismatch, name, t.MinVersion, t.MaxVersion, pi.version)
	}
	return t, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
