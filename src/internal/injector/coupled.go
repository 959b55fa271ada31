package injector

import (
	"fmt"
	"strings"

	"github.com/VectorBits/Serpens/src/internal/astparser"
	"github.com/VectorBits/Serpens/src/internal/logger"
	"github.com/VectorBits/Serpens/src/internal/templates"
)

// CoupledInjector 跨函数注入：漏洞拆成状态声明、setter 片段和
// executor 片段，三段分别落进合约体和两个函数体。
type CoupledInjector struct {
	doc      *astparser.Document
	content  []byte
	version  string
	registry *templates.Registry
	selector Selector
}

func NewCoupledInjector(doc *astparser.Document, content []byte, version string, registry *templates.Registry, selector Selector) *CoupledInjector {
	return &CoupledInjector{
		doc:      doc,
		content:  content,
		version:  version,
		registry: registry,
		selector: selector,
	}
}

// FindLocations 枚举全部 setter/executor 对
func (ci *CoupledInjector) FindLocations() []CoupledSet {
	return FindCoupledSets(ci.doc)
}

func templateFitsSet(t *templates.Template, set CoupledSet) bool {
	if t.SetterNeedsArgs && !set.Setter.HasParams() {
		return false
	}
	if t.RequiresPayableExecutor && !set.Executor.IsPayable() {
		return false
	}
	if t.NeedsPayableSetter && !set.Setter.IsPayable() {
		return false
	}
	if t.NeedsAddrParam && set.Setter.HasParams() && !set.Setter.hasParamTypeContaining("address") {
		return false
	}
	if t.NeedsUintParam && set.Setter.HasParams() && !set.Setter.hasParamTypeContaining("uint") {
		return false
	}
	// addr 变量的模板会把参数写进状态，setter 有参数时要求其中有地址
	for _, kind := range t.VarKinds {
		if kind == "addr" && set.Setter.HasParams() && !set.Setter.hasParamTypeContaining("address") {
			return false
		}
	}
	return true
}

type coupledCandidate struct {
	set  CoupledSet
	tmpl templates.Template
}

// Inject 执行跨函数注入。显式指定的模板名必须精确命中，
// 不做静默替换。
func (ci *CoupledInjector) Inject(templateName string) (*Result, error) {
	sets := ci.FindLocations()
	if len(sets) == 0 {
		return nil, ErrNoLocations
	}
	logger.Info("发现 %d 个候选 setter/executor 函数对", len(sets))

	var compatible []templates.Template
	if templateName != "" {
		named, ok := ci.registry.FindCoupled(templateName)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTemplate, templateName)
		}
		if !templates.VersionCompatible(ci.version, named.MinVersion, named.MaxVersion) {
			return nil, fmt.Errorf("%w: %s requires solidity [%s, %s], contract uses %s",
				ErrTemplateVersionMismatch, templateName, named.MinVersion, named.MaxVersion, ci.version)
		}
		compatible = []templates.Template{*named}
	} else {
		compatible = ci.registry.CompatibleCoupled(ci.version)
		if len(compatible) == 0 {
			return nil, fmt.Errorf("%w: solidity %s", ErrNoCompatibleTemplate, ci.version)
		}
	}

	var valid []coupledCandidate
	for _, set := range sets {
		for _, t := range compatible {
			if templateFitsSet(&t, set) {
				valid = append(valid, coupledCandidate{set: set, tmpl: t})
			}
		}
	}
	if len(valid) == 0 {
		if templateName != "" {
			return nil, fmt.Errorf("%w: template %s fits no setter/executor pair",
				ErrTemplateIncompatible, templateName)
		}
		return nil, fmt.Errorf("%w: no set matches template requirements", ErrNoCompatibleTemplate)
	}
	logger.Info("共 %d 个可行的 位置×模板 组合", len(valid))

	chosen := valid[ci.selector.Pick(len(valid))]
	set, tmpl := chosen.set, chosen.tmpl

	existing := ci.doc.Identifiers()
	names := templates.GenerateCoupledNames(tmpl.VarKinds, existing, ci.selector)

	logger.Info("注入计划: %s -> %s（setter=%s, executor=%s）",
		tmpl.Name, set.Contract.Name, set.Setter.Name, set.Executor.Name)

	inputParam := coupledInputParam(&tmpl, set.Setter)

	contractOffset := ContractBodyOffset(ci.content, set.Contract)
	setterOffset := FunctionBodyOffset(set.Setter)
	executorOffset := FunctionBodyOffset(set.Executor)
	if contractOffset == -1 || setterOffset == -1 || executorOffset == -1 {
		return nil, fmt.Errorf("%w: contract %s", ErrUnresolvedRange, set.Contract.Name)
	}

	stateIndent := DetectIndentation(ci.content, contractOffset)
	setterIndent := DetectIndentation(ci.content, setterOffset)
	executorIndent := DetectIndentation(ci.content, executorOffset)

	stateCode := templates.Apply(tmpl.State, names, inputParam, stateIndent)
	setterCode := templates.Apply(tmpl.Setter, names, inputParam, setterIndent)
	executorCode := templates.Apply(tmpl.Executor, names, inputParam, executorIndent)

	payloads := []Payload{
		{Offset: contractOffset, Content: []byte("\n" + stateIndent + stateCode + "\n"), Component: "state"},
		{Offset: setterOffset, Content: []byte("\n" + setterIndent + setterCode + "\n" + setterIndent), Component: "setter"},
		{Offset: executorOffset, Content: []byte("\n" + executorIndent + executorCode + "\n" + executorIndent), Component: "executor"},
	}

	modified, regions, err := Splice(ci.content, payloads)
	if err != nil {
		return nil, err
	}

	logger.Info("✅ 跨函数注入完成: %s (%s)", tmpl.Name, tmpl.Vuln)
	return &Result{
		Content:  modified,
		Regions:  regions,
		Template: tmpl.Name,
		Vuln:     strings.ToLower(tmpl.Vuln),
		Mode:     templates.ModeCoupled,
		Contract: set.Contract.Name,
		Setter:   set.Setter.Name,
		Executor: set.Executor.Name,
	}, nil
}

func coupledInputParam(t *templates.Template, setter *Function) string {
	if t.NeedsUintParam {
		return firstNonEmpty(setter.FirstParamOfType("uint"), "1")
	}
	if t.NeedsAddrParam {
		return firstNonEmpty(setter.FirstParamOfType("address"), "msg.sender")
	}
	return firstNonEmpty(setter.FirstParamOfType("address"), setter.FirstParam(), "msg.sender")
}
