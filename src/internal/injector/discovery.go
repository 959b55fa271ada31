package injector

import (
	"github.com/VectorBits/Serpens/src/internal/astparser"
)

// FindContracts 按文档顺序返回全部合约
func FindContracts(doc *astparser.Document) []*Contract {
	var contracts []*Contract
	for _, node := range doc.FindByKind("ContractDefinition") {
		if c, ok := ContractFromNode(node); ok {
			contracts = append(contracts, c)
		}
	}
	return contracts
}

// FunctionsInContract 返回合约直接子节点里的可注入函数
func FunctionsInContract(contract *Contract) []*Function {
	var funcs []*Function
	for _, child := range contract.Node.Children {
		if f, ok := FunctionFromNode(child); ok {
			funcs = append(funcs, f)
		}
	}
	return funcs
}

func pointLocationFor(contract *Contract, fn *Function) PointLocation {
	return PointLocation{
		Contract:         contract,
		Function:         fn,
		HasParams:        fn.HasParams(),
		HasAddressParam:  fn.hasParamTypeContaining("address"),
		HasUintParam:     fn.hasParamTypeContaining("uint"),
		IsPayable:        fn.IsPayable(),
		IsStateModifying: fn.IsStateModifying(),
	}
}

// FindPointLocations 枚举所有具体合约里对外可调的函数。
// 同一文档上重复调用结果相同。
func FindPointLocations(doc *astparser.Document) []PointLocation {
	var locations []PointLocation
	for _, contract := range FindContracts(doc) {
		if !contract.IsConcrete() {
			continue
		}
		for _, fn := range FunctionsInContract(contract) {
			if !fn.IsExternallyCallable() {
				continue
			}
			if fn.BodySrc == "" {
				continue
			}
			locations = append(locations, pointLocationFor(contract, fn))
		}
	}
	return locations
}

// FindReentrancyLocations 找会给状态变量赋值的对外可调函数。
// 每条命中的赋值单独算一个候选位置。
func FindReentrancyLocations(doc *astparser.Document) []PointLocation {
	stateVars := map[int]string{}
	for _, contract := range doc.FindByKind("ContractDefinition") {
		for id, name := range astparser.StateVariables(contract) {
			stateVars[id] = name
		}
	}

	var locations []PointLocation
	for _, contract := range FindContracts(doc) {
		funcs := FunctionsInContract(contract)
		for _, fn := range funcs {
			if !fn.IsExternallyCallable() || !fn.IsStateModifying() {
				continue
			}
			for _, assign := range astparser.FindByKindIn(fn.Node, "Assignment") {
				varName, ok := assignmentTarget(assign, stateVars)
				if !ok {
					continue
				}
				loc := pointLocationFor(contract, fn)
				loc.StateVariable = varName
				loc.AssignmentSrc = assign.Src
				locations = append(locations, loc)
			}
		}
	}
	return locations
}

// assignmentTarget 判断赋值左值是否落在状态变量上。
// 直接标识符和 mapping[key] / obj.field 两种形态都认。
func assignmentTarget(assignment *astparser.Node, stateVars map[int]string) (string, bool) {
	if len(assignment.Children) == 0 {
		return "", false
	}
	lhs := assignment.Children[0]
	if lhs == nil {
		return "", false
	}

	if lhs.Kind == "Identifier" {
		if ref, ok := lhs.AttrInt("referencedDeclaration"); ok {
			if name, found := stateVars[ref]; found {
				return name, true
			}
		}
		return "", false
	}

	if lhs.Kind == "IndexAccess" || lhs.Kind == "MemberAccess" {
		if len(lhs.Children) == 0 {
			return "", false
		}
		base := lhs.Children[0]
		if base != nil && base.Kind == "Identifier" {
			if ref, ok := base.AttrInt("referencedDeclaration"); ok {
				if name, found := stateVars[ref]; found {
					return name, true
				}
			}
		}
	}
	return "", false
}

// FindCoupledSets 枚举 setter/executor 函数对。setter 要能改状态且有参数，
// executor 要能改状态且是 payable 或无参；同一函数不与自己配对。
func FindCoupledSets(doc *astparser.Document) []CoupledSet {
	var sets []CoupledSet
	for _, contract := range FindContracts(doc) {
		if !contract.IsConcrete() {
			continue
		}
		funcs := FunctionsInContract(contract)

		var setters, executors []*Function
		for _, fn := range funcs {
			if !fn.IsExternallyCallable() || !fn.IsStateModifying() {
				continue
			}
			if fn.HasParams() {
				setters = append(setters, fn)
			}
			if fn.IsPayable() || !fn.HasParams() {
				executors = append(executors, fn)
			}
		}

		for _, setter := range setters {
			for _, executor := range executors {
				if setter.ID == executor.ID {
					continue
				}
				sets = append(sets, CoupledSet{
					Contract: contract,
					Setter:   setter,
					Executor: executor,
				})
			}
		}
	}
	return sets
}
