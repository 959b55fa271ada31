package templates

import "fmt"

// Picker 从 n 个候选里选一个下标。由调用方注入，
// 测试里可以用恒选 0 的实现获得可复现的结果。
type Picker interface {
	Pick(n int) int
}

// 变量名池。名字刻意写得像业务代码，不带任何漏洞痕迹。

var uintVarNames = []string{
	"amount", "value", "balance", "total", "count", "limit",
	"threshold", "allocation", "deposit", "fee", "reward",
}

var addrVarNames = []string{
	"recipient", "sender", "account", "target", "destination",
	"beneficiary", "payee", "delegate", "handler", "controller",
}

var mappingVarNames = []string{
	"balances", "deposits", "allocations", "credits", "amounts",
	"userBalances", "accountValues", "pendingPayouts", "reserves",
}

var boolVarNames = []string{
	"isActive", "isEnabled", "isValid", "isProcessed", "isComplete",
	"hasExecuted", "canWithdraw", "isAuthorized", "isLocked",
}

var timeVarNames = []string{
	"lockTime", "releaseTime", "expirationTime", "deadline",
	"cooldownEnd", "unlockTime", "scheduledTime", "activeUntil",
}

// 跨函数模板用的变量名池，地址名由前缀和后缀拼出

var coupledAddrPrefixes = []string{
	"pending", "current", "last", "next", "active", "primary", "default",
	"registered", "approved", "verified", "authorized", "delegated",
}

var coupledAddrSuffixes = []string{
	"Recipient", "Account", "Address", "Wallet", "Handler", "Manager",
	"Controller", "Target", "Destination", "Payee", "Holder", "Owner",
}

var amountVarNames = []string{
	"pendingAmount", "currentBalance", "reservedFunds", "allocatedValue",
	"depositAmount", "withdrawalLimit", "transferAmount", "payoutValue",
}

var coupledTimeVarNames = []string{
	"releaseTime", "lockPeriod", "expirationTime", "activationTime",
	"cooldownEnd", "nextAllowedTime", "scheduledTime", "unlockTimestamp",
}

var arrayVarNames = []string{
	"participants", "members", "registeredUsers", "activeAccounts",
	"pendingRecipients", "queuedAddresses", "enrolledUsers", "subscribers",
}

var coupledMappingVarNames = []string{
	"balances", "deposits", "allocations", "contributions",
	"pendingPayouts", "userCredits", "accountValues", "reservedAmounts",
}

func pickFrom(pool []string, p Picker) string {
	return pool[p.Pick(len(pool))]
}

// normalizeKind 统一变量种类拼写，"address" 是 "addr" 的别名
func normalizeKind(kind string) string {
	if kind == "address" {
		return "addr"
	}
	return kind
}

func pointGenerator(kind string, p Picker) func() string {
	switch kind {
	case "addr":
		return func() string { return pickFrom(addrVarNames, p) }
	case "uint":
		return func() string { return pickFrom(uintVarNames, p) }
	case "mapping":
		return func() string { return pickFrom(mappingVarNames, p) }
	case "bool":
		return func() string { return pickFrom(boolVarNames, p) }
	case "time":
		return func() string { return pickFrom(timeVarNames, p) }
	}
	return nil
}

func coupledGenerator(kind string, p Picker) func() string {
	switch kind {
	case "addr":
		return func() string {
			return pickFrom(coupledAddrPrefixes, p) + pickFrom(coupledAddrSuffixes, p)
		}
	case "time":
		return func() string { return pickFrom(coupledTimeVarNames, p) }
	case "amt":
		return func() string { return pickFrom(amountVarNames, p) }
	case "array":
		return func() string { return pickFrom(arrayVarNames, p) }
	case "mapping":
		return func() string { return pickFrom(coupledMappingVarNames, p) }
	case "bool":
		return func() string { return pickFrom(boolVarNames, p) }
	case "uint":
		return func() string { return pickFrom(uintVarNames, p) }
	}
	return nil
}

// 名字生成时各种类的处理顺序是固定的，保证结果可复现
var pointKindOrder = []string{"addr", "uint", "mapping", "bool", "time"}
var coupledKindOrder = []string{"addr", "time", "amt", "array", "mapping", "bool", "uint"}

const maxNameAttempts = 50

func uniqueName(gen func() string, used map[string]bool, p Picker) string {
	for i := 0; i < maxNameAttempts; i++ {
		name := gen()
		if !used[name] {
			return name
		}
	}
	// 池子被占满时退回随机后缀
	return fmt.Sprintf("%s%d", gen(), 1+p.Pick(999))
}

func generateNames(kinds []string, existing map[string]bool, p Picker, order []string, genFor func(string, Picker) func() string) map[string]string {
	wanted := map[string]bool{}
	for _, k := range kinds {
		wanted[normalizeKind(k)] = true
	}

	used := make(map[string]bool, len(existing))
	for name := range existing {
		used[name] = true
	}

	names := map[string]string{}
	for _, kind := range order {
		if !wanted[kind] {
			continue
		}
		gen := genFor(kind, p)
		if gen == nil {
			continue
		}
		name := uniqueName(gen, used, p)
		names["var_"+kind] = name
		used[name] = true
	}
	return names
}

// GeneratePointNames 为单点模板生成不与现有标识符冲突的变量名
func GeneratePointNames(kinds []string, existing map[string]bool, p Picker) map[string]string {
	return generateNames(kinds, existing, p, pointKindOrder, pointGenerator)
}

// GenerateCoupledNames 为跨函数模板生成变量名
func GenerateCoupledNames(kinds []string, existing map[string]bool, p Picker) map[string]string {
	return generateNames(kinds, existing, p, coupledKindOrder, coupledGenerator)
}
