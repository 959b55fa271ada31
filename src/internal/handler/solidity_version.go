package handler

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultVersion 检测不到 pragma 时使用的编译器版本
const DefaultVersion = "0.4.18"

var (
	pragmaRe      = regexp.MustCompile(`pragma\s+solidity\s+([\^>=<\.\d\s~]+);`)
	versionRe     = regexp.MustCompile(`(\d+\.\d+\.\d+|\d+\.\d+)`)
	viewPureRe    = regexp.MustCompile(`\b(view|pure)\b`)
	constructorRe = regexp.MustCompile(`\bconstructor\s*\(`)
	emitRe        = regexp.MustCompile(`\bemit\s+\w+`)
)

// DetectVersion 从源码的 pragma 声明推断编译器版本。
// 多个声明取其中最高的版本以满足全部约束；0.4.11 以下上调到
// 0.4.11；用到了更新语法特性的源码按特性再上调。
// 没有任何 pragma 时返回空串，由调用方决定缺省。
func DetectVersion(sourceCode string) string {
	matches := pragmaRe.FindAllStringSubmatch(sourceCode, -1)
	if len(matches) == 0 {
		return ""
	}

	var versions []string
	for _, m := range matches {
		if v := parseVersionConstraint(strings.TrimSpace(m[1])); v != "" {
			versions = append(versions, v)
		}
	}
	if len(versions) == 0 {
		return ""
	}

	selected := versions[0]
	for _, v := range versions[1:] {
		if compareVersions(v, selected) > 0 {
			selected = v
		}
	}

	selected = normalizeSolidityVersion(selected)

	// solc 可安装的最低版本
	if compareVersions(selected, "0.4.11") < 0 {
		selected = "0.4.11"
	}

	if needed := minimumVersionFromFeatures(sourceCode); needed != "" {
		if compareVersions(needed, selected) > 0 {
			selected = needed
		}
	}

	return selected
}

// parseVersionConstraint 从一条 pragma 的约束表达式里挑出版本号。
// ^ ~ >= 等前缀和区间约束都取下界，由上层再取全文件的最大值。
func parseVersionConstraint(constraint string) string {
	versions := versionRe.FindAllString(constraint, -1)
	if len(versions) == 0 {
		return ""
	}
	return versions[0]
}

// minimumVersionFromFeatures 根据语法特性推断的最低版本。
// view/pure 是 0.4.16 引入的，emit 是 0.4.21，constructor 关键字是 0.4.22。
func minimumVersionFromFeatures(sourceCode string) string {
	if viewPureRe.MatchString(sourceCode) {
		return "0.4.16"
	}
	if constructorRe.MatchString(sourceCode) {
		return "0.4.22"
	}
	if emitRe.MatchString(sourceCode) {
		return "0.4.21"
	}
	return ""
}

// UpgradePragma 把下界低于 version 的 pragma 约束改写成 ^version。
// 太旧的精确约束会让选定的编译器拒绝编译，改写后偏移量
// 以改写过的源码为准。
func UpgradePragma(sourceCode, version string) string {
	return pragmaRe.ReplaceAllStringFunc(sourceCode, func(match string) string {
		sub := pragmaRe.FindStringSubmatch(match)
		if len(sub) < 2 {
			return match
		}
		declared := parseVersionConstraint(strings.TrimSpace(sub[1]))
		if declared == "" {
			return match
		}
		if compareVersions(normalizeSolidityVersion(declared), version) >= 0 {
			return match
		}
		return "pragma solidity ^" + version + ";"
	})
}

func compareVersions(v1, v2 string) int {
	parts1 := strings.Split(v1, ".")
	parts2 := strings.Split(v2, ".")

	for i := 0; i < 3; i++ {
		var p1, p2 int
		if i < len(parts1) {
			p1, _ = strconv.Atoi(parts1[i])
		}
		if i < len(parts2) {
			p2, _ = strconv.Atoi(parts2[i])
		}

		if p1 > p2 {
			return 1
		} else if p1 < p2 {
			return -1
		}
	}

	return 0
}

func normalizeSolidityVersion(version string) string {
	parts := strings.Split(version, ".")
	if len(parts) == 2 {
		return version + ".0"
	}
	return version
}
