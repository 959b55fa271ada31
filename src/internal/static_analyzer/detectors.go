package static_analyzer

import "strings"

// slitherDetectorsByVuln 每种漏洞类型对应的 Slither 检测器
// overflow/underflow 为空：Slither 不做整数溢出检测
var slitherDetectorsByVuln = map[string][]string{
	"overflow":            {},
	"underflow":           {},
	"tx_origin":           {"tx-origin"},
	"unchecked_send":      {"unchecked-send"},
	"unhandled_exception": {"unchecked-lowlevel"},
	"timestamp":           {"timestamp"},
	"reentrancy": {
		"reentrancy-eth",
		"reentrancy-no-eth",
		"reentrancy-benign",
		"reentrancy-unlimited-gas",
		"reentrancy-events",
	},
}

// swcByVuln SWC Registry 编号，供 Mythril 一类按 SWC 汇报的工具使用
var swcByVuln = map[string][]string{
	"overflow":            {"101"},
	"underflow":           {"101"},
	"tx_origin":           {"115"},
	"unchecked_send":      {"104"},
	"unhandled_exception": {"104"},
	"timestamp":           {"116"},
	"reentrancy":          {"107"},
}

// slitherIgnoreDetectors 信息级告警，不算漏洞
var slitherIgnoreDetectors = map[string]bool{
	"solc-version":            true,
	"naming-convention":       true,
	"pragma":                  true,
	"external-function":       true,
	"dead-code":               true,
	"constable-states":        true,
	"immutable-states":        true,
	"low-level-calls":         true,
	"deprecated-standards":    true,
	"assembly":                true,
	"controlled-array-length": true,
	"too-many-digits":         true,
	"similar-names":           true,
	"unused-state":            true,
	"events-maths":            true,
	"missing-zero-check":      true,
}

func ExpectedSlitherDetectors(vulnType string) []string {
	return slitherDetectorsByVuln[strings.ToLower(vulnType)]
}

func ExpectedSWCIDs(vulnType string) []string {
	return swcByVuln[strings.ToLower(vulnType)]
}

func FilterRelevantDetectors(detectors []string) []string {
	relevant := make([]string, 0, len(detectors))
	for _, d := range detectors {
		if !slitherIgnoreDetectors[d] {
			relevant = append(relevant, d)
		}
	}
	return relevant
}

// IsDetectionCorrect 判断检测结果是否命中预期
// Slither 不检测 overflow/underflow，这两类视为通过
func IsDetectionCorrect(vulnType string, detectedItems []string, tool string) bool {
	vulnType = strings.ToLower(vulnType)

	switch strings.ToLower(tool) {
	case "slither":
		if vulnType == "overflow" || vulnType == "underflow" {
			return true
		}

		expected := ExpectedSlitherDetectors(vulnType)
		if len(expected) == 0 {
			return true
		}

		relevant := make(map[string]bool)
		for _, d := range FilterRelevantDetectors(detectedItems) {
			relevant[d] = true
		}
		for _, exp := range expected {
			if relevant[exp] {
				return true
			}
		}
		return false

	case "mythril":
		expected := ExpectedSWCIDs(vulnType)
		for _, exp := range expected {
			for _, item := range detectedItems {
				if item == exp {
					return true
				}
			}
		}
		return false
	}

	return false
}
