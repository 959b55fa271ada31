package static_analyzer

import "time"

type AnalysisResult struct {
	Detectors []Detector `json:"detectors"`
}

type Detector struct {
	Check       string `json:"check"`
	Impact      string `json:"impact"`
	Confidence  string `json:"confidence"`
	Description string `json:"description"`
}

// DetectorNames 去重后的检测器名称，保持首次出现顺序
func (r *AnalysisResult) DetectorNames() []string {
	seen := make(map[string]bool)
	names := make([]string, 0, len(r.Detectors))
	for _, d := range r.Detectors {
		if d.Check == "" || seen[d.Check] {
			continue
		}
		seen[d.Check] = true
		names = append(names, d.Check)
	}
	return names
}

type AnalysisConfig struct {
	SolcVersion string `json:"solc_version"`
	VulnType    string `json:"vuln_type"`
}

// VerificationResult 注入产物经静态分析后的验证结论
type VerificationResult struct {
	Success           bool
	Detected          bool
	Correct           bool
	DetectorsFound    []string
	ExpectedDetectors []string
	TimeTaken         time.Duration
	Error             string
}
