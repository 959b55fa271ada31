package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Region 输出文件里一段被注入的字节范围 [StartByte, EndByte)
type Region struct {
	StartByte   int    `json:"start_byte"`
	EndByte     int    `json:"end_byte"`
	Component   string `json:"component"`
	Description string `json:"description"`
}

// Metadata 注入溯源记录，作为 sidecar JSON 写在输出合约旁边
type Metadata struct {
	SourceContract  string   `json:"source_contract"`
	OutputContract  string   `json:"output_contract"`
	VulnType        string   `json:"vulnerability_type"`
	InjectionMode   string   `json:"injection_mode"`
	TemplateName    string   `json:"template_name"`
	SolidityVersion string   `json:"solidity_version"`
	InjectedRegions []Region `json:"injected_regions"`
}

func NewMetadata(source, output, vulnType, mode, template, version string) *Metadata {
	return &Metadata{
		SourceContract:  source,
		OutputContract:  output,
		VulnType:        vulnType,
		InjectionMode:   mode,
		TemplateName:    template,
		SolidityVersion: version,
		InjectedRegions: make([]Region, 0),
	}
}

func (m *Metadata) AddRegion(start, end int, component, description string) {
	m.InjectedRegions = append(m.InjectedRegions, Region{
		StartByte:   start,
		EndByte:     end,
		Component:   component,
		Description: description,
	})
}

// MetadataPath 输出合约对应的 sidecar 路径（扩展名换成 .json）
func MetadataPath(outputPath string) string {
	ext := filepath.Ext(outputPath)
	return strings.TrimSuffix(outputPath, ext) + ".json"
}

// Save 把 sidecar 写到输出合约旁边，先写临时文件再改名
func (m *Metadata) Save(outputPath string) (string, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata: %w", err)
	}

	metadataPath := MetadataPath(outputPath)
	dir := filepath.Dir(metadataPath)

	tmpFile, err := os.CreateTemp(dir, filepath.Base(metadataPath)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp metadata file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return "", fmt.Errorf("failed to write temp metadata file: %w", err)
	}
	if err := tmpFile.Chmod(0644); err != nil {
		_ = tmpFile.Close()
		return "", fmt.Errorf("failed to chmod temp metadata file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp metadata file: %w", err)
	}

	if err := os.Rename(tmpPath, metadataPath); err != nil {
		return "", fmt.Errorf("failed to finalize metadata file: %w", err)
	}
	return metadataPath, nil
}

// LoadMetadata 读取 sidecar JSON
func LoadMetadata(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse metadata %s: %w", path, err)
	}
	return &m, nil
}
