package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Table    string `yaml:"table"`
}

type SolcConfig struct {
	DefaultVersion string `yaml:"default_version"`
	InstallDir     string `yaml:"install_dir"`
}

type AnalyzerConfig struct {
	Backend        string `yaml:"backend"`
	SlitherPath    string `yaml:"slither_path"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type InjectorConfig struct {
	OutputDir   string `yaml:"output_dir"`
	ReportDir   string `yaml:"report_dir"`
	Concurrency int    `yaml:"concurrency"`
	NoMetadata  bool   `yaml:"no_metadata"`
}

type AppConfig struct {
	Database DatabaseConfig `yaml:"database"`
	Solc     SolcConfig     `yaml:"solc"`
	Analyzer AnalyzerConfig `yaml:"analyzer"`
	Injector InjectorConfig `yaml:"injector"`
}

var GlobalConfig *AppConfig
var loadOnce sync.Once
var loadedConfig *AppConfig
var loadedErr error

// LoadConfig 加载 YAML 配置
func LoadConfig() (*AppConfig, error) {
	loadOnce.Do(func() {
		configPath := findConfigFile()
		if configPath == "" {
			loadedErr = fmt.Errorf("The configuration file settings.yaml was not found.")
			return
		}

		data, err := os.ReadFile(configPath)
		if err != nil {
			loadedErr = fmt.Errorf("Failed to read configuration file: %w", err)
			return
		}

		var config AppConfig
		if err := yaml.Unmarshal(data, &config); err != nil {
			loadedErr = fmt.Errorf("Failed to parse configuration file: %w", err)
			return
		}

		config.applyDefaults()
		applyEnvOverrides(&config)
		loadedConfig = &config
		GlobalConfig = loadedConfig
	})

	if loadedErr != nil {
		return nil, loadedErr
	}
	return loadedConfig, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Database.Table == "" {
		c.Database.Table = "injection_records"
	}
	if c.Analyzer.Backend == "" {
		c.Analyzer.Backend = "slither"
	}
	if c.Analyzer.TimeoutSeconds <= 0 {
		c.Analyzer.TimeoutSeconds = 120
	}
	if c.Injector.OutputDir == "" {
		c.Injector.OutputDir = "output"
	}
	if c.Injector.ReportDir == "" {
		c.Injector.ReportDir = "reports"
	}
	if c.Injector.Concurrency <= 0 {
		c.Injector.Concurrency = 4
	}
}

func findConfigFile() string {
	possiblePaths := []string{
		"config/settings.yaml",
		"settings.yaml",
		"src/config/settings.yaml",
		"../config/settings.yaml",
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

func (c *AppConfig) GetDatabaseDSN(includeDBName bool) string {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
	)
	if includeDBName {
		dsn += fmt.Sprintf("%s?parseTime=true&charset=utf8mb4", c.Database.Name)
	} else {
		dsn += "?parseTime=true&charset=utf8mb4"
	}
	return dsn
}

func GetConfigPath() string {
	return findConfigFile()
}

func GetConfigDir() string {
	configPath := findConfigFile()
	if configPath == "" {
		return "config"
	}
	return filepath.Dir(configPath)
}
