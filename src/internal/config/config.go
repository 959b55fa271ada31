package config

import (
	"os"
	"strconv"
)

// applyEnvOverrides 环境变量优先于配置文件
func applyEnvOverrides(c *AppConfig) {
	c.Database.Host = getEnv("SERPENS_DB_HOST", c.Database.Host)
	c.Database.Port = getEnv("SERPENS_DB_PORT", c.Database.Port)
	c.Database.User = getEnv("SERPENS_DB_USER", c.Database.User)
	c.Database.Password = getEnv("SERPENS_DB_PASSWORD", c.Database.Password)
	c.Database.Name = getEnv("SERPENS_DB_NAME", c.Database.Name)

	c.Solc.DefaultVersion = getEnv("SERPENS_SOLC_VERSION", c.Solc.DefaultVersion)
	c.Analyzer.SlitherPath = getEnv("SERPENS_SLITHER_PATH", c.Analyzer.SlitherPath)
	c.Analyzer.TimeoutSeconds = getEnvAsInt("SERPENS_ANALYZER_TIMEOUT", c.Analyzer.TimeoutSeconds)

	c.Injector.OutputDir = getEnv("SERPENS_OUTPUT_DIR", c.Injector.OutputDir)
	c.Injector.ReportDir = getEnv("SERPENS_REPORT_DIR", c.Injector.ReportDir)
	c.Injector.Concurrency = getEnvAsInt("SERPENS_CONCURRENCY", c.Injector.Concurrency)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
