package solc

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// Manager solc 版本管理器
type Manager struct {
	mu           sync.RWMutex
	versionCache map[string]string // version -> solc path
	installDir   string            // 额外的本地 solc 二进制搜索目录
	installLocks sync.Map          // version -> *installState，每个版本只安装一次
}

// installState 记录一个版本的安装结果，失败原因对所有调用者可见
type installState struct {
	once sync.Once
	err  error
}

var (
	defaultManager *Manager
	once           sync.Once
)

func GetManager() *Manager {
	once.Do(func() {
		defaultManager = &Manager{
			versionCache: make(map[string]string),
		}
	})
	return defaultManager
}

// GetSolcPath 获取指定版本的 solc 路径（带缓存）
func (m *Manager) GetSolcPath(version string) (string, error) {
	if version == "" {
		return "", fmt.Errorf("version is empty")
	}

	version = normalizeVersion(version)

	// 检查缓存
	m.mu.RLock()
	if path, ok := m.versionCache[version]; ok {
		m.mu.RUnlock()
		if fileExists(path) {
			return path, nil
		}
	} else {
		m.mu.RUnlock()
	}

	// 方法0: 配置的本地安装目录
	path, err := m.tryInstallDir(version)
	if err == nil && path != "" {
		m.cachePath(version, path)
		return path, nil
	}

	// 方法1: 检查 solc-select 安装的版本
	path, err = m.trySolcSelect(version)
	if err == nil && path != "" {
		m.cachePath(version, path)
		return path, nil
	}

	// 方法2: 检查 ~/.solcx 目录（py-solc-x 安装位置）
	path, err = m.trySolcx(version)
	if err == nil && path != "" {
		m.cachePath(version, path)
		return path, nil
	}

	// 方法3: 尝试安装
	path, err = m.installVersion(version)
	if err == nil && path != "" {
		m.cachePath(version, path)
		return path, nil
	}

	return "", fmt.Errorf("failed to get solc %s: %v", version, err)
}

func normalizeVersion(version string) string {
	version = strings.TrimSpace(version)
	version = strings.TrimPrefix(version, "v")
	// 移除约束符号
	for _, prefix := range []string{"^", ">=", "<=", ">", "<", "~", "="} {
		version = strings.TrimPrefix(version, prefix)
	}
	return strings.TrimSpace(version)
}

// SetInstallDir 设置额外的 solc 二进制搜索目录
func (m *Manager) SetInstallDir(dir string) {
	m.mu.Lock()
	m.installDir = dir
	m.mu.Unlock()
}

func (m *Manager) tryInstallDir(version string) (string, error) {
	m.mu.RLock()
	dir := m.installDir
	m.mu.RUnlock()
	if dir == "" {
		return "", fmt.Errorf("no install dir configured")
	}

	possiblePaths := []string{
		filepath.Join(dir, fmt.Sprintf("solc-%s", version)),
		filepath.Join(dir, fmt.Sprintf("solc-v%s", version)),
		filepath.Join(dir, version, "solc"),
	}

	for _, path := range possiblePaths {
		if fileExists(path) && isExecutable(path) {
			return path, nil
		}
	}

	return "", fmt.Errorf("solc %s not found in %s", version, dir)
}

func (m *Manager) cachePath(version, path string) {
	m.mu.Lock()
	m.versionCache[version] = path
	m.mu.Unlock()
}

func (m *Manager) trySolcSelect(version string) (string, error) {
	// 检查 solc-select 是否可用
	if _, err := exec.LookPath("solc-select"); err != nil {
		return "", err
	}

	// 检查版本是否已安装
	cmd := exec.Command("solc-select", "versions")
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}

	installed := false
	lines := strings.Split(string(output), "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		// solc-select versions 输出格式: "0.8.16" 或 "0.8.16 (current)"
		if strings.HasPrefix(line, version) {
			installed = true
			break
		}
	}

	// 如果未安装，尝试安装（使用 sync.Once 避免竞态）
	if !installed {
		stateVal, _ := m.installLocks.LoadOrStore(version, &installState{})
		state := stateVal.(*installState)

		state.once.Do(func() {
			installCmd := exec.Command("solc-select", "install", version)
			if err := installCmd.Run(); err != nil {
				state.err = fmt.Errorf("solc-select install failed: %v", err)
			}
		})
		if state.err != nil {
			return "", state.err
		}
	}

	// 直接返回 solc-select 安装的二进制文件路径（避免并发切换问题）
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	var possiblePaths []string
	solcSelectDir := filepath.Join(homeDir, ".solc-select", "artifacts", fmt.Sprintf("solc-%s", version))

	if runtime.GOOS == "windows" {
		possiblePaths = []string{
			filepath.Join(solcSelectDir, fmt.Sprintf("solc-%s.exe", version)),
			filepath.Join(solcSelectDir, "solc.exe"),
		}
	} else {
		possiblePaths = []string{
			filepath.Join(solcSelectDir, fmt.Sprintf("solc-%s", version)),
			filepath.Join(homeDir, ".solc-select", "artifacts", version, fmt.Sprintf("solc-%s", version)),
		}
	}

	for _, path := range possiblePaths {
		if fileExists(path) && isExecutable(path) {
			return path, nil
		}
	}

	// 回退：使用 solc-select use 切换后获取路径（单线程场景）
	m.mu.Lock()
	defer m.mu.Unlock()

	useCmd := exec.Command("solc-select", "use", version)
	if err := useCmd.Run(); err != nil {
		return "", fmt.Errorf("solc-select use failed: %v", err)
	}

	solcPath, err := exec.LookPath("solc")
	if err != nil {
		return "", err
	}

	return solcPath, nil
}

func (m *Manager) trySolcx(version string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	solcxDir := filepath.Join(homeDir, ".solcx")

	possiblePaths := []string{
		filepath.Join(solcxDir, fmt.Sprintf("solc-v%s", version)),
		filepath.Join(solcxDir, fmt.Sprintf("solc-v%s", version), "solc"),
		filepath.Join(solcxDir, fmt.Sprintf("solc-%s", version)),
	}

	// macOS 上 py-solc-x 把二进制放在 bin 子目录
	if runtime.GOOS == "darwin" {
		possiblePaths = append(possiblePaths,
			filepath.Join(solcxDir, fmt.Sprintf("solc-v%s", version), "bin", "solc"),
		)
	}

	for _, path := range possiblePaths {
		if fileExists(path) && isExecutable(path) {
			return path, nil
		}
	}

	return "", fmt.Errorf("solcx version %s not found", version)
}

func (m *Manager) installVersion(version string) (string, error) {
	if _, err := exec.LookPath("solc-select"); err == nil {
		cmd := exec.Command("solc-select", "install", version)
		if err := cmd.Run(); err == nil {
			return m.trySolcSelect(version)
		}
	}

	return "", fmt.Errorf("failed to install solc %s, please install manually: solc-select install %s", version, version)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if runtime.GOOS == "windows" {
		return !info.IsDir()
	}
	return info.Mode()&0111 != 0
}

// CompileWithVersion 使用指定版本的 solc 编译
func (m *Manager) CompileWithVersion(version, filePath string, args ...string) ([]byte, error) {
	solcPath, err := m.GetSolcPath(version)
	if err != nil {
		return nil, err
	}

	cmdArgs := append(args, filePath)
	cmd := exec.Command(solcPath, cmdArgs...)
	return cmd.CombinedOutput()
}

// CompileAST 用指定版本的 solc 输出旧版 AST JSON（--ast-json）。
// 返回 solc 的原始输出，JSON 前面可能带文件头注释行。
func CompileAST(version, sourceCode string) ([]byte, error) {
	manager := GetManager()
	solcPath, err := manager.GetSolcPath(version)
	if err != nil {
		return nil, err
	}

	tmpFile, err := os.CreateTemp("", "*.sol")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.WriteString(sourceCode); err != nil {
		tmpFile.Close()
		return nil, err
	}
	tmpFile.Close()

	cmd := exec.Command(solcPath, "--ast-json", tmpFile.Name())
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("solc execution failed: %v, output: %s", err, string(output))
	}

	return output, nil
}
