package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"time"
)

// SlitherBackend 通过 slither 命令行做静态分析
// solc-select use 切换的是全局版本，所以分析过程串行化
type SlitherBackend struct {
	slitherPath string
	timeout     time.Duration

	mu          sync.Mutex
	installOnce sync.Map // version -> *installResult
}

// installResult 缓存一次安装的结果，后续调用者拿到同一个错误
// 而不是空跑 Once 后在 use 阶段失败
type installResult struct {
	once sync.Once
	err  error
}

func (r *installResult) do(install func() error) error {
	r.once.Do(func() {
		r.err = install()
	})
	return r.err
}

func NewSlitherBackend(slitherPath string, timeout time.Duration) *SlitherBackend {
	if slitherPath == "" {
		slitherPath = "slither"
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &SlitherBackend{
		slitherPath: slitherPath,
		timeout:     timeout,
	}
}

type slitherOutput struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Results struct {
		Detectors []json.RawMessage `json:"detectors"`
	} `json:"results"`
}

// AnalyzeFile 运行 slither 并返回解析后的 detectors JSON
func (b *SlitherBackend) AnalyzeFile(ctx context.Context, filePath, solcVersion string) ([]json.RawMessage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if solcVersion != "" {
		if err := b.selectSolcVersion(ctx, solcVersion); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, b.slitherPath, filePath, "--json", "-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if runErr != nil {
		// slither 发现问题时以非零码退出，只要 stdout 有 JSON 就继续解析
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) || stdout.Len() == 0 {
			errMsg := stderr.String()
			if len(errMsg) > 4096 {
				errMsg = errMsg[:4096] + "...(truncated)"
			}
			return nil, fmt.Errorf("slither execution failed: %w, stderr: %s", runErr, errMsg)
		}
	}

	var output slitherOutput
	if err := json.Unmarshal(stdout.Bytes(), &output); err != nil {
		return nil, fmt.Errorf("failed to parse slither output: %w", err)
	}

	if !output.Success && output.Error != "" {
		return nil, fmt.Errorf("slither reported error: %s", output.Error)
	}

	return output.Results.Detectors, nil
}

// selectSolcVersion 通过 solc-select 安装并切换编译器版本
func (b *SlitherBackend) selectSolcVersion(ctx context.Context, version string) error {
	resVal, _ := b.installOnce.LoadOrStore(version, &installResult{})
	res := resVal.(*installResult)

	if err := res.do(func() error {
		installCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
		defer cancel()
		// 已安装时 solc-select install 是幂等的
		if out, err := exec.CommandContext(installCtx, "solc-select", "install", version).CombinedOutput(); err != nil {
			return fmt.Errorf("solc-select install %s failed: %w, output: %s", version, err, string(out))
		}
		return nil
	}); err != nil {
		return err
	}

	useCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if out, err := exec.CommandContext(useCtx, "solc-select", "use", version).CombinedOutput(); err != nil {
		return fmt.Errorf("solc-select use %s failed: %w, output: %s", version, err, string(out))
	}
	return nil
}

func (b *SlitherBackend) Close() error {
	return nil
}
