package handler

import (
	"fmt"
	"os"
	"strings"

	"github.com/VectorBits/Serpens/src/internal/astparser"
	"github.com/VectorBits/Serpens/src/internal/config"
	"github.com/VectorBits/Serpens/src/internal/logger"
	"github.com/VectorBits/Serpens/src/internal/solc"
)

func InitInjectLogger() error {
	return logger.InitLogger()
}

func CloseInjectLogger() {
	logger.Close()
}

// LoadedContract 一个已准备好注入的合约：原始字节、解析后的 AST
// 和推断出的编译器版本。
type LoadedContract struct {
	Path    string
	Content []byte
	Source  string
	Version string
	Doc     *astparser.Document
}

func isOnlyBytecode(code string) bool {
	code = strings.TrimSpace(code)
	if len(code) < 10 {
		return true
	}
	if !strings.HasPrefix(code, "0x") {
		return false
	}
	for _, c := range code[2:] {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

// LoadContract 读取合约源文件，推断版本并编译出 AST。
// 源文件按 UTF-8 尽力解码，无法解码的字节替换掉，不中断加载。
func LoadContract(path string) (*LoadedContract, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取合约文件失败: %w", err)
	}

	source := strings.ToValidUTF8(string(raw), "�")
	if isOnlyBytecode(source) {
		return nil, fmt.Errorf("contract %s contains only bytecode, source required", path)
	}

	fallback := DefaultVersion
	if cfg, cfgErr := config.LoadConfig(); cfgErr == nil {
		if cfg.Solc.DefaultVersion != "" {
			fallback = cfg.Solc.DefaultVersion
		}
		if cfg.Solc.InstallDir != "" {
			solc.GetManager().SetInstallDir(cfg.Solc.InstallDir)
		}
	}

	version := DetectVersion(source)
	if version == "" {
		logger.Warn("无法从 pragma 检测版本，使用默认版本 %s", fallback)
		version = fallback
	}
	logger.Info("Solidity 版本: %s", version)

	if upgraded := UpgradePragma(source, version); upgraded != source {
		logger.InfoFileOnly("pragma 约束过旧，已改写为 ^%s", version)
		source = upgraded
	}

	output, err := solc.CompileAST(version, source)
	if err != nil {
		return nil, fmt.Errorf("solc 编译失败: %w", err)
	}

	doc, err := astparser.ParseSolcOutput(output, source)
	if err != nil {
		return nil, err
	}

	// AST 偏移对应的是清洗后的源码，Content 必须与之逐字节一致
	return &LoadedContract{
		Path:    path,
		Content: []byte(source),
		Source:  source,
		Version: version,
		Doc:     doc,
	}, nil
}
