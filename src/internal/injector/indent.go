package injector

import (
	"bytes"

	"github.com/VectorBits/Serpens/src/internal/astparser"
)

// DetectIndentation 从 offset 之后第一行真正的代码行取缩进。
// 空行和注释行跳过，找不到时退回两空格（Solidity 常见风格）。
func DetectIndentation(content []byte, offset int) string {
	lineStart := offset
	for lineStart < len(content) && content[lineStart] != '\n' {
		lineStart++
	}
	lineStart++

	inBlockComment := false
	for lineStart < len(content) {
		lineEnd := lineStart
		for lineEnd < len(content) && content[lineEnd] != '\n' {
			lineEnd++
		}
		line := content[lineStart:lineEnd]
		stripped := bytes.TrimSpace(line)

		if bytes.Contains(stripped, []byte("/*")) {
			inBlockComment = true
		}
		if idx := bytes.LastIndex(stripped, []byte("*/")); idx != -1 {
			inBlockComment = false
			// 注释在本行闭合后还跟着代码时，这一行的缩进仍然有效
			rest := bytes.TrimSpace(stripped[idx+2:])
			if len(rest) == 0 || bytes.HasPrefix(rest, []byte("//")) {
				lineStart = lineEnd + 1
				continue
			}
			stripped = rest
		}

		if len(stripped) > 0 && !inBlockComment &&
			!bytes.HasPrefix(stripped, []byte("//")) &&
			!bytes.HasPrefix(stripped, []byte("/*")) &&
			!bytes.HasPrefix(stripped, []byte("*")) {
			var indent []byte
			for _, b := range line {
				if b != ' ' && b != '\t' {
					break
				}
				indent = append(indent, b)
			}
			if len(indent) > 0 {
				return string(indent)
			}
		}

		lineStart = lineEnd + 1
	}

	return "  "
}

// ContractBodyOffset 返回合约体左花括号之后的位置，找不到花括号返回 -1
func ContractBodyOffset(content []byte, contract *Contract) int {
	loc, ok := contractLocation(contract)
	if !ok {
		return -1
	}
	if loc.Offset >= len(content) {
		return -1
	}
	end := loc.End()
	if end > len(content) {
		end = len(content)
	}
	bracePos := bytes.IndexByte(content[loc.Offset:end], '{')
	if bracePos == -1 {
		return -1
	}
	return loc.Offset + bracePos + 1
}

func contractLocation(contract *Contract) (astparser.SrcLocation, bool) {
	if contract == nil || contract.Src == "" {
		return astparser.SrcLocation{}, false
	}
	loc, err := astparser.ParseSrc(contract.Src)
	if err != nil {
		return astparser.SrcLocation{}, false
	}
	return loc, true
}

// FunctionBodyOffset 返回函数体 Block 左花括号之后的位置
func FunctionBodyOffset(fn *Function) int {
	if fn == nil || fn.BodySrc == "" {
		return -1
	}
	loc, err := astparser.ParseSrc(fn.BodySrc)
	if err != nil {
		return -1
	}
	return loc.Offset + 1
}
