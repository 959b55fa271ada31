package injector

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/VectorBits/Serpens/src/internal/astparser"
)

// 测试夹具：手工搭出与源码逐字节对应的旧版 solc AST。
// src 字段全部用 srcOf 从源码里反查，保证偏移和真实编译器输出一致。

const vaultSource = `pragma solidity ^0.4.18;

contract Vault {
  uint256 total;

  function set(address _to, uint256 _amount) public {
    total = _amount;
  }

  function pay() public payable {
    total += msg.value;
  }

  function peek() public view returns (uint256) {
    return total;
  }
}
`

func srcOf(t *testing.T, source, snippet string) string {
	t.Helper()
	off := strings.Index(source, snippet)
	require.NotEqual(t, -1, off, "snippet not found: %q", snippet)
	return fmt.Sprintf("%d:%d:0", off, len(snippet))
}

func astNode(kind string, id int, src string, attrs map[string]interface{}, children ...map[string]interface{}) map[string]interface{} {
	n := map[string]interface{}{
		"name": kind,
		"id":   id,
		"src":  src,
	}
	if attrs != nil {
		n["attributes"] = attrs
	}
	if len(children) > 0 {
		n["children"] = children
	}
	return n
}

func parseFixture(t *testing.T, source string, root map[string]interface{}) *astparser.Document {
	t.Helper()
	raw, err := json.Marshal(root)
	require.NoError(t, err)
	doc, err := astparser.Parse(raw, source)
	require.NoError(t, err)
	return doc
}

func funcNode(t *testing.T, source string, id int, name, visibility, mutability, funcSnippet, bodySnippet string, params []map[string]interface{}, bodyChildren ...map[string]interface{}) map[string]interface{} {
	t.Helper()
	children := []map[string]interface{}{
		astNode("ParameterList", id*100, srcOf(t, source, funcSnippet), nil, params...),
		astNode("Block", id*100+1, srcOf(t, source, bodySnippet), nil, bodyChildren...),
	}
	return astNode("FunctionDefinition", id, srcOf(t, source, funcSnippet), map[string]interface{}{
		"name":            name,
		"visibility":      visibility,
		"stateMutability": mutability,
		"isConstructor":   false,
	}, children...)
}

func paramNode(t *testing.T, source string, id int, name, typ, snippet string) map[string]interface{} {
	t.Helper()
	return astNode("VariableDeclaration", id, srcOf(t, source, snippet), map[string]interface{}{
		"name": name,
		"type": typ,
	})
}

// vaultDoc Vault 合约的完整 AST：一个状态变量、setter、payable 函数和
// 一个 view 函数，set 和 pay 里各有一条对 total 的赋值
func vaultDoc(t *testing.T) *astparser.Document {
	t.Helper()

	stateVar := astNode("VariableDeclaration", 3, srcOf(t, vaultSource, "uint256 total"), map[string]interface{}{
		"name":          "total",
		"type":          "uint256",
		"stateVariable": true,
	})

	setAssign := astNode("Assignment", 40, srcOf(t, vaultSource, "total = _amount"), nil,
		astNode("Identifier", 41, srcOf(t, vaultSource, "total ="), map[string]interface{}{
			"name":                  "total",
			"referencedDeclaration": 3,
		}),
		astNode("Identifier", 42, srcOf(t, vaultSource, "_amount;"), map[string]interface{}{
			"name": "_amount",
		}),
	)
	fnSet := funcNode(t, vaultSource, 4, "set", "public", "nonpayable",
		"function set(address _to, uint256 _amount) public {\n    total = _amount;\n  }",
		"{\n    total = _amount;\n  }",
		[]map[string]interface{}{
			paramNode(t, vaultSource, 5, "_to", "address", "address _to"),
			paramNode(t, vaultSource, 6, "_amount", "uint256", "uint256 _amount"),
		},
		astNode("ExpressionStatement", 43, srcOf(t, vaultSource, "total = _amount;"), nil, setAssign),
	)

	payAssign := astNode("Assignment", 50, srcOf(t, vaultSource, "total += msg.value"), nil,
		astNode("Identifier", 51, srcOf(t, vaultSource, "total +="), map[string]interface{}{
			"name":                  "total",
			"referencedDeclaration": 3,
		}),
		astNode("Identifier", 52, srcOf(t, vaultSource, "msg.value"), map[string]interface{}{
			"name": "msg",
		}),
	)
	fnPay := funcNode(t, vaultSource, 7, "pay", "public", "payable",
		"function pay() public payable {\n    total += msg.value;\n  }",
		"{\n    total += msg.value;\n  }",
		nil,
		astNode("ExpressionStatement", 53, srcOf(t, vaultSource, "total += msg.value;"), nil, payAssign),
	)

	fnPeek := funcNode(t, vaultSource, 8, "peek", "public", "view",
		"function peek() public view returns (uint256) {\n    return total;\n  }",
		"{\n    return total;\n  }",
		nil,
	)

	contractStart := strings.Index(vaultSource, "contract Vault")
	contractSrc := fmt.Sprintf("%d:%d:0", contractStart, len(vaultSource)-contractStart-1)
	contract := astNode("ContractDefinition", 2, contractSrc, map[string]interface{}{
		"name":         "Vault",
		"contractKind": "contract",
	}, stateVar, fnSet, fnPay, fnPeek)

	root := astNode("SourceUnit", 1, fmt.Sprintf("0:%d:0", len(vaultSource)), nil, contract)
	return parseFixture(t, vaultSource, root)
}

// 只有一个 view 函数的合约，没有任何可改状态的注入位置
const readOnlySource = `pragma solidity ^0.4.18;

contract Oracle {
  uint256 price;

  function peek() public view returns (uint256) {
    return price;
  }
}
`

func readOnlyDoc(t *testing.T) *astparser.Document {
	t.Helper()

	stateVar := astNode("VariableDeclaration", 3, srcOf(t, readOnlySource, "uint256 price"), map[string]interface{}{
		"name":          "price",
		"type":          "uint256",
		"stateVariable": true,
	})
	fnPeek := funcNode(t, readOnlySource, 4, "peek", "public", "view",
		"function peek() public view returns (uint256) {\n    return price;\n  }",
		"{\n    return price;\n  }",
		nil,
	)

	contractStart := strings.Index(readOnlySource, "contract Oracle")
	contractSrc := fmt.Sprintf("%d:%d:0", contractStart, len(readOnlySource)-contractStart-1)
	contract := astNode("ContractDefinition", 2, contractSrc, map[string]interface{}{
		"name":         "Oracle",
		"contractKind": "contract",
	}, stateVar, fnPeek)

	root := astNode("SourceUnit", 1, fmt.Sprintf("0:%d:0", len(readOnlySource)), nil, contract)
	return parseFixture(t, readOnlySource, root)
}

// 只有一个 payable 无参函数的合约，函数没有 address 入参
const ledgerSource = `pragma solidity ^0.4.18;

contract Ledger {
  function put() public payable {
    revert();
  }
}
`

func ledgerDoc(t *testing.T) *astparser.Document {
	t.Helper()

	fnPut := funcNode(t, ledgerSource, 3, "put", "public", "payable",
		"function put() public payable {\n    revert();\n  }",
		"{\n    revert();\n  }",
		nil,
	)

	contractStart := strings.Index(ledgerSource, "contract Ledger")
	contractSrc := fmt.Sprintf("%d:%d:0", contractStart, len(ledgerSource)-contractStart-1)
	contract := astNode("ContractDefinition", 2, contractSrc, map[string]interface{}{
		"name":         "Ledger",
		"contractKind": "contract",
	}, fnPut)

	root := astNode("SourceUnit", 1, fmt.Sprintf("0:%d:0", len(ledgerSource)), nil, contract)
	return parseFixture(t, ledgerSource, root)
}
