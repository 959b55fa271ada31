package templates

// 单点注入模板。State 注入到合约体，Code 注入到函数体开头。
var pointTemplates = []Template{
	// 溢出 / 下溢（0.8 之前没有内置检查）
	{
		Name:        "addition_overflow",
		Description: "Integer overflow in addition with user input",
		Vuln:        VulnOverflow,
		MinVersion:  "0.4.0",
		MaxVersion:  "0.7.99",
		Mode:        ModePoint,
		State: "mapping(address => uint256) {var_mapping};\n" +
			"{indent}function set_{var_mapping}(uint256 _val) public {\n" +
			"{indent}    {var_mapping}[msg.sender] = _val;\n" +
			"{indent}}",
		Code:           "{var_mapping}[msg.sender] = {var_mapping}[msg.sender] + {uint_param};",
		VarKinds:       []string{"mapping"},
		NeedsUintParam: true,
	},
	{
		Name:        "addition_overflow_input",
		Description: "Integer overflow in addition with direct input",
		Vuln:        VulnOverflow,
		MinVersion:  "0.4.0",
		MaxVersion:  "0.7.99",
		Mode:        ModePoint,
		State:       "uint256 {var_uint};",
		Code:        "{var_uint} = {var_uint} + 1;",
		VarKinds:    []string{"uint"},
	},
	{
		Name:        "subtraction_underflow",
		Description: "Integer underflow in subtraction",
		Vuln:        VulnUnderflow,
		MinVersion:  "0.4.0",
		MaxVersion:  "0.7.99",
		Mode:        ModePoint,
		State: "mapping(address => uint256) {var_mapping};\n" +
			"{indent}function set_{var_mapping}(uint256 _val) public {\n" +
			"{indent}    {var_mapping}[msg.sender] = _val;\n" +
			"{indent}}",
		Code:           "{var_mapping}[msg.sender] = {var_mapping}[msg.sender] - {uint_param};",
		VarKinds:       []string{"mapping"},
		NeedsUintParam: true,
	},
	{
		Name:        "multiplication_overflow",
		Description: "Integer overflow in multiplication",
		Vuln:        VulnOverflow,
		MinVersion:  "0.4.0",
		MaxVersion:  "0.7.99",
		Mode:        ModePoint,
		State: "mapping(address => uint256) {var_mapping};\n" +
			"{indent}function set_{var_mapping}(uint256 _val) public {\n" +
			"{indent}    {var_mapping}[msg.sender] = _val;\n" +
			"{indent}}",
		Code:           "{var_mapping}[msg.sender] = {var_mapping}[msg.sender] * {uint_param};",
		VarKinds:       []string{"mapping"},
		NeedsUintParam: true,
	},
	{
		Name:        "uint8_overflow",
		Description: "Small integer overflow (uint8)",
		Vuln:        VulnOverflow,
		MinVersion:  "0.4.0",
		MaxVersion:  "0.7.99",
		Mode:        ModePoint,
		State:       "uint8 {var_uint} = 255;",
		Code:        "{var_uint} = {var_uint} + 1;",
		VarKinds:    []string{"uint"},
	},
	{
		Name:        "transfer_underflow",
		Description: "Underflow in balance transfer",
		Vuln:        VulnUnderflow,
		MinVersion:  "0.4.0",
		MaxVersion:  "0.7.99",
		Mode:        ModePoint,
		State: "mapping(address => uint256) {var_mapping};\n" +
			"{indent}function deposit_{var_mapping}() public payable {\n" +
			"{indent}    {var_mapping}[msg.sender] += msg.value;\n" +
			"{indent}}",
		Code:           "{var_mapping}[msg.sender] = {var_mapping}[msg.sender] - {uint_param};",
		VarKinds:       []string{"mapping"},
		NeedsUintParam: true,
	},

	// 批量转账溢出（BECToken 事故同款）
	{
		Name:        "batch_transfer_overflow",
		Description: "Batch transfer multiplication overflow (BECToken pattern)",
		Vuln:        VulnOverflow,
		MinVersion:  "0.4.0",
		MaxVersion:  "0.7.99",
		Mode:        ModePoint,
		State:       "mapping(address => uint256) {var_mapping};",
		Code: "function batchTransfer_{var_mapping}(address[] memory _receivers, uint256 _value) public {\n" +
			"{indent}    uint cnt = _receivers.length;\n" +
			"{indent}    uint256 amount = uint256(cnt) * _value;\n" +
			"{indent}    require(cnt > 0 && cnt <= 20);\n" +
			"{indent}    require(_value > 0 && {var_mapping}[msg.sender] >= amount);\n" +
			"{indent}    {var_mapping}[msg.sender] -= amount;\n" +
			"{indent}    for (uint i = 0; i < cnt; i++) {\n" +
			"{indent}        {var_mapping}[_receivers[i]] += _value;\n" +
			"{indent}    }\n" +
			"{indent}}",
		VarKinds: []string{"mapping"},
	},
	{
		Name:        "safemath_present_not_used",
		Description: "SafeMath library present but NOT used (realistic BECToken pattern)",
		Vuln:        VulnOverflow,
		MinVersion:  "0.4.0",
		MaxVersion:  "0.7.99",
		Mode:        ModePoint,
		State: "library SafeMath {\n" +
			"{indent}    function add(uint256 a, uint256 b) internal pure returns (uint256) {\n" +
			"{indent}        uint256 c = a + b;\n" +
			"{indent}        require(c >= a);\n" +
			"{indent}        return c;\n" +
			"{indent}    }\n" +
			"{indent}}\n" +
			"{indent}mapping(address => uint256) {var_mapping};\n" +
			"{indent}using SafeMath for uint256;  // DECLARED but NOT USED!",
		Code:           "{var_mapping}[msg.sender] = {var_mapping}[msg.sender] + {uint_param};  // NOT using .add()!",
		VarKinds:       []string{"mapping"},
		NeedsUintParam: true,
	},

	// tx.origin 鉴权
	{
		Name:        "tx_origin_auth",
		Description: "Authentication using tx.origin",
		Vuln:        VulnTxOrigin,
		MinVersion:  "0.4.0",
		MaxVersion:  "0.9.99",
		Mode:        ModePoint,
		State:       "address {var_addr};",
		Code:        "require(tx.origin == {var_addr});",
		VarKinds:    []string{"addr"},
	},
	{
		Name:        "tx_origin_transfer",
		Description: "Transfer protected by tx.origin (legacy)",
		Vuln:        VulnTxOrigin,
		MinVersion:  "0.4.0",
		MaxVersion:  "0.4.99",
		Mode:        ModePoint,
		State:       "address {var_addr};",
		Code:        "require(tx.origin == {var_addr});\n{indent}msg.sender.transfer(address(this).balance);",
		VarKinds:    []string{"addr"},
	},
	{
		Name:        "tx_origin_transfer_050",
		Description: "Transfer protected by tx.origin (0.5.x)",
		Vuln:        VulnTxOrigin,
		MinVersion:  "0.5.0",
		MaxVersion:  "0.5.99",
		Mode:        ModePoint,
		State:       "address {var_addr};",
		Code:        "require(tx.origin == {var_addr});\n{indent}msg.sender.transfer(address(this).balance);",
		VarKinds:    []string{"addr"},
	},
	{
		Name:        "tx_origin_transfer_060",
		Description: "Transfer protected by tx.origin (0.6+)",
		Vuln:        VulnTxOrigin,
		MinVersion:  "0.6.0",
		MaxVersion:  "0.9.99",
		Mode:        ModePoint,
		State:       "address {var_addr};",
		Code:        "require(tx.origin == {var_addr});\n{indent}payable(msg.sender).transfer(address(this).balance);",
		VarKinds:    []string{"addr"},
	},
	{
		Name:           "tx_origin_with_param",
		Description:    "tx.origin check with address parameter",
		Vuln:           VulnTxOrigin,
		MinVersion:     "0.4.0",
		MaxVersion:     "0.9.99",
		Mode:           ModePoint,
		Code:           "require(tx.origin == {input_param});",
		NeedsAddrParam: true,
	},

	// 未检查 send 返回值
	{
		Name:                "unchecked_send_literal_legacy",
		Description:         "Unchecked send with literal amount (legacy)",
		Vuln:                VulnUncheckedSend,
		MinVersion:          "0.4.0",
		MaxVersion:          "0.5.99",
		Mode:                ModePoint,
		Code:                "msg.sender.send(1 ether);",
		NeedsStateModifying: true,
	},
	{
		Name:                "unchecked_send_literal",
		Description:         "Unchecked send with literal amount",
		Vuln:                VulnUncheckedSend,
		MinVersion:          "0.6.0",
		MaxVersion:          "0.9.99",
		Mode:                ModePoint,
		Code:                "payable(msg.sender).send(1 ether);",
		NeedsStateModifying: true,
	},
	{
		Name:                "unchecked_send_balance_legacy",
		Description:         "Unchecked send of contract balance (legacy)",
		Vuln:                VulnUncheckedSend,
		MinVersion:          "0.4.0",
		MaxVersion:          "0.5.99",
		Mode:                ModePoint,
		Code:                "msg.sender.send(address(this).balance);",
		NeedsStateModifying: true,
	},
	{
		Name:                "unchecked_send_balance",
		Description:         "Unchecked send of contract balance",
		Vuln:                VulnUncheckedSend,
		MinVersion:          "0.6.0",
		MaxVersion:          "0.9.99",
		Mode:                ModePoint,
		Code:                "payable(msg.sender).send(address(this).balance);",
		NeedsStateModifying: true,
	},

	// 未处理的 call 异常
	{
		Name:                "unchecked_call_04x",
		Description:         "Unchecked call.value (Solidity 0.4.x)",
		Vuln:                VulnUnhandledException,
		MinVersion:          "0.4.0",
		MaxVersion:          "0.4.99",
		Mode:                ModePoint,
		State:               "uint256 {var_uint} = 1 ether;",
		Code:                "{input_param}.call.value({var_uint})();",
		NeedsAddrParam:      true,
		VarKinds:            []string{"uint"},
		NeedsStateModifying: true,
	},
	{
		Name:                "unchecked_call_05x",
		Description:         "Unchecked call.value (Solidity 0.5.x)",
		Vuln:                VulnUnhandledException,
		MinVersion:          "0.5.0",
		MaxVersion:          "0.5.99",
		Mode:                ModePoint,
		State:               "uint256 {var_uint} = 1 ether;",
		Code:                "address(uint160({input_param})).call.value({var_uint})(\"\");",
		NeedsAddrParam:      true,
		VarKinds:            []string{"uint"},
		NeedsStateModifying: true,
	},
	{
		Name:                "unchecked_call_06x",
		Description:         "Unchecked call.value (Solidity 0.6.x)",
		Vuln:                VulnUnhandledException,
		MinVersion:          "0.6.0",
		MaxVersion:          "0.6.99",
		Mode:                ModePoint,
		State:               "uint256 {var_uint} = 1 ether;",
		Code:                "payable({input_param}).call{value: {var_uint}}(\"\");",
		NeedsAddrParam:      true,
		VarKinds:            []string{"uint"},
		NeedsStateModifying: true,
	},
	{
		Name:                "unchecked_call_modern",
		Description:         "Unchecked call{value:} (Solidity >=0.7)",
		Vuln:                VulnUnhandledException,
		MinVersion:          "0.7.0",
		MaxVersion:          "0.9.99",
		Mode:                ModePoint,
		State:               "uint256 {var_uint} = 1 ether;",
		Code:                "payable({input_param}).call{value: {var_uint}}(\"\");",
		NeedsAddrParam:      true,
		VarKinds:            []string{"uint"},
		NeedsStateModifying: true,
	},

	// 时间戳依赖
	{
		Name:        "timestamp_comparison",
		Description: "Comparison with block.timestamp",
		Vuln:        VulnTimestamp,
		MinVersion:  "0.4.0",
		MaxVersion:  "0.9.99",
		Mode:        ModePoint,
		State:       "uint256 {var_uint};",
		Code:        "require(block.timestamp >= {var_uint});",
		VarKinds:    []string{"uint"},
	},
	{
		Name:        "timestamp_equality",
		Description: "Equality check with block.timestamp (legacy)",
		Vuln:        VulnTimestamp,
		MinVersion:  "0.4.0",
		MaxVersion:  "0.4.99",
		Mode:        ModePoint,
		State:       "uint256 {var_uint};",
		Code: "if (block.timestamp == {var_uint}) {\n" +
			"{indent}    msg.sender.transfer(1 wei);\n" +
			"{indent}}",
		VarKinds:            []string{"uint"},
		NeedsStateModifying: true,
	},
	{
		Name:        "timestamp_equality_050",
		Description: "Equality check with block.timestamp (0.5.x)",
		Vuln:        VulnTimestamp,
		MinVersion:  "0.5.0",
		MaxVersion:  "0.5.99",
		Mode:        ModePoint,
		State:       "uint256 {var_uint};",
		Code: "if (block.timestamp == {var_uint}) {\n" +
			"{indent}    msg.sender.transfer(1 wei);\n" +
			"{indent}}",
		VarKinds:            []string{"uint"},
		NeedsStateModifying: true,
	},
	{
		Name:        "timestamp_equality_060",
		Description: "Equality check with block.timestamp (0.6+)",
		Vuln:        VulnTimestamp,
		MinVersion:  "0.6.0",
		MaxVersion:  "0.9.99",
		Mode:        ModePoint,
		State:       "uint256 {var_uint};",
		Code: "if (block.timestamp == {var_uint}) {\n" +
			"{indent}    payable(msg.sender).transfer(1 wei);\n" +
			"{indent}}",
		VarKinds:            []string{"uint"},
		NeedsStateModifying: true,
	},
	{
		Name:        "timestamp_storage",
		Description: "Storing block.timestamp in state variable",
		Vuln:        VulnTimestamp,
		MinVersion:  "0.4.0",
		MaxVersion:  "0.9.99",
		Mode:        ModeStateOnly,
		State:       "uint256 {var_time} = block.timestamp;",
		VarKinds:    []string{"time"},
	},
}
