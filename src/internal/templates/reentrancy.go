package templates

// 单点重入模板。每条都自带 deposit 入口，保证注入后的合约有资金来源。
var reentrancyPointTemplates = []Template{
	{
		Name:        "call_value_legacy",
		Description: "Classic reentrancy with .call.value() (Solidity <0.5)",
		Vuln:        VulnReentrancy,
		MinVersion:  "0.4.0",
		MaxVersion:  "0.4.99",
		Mode:        ModePoint,
		State: "mapping(address => uint256) {var_mapping};\n" +
			"{indent}function deposit_{var_mapping}() public payable {\n" +
			"{indent}    {var_mapping}[msg.sender] += msg.value;\n" +
			"{indent}}",
		Code: "uint256 _amt = {var_mapping}[msg.sender];\n" +
			"{indent}if (_amt > 0) {\n" +
			"{indent}    require(msg.sender.call.value(_amt)());\n" +
			"{indent}    {var_mapping}[msg.sender] = 0;\n" +
			"{indent}}",
		VarKinds: []string{"mapping"},
	},
	{
		Name:        "call_value_050",
		Description: "Classic reentrancy with .call.value() (Solidity 0.5.x-0.6.x)",
		Vuln:        VulnReentrancy,
		MinVersion:  "0.5.0",
		MaxVersion:  "0.6.99",
		Mode:        ModePoint,
		State: "mapping(address => uint256) {var_mapping};\n" +
			"{indent}function deposit_{var_mapping}() public payable {\n" +
			"{indent}    {var_mapping}[msg.sender] += msg.value;\n" +
			"{indent}}",
		Code: "uint256 _amt = {var_mapping}[msg.sender];\n" +
			"{indent}if (_amt > 0) {\n" +
			"{indent}    (bool _success, ) = msg.sender.call.value(_amt)(\"\");\n" +
			"{indent}    require(_success);\n" +
			"{indent}    {var_mapping}[msg.sender] = 0;\n" +
			"{indent}}",
		VarKinds: []string{"mapping"},
	},
	{
		Name:        "call_value_modern",
		Description: "Classic reentrancy with .call{value:} (Solidity >=0.7)",
		Vuln:        VulnReentrancy,
		MinVersion:  "0.7.0",
		MaxVersion:  "0.9.99",
		Mode:        ModePoint,
		State: "mapping(address => uint256) {var_mapping};\n" +
			"{indent}function deposit_{var_mapping}() public payable {\n" +
			"{indent}    {var_mapping}[msg.sender] += msg.value;\n" +
			"{indent}}",
		Code: "uint256 _amt = {var_mapping}[msg.sender];\n" +
			"{indent}if (_amt > 0) {\n" +
			"{indent}    (bool _success, ) = msg.sender.call{value: _amt}(\"\");\n" +
			"{indent}    require(_success);\n" +
			"{indent}    {var_mapping}[msg.sender] = 0;\n" +
			"{indent}}",
		VarKinds: []string{"mapping"},
	},
	{
		Name:        "send_reentrancy",
		Description: "Reentrancy using send() - limited gas, harder to exploit",
		Vuln:        VulnReentrancy,
		MinVersion:  "0.4.0",
		MaxVersion:  "0.7.99",
		Mode:        ModePoint,
		State: "mapping(address => uint256) {var_mapping};\n" +
			"{indent}function deposit_{var_mapping}() public payable {\n" +
			"{indent}    {var_mapping}[msg.sender] += msg.value;\n" +
			"{indent}}",
		Code: "uint256 _amt = {var_mapping}[msg.sender];\n" +
			"{indent}if (_amt > 0) {\n" +
			"{indent}    msg.sender.send(_amt);\n" +
			"{indent}    {var_mapping}[msg.sender] = 0;\n" +
			"{indent}}",
		VarKinds: []string{"mapping"},
	},
	{
		Name:        "transfer_reentrancy_legacy",
		Description: "Reentrancy using transfer() for Solidity <0.6 - limited gas",
		Vuln:        VulnReentrancy,
		MinVersion:  "0.4.0",
		MaxVersion:  "0.5.99",
		Mode:        ModePoint,
		State: "mapping(address => uint256) {var_mapping};\n" +
			"{indent}function deposit_{var_mapping}() public payable {\n" +
			"{indent}    {var_mapping}[msg.sender] += msg.value;\n" +
			"{indent}}",
		Code: "uint256 _amt = {var_mapping}[msg.sender];\n" +
			"{indent}if (_amt > 0) {\n" +
			"{indent}    msg.sender.transfer(_amt);\n" +
			"{indent}    {var_mapping}[msg.sender] = 0;\n" +
			"{indent}}",
		VarKinds: []string{"mapping"},
	},
	{
		Name:        "transfer_reentrancy",
		Description: "Reentrancy using transfer() with payable() (Solidity >=0.6) - limited gas",
		Vuln:        VulnReentrancy,
		MinVersion:  "0.6.0",
		MaxVersion:  "0.8.99",
		Mode:        ModePoint,
		State: "mapping(address => uint256) {var_mapping};\n" +
			"{indent}function deposit_{var_mapping}() public payable {\n" +
			"{indent}    {var_mapping}[msg.sender] += msg.value;\n" +
			"{indent}}",
		Code: "uint256 _amt = {var_mapping}[msg.sender];\n" +
			"{indent}if (_amt > 0) {\n" +
			"{indent}    payable(msg.sender).transfer(_amt);\n" +
			"{indent}    {var_mapping}[msg.sender] = 0;\n" +
			"{indent}}",
		VarKinds: []string{"mapping"},
	},
	{
		Name:        "withdraw_reentrancy_legacy",
		Description: "Withdraw function reentrancy pattern (Solidity <0.5)",
		Vuln:        VulnReentrancy,
		MinVersion:  "0.4.0",
		MaxVersion:  "0.4.99",
		Mode:        ModePoint,
		State: "mapping(address => uint256) {var_mapping};\n" +
			"{indent}function deposit_{var_mapping}() public payable {\n" +
			"{indent}    {var_mapping}[msg.sender] += msg.value;\n" +
			"{indent}}",
		Code: "uint256 _balance = {var_mapping}[msg.sender];\n" +
			"{indent}if (_balance > 0) {\n" +
			"{indent}    msg.sender.call.value(_balance)();\n" +
			"{indent}    {var_mapping}[msg.sender] = 0;\n" +
			"{indent}}",
		VarKinds: []string{"mapping"},
	},
	{
		Name:        "withdraw_reentrancy_050",
		Description: "Withdraw function reentrancy pattern (Solidity 0.5.x-0.6.x)",
		Vuln:        VulnReentrancy,
		MinVersion:  "0.5.0",
		MaxVersion:  "0.6.99",
		Mode:        ModePoint,
		State: "mapping(address => uint256) {var_mapping};\n" +
			"{indent}function deposit_{var_mapping}() public payable {\n" +
			"{indent}    {var_mapping}[msg.sender] += msg.value;\n" +
			"{indent}}",
		Code: "uint256 _balance = {var_mapping}[msg.sender];\n" +
			"{indent}if (_balance > 0) {\n" +
			"{indent}    (bool _sent, ) = msg.sender.call.value(_balance)(\"\");\n" +
			"{indent}    require(_sent);\n" +
			"{indent}    {var_mapping}[msg.sender] = 0;\n" +
			"{indent}}",
		VarKinds: []string{"mapping"},
	},
	{
		Name:        "delegate_reentrancy",
		Description: "Reentrancy via delegatecall - state update after delegated external call",
		Vuln:        VulnReentrancy,
		MinVersion:  "0.7.0",
		MaxVersion:  "0.8.99",
		Mode:        ModePoint,
		State: "address public {var_addr}_lib;\n" +
			"{indent}mapping(address => uint256) public {var_mapping};\n" +
			"{indent}function setLib_{var_mapping}(address _lib) public {\n" +
			"{indent}    {var_addr}_lib = _lib;\n" +
			"{indent}}\n" +
			"{indent}function deposit_{var_mapping}() public payable {\n" +
			"{indent}    {var_mapping}[msg.sender] += msg.value;\n" +
			"{indent}}",
		Code: "uint256 _amt = {var_mapping}[msg.sender];\n" +
			"{indent}if (_amt > 0) {\n" +
			"{indent}    (bool success, ) = {var_addr}_lib.delegatecall(\n" +
			"{indent}        abi.encodeWithSignature(\"sendEth(address,uint256)\", msg.sender, _amt)\n" +
			"{indent}    );\n" +
			"{indent}    require(success, \"Delegatecall failed\");\n" +
			"{indent}    {var_mapping}[msg.sender] = 0;\n" +
			"{indent}}",
		VarKinds: []string{"mapping", "addr"},
	},
	{
		Name:        "create_reentrancy",
		Description: "Reentrancy during contract creation via constructor external call",
		Vuln:        VulnReentrancy,
		MinVersion:  "0.7.0",
		MaxVersion:  "0.9.99",
		Mode:        ModePoint,
		State: "mapping(address => uint256) public {var_mapping};\n" +
			"{indent}bool public {var_bool}_initialized;\n" +
			"{indent}constructor() payable {\n" +
			"{indent}    {var_mapping}[msg.sender] = msg.value;\n" +
			"{indent}    (bool _ok, ) = msg.sender.call{value: address(this).balance}(\"\");\n" +
			"{indent}    require(_ok);\n" +
			"{indent}    {var_bool}_initialized = true;\n" +
			"{indent}}",
		Code: "uint256 _credit = {var_mapping}[msg.sender];\n" +
			"{indent}if (_credit > 0) {\n" +
			"{indent}    (bool _ok, ) = msg.sender.call{value: _credit}(\"\");\n" +
			"{indent}    require(_ok);\n" +
			"{indent}    {var_mapping}[msg.sender] = 0;\n" +
			"{indent}}",
		VarKinds: []string{"mapping", "bool"},
	},
}
