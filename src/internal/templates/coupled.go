package templates

// 跨函数注入模板。State 注入合约体，Setter/Executor 分别注入两个函数体。
var coupledTemplates = []Template{
	// TOD / 抢跑
	{
		Name:                    "tod_transfer_legacy",
		Description:             "Transaction Order Dependence - winner gets transfer (Solidity <0.5)",
		Vuln:                    VulnTOD,
		MinVersion:              "0.4.11",
		MaxVersion:              "0.4.99",
		Mode:                    ModeCoupled,
		State:                   "address {var_addr};",
		Setter:                  "{var_addr} = {input_param};",
		Executor:                "{var_addr}.transfer(msg.value);",
		RequiresPayableExecutor: true,
		SetterNeedsArgs:         true,
		VarKinds:                []string{"addr"},
	},
	{
		Name:                    "tod_transfer",
		Description:             "Transaction Order Dependence - winner gets transfer (Solidity >=0.5)",
		Vuln:                    VulnTOD,
		MinVersion:              "0.5.0",
		MaxVersion:              "0.9.99",
		Mode:                    ModeCoupled,
		State:                   "address payable {var_addr};",
		Setter:                  "{var_addr} = address(uint160({input_param}));",
		Executor:                "{var_addr}.transfer(msg.value);",
		RequiresPayableExecutor: true,
		SetterNeedsArgs:         true,
		VarKinds:                []string{"addr"},
	},
	{
		Name:                    "tod_send_legacy",
		Description:             "Transaction Order Dependence - winner gets send (Solidity <0.5)",
		Vuln:                    VulnTOD,
		MinVersion:              "0.4.11",
		MaxVersion:              "0.4.99",
		Mode:                    ModeCoupled,
		State:                   "address {var_addr};",
		Setter:                  "{var_addr} = {input_param};",
		Executor:                "{var_addr}.send(msg.value);",
		RequiresPayableExecutor: true,
		SetterNeedsArgs:         true,
		VarKinds:                []string{"addr"},
	},
	{
		Name:                    "tod_send",
		Description:             "Transaction Order Dependence - winner gets send (Solidity >=0.5)",
		Vuln:                    VulnTOD,
		MinVersion:              "0.5.0",
		MaxVersion:              "0.9.99",
		Mode:                    ModeCoupled,
		State:                   "address payable {var_addr};",
		Setter:                  "{var_addr} = address(uint160({input_param}));",
		Executor:                "{var_addr}.send(msg.value);",
		RequiresPayableExecutor: true,
		SetterNeedsArgs:         true,
		VarKinds:                []string{"addr"},
	},
	{
		Name:                    "tod_call_04x",
		Description:             "Transaction Order Dependence - call.value (Solidity 0.4.x)",
		Vuln:                    VulnTOD,
		MinVersion:              "0.4.11",
		MaxVersion:              "0.4.99",
		Mode:                    ModeCoupled,
		State:                   "address {var_addr};",
		Setter:                  "{var_addr} = {input_param};",
		Executor:                "require({var_addr}.call.value(msg.value)(\"\"));",
		RequiresPayableExecutor: true,
		SetterNeedsArgs:         true,
		VarKinds:                []string{"addr"},
	},
	{
		Name:                    "tod_call_legacy",
		Description:             "Transaction Order Dependence - call.value (Solidity 0.5-0.6)",
		Vuln:                    VulnTOD,
		MinVersion:              "0.5.0",
		MaxVersion:              "0.6.99",
		Mode:                    ModeCoupled,
		State:                   "address payable {var_addr};",
		Setter:                  "{var_addr} = address(uint160({input_param}));",
		Executor:                "(bool success, ) = {var_addr}.call.value(msg.value)(\"\");\n{indent}require(success);",
		RequiresPayableExecutor: true,
		SetterNeedsArgs:         true,
		VarKinds:                []string{"addr"},
	},
	{
		Name:                    "tod_call_modern",
		Description:             "Transaction Order Dependence - call{value:} (Solidity >=0.7)",
		Vuln:                    VulnTOD,
		MinVersion:              "0.7.0",
		MaxVersion:              "0.9.99",
		Mode:                    ModeCoupled,
		State:                   "address payable {var_addr};",
		Setter:                  "{var_addr} = payable({input_param});",
		Executor:                "(bool success, ) = {var_addr}.call{value: msg.value}(\"\");\n{indent}require(success);",
		RequiresPayableExecutor: true,
		SetterNeedsArgs:         true,
		VarKinds:                []string{"addr"},
	},

	// 访问控制：owner 变更无鉴权
	{
		Name:            "access_control_owner",
		Description:     "Access Control - unprotected owner change",
		Vuln:            VulnAccessControl,
		MinVersion:      "0.4.11",
		MaxVersion:      "0.9.99",
		Mode:            ModeCoupled,
		State:           "address {var_addr};",
		Setter:          "{var_addr} = {input_param};",
		Executor:        "require(msg.sender == {var_addr});",
		SetterNeedsArgs: true,
		VarKinds:        []string{"addr"},
	},

	// 时间戳解锁
	{
		Name:                    "timestamp_unlock",
		Description:             "Timestamp Dependence - block.timestamp based unlock",
		Vuln:                    VulnTimestamp,
		MinVersion:              "0.4.11",
		MaxVersion:              "0.9.99",
		Mode:                    ModeCoupled,
		State:                   "uint256 {var_time};\n    address payable {var_addr};",
		Setter:                  "{var_time} = block.timestamp + 1 days;\n{indent}{var_addr} = msg.sender;",
		Executor:                "require(block.timestamp >= {var_time});\n{indent}{var_addr}.transfer(msg.value);",
		RequiresPayableExecutor: true,
		SetterNeedsArgs:         true,
		VarKinds:                []string{"addr", "time"},
	},

	// DoS：循环里做外部调用的退款模式
	{
		Name:        "dos_refund_legacy",
		Description: "Denial of Service - refund pattern with external call (Solidity <0.5)",
		Vuln:        VulnDOS,
		MinVersion:  "0.4.11",
		MaxVersion:  "0.4.99",
		Mode:        ModeCoupled,
		State:       "address[] {var_array};\n    mapping(address => uint256) {var_mapping};",
		Setter:      "{var_array}.push({input_param});\n{indent}{var_mapping}[{input_param}] = msg.value;",
		Executor: "for(uint i = 0; i < {var_array}.length; i++) {\n" +
			"{indent}    {var_array}[i].transfer({var_mapping}[{var_array}[i]]);\n" +
			"{indent}}",
		SetterNeedsArgs: true,
		VarKinds:        []string{"array", "mapping", "addr"},
	},
	{
		Name:        "dos_refund_050",
		Description: "Denial of Service - refund pattern with external call (Solidity 0.5.x)",
		Vuln:        VulnDOS,
		MinVersion:  "0.5.0",
		MaxVersion:  "0.5.99",
		Mode:        ModeCoupled,
		State:       "address payable[] {var_array};\n    mapping(address => uint256) {var_mapping};",
		Setter:      "{var_array}.push(address(uint160({input_param})));\n{indent}{var_mapping}[{input_param}] = msg.value;",
		Executor: "for(uint i = 0; i < {var_array}.length; i++) {\n" +
			"{indent}    {var_array}[i].transfer({var_mapping}[{var_array}[i]]);\n" +
			"{indent}}",
		NeedsPayableSetter: true,
		SetterNeedsArgs:    true,
		VarKinds:           []string{"array", "mapping", "addr"},
	},
	{
		Name:        "dos_refund",
		Description: "Denial of Service - refund pattern with external call (Solidity >=0.6)",
		Vuln:        VulnDOS,
		MinVersion:  "0.6.0",
		MaxVersion:  "0.9.99",
		Mode:        ModeCoupled,
		State:       "address payable[] {var_array};\n    mapping(address => uint256) {var_mapping};",
		Setter:      "{var_array}.push(payable({input_param}));\n{indent}{var_mapping}[{input_param}] = msg.value;",
		Executor: "for(uint i = 0; i < {var_array}.length; i++) {\n" +
			"{indent}    {var_array}[i].transfer({var_mapping}[{var_array}[i]]);\n" +
			"{indent}}",
		SetterNeedsArgs: true,
		VarKinds:        []string{"array", "mapping", "addr"},
	},

	// 跨函数的先调用后记账
	{
		Name:        "state_update_after_call",
		Description: "State update after external call pattern",
		Vuln:        VulnReentrancy,
		MinVersion:  "0.4.11",
		MaxVersion:  "0.4.99",
		Mode:        ModeCoupled,
		State:       "mapping(address => uint256) {var_mapping};\n    address {var_addr};",
		Setter:      "{var_mapping}[msg.sender] = msg.value;\n{indent}{var_addr} = msg.sender;",
		Executor: "uint256 amount = {var_mapping}[msg.sender];\n" +
			"{indent}{var_addr}.call.value(amount)(\"\");\n" +
			"{indent}{var_mapping}[msg.sender] = 0;",
		VarKinds: []string{"addr", "mapping"},
	},

	// 重入类跨函数模板
	{
		Name:        "reentrancy_call_check",
		Description: "Reentrancy with conditional success check",
		Vuln:        VulnReentrancy,
		MinVersion:  "0.5.0",
		MaxVersion:  "0.6.99",
		Mode:        ModeCoupled,
		State:       "mapping(address => uint256) {var_mapping};",
		Setter:      "{var_mapping}[msg.sender] = msg.value;",
		Executor: "(bool success,) = msg.sender.call.value({var_mapping}[msg.sender])(\"\");\n" +
			"{indent}if (success)\n" +
			"{indent}    {var_mapping}[msg.sender] = 0;",
		NeedsPayableSetter: true,
		VarKinds:           []string{"mapping"},
	},
	{
		Name:        "reentrancy_send_check",
		Description: "Reentrancy with send success check",
		Vuln:        VulnReentrancy,
		MinVersion:  "0.4.11",
		MaxVersion:  "0.9.99",
		Mode:        ModeCoupled,
		State:       "mapping(address => uint256) {var_mapping};",
		Setter:      "{var_mapping}[msg.sender] = msg.value;",
		Executor: "if (msg.sender.send({var_mapping}[msg.sender]))\n" +
			"{indent}    {var_mapping}[msg.sender] = 0;",
		NeedsPayableSetter: true,
		VarKinds:           []string{"mapping"},
	},
	{
		Name:        "reentrancy_require_send",
		Description: "Reentrancy with require(send)",
		Vuln:        VulnReentrancy,
		MinVersion:  "0.4.11",
		MaxVersion:  "0.9.99",
		Mode:        ModeCoupled,
		State:       "mapping(address => uint256) {var_mapping};",
		Setter:      "{var_mapping}[msg.sender] = msg.value;",
		Executor: "require(msg.sender.send({var_mapping}[msg.sender]));\n" +
			"{indent}{var_mapping}[msg.sender] = 0;",
		NeedsPayableSetter: true,
		VarKinds:           []string{"mapping"},
	},
	{
		Name:        "reentrancy_bool_guard",
		Description: "Reentrancy with boolean guard (flawed)",
		Vuln:        VulnReentrancy,
		MinVersion:  "0.4.11",
		MaxVersion:  "0.9.99",
		Mode:        ModeCoupled,
		State:       "bool {var_bool} = true;",
		Setter:      "{var_bool} = true;",
		Executor: "require({var_bool});\n" +
			"{indent}if (!msg.sender.send(1 ether)) {\n" +
			"{indent}    revert();\n" +
			"{indent}}\n" +
			"{indent}{var_bool} = false;",
		VarKinds: []string{"bool"},
	},
	{
		Name:        "reentrancy_jackpot",
		Description: "Jackpot-style reentrancy",
		Vuln:        VulnReentrancy,
		MinVersion:  "0.4.11",
		MaxVersion:  "0.9.99",
		Mode:        ModeCoupled,
		State:       "address payable {var_addr};\n    uint256 {var_uint};",
		Setter:      "{var_addr} = msg.sender;\n{indent}{var_uint} = {input_param};",
		Executor: "if ({var_addr}.send({var_uint})) {\n" +
			"{indent}    {var_uint} = 0;\n" +
			"{indent}}",
		VarKinds:       []string{"addr", "uint"},
		NeedsUintParam: true,
	},
	{
		Name:        "logging_reentrancy_04x",
		Description: "Reentrancy with external logging (Solidity 0.4.x)",
		Vuln:        VulnReentrancy,
		MinVersion:  "0.4.11",
		MaxVersion:  "0.4.99",
		Mode:        ModeCoupled,
		State: "mapping(address => uint256) {var_mapping};\n" +
			"address {var_addr};",
		Setter: "{var_addr} = {input_param};",
		Executor: "if ({var_mapping}[msg.sender] > 0) {\n" +
			"{indent}    uint256 _amount = {var_mapping}[msg.sender];\n" +
			"{indent}    if (msg.sender.call.value(_amount)()) {\n" +
			"{indent}        {var_mapping}[msg.sender] = 0;\n" +
			"{indent}        {var_addr}.call(bytes4(keccak256(\"AddMessage(address,uint256,string)\")), msg.sender, _amount, \"Withdrawal\");\n" +
			"{indent}    }\n" +
			"{indent}}",
		VarKinds:       []string{"mapping", "addr"},
		NeedsAddrParam: true,
	},
	{
		Name:        "logging_reentrancy_modern",
		Description: "Reentrancy with external logging (Solidity 0.7+)",
		Vuln:        VulnReentrancy,
		MinVersion:  "0.7.0",
		MaxVersion:  "0.9.99",
		Mode:        ModeCoupled,
		State: "mapping(address => uint256) {var_mapping};\n" +
			"address {var_addr};",
		Setter: "{var_addr} = {input_param};",
		Executor: "if ({var_mapping}[msg.sender] > 0) {\n" +
			"{indent}    uint256 _amount = {var_mapping}[msg.sender];\n" +
			"{indent}    (bool success,) = payable(msg.sender).call{value: _amount}(\"\");\n" +
			"{indent}    if (success) {\n" +
			"{indent}        {var_mapping}[msg.sender] = 0;\n" +
			"{indent}        (bool logSuccess,) = {var_addr}.call(abi.encodeWithSignature(\"AddMessage(address,uint256,string)\", msg.sender, _amount, \"Withdrawal\"));\n" +
			"{indent}        require(logSuccess);\n" +
			"{indent}    }\n" +
			"{indent}}",
		VarKinds:       []string{"mapping", "addr"},
		NeedsAddrParam: true,
	},
	{
		Name:        "min_balance_reentrancy",
		Description: "Reentrancy with minimum balance check",
		Vuln:        VulnReentrancy,
		MinVersion:  "0.7.0",
		MaxVersion:  "0.9.99",
		Mode:        ModeCoupled,
		State: "mapping(address => uint256) {var_mapping};\n" +
			"uint256 {var_uint} = 0.1 ether;",
		Setter: "{var_uint} = {input_param};",
		Executor: "if ({var_mapping}[msg.sender] >= {var_uint}) {\n" +
			"{indent}    uint256 withdrawAmount = {var_mapping}[msg.sender];\n" +
			"{indent}    (bool success,) = msg.sender.call{value: withdrawAmount}(\"\");\n" +
			"{indent}    if (success) {\n" +
			"{indent}        {var_mapping}[msg.sender] = 0;\n" +
			"{indent}    }\n" +
			"{indent}}",
		VarKinds:       []string{"mapping", "uint"},
		NeedsUintParam: true,
	},
	{
		Name:        "cross_function_reentrancy_04x",
		Description: "Cross-function reentrancy - withdraw and transfer share same mapping (Solidity 0.4.x)",
		Vuln:        VulnReentrancy,
		MinVersion:  "0.4.0",
		MaxVersion:  "0.4.99",
		Mode:        ModeCoupled,
		State: "mapping(address => uint256) {var_mapping};\n" +
			"{indent}function transfer_{var_mapping}(address _to, uint256 _amount) public {\n" +
			"{indent}    require({var_mapping}[msg.sender] >= _amount);\n" +
			"{indent}    {var_mapping}[_to] += _amount;\n" +
			"{indent}    {var_mapping}[msg.sender] -= _amount;\n" +
			"{indent}}",
		Setter: "{var_mapping}[msg.sender] += msg.value;",
		Executor: "uint256 _bal = {var_mapping}[msg.sender];\n" +
			"{indent}if (_bal > 0) {\n" +
			"{indent}    require(msg.sender.call.value(_bal)());\n" +
			"{indent}    {var_mapping}[msg.sender] = 0;\n" +
			"{indent}}",
		NeedsPayableSetter: true,
		VarKinds:           []string{"mapping"},
	},
	{
		Name:        "cross_function_reentrancy_legacy",
		Description: "Cross-function reentrancy - withdraw and transfer share same mapping (Solidity 0.5-0.6)",
		Vuln:        VulnReentrancy,
		MinVersion:  "0.5.0",
		MaxVersion:  "0.6.99",
		Mode:        ModeCoupled,
		State: "mapping(address => uint256) {var_mapping};\n" +
			"{indent}function transfer_{var_mapping}(address _to, uint256 _amount) public {\n" +
			"{indent}    require({var_mapping}[msg.sender] >= _amount);\n" +
			"{indent}    {var_mapping}[_to] += _amount;\n" +
			"{indent}    {var_mapping}[msg.sender] -= _amount;\n" +
			"{indent}}",
		Setter: "{var_mapping}[msg.sender] += msg.value;",
		Executor: "uint256 _bal = {var_mapping}[msg.sender];\n" +
			"{indent}if (_bal > 0) {\n" +
			"{indent}    (bool _ok,) = msg.sender.call.value(_bal)(\"\");\n" +
			"{indent}    require(_ok);\n" +
			"{indent}    {var_mapping}[msg.sender] = 0;\n" +
			"{indent}}",
		NeedsPayableSetter: true,
		VarKinds:           []string{"mapping"},
	},
	{
		Name:        "cross_function_reentrancy",
		Description: "Cross-function reentrancy - withdraw and transfer share same mapping (Solidity >=0.7)",
		Vuln:        VulnReentrancy,
		MinVersion:  "0.7.0",
		MaxVersion:  "0.9.99",
		Mode:        ModeCoupled,
		State: "mapping(address => uint256) {var_mapping};\n" +
			"{indent}function transfer_{var_mapping}(address _to, uint256 _amount) public {\n" +
			"{indent}    require({var_mapping}[msg.sender] >= _amount);\n" +
			"{indent}    {var_mapping}[_to] += _amount;\n" +
			"{indent}    {var_mapping}[msg.sender] -= _amount;\n" +
			"{indent}}",
		Setter: "{var_mapping}[msg.sender] += msg.value;",
		Executor: "uint256 _bal = {var_mapping}[msg.sender];\n" +
			"{indent}if (_bal > 0) {\n" +
			"{indent}    (bool _ok,) = msg.sender.call{value: _bal}(\"\");\n" +
			"{indent}    require(_ok);\n" +
			"{indent}    {var_mapping}[msg.sender] = 0;\n" +
			"{indent}}",
		NeedsPayableSetter: true,
		VarKinds:           []string{"mapping"},
	},

	// 溢出 / 时间戳的跨函数变体
	{
		Name:           "lock_time_overflow",
		Description:    "Lock time overflow pattern",
		Vuln:           VulnOverflow,
		MinVersion:     "0.4.11",
		MaxVersion:     "0.7.99",
		Mode:           ModeCoupled,
		State:          "mapping(address => uint256) {var_time};",
		Setter:         "{var_time}[msg.sender] += {input_param};",
		Executor:       "require(block.timestamp > {var_time}[msg.sender]);",
		VarKinds:       []string{"time"},
		NeedsUintParam: true,
	},
	{
		Name:        "timestamp_winner",
		Description: "Winner selection based on timestamp",
		Vuln:        VulnTimestamp,
		MinVersion:  "0.4.11",
		MaxVersion:  "0.9.99",
		Mode:        ModeCoupled,
		State:       "address {var_addr};",
		Setter: "if ({input_param} + (5 * 1 days) == block.timestamp) {\n" +
			"{indent}    {var_addr} = msg.sender;\n" +
			"{indent}}",
		Executor:       "require(msg.sender == {var_addr});",
		VarKinds:       []string{"addr"},
		NeedsUintParam: true,
	},
}
