package injector

import "errors"

var (
	// ErrNoLocations 源文件里没有任何满足条件的注入位置
	ErrNoLocations = errors.New("no suitable injection locations found")

	// ErrNoCompatibleTemplate 没有同时满足版本和位置约束的模板
	ErrNoCompatibleTemplate = errors.New("no compatible injection templates")

	// ErrTemplateIncompatible 指定的模板与选中的位置不兼容
	ErrTemplateIncompatible = errors.New("template incompatible with location")

	// ErrUnknownTemplate 指定的模板名在注册表里不存在
	ErrUnknownTemplate = errors.New("template not found")

	// ErrTemplateVersionMismatch 指定的模板与合约的编译器版本不兼容
	ErrTemplateVersionMismatch = errors.New("template incompatible with solidity version")

	// ErrDuplicateOffset 两段载荷落在同一偏移上，拼接结果依赖顺序，直接拒绝
	ErrDuplicateOffset = errors.New("duplicate payload offset")

	// ErrUnresolvedRange 载荷偏移落在源文件范围之外
	ErrUnresolvedRange = errors.New("payload offset outside source range")
)
