package types

import "errors"

// 错误定义
var (
	ErrInvalidInput = errors.New("输入参数无效")
	ErrNotConverged = errors.New("数值积分未完成")
	ErrStateIndex   = errors.New("状态索引越界")
	ErrInvalidRate  = errors.New("速率参数必须为正数")
	ErrInvalidSpan  = errors.New("时间区间起点必须小于终点")
	ErrNotConserved = errors.New("状态概率之和偏离 1")
	ErrSuperseded   = errors.New("求解请求已被更新的请求取代")
	ErrUnknownModel = errors.New("未知系统类型")
)
