package types

// 默认求解参数常量定义
const (
	DefaultRelTol   = 1e-3 // 默认相对误差容差
	DefaultAbsTol   = 1e-6 // 默认绝对误差容差
	DefaultMaxSteps = 1e6  // 默认最大积分步数
	DefaultPoints   = 200  // 默认采样点数量
	DefaultTimeEnd  = 3000 // 默认结束时间
)

// 步长控制常量
const (
	SafetyFactor = 0.9 // 步长调整安全系数
	MinFactor    = 0.2 // 最小步长缩减倍数
	MaxFactor    = 10  // 最大步长增长倍数
)

// ConservationTolerance 严格模式下概率守恒检查容差
const ConservationTolerance = 1e-6
