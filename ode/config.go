package ode

import (
	"fmt"
	"math"

	"reliability/types"
)

// Config 积分器配置
// 每次求解显式传入，不依赖任何全局状态
type Config struct {
	RelTol      float64 `yaml:"rtol" json:"rtol"`                 // 相对误差容差
	AbsTol      float64 `yaml:"atol" json:"atol"`                 // 绝对误差容差
	FirstStep   float64 `yaml:"first_step" json:"first_step"`     // 初始步长，0 表示自动选择
	MaxStep     float64 `yaml:"max_step" json:"max_step"`         // 最大步长，0 表示不限制
	MaxSteps    int     `yaml:"max_steps" json:"max_steps"`       // 最大积分步数（含被拒绝的步）
	DenseOutput bool    `yaml:"dense_output" json:"dense_output"` // 是否保留连续插值
}

// DefaultConfig 默认配置：宽松容差，适合交互式重绘
func DefaultConfig() Config {
	return Config{
		RelTol:   types.DefaultRelTol,
		AbsTol:   types.DefaultAbsTol,
		MaxSteps: types.DefaultMaxSteps,
	}
}

// normalize 补全零值字段并检查取值
func (c Config) normalize() (Config, error) {
	def := DefaultConfig()
	if c.RelTol == 0 {
		c.RelTol = def.RelTol
	}
	if c.AbsTol == 0 {
		c.AbsTol = def.AbsTol
	}
	if c.MaxSteps == 0 {
		c.MaxSteps = def.MaxSteps
	}
	if c.MaxStep == 0 {
		c.MaxStep = math.Inf(1)
	}
	switch {
	case !(c.RelTol > 0) || !(c.AbsTol > 0):
		return c, fmt.Errorf("%w: 容差必须大于0 (rtol=%g, atol=%g)", types.ErrInvalidInput, c.RelTol, c.AbsTol)
	case !(c.MaxStep > 0):
		return c, fmt.Errorf("%w: 最大步长必须大于0 (%g)", types.ErrInvalidInput, c.MaxStep)
	case c.FirstStep < 0 || math.IsNaN(c.FirstStep):
		return c, fmt.Errorf("%w: 初始步长不能为负 (%g)", types.ErrInvalidInput, c.FirstStep)
	case c.MaxSteps < 0:
		return c, fmt.Errorf("%w: 最大步数不能为负 (%d)", types.ErrInvalidInput, c.MaxSteps)
	}
	// 过小的相对容差无法达到
	if c.RelTol < 100*epsilon {
		c.RelTol = 100 * epsilon
	}
	return c, nil
}
