package types

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Span 积分时间区间 [Start, End]
type Span struct {
	Start float64 `yaml:"start" json:"start"`
	End   float64 `yaml:"end" json:"end"`
}

// NewSpan 创建时间区间
func NewSpan(start, end float64) Span { return Span{Start: start, End: end} }

// Length 区间长度（可为负，表示反向积分）
func (s Span) Length() float64 { return s.End - s.Start }

// Direction 积分方向 (+1 / -1)
func (s Span) Direction() float64 {
	if s.End < s.Start {
		return -1
	}
	return 1
}

// Contains 判断 t 是否落在区间内（与方向无关）
func (s Span) Contains(t float64) bool {
	lo, hi := math.Min(s.Start, s.End), math.Max(s.Start, s.End)
	return t >= lo && t <= hi
}

// Validate 严格模式下检查区间顺序
func (s Span) Validate() error {
	if math.IsNaN(s.Start) || math.IsNaN(s.End) || s.Start >= s.End {
		return fmt.Errorf("%w: [%g, %g]", ErrInvalidSpan, s.Start, s.End)
	}
	return nil
}

// Linspace 返回区间内 n 个均匀分布的采样点，包含两个端点
func (s Span) Linspace(n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{s.Start}
	}
	return floats.Span(make([]float64, n), s.Start, s.End)
}
