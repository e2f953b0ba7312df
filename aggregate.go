package reliability

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"reliability/ode"
	"reliability/types"
)

// Aggregate 对选定状态的概率逐点求和，得到系统工作概率曲线
// 结果长度与采样点数量一致；green 为空时返回全零曲线
func Aggregate(sol *ode.Solution, green []int) ([]float64, error) {
	if sol == nil {
		return nil, fmt.Errorf("%w: 求解结果为空", types.ErrInvalidInput)
	}
	out := make([]float64, len(sol.T))
	for _, i := range green {
		if i < 0 || i >= len(sol.Y) {
			return nil, fmt.Errorf("%w: %d 超出 [0, %d)", types.ErrStateIndex, i, len(sol.Y))
		}
		floats.Add(out, sol.Y[i])
	}
	return out, nil
}
