// Package reliability 以连续时间马尔可夫链描述多部件系统的可靠性，
// 数值积分前向 Kolmogorov 方程得到各状态概率随时间的变化，并汇总系统工作概率。
package reliability

import (
	"context"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"reliability/logger"
	"reliability/markov"
	"reliability/ode"
	"reliability/types"
)

// Model 系统类型
type Model int

const (
	Nonrecoverable Model = iota // 不可恢复系统
	Recoverable                 // 可恢复系统
)

var modelNames = [...]string{
	Nonrecoverable: "Nonrecoverable",
	Recoverable:    "Recoverable",
}

func (m Model) String() string {
	if m >= 0 && int(m) < len(modelNames) {
		return modelNames[m]
	}
	return fmt.Sprintf("Model(%d)", int(m))
}

// ParseModel 解析系统类型名称（不区分大小写）
func ParseModel(s string) (Model, error) {
	for m, name := range modelNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Model(m), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", types.ErrUnknownModel, s)
}

// Chain 系统类型对应的马尔可夫链
func (m Model) Chain() (*markov.Chain, error) {
	switch m {
	case Nonrecoverable:
		return markov.Nonrecoverable, nil
	case Recoverable:
		return markov.Recoverable, nil
	}
	return nil, fmt.Errorf("%w: %s", types.ErrUnknownModel, m)
}

// SolveNonrecoverable 求解不可恢复系统
func SolveNonrecoverable(span types.Span, p0 []float64, rates markov.NonrecoverableRates, tEval []float64, cfg ode.Config) (*ode.Solution, error) {
	return SolveChain(markov.Nonrecoverable, rates, span, p0, tEval, cfg)
}

// SolveRecoverable 求解可恢复系统
func SolveRecoverable(span types.Span, p0 []float64, rates markov.RecoverableRates, tEval []float64, cfg ode.Config) (*ode.Solution, error) {
	return SolveChain(markov.Recoverable, rates, span, p0, tEval, cfg)
}

// SolveChain 对任意马尔可夫链求解状态概率
// 求解失败时同时返回部分结果与 types.ErrNotConverged，调用方不应信任其中的数据
func SolveChain(chain *markov.Chain, rates markov.Rates, span types.Span, p0 []float64, tEval []float64, cfg ode.Config) (*ode.Solution, error) {
	if p0 == nil {
		p0 = chain.InitialState()
	}
	if len(p0) != chain.States() {
		return nil, fmt.Errorf("%w: 初始向量长度 %d，%s 需要 %d", types.ErrInvalidInput, len(p0), chain.Name(), chain.States())
	}
	f, err := chain.Derivative(rates)
	if err != nil {
		return nil, err
	}
	sol, err := ode.Integrate(f, span, p0, tEval, cfg)
	if err != nil {
		return nil, err
	}
	logger.Solution(context.Background(), chain.Name(), sol)
	if !sol.Success {
		return sol, fmt.Errorf("%w: %s", types.ErrNotConverged, sol.Message)
	}
	return sol, nil
}

// CheckConservation 检查每个采样点的状态概率之和是否为 1
func CheckConservation(sol *ode.Solution, tol float64) error {
	for k := range sol.T {
		sum := floats.Sum(sol.Column(k))
		if math.IsNaN(sum) || math.Abs(sum-1) > tol {
			return fmt.Errorf("%w: t=%g 时和为 %g", types.ErrNotConserved, sol.T[k], sum)
		}
	}
	return nil
}
