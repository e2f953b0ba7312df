package markov

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"reliability/types"
)

// Transition 状态转移 From -> To，速率由 Rate 指定
type Transition struct {
	From, To int
	Rate     RateID
}

// Chain 连续时间马尔可夫链
// 转移表是唯一的数据源，右端函数、生成矩阵和守恒检查都由它推导
type Chain struct {
	name        string
	states      int
	transitions []Transition
	green       []int
	labels      []string
}

// NewChain 由转移表创建马尔可夫链
func NewChain(name string, states int, transitions []Transition, green []int) (*Chain, error) {
	if states <= 0 {
		return nil, fmt.Errorf("%w: 状态数量必须大于0 (%d)", types.ErrInvalidInput, states)
	}
	for _, tr := range transitions {
		if tr.From < 0 || tr.From >= states || tr.To < 0 || tr.To >= states {
			return nil, fmt.Errorf("%w: 转移 %d -> %d 超出 [0, %d)", types.ErrStateIndex, tr.From, tr.To, states)
		}
		if tr.From == tr.To {
			return nil, fmt.Errorf("%w: 状态 %d 存在自环转移", types.ErrInvalidInput, tr.From)
		}
	}
	for _, g := range green {
		if g < 0 || g >= states {
			return nil, fmt.Errorf("%w: 工作状态 %d 超出 [0, %d)", types.ErrStateIndex, g, states)
		}
	}
	labels := make([]string, states)
	for i := range labels {
		labels[i] = fmt.Sprintf("P%d", i)
	}
	return &Chain{
		name:        name,
		states:      states,
		transitions: append([]Transition(nil), transitions...),
		green:       append([]int(nil), green...),
		labels:      labels,
	}, nil
}

// MustChain 同 NewChain，出错时 panic；仅用于包内固定结构
func MustChain(name string, states int, transitions []Transition, green []int) *Chain {
	c, err := NewChain(name, states, transitions, green)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Chain) Name() string { return c.name }
func (c *Chain) States() int  { return c.states }

// Transitions 转移表副本
func (c *Chain) Transitions() []Transition { return append([]Transition(nil), c.transitions...) }

// Green 工作状态索引副本
func (c *Chain) Green() []int { return append([]int(nil), c.green...) }

// Labels 状态标签副本
func (c *Chain) Labels() []string { return append([]string(nil), c.labels...) }

// InitialState 全部正常的初始分布 [1, 0, ..., 0]
func (c *Chain) InitialState() []float64 {
	p := make([]float64, c.states)
	p[0] = 1
	return p
}

// resolve 把转移表中的速率标识解析为数值
func (c *Chain) resolve(rates Rates) ([]float64, error) {
	if rates == nil {
		return nil, fmt.Errorf("%w: 速率参数为空", types.ErrInvalidInput)
	}
	k := make([]float64, len(c.transitions))
	for i, tr := range c.transitions {
		v, ok := rates.Rate(tr.Rate)
		if !ok {
			return nil, fmt.Errorf("%w: %s 缺少速率参数 %s", types.ErrInvalidInput, c.name, tr.Rate)
		}
		k[i] = v
	}
	return k, nil
}

// Derivative 返回 dP/dt = Qᵀ·P 的右端函数
// 链是时齐的，结果与 t 无关；每条转移的流量在源状态减去、在目标状态加上，因此各分量之和为零
func (c *Chain) Derivative(rates Rates) (func(t float64, p, dp []float64), error) {
	k, err := c.resolve(rates)
	if err != nil {
		return nil, err
	}
	transitions := c.transitions
	return func(_ float64, p, dp []float64) {
		for i := range dp {
			dp[i] = 0
		}
		for i, tr := range transitions {
			flux := k[i] * p[tr.From]
			dp[tr.From] -= flux
			dp[tr.To] += flux
		}
	}, nil
}

// Generator 生成矩阵 Q：Q[i][j] 为 i->j 的速率，对角元为该行出流之和的相反数
func (c *Chain) Generator(rates Rates) (*mat.Dense, error) {
	k, err := c.resolve(rates)
	if err != nil {
		return nil, err
	}
	q := mat.NewDense(c.states, c.states, nil)
	for i, tr := range c.transitions {
		q.Set(tr.From, tr.To, q.At(tr.From, tr.To)+k[i])
		q.Set(tr.From, tr.From, q.At(tr.From, tr.From)-k[i])
	}
	return q, nil
}

// Outflow 状态 i 的总出流速率
func (c *Chain) Outflow(i int, rates Rates) (float64, error) {
	k, err := c.resolve(rates)
	if err != nil {
		return 0, err
	}
	var sum float64
	for n, tr := range c.transitions {
		if tr.From == i {
			sum += k[n]
		}
	}
	return sum, nil
}

// Absorbing 在给定速率下没有出流的状态
func (c *Chain) Absorbing(rates Rates) ([]int, error) {
	k, err := c.resolve(rates)
	if err != nil {
		return nil, err
	}
	out := make([]float64, c.states)
	for n, tr := range c.transitions {
		out[tr.From] += k[n]
	}
	var list []int
	for i, v := range out {
		if v == 0 {
			list = append(list, i)
		}
	}
	return list, nil
}
