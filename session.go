package reliability

import (
	"errors"
	"fmt"
	"sync/atomic"

	"reliability/markov"
	"reliability/ode"
	"reliability/types"
)

// Request 一次求解并汇总的请求
type Request struct {
	Model   Model
	Rates   markov.Rates
	Span    types.Span
	Initial []float64  // 为空时从全部正常状态开始
	TEval   []float64  // 为空时使用 types.DefaultPoints 个均匀采样点
	Config  ode.Config // 零值字段使用默认配置
	Strict  bool       // 严格模式：校验速率、时间区间与概率守恒
}

// Result 求解结果：原始状态曲线与工作概率曲线
type Result struct {
	ID          uint64        // 请求编号
	Model       Model         // 系统类型
	Rates       markov.Rates  // 速率参数
	Labels      []string      // 状态标签
	Green       []int         // 工作状态
	Solution    *ode.Solution // 原始求解结果
	Operational []float64     // 工作概率曲线
}

// Solve 求解并汇总
func Solve(req Request) (*Result, error) {
	chain, err := req.Model.Chain()
	if err != nil {
		return nil, err
	}
	if req.Strict {
		if req.Rates == nil {
			return nil, fmt.Errorf("%w: 速率参数为空", types.ErrInvalidInput)
		}
		if err := errors.Join(req.Rates.Validate(), req.Span.Validate()); err != nil {
			return nil, err
		}
	}
	tEval := req.TEval
	if tEval == nil {
		tEval = req.Span.Linspace(types.DefaultPoints)
	}
	sol, err := SolveChain(chain, req.Rates, req.Span, req.Initial, tEval, req.Config)
	if sol == nil {
		return nil, err
	}
	res := &Result{
		Model:    req.Model,
		Rates:    req.Rates,
		Labels:   chain.Labels(),
		Green:    chain.Green(),
		Solution: sol,
	}
	// 失败时也汇总部分结果，便于调用方诊断
	res.Operational, _ = Aggregate(sol, res.Green)
	if err != nil {
		return res, err
	}
	if req.Strict {
		if err := CheckConservation(sol, types.ConservationTolerance); err != nil {
			return res, err
		}
	}
	return res, nil
}

// Session 按请求顺序编号的求解会话
// 较新的请求开始后，尚未完成的旧请求结果作废（后到者胜出）
type Session struct {
	latest atomic.Uint64
	solve  func(Request) (*Result, error)
}

// Solve 求解请求；若完成时已有更新的请求，返回结果和 types.ErrSuperseded，求解本身的错误一并返回
func (s *Session) Solve(req Request) (*Result, error) {
	id := s.latest.Add(1)
	solve := s.solve
	if solve == nil {
		solve = Solve
	}
	res, err := solve(req)
	if res != nil {
		res.ID = id
	}
	if latest := s.latest.Load(); latest != id {
		return res, errors.Join(fmt.Errorf("%w: 请求 %d，最新 %d", types.ErrSuperseded, id, latest), err)
	}
	return res, err
}

// Latest 最近一次请求的编号
func (s *Session) Latest() uint64 { return s.latest.Load() }
