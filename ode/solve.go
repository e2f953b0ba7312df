package ode

import (
	"fmt"
	"math"

	"reliability/types"
)

// Integrate 求解初值问题 dy/dt = f(t, y), y(span.Start) = y0
// tEval 为采样时间，必须位于区间内且沿积分方向单调；为 nil 时输出每个接受步
// 输入非法时返回错误；数值失败通过 Solution.Success/Status 报告
func Integrate(f Func, span types.Span, y0 []float64, tEval []float64, cfg Config) (*Solution, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: 右端函数为空", types.ErrInvalidInput)
	}
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	if math.IsNaN(span.Start) || math.IsNaN(span.End) || math.IsInf(span.Start, 0) || math.IsInf(span.End, 0) {
		return nil, fmt.Errorf("%w: 时间区间必须为有限值 [%g, %g]", types.ErrInvalidInput, span.Start, span.End)
	}
	if err := checkEval(span, tEval); err != nil {
		return nil, err
	}

	r := newRK45(f, span.Start, y0, span.End, cfg)
	sol := &Solution{Y: make([][]float64, len(y0))}
	for i := range sol.Y {
		sol.Y[i] = make([]float64, 0, len(tEval))
	}
	var dense *DenseOutput
	if cfg.DenseOutput {
		dense = &DenseOutput{direction: r.direction}
	}

	// 采样点游标
	next := 0
	if tEval == nil {
		sol.record(r.t, r.y)
	}
	buf := make([]float64, len(y0))
	status := statusRunning
	if r.finished() {
		status = StatusSuccess
		for ; next < len(tEval); next++ {
			sol.record(tEval[next], r.y)
		}
	}
	for status == statusRunning {
		if r.nsteps >= cfg.MaxSteps {
			status = StatusMaxSteps
			break
		}
		if s := r.step(); s != statusRunning {
			status = s
			break
		}
		if r.finished() {
			status = StatusSuccess
		}
		if tEval == nil {
			sol.record(r.t, r.y)
		} else {
			seg := newSegment(r)
			// 记录落在 [tOld, t] 内的采样点
			for ; next < len(tEval) && r.direction*(tEval[next]-r.t) <= 0; next++ {
				seg.evalInto(tEval[next], buf)
				sol.record(tEval[next], buf)
			}
			if dense != nil {
				dense.segments = append(dense.segments, seg)
			}
			continue
		}
		if dense != nil {
			dense.segments = append(dense.segments, newSegment(r))
		}
	}

	sol.Sol = dense
	sol.NFev = r.nfev
	sol.NRejected = r.nrejected
	sol.NSteps = r.nsteps - r.nrejected
	sol.Status = status
	sol.Message = statusMessage[status]
	sol.Success = status == StatusSuccess
	return sol, nil
}

// checkEval 检查采样时间是否位于区间内并沿积分方向单调
// 零长度区间上所有采样时间都等于起点，不检查单调性
func checkEval(span types.Span, tEval []float64) error {
	dir := span.Direction()
	zero := span.Length() == 0
	for i, t := range tEval {
		if !span.Contains(t) {
			return fmt.Errorf("%w: 采样时间 %g 超出区间 [%g, %g]", types.ErrInvalidInput, t, span.Start, span.End)
		}
		if !zero && i > 0 && dir*(t-tEval[i-1]) <= 0 {
			return fmt.Errorf("%w: 采样时间必须沿积分方向严格单调 (第 %d 个)", types.ErrInvalidInput, i)
		}
	}
	return nil
}
