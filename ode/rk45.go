package ode

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"reliability/types"
)

// Func 右端函数 dy/dt = f(t, y)，结果写入 dy
// 参数通过闭包传入，积分器不关心其内容
type Func func(t float64, y, dy []float64)

// rk45 Dormand-Prince 显式积分器状态
type rk45 struct {
	f         Func
	n         int     // 状态维数
	direction float64 // 积分方向 (+1/-1)
	tBound    float64 // 积分终点

	// 当前状态
	t    float64   // 当前时间
	y    []float64 // 当前状态向量
	fy   []float64 // 当前导数（FSAL）
	hAbs float64   // 下一步步长（绝对值）

	// 上一步（用于插值）
	tOld float64
	yOld []float64

	// 工作区
	k     [stages + 1][]float64 // 各级导数
	yNew  []float64
	fNew  []float64
	stage []float64
	scale []float64

	// 误差控制
	rtol    float64
	atol    float64
	maxStep float64

	// 计数
	nfev      int
	nsteps    int
	nrejected int
}

// newRK45 创建积分器并选择初始步长
func newRK45(f Func, t0 float64, y0 []float64, tBound float64, cfg Config) *rk45 {
	n := len(y0)
	r := &rk45{
		f:         f,
		n:         n,
		direction: 1,
		tBound:    tBound,
		t:         t0,
		tOld:      t0,
		y:         append([]float64(nil), y0...),
		yOld:      append([]float64(nil), y0...),
		fy:        make([]float64, n),
		yNew:      make([]float64, n),
		fNew:      make([]float64, n),
		stage:     make([]float64, n),
		scale:     make([]float64, n),
		rtol:      cfg.RelTol,
		atol:      cfg.AbsTol,
		maxStep:   cfg.MaxStep,
	}
	if tBound < t0 {
		r.direction = -1
	}
	for i := range r.k {
		r.k[i] = make([]float64, n)
	}
	r.eval(t0, r.y, r.fy)
	if cfg.FirstStep > 0 {
		r.hAbs = math.Min(cfg.FirstStep, math.Abs(tBound-t0))
	} else {
		r.hAbs = r.initialStep()
	}
	return r
}

func (r *rk45) eval(t float64, y, dy []float64) {
	r.nfev++
	r.f(t, y, dy)
}

// rmsNorm 均方根范数 sqrt(sum((v/scale)^2)/n)
func rmsNorm(v, scale []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var sum float64
	for i, x := range v {
		q := x / scale[i]
		sum += q * q
	}
	return math.Sqrt(sum / float64(len(v)))
}

// initialStep 经验初始步长估计（Hairer 算法）
func (r *rk45) initialStep() float64 {
	if r.n == 0 {
		return math.Inf(1)
	}
	interval := math.Abs(r.tBound - r.t)
	if interval == 0 {
		return 0
	}
	for i, v := range r.y {
		r.scale[i] = r.atol + math.Abs(v)*r.rtol
	}
	d0 := rmsNorm(r.y, r.scale)
	d1 := rmsNorm(r.fy, r.scale)
	h0 := 0.01 * d0 / d1
	if d0 < 1e-5 || d1 < 1e-5 {
		h0 = 1e-6
	}
	h0 = math.Min(h0, interval)
	// 试探一步估计二阶导数
	copy(r.stage, r.y)
	floats.AddScaled(r.stage, h0*r.direction, r.fy)
	f1 := r.fNew
	r.eval(r.t+h0*r.direction, r.stage, f1)
	diff := r.yNew
	floats.SubTo(diff, f1, r.fy)
	d2 := rmsNorm(diff, r.scale) / h0
	var h1 float64
	if d1 <= 1e-15 && d2 <= 1e-15 {
		h1 = math.Max(1e-6, h0*1e-3)
	} else {
		h1 = math.Pow(0.01/math.Max(d1, d2), 1.0/(errorOrder+1))
	}
	return math.Min(math.Min(100*h0, h1), math.Min(interval, r.maxStep))
}

// rkStep 以步长 h 计算一步，结果写入 yNew/fNew，误差估计写入 stage
func (r *rk45) rkStep(h float64) {
	copy(r.k[0], r.fy)
	for s := 1; s < stages; s++ {
		copy(r.stage, r.y)
		for j := 0; j < s; j++ {
			if a := dopA[s][j]; a != 0 {
				floats.AddScaled(r.stage, h*a, r.k[j])
			}
		}
		r.eval(r.t+dopC[s]*h, r.stage, r.k[s])
	}
	copy(r.yNew, r.y)
	for s := 0; s < stages; s++ {
		if b := dopB[s]; b != 0 {
			floats.AddScaled(r.yNew, h*b, r.k[s])
		}
	}
	r.eval(r.t+h, r.yNew, r.fNew)
	copy(r.k[stages], r.fNew)
	// 误差估计
	for i := range r.stage {
		r.stage[i] = 0
	}
	for s := 0; s <= stages; s++ {
		if e := dopE[s]; e != 0 {
			floats.AddScaled(r.stage, h*e, r.k[s])
		}
	}
}

// errorNorm 按混合容差缩放的误差范数
func (r *rk45) errorNorm() float64 {
	for i := range r.scale {
		r.scale[i] = r.atol + math.Max(math.Abs(r.y[i]), math.Abs(r.yNew[i]))*r.rtol
	}
	return rmsNorm(r.stage, r.scale)
}

// step 推进一个被接受的步，返回状态码（0 继续，-1 步长过小）
func (r *rk45) step() int {
	minStep := 10 * math.Abs(math.Nextafter(r.t, r.direction*math.Inf(1))-r.t)
	switch {
	case r.hAbs > r.maxStep:
		r.hAbs = r.maxStep
	case !(r.hAbs >= minStep):
		r.hAbs = minStep
	}
	rejected := false
	for {
		if !(r.hAbs >= minStep) {
			return StatusStepTooSmall
		}
		h := r.hAbs * r.direction
		tNew := r.t + h
		if r.direction*(tNew-r.tBound) > 0 {
			tNew = r.tBound
		}
		h = tNew - r.t
		r.hAbs = math.Abs(h)

		r.rkStep(h)
		errNorm := r.errorNorm()
		r.nsteps++

		if errNorm < 1 {
			factor := float64(types.MaxFactor)
			if errNorm > 0 {
				factor = math.Min(types.MaxFactor, types.SafetyFactor*math.Pow(errNorm, errorExponent))
			}
			if rejected {
				factor = math.Min(1, factor)
			}
			r.hAbs *= factor
			r.accept(tNew)
			return statusRunning
		}
		// 误差过大或出现非有限值：缩小步长重试
		factor := types.SafetyFactor * math.Pow(errNorm, errorExponent)
		if math.IsNaN(factor) || factor < types.MinFactor {
			factor = types.MinFactor
		}
		r.hAbs *= factor
		r.nrejected++
		rejected = true
	}
}

// accept 提交新状态
func (r *rk45) accept(tNew float64) {
	r.tOld = r.t
	copy(r.yOld, r.y)
	r.t = tNew
	copy(r.y, r.yNew)
	copy(r.fy, r.fNew)
}

// finished 是否已到达终点
func (r *rk45) finished() bool { return r.direction*(r.t-r.tBound) >= 0 }
