package ode

import (
	"math"
	"sort"
)

// segment 单步的连续插值多项式
// y(t) = yOld + h * Q · [x, x², x³, x⁴], x = (t - tOld) / h
type segment struct {
	tOld, t float64
	h       float64
	yOld    []float64
	q       [][4]float64 // 每个状态一行
}

// newSegment 由积分器当前各级导数构建插值段
func newSegment(r *rk45) segment {
	seg := segment{
		tOld: r.tOld,
		t:    r.t,
		h:    r.t - r.tOld,
		yOld: append([]float64(nil), r.yOld...),
		q:    make([][4]float64, r.n),
	}
	for i := 0; i < r.n; i++ {
		for s := 0; s <= stages; s++ {
			k := r.k[s][i]
			if k == 0 {
				continue
			}
			for j := 0; j < 4; j++ {
				seg.q[i][j] += k * dopP[s][j]
			}
		}
	}
	return seg
}

// evalInto 在段内计算 t 处的状态
func (seg *segment) evalInto(t float64, dst []float64) {
	if seg.h == 0 {
		copy(dst, seg.yOld)
		return
	}
	x := (t - seg.tOld) / seg.h
	p := [4]float64{x, x * x, x * x * x, x * x * x * x}
	for i, row := range seg.q {
		dst[i] = seg.yOld[i] + seg.h*(row[0]*p[0]+row[1]*p[1]+row[2]*p[2]+row[3]*p[3])
	}
}

// DenseOutput 整个积分区间上的连续插值
type DenseOutput struct {
	direction float64
	segments  []segment
}

// Span 插值覆盖的时间区间
func (d *DenseOutput) Span() (float64, float64) {
	if len(d.segments) == 0 {
		return math.NaN(), math.NaN()
	}
	return d.segments[0].tOld, d.segments[len(d.segments)-1].t
}

// At 返回 t 处的插值状态；超出区间时按端点段外推
func (d *DenseOutput) At(t float64) []float64 {
	if len(d.segments) == 0 {
		return nil
	}
	// 按积分方向查找第一个终点不早于 t 的段
	i := sort.Search(len(d.segments), func(i int) bool {
		return d.direction*(d.segments[i].t-t) >= 0
	})
	if i == len(d.segments) {
		i--
	}
	seg := &d.segments[i]
	out := make([]float64, len(seg.yOld))
	seg.evalInto(t, out)
	return out
}
