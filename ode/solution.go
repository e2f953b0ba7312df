package ode

// 求解状态码
const (
	statusRunning      = 1  // 内部：尚未结束
	StatusSuccess      = 0  // 到达积分终点
	StatusStepTooSmall = -1 // 步长小于时间分辨率
	StatusMaxSteps     = -2 // 超出最大步数
)

// 状态码对应的说明
var statusMessage = map[int]string{
	StatusSuccess:      "求解器已成功到达积分区间终点",
	StatusStepTooSmall: "所需步长小于时间分辨率，求解中止",
	StatusMaxSteps:     "超出最大积分步数，求解中止",
}

// Solution 一次初值问题求解的结果
type Solution struct {
	T   []float64    // 实际采样时间
	Y   [][]float64  // 状态概率矩阵：Y[状态][采样点]
	Sol *DenseOutput // 连续插值（仅在 Config.DenseOutput 时存在）

	NFev      int // 右端函数调用次数
	NJev      int // 雅可比计算次数（显式方法恒为 0）
	NLU       int // LU 分解次数（显式方法恒为 0）
	NSteps    int // 接受的步数
	NRejected int // 拒绝的步数

	Status  int    // 状态码
	Message string // 状态说明
	Success bool   // 是否完整覆盖积分区间
}

// States 状态数量
func (s *Solution) States() int { return len(s.Y) }

// Len 采样点数量
func (s *Solution) Len() int { return len(s.T) }

// Column 第 k 个采样点的状态向量
func (s *Solution) Column(k int) []float64 {
	col := make([]float64, len(s.Y))
	for i, row := range s.Y {
		col[i] = row[k]
	}
	return col
}

// Final 最后一个采样点的状态向量
func (s *Solution) Final() []float64 {
	if len(s.T) == 0 {
		return nil
	}
	return s.Column(len(s.T) - 1)
}

// record 追加一个采样点
func (s *Solution) record(t float64, y []float64) {
	s.T = append(s.T, t)
	for i, v := range y {
		s.Y[i] = append(s.Y[i], v)
	}
}
