package debug

import (
	"encoding/json"
	"fmt"
	"io"

	"reliability"
	"reliability/markov"
	"reliability/types"
)

// Renderer 输出接口
type Renderer interface {
	Render(w io.Writer) error
}

// Link 状态转移连线
type Link struct {
	From  int     `json:"from"`
	To    int     `json:"to"`
	Rate  string  `json:"rate"`
	Value float64 `json:"value"`
}

// Record 一次求解的时间序列记录
type Record struct {
	ID          uint64      `json:"id"`          // 请求编号
	Model       string      `json:"model"`       // 系统类型
	Labels      []string    `json:"labels"`      // 状态标签
	Green       []int       `json:"green"`       // 工作状态
	Links       []Link      `json:"links"`       // 转移关系
	Outflow     []float64   `json:"outflow"`     // 各状态总出流速率
	Absorbing   []int       `json:"absorbing"`   // 无出流的状态
	Time        []float64   `json:"time"`        // 时间列
	States      [][]float64 `json:"states"`      // 各状态概率：States[状态][采样点]
	Operational []float64   `json:"operational"` // 工作概率
	Success     bool        `json:"success"`
	Message     string      `json:"message"`
	NFev        int         `json:"nfev"`
}

// NewRecord 由求解结果构建记录
func NewRecord(res *reliability.Result) (*Record, error) {
	if res == nil || res.Solution == nil {
		return nil, fmt.Errorf("%w: 求解结果为空", types.ErrInvalidInput)
	}
	chain, err := res.Model.Chain()
	if err != nil {
		return nil, err
	}
	sol := res.Solution
	rec := &Record{
		ID:          res.ID,
		Model:       res.Model.String(),
		Labels:      res.Labels,
		Green:       res.Green,
		Time:        sol.T,
		States:      sol.Y,
		Operational: res.Operational,
		Success:     sol.Success,
		Message:     sol.Message,
		NFev:        sol.NFev,
	}
	rec.Links = links(chain, res.Rates)
	if res.Rates == nil {
		return rec, nil
	}
	rec.Outflow = make([]float64, chain.States())
	for i := range rec.Outflow {
		if rec.Outflow[i], err = chain.Outflow(i, res.Rates); err != nil {
			return nil, err
		}
	}
	if rec.Absorbing, err = chain.Absorbing(res.Rates); err != nil {
		return nil, err
	}
	return rec, nil
}

func links(chain *markov.Chain, rates markov.Rates) []Link {
	list := make([]Link, 0, len(chain.Transitions()))
	for _, tr := range chain.Transitions() {
		link := Link{From: tr.From, To: tr.To, Rate: tr.Rate.String()}
		if rates != nil {
			link.Value, _ = rates.Rate(tr.Rate)
		}
		list = append(list, link)
	}
	return list
}

// IsGreen 状态是否属于工作状态
func (r *Record) IsGreen(i int) bool {
	for _, g := range r.Green {
		if g == i {
			return true
		}
	}
	return false
}

// IsAbsorbing 状态是否没有出流
func (r *Record) IsAbsorbing(i int) bool {
	for _, a := range r.Absorbing {
		if a == i {
			return true
		}
	}
	return false
}

// Render 以 JSON 输出
func (r *Record) Render(w io.Writer) error { return json.NewEncoder(w).Encode(r) }
