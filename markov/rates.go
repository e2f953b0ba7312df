package markov

import (
	"fmt"
	"math"

	"reliability/types"
)

// RateID 速率参数标识
type RateID int

// 速率参数定义
const (
	Lambda1 RateID = iota // 不可恢复系统：部件1失效率 λ1
	Lambda2               // 不可恢复系统：部件2失效率 λ2
	Lambda3               // 不可恢复系统：部件3失效率 λ3

	Lambda1H // 主系统部件1失效率 λ1h
	Lambda2H // 主系统部件2失效率 λ2h
	Lambda3H // 主系统部件3失效率 λ3h
	Mu1H     // 主系统部件1修复率 μ1h
	Mu2H     // 主系统部件2修复率 μ2h
	Mu3H     // 主系统部件3修复率 μ3h
	Lambda1S // 备用子系统失效率 λ1s
	Mu1S     // 备用子系统修复率 μ1s
)

var rateNames = map[RateID]string{
	Lambda1:  "λ1",
	Lambda2:  "λ2",
	Lambda3:  "λ3",
	Lambda1H: "λ1h",
	Lambda2H: "λ2h",
	Lambda3H: "λ3h",
	Mu1H:     "μ1h",
	Mu2H:     "μ2h",
	Mu3H:     "μ3h",
	Lambda1S: "λ1s",
	Mu1S:     "μ1s",
}

func (id RateID) String() string {
	if name, ok := rateNames[id]; ok {
		return name
	}
	return fmt.Sprintf("RateID(%d)", int(id))
}

// Rates 速率参数集合
type Rates interface {
	// Rate 返回标识对应的速率；集合中不存在该参数时 ok 为 false
	Rate(id RateID) (value float64, ok bool)
	// Validate 检查所有速率为有限正数（仅严格模式调用）
	Validate() error
}

// NonrecoverableRates 不可恢复系统的失效率 (λ1, λ2, λ3)
type NonrecoverableRates struct {
	Lambda1 float64 `yaml:"lambda1" json:"lambda1"`
	Lambda2 float64 `yaml:"lambda2" json:"lambda2"`
	Lambda3 float64 `yaml:"lambda3" json:"lambda3"`
}

// Rate 实现 Rates
func (r NonrecoverableRates) Rate(id RateID) (float64, bool) {
	switch id {
	case Lambda1:
		return r.Lambda1, true
	case Lambda2:
		return r.Lambda2, true
	case Lambda3:
		return r.Lambda3, true
	}
	return 0, false
}

// Validate 实现 Rates
func (r NonrecoverableRates) Validate() error {
	return checkPositive(map[RateID]float64{Lambda1: r.Lambda1, Lambda2: r.Lambda2, Lambda3: r.Lambda3})
}

// RecoverableRates 可恢复系统的失效率与修复率
type RecoverableRates struct {
	LambdaH [3]float64 `yaml:"lambda_h" json:"lambda_h"` // 主系统部件失效率 (λ1h, λ2h, λ3h)
	MuH     [3]float64 `yaml:"mu_h" json:"mu_h"`         // 主系统部件修复率 (μ1h, μ2h, μ3h)
	LambdaS float64    `yaml:"lambda_s" json:"lambda_s"` // 备用子系统失效率 λ1s
	MuS     float64    `yaml:"mu_s" json:"mu_s"`         // 备用子系统修复率 μ1s
}

// Rate 实现 Rates
func (r RecoverableRates) Rate(id RateID) (float64, bool) {
	switch id {
	case Lambda1H, Lambda2H, Lambda3H:
		return r.LambdaH[id-Lambda1H], true
	case Mu1H, Mu2H, Mu3H:
		return r.MuH[id-Mu1H], true
	case Lambda1S:
		return r.LambdaS, true
	case Mu1S:
		return r.MuS, true
	}
	return 0, false
}

// Validate 实现 Rates
func (r RecoverableRates) Validate() error {
	return checkPositive(map[RateID]float64{
		Lambda1H: r.LambdaH[0], Lambda2H: r.LambdaH[1], Lambda3H: r.LambdaH[2],
		Mu1H: r.MuH[0], Mu2H: r.MuH[1], Mu3H: r.MuH[2],
		Lambda1S: r.LambdaS, Mu1S: r.MuS,
	})
}

func checkPositive(values map[RateID]float64) error {
	for id := Lambda1; id <= Mu1S; id++ {
		v, ok := values[id]
		if !ok {
			continue
		}
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s = %g", types.ErrInvalidRate, id, v)
		}
	}
	return nil
}
