package reliability

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"reliability/markov"
	"reliability/ode"
	"reliability/types"
)

var (
	scenarioRates = markov.NonrecoverableRates{Lambda1: 5e-4, Lambda2: 4e-4, Lambda3: 3e-4}
	tightConfig   = ode.Config{RelTol: 1e-8, AbsTol: 1e-12}
)

func TestScenarioNonrecoverable(t *testing.T) {
	span := types.NewSpan(0, 3000)
	p0 := []float64{1, 0, 0, 0, 0, 0, 0}
	sol, err := SolveNonrecoverable(span, p0, scenarioRates, span.Linspace(200), ode.DefaultConfig())
	require.NoError(t, err)
	require.True(t, sol.Success)
	require.Len(t, sol.T, 200)
	require.Equal(t, 7, sol.States())
	require.Equal(t, 3000.0, sol.T[199])
	require.InDelta(t, math.Exp(-3.6), sol.Final()[0], 5e-4)
}

func TestNonrecoverableAnalytic(t *testing.T) {
	span := types.NewSpan(0, 3000)
	sol, err := SolveNonrecoverable(span, nil, scenarioRates, span.Linspace(31), tightConfig)
	require.NoError(t, err)

	l1, l2, l3 := scenarioRates.Lambda1, scenarioRates.Lambda2, scenarioRates.Lambda3
	total := l1 + l2 + l3
	for k, tt := range sol.T {
		require.InDelta(t, math.Exp(-total*tt), sol.Y[0][k], 1e-6)
		require.InDelta(t, math.Exp(-(l2+l3)*tt)-math.Exp(-total*tt), sol.Y[1][k], 1e-6)
		require.InDelta(t, math.Exp(-(l1+l3)*tt)-math.Exp(-total*tt), sol.Y[2][k], 1e-6)
		require.InDelta(t, l3/total*(1-math.Exp(-total*tt)), sol.Y[3][k], 1e-6)
	}
}

func TestConservation(t *testing.T) {
	span := types.NewSpan(0, 5000)
	tEval := span.Linspace(200)

	sol, err := SolveNonrecoverable(span, nil, scenarioRates, tEval, ode.DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, CheckConservation(sol, 1e-6))

	rates := markov.RecoverableRates{
		LambdaH: [3]float64{5e-4, 4e-4, 3e-4},
		MuH:     [3]float64{1e-2, 2e-2, 3e-2},
		LambdaS: 2e-4,
		MuS:     1e-2,
	}
	sol, err = SolveRecoverable(span, nil, rates, tEval, ode.DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, 30, sol.States())
	require.NoError(t, CheckConservation(sol, 1e-6))

	// 非默认初始分布
	p0 := make([]float64, 30)
	p0[5], p0[17], p0[29] = 0.5, 0.25, 0.25
	sol, err = SolveRecoverable(span, p0, rates, tEval, ode.DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, CheckConservation(sol, 1e-6))
	require.Equal(t, p0, sol.Column(0))
}

func TestMonotoneAbsorption(t *testing.T) {
	span := types.NewSpan(0, 10000)
	sol, err := SolveNonrecoverable(span, nil, scenarioRates, span.Linspace(200), tightConfig)
	require.NoError(t, err)
	for k := 1; k < sol.Len(); k++ {
		require.LessOrEqual(t, sol.Y[0][k], sol.Y[0][k-1]+1e-12, "P0 在 t=%g 增加", sol.T[k])
		for _, s := range []int{3, 4, 5, 6} {
			require.GreaterOrEqual(t, sol.Y[s][k], sol.Y[s][k-1]-1e-12, "P%d 在 t=%g 减少", s, sol.T[k])
		}
	}
}

func TestBoundary(t *testing.T) {
	span := types.NewSpan(0, 3000)
	p0 := []float64{0.5, 0.25, 0.25, 0, 0, 0, 0}
	sol, err := SolveNonrecoverable(span, p0, scenarioRates, span.Linspace(200), ode.DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, p0, sol.Column(0))

	// 速率为零时概率始终停留在状态 0
	sol, err = SolveNonrecoverable(span, nil, markov.NonrecoverableRates{}, span.Linspace(200), ode.DefaultConfig())
	require.NoError(t, err)
	for k := range sol.T {
		require.Equal(t, []float64{1, 0, 0, 0, 0, 0, 0}, sol.Column(k))
	}

	sol, err = SolveRecoverable(span, nil, markov.RecoverableRates{}, span.Linspace(50), ode.DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, markov.Recoverable.InitialState(), sol.Final())
}

func TestSolveZeroSpan(t *testing.T) {
	res, err := Solve(Request{Model: Nonrecoverable, Rates: scenarioRates, Span: types.NewSpan(5, 5)})
	require.NoError(t, err)
	sol := res.Solution
	require.True(t, sol.Success)
	require.Len(t, sol.T, types.DefaultPoints)
	p0 := markov.Nonrecoverable.InitialState()
	for k := range sol.T {
		require.Equal(t, 5.0, sol.T[k])
		require.Equal(t, p0, sol.Column(k))
		require.Equal(t, 1.0, res.Operational[k])
	}
}

func TestAggregate(t *testing.T) {
	span := types.NewSpan(0, 3000)
	sol, err := SolveNonrecoverable(span, nil, scenarioRates, span.Linspace(200), ode.DefaultConfig())
	require.NoError(t, err)

	green := markov.NonrecoverableGreen
	got, err := Aggregate(sol, green)
	require.NoError(t, err)
	require.Len(t, got, sol.Len())
	for k := range sol.T {
		want := 0.0
		for _, i := range green {
			want += sol.Y[i][k]
		}
		require.Equal(t, want, got[k])
		require.GreaterOrEqual(t, got[k], 0.0)
		require.LessOrEqual(t, got[k], 1.0+1e-9)
	}

	empty, err := Aggregate(sol, nil)
	require.NoError(t, err)
	require.Equal(t, make([]float64, sol.Len()), empty)

	_, err = Aggregate(sol, []int{0, 7})
	require.True(t, errors.Is(err, types.ErrStateIndex))

	_, err = Aggregate(nil, green)
	require.True(t, errors.Is(err, types.ErrInvalidInput))
}

func TestAggregateHandBuilt(t *testing.T) {
	sol := &ode.Solution{
		T: []float64{0, 1, 2},
		Y: [][]float64{
			{0.5, 0.25, 0.125},
			{0.25, 0.25, 0.25},
			{0.25, 0.5, 0.625},
		},
	}
	got, err := Aggregate(sol, []int{0, 2})
	require.NoError(t, err)
	require.Equal(t, []float64{0.75, 0.75, 0.75}, got)
}

func TestScenarioRepairDominates(t *testing.T) {
	rates := markov.RecoverableRates{
		LambdaH: [3]float64{1e-4, 1e-4, 1e-4},
		MuH:     [3]float64{1, 1, 1},
		LambdaS: 1e-4,
		MuS:     1,
	}
	res, err := Solve(Request{Model: Recoverable, Rates: rates, Span: types.NewSpan(0, 1000)})
	require.NoError(t, err)
	require.Len(t, res.Operational, types.DefaultPoints)
	require.Equal(t, markov.RecoverableGreen, res.Green)
	require.Equal(t, 1.0, res.Operational[0])
	for _, v := range res.Operational {
		require.Greater(t, v, 0.99)
	}
}

func TestScenarioNoRepair(t *testing.T) {
	rates := markov.RecoverableRates{
		LambdaH: [3]float64{1e-3, 1e-3, 1e-3},
		LambdaS: 1e-3,
	}
	res, err := Solve(Request{Model: Recoverable, Rates: rates, Span: types.NewSpan(0, 20000), Config: tightConfig})
	require.NoError(t, err)
	op := res.Operational
	require.Equal(t, 1.0, op[0])
	for k := 1; k < len(op); k++ {
		require.LessOrEqual(t, op[k], op[k-1]+1e-9)
	}
	require.Less(t, op[len(op)-1], 1e-3)
}

func TestSolveErrors(t *testing.T) {
	span := types.NewSpan(0, 100)

	_, err := SolveNonrecoverable(span, []float64{1, 0}, scenarioRates, nil, ode.DefaultConfig())
	require.True(t, errors.Is(err, types.ErrInvalidInput))

	sol, err := SolveNonrecoverable(span, nil, markov.NonrecoverableRates{Lambda1: 1, Lambda2: 2, Lambda3: 3}, span.Linspace(10), ode.Config{MaxSteps: 2})
	require.True(t, errors.Is(err, types.ErrNotConverged))
	require.NotNil(t, sol)
	require.False(t, sol.Success)

	_, err = Solve(Request{Model: Model(7), Span: span})
	require.True(t, errors.Is(err, types.ErrUnknownModel))
}

func TestSolveStrict(t *testing.T) {
	bad := markov.NonrecoverableRates{Lambda1: -1e-4, Lambda2: 4e-4, Lambda3: 3e-4}

	// 宽松模式接受负速率
	res, err := Solve(Request{Model: Nonrecoverable, Rates: bad, Span: types.NewSpan(0, 100)})
	require.NoError(t, err)
	require.NotNil(t, res)

	_, err = Solve(Request{Model: Nonrecoverable, Rates: bad, Span: types.NewSpan(0, 100), Strict: true})
	require.True(t, errors.Is(err, types.ErrInvalidRate))

	_, err = Solve(Request{Model: Nonrecoverable, Rates: scenarioRates, Span: types.NewSpan(100, 0), Strict: true})
	require.True(t, errors.Is(err, types.ErrInvalidSpan))

	res, err = Solve(Request{Model: Nonrecoverable, Rates: scenarioRates, Span: types.NewSpan(0, 100), Strict: true})
	require.NoError(t, err)
	require.Equal(t, "P6", res.Labels[6])

	// 初始分布不归一时严格模式报告守恒错误
	_, err = Solve(Request{
		Model:   Nonrecoverable,
		Rates:   scenarioRates,
		Span:    types.NewSpan(0, 100),
		Initial: []float64{2, 0, 0, 0, 0, 0, 0},
		Strict:  true,
	})
	require.True(t, errors.Is(err, types.ErrNotConserved))
}

func TestCheckConservation(t *testing.T) {
	sol := &ode.Solution{T: []float64{0, 1}, Y: [][]float64{{1, 0.5}, {0, 0.4}}}
	err := CheckConservation(sol, 1e-6)
	require.True(t, errors.Is(err, types.ErrNotConserved))
	require.NoError(t, CheckConservation(sol, 0.2))
	require.InDelta(t, 0.9, floats.Sum(sol.Column(1)), 1e-15)
}

func TestParseModel(t *testing.T) {
	m, err := ParseModel(" recoverable ")
	require.NoError(t, err)
	require.Equal(t, Recoverable, m)
	require.Equal(t, "Nonrecoverable", Nonrecoverable.String())
	require.Equal(t, "Model(9)", Model(9).String())

	_, err = ParseModel("repairable")
	require.True(t, errors.Is(err, types.ErrUnknownModel))
}

func TestSessionLastRequestWins(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	s := &Session{}
	s.solve = func(req Request) (*Result, error) {
		if req.Model == Nonrecoverable {
			close(started)
			<-release
		}
		return Solve(req)
	}

	var (
		wg     sync.WaitGroup
		stale  *Result
		staleE error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		stale, staleE = s.Solve(Request{Model: Nonrecoverable, Rates: scenarioRates, Span: types.NewSpan(0, 10)})
	}()
	<-started

	fresh, err := s.Solve(Request{Model: Recoverable, Rates: markov.RecoverableRates{}, Span: types.NewSpan(0, 10)})
	require.NoError(t, err)
	require.Equal(t, uint64(2), fresh.ID)

	close(release)
	wg.Wait()
	require.True(t, errors.Is(staleE, types.ErrSuperseded))
	require.NotNil(t, stale)
	require.Equal(t, uint64(1), stale.ID)
	require.Equal(t, uint64(2), s.Latest())
}

func TestSessionSupersededKeepsSolveError(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	s := &Session{}
	s.solve = func(req Request) (*Result, error) {
		if req.Strict {
			close(started)
			<-release
			return &Result{Model: req.Model}, types.ErrNotConverged
		}
		return &Result{Model: req.Model}, nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := s.Solve(Request{Model: Nonrecoverable, Strict: true})
		done <- err
	}()
	<-started
	_, err := s.Solve(Request{Model: Recoverable})
	require.NoError(t, err)
	close(release)

	err = <-done
	require.True(t, errors.Is(err, types.ErrSuperseded))
	require.True(t, errors.Is(err, types.ErrNotConverged))
}
