package markov

// 不可恢复系统：7 个状态
//
//	0    全部正常
//	1, 2 单个部件失效（过渡状态）
//	3..6 系统失效（吸收状态）
var nonrecoverableTransitions = []Transition{
	{From: 0, To: 1, Rate: Lambda1},
	{From: 0, To: 2, Rate: Lambda2},
	{From: 0, To: 3, Rate: Lambda3},

	{From: 1, To: 4, Rate: Lambda3},
	{From: 1, To: 5, Rate: Lambda2},

	{From: 2, To: 5, Rate: Lambda3},
	{From: 2, To: 6, Rate: Lambda1},
}

// NonrecoverableGreen 不可恢复系统的工作状态
var NonrecoverableGreen = []int{0, 1, 2}

// Nonrecoverable 不可恢复系统的马尔可夫链
var Nonrecoverable = MustChain("Nonrecoverable", 7, nonrecoverableTransitions, NonrecoverableGreen)
