package markov

// 可恢复系统：30 个状态，主系统三个部件可失效并修复，另有可失效并修复的备用子系统
// 每个状态的出流由部件失效 (λ1h, λ2h, λ3h)、备用失效 λ1s 与对应的修复 (μ1h, μ2h, μ3h, μ1s) 组成
// 在正速率下不存在吸收状态
var recoverableTransitions = []Transition{
	{From: 0, To: 1, Rate: Lambda1S},
	{From: 0, To: 2, Rate: Lambda1H},
	{From: 0, To: 3, Rate: Lambda2H},
	{From: 0, To: 4, Rate: Lambda3H},

	{From: 1, To: 5, Rate: Mu1S},
	{From: 1, To: 6, Rate: Lambda2H},
	{From: 1, To: 7, Rate: Lambda3H},

	{From: 2, To: 0, Rate: Mu1H},
	{From: 2, To: 8, Rate: Lambda2H},
	{From: 2, To: 9, Rate: Lambda3H},

	{From: 3, To: 0, Rate: Mu2H},
	{From: 3, To: 6, Rate: Lambda1S},
	{From: 3, To: 8, Rate: Lambda1H},
	{From: 3, To: 10, Rate: Lambda3H},

	{From: 4, To: 0, Rate: Mu3H},

	{From: 5, To: 11, Rate: Lambda1H},
	{From: 5, To: 12, Rate: Lambda1S},
	{From: 5, To: 13, Rate: Lambda2H},
	{From: 5, To: 14, Rate: Lambda3H},

	{From: 6, To: 1, Rate: Mu2H},
	{From: 6, To: 13, Rate: Mu1S},

	{From: 7, To: 1, Rate: Mu3H},
	{From: 7, To: 14, Rate: Mu1S},

	{From: 8, To: 2, Rate: Mu2H},
	{From: 8, To: 3, Rate: Mu1H},

	{From: 9, To: 2, Rate: Mu3H},
	{From: 9, To: 4, Rate: Mu1H},

	{From: 10, To: 3, Rate: Mu3H},
	{From: 10, To: 4, Rate: Mu2H},

	{From: 11, To: 5, Rate: Mu1H},
	{From: 11, To: 15, Rate: Lambda2H},
	{From: 11, To: 16, Rate: Lambda3H},

	{From: 12, To: 17, Rate: Mu1S},
	{From: 12, To: 18, Rate: Lambda2H},
	{From: 12, To: 19, Rate: Lambda3H},

	{From: 13, To: 5, Rate: Mu2H},
	{From: 13, To: 15, Rate: Lambda1H},
	{From: 13, To: 18, Rate: Lambda1S},
	{From: 13, To: 20, Rate: Lambda3H},

	{From: 14, To: 5, Rate: Mu3H},

	{From: 15, To: 11, Rate: Mu2H},
	{From: 15, To: 13, Rate: Mu1H},

	{From: 16, To: 11, Rate: Mu3H},
	{From: 16, To: 14, Rate: Mu1H},

	{From: 17, To: 21, Rate: Lambda1H},
	{From: 17, To: 22, Rate: Lambda1S},
	{From: 17, To: 23, Rate: Lambda2H},
	{From: 17, To: 24, Rate: Lambda3H},

	{From: 18, To: 12, Rate: Mu2H},
	{From: 18, To: 23, Rate: Mu1S},

	{From: 19, To: 12, Rate: Mu3H},
	{From: 19, To: 24, Rate: Mu1S},

	{From: 20, To: 13, Rate: Mu3H},
	{From: 20, To: 14, Rate: Mu2H},

	{From: 21, To: 17, Rate: Mu1H},
	{From: 21, To: 25, Rate: Lambda2H},
	{From: 21, To: 26, Rate: Lambda3H},

	{From: 22, To: 27, Rate: Lambda2H},
	{From: 22, To: 28, Rate: Lambda3H},

	{From: 23, To: 17, Rate: Mu2H},
	{From: 23, To: 25, Rate: Lambda1H},
	{From: 23, To: 27, Rate: Lambda1S},
	{From: 23, To: 29, Rate: Lambda3H},

	{From: 24, To: 17, Rate: Mu3H},

	{From: 25, To: 21, Rate: Mu2H},
	{From: 25, To: 23, Rate: Mu1H},

	{From: 26, To: 21, Rate: Mu3H},
	{From: 26, To: 24, Rate: Mu1H},

	{From: 27, To: 22, Rate: Mu2H},

	{From: 28, To: 22, Rate: Mu3H},

	{From: 29, To: 23, Rate: Mu3H},
	{From: 29, To: 24, Rate: Mu2H},
}

// RecoverableGreen 可恢复系统的工作状态
var RecoverableGreen = []int{0, 1, 2, 3, 5, 11, 12, 13, 17, 21, 22, 23}

// Recoverable 可恢复系统的马尔可夫链
var Recoverable = MustChain("Recoverable", 30, recoverableTransitions, RecoverableGreen)
