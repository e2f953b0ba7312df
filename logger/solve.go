package logger

import (
	"context"

	"reliability/ode"
)

// Solution 记录一次积分的统计信息
// 成功时为调试级别；未到达终点时为警告级别并附带原因
func Solution(ctx context.Context, model string, sol *ode.Solution) {
	if sol == nil {
		return
	}
	kvs := []any{
		"model", model,
		"status", sol.Status,
		"points", sol.Len(),
		"nfev", sol.NFev,
		"steps", sol.NSteps,
		"rejected", sol.NRejected,
	}
	if sol.Success {
		DebugKV(ctx, "求解结束", kvs...)
		return
	}
	WarnKV(ctx, "求解未完成", append(kvs, "reason", sol.Message)...)
}
