package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"reliability"
	"reliability/debug"
	"reliability/logger"
	"reliability/types"
)

func newSolveCmd(opts *options) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve the selected model once and print the state probabilities.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			req, err := cfg.Request()
			if err != nil {
				return err
			}
			ctx := logger.WithKV(cmd.Context(), "model", req.Model.String())
			res, err := reliability.Solve(req)
			if err != nil {
				logger.ErrorKV(ctx, "求解失败", "error", err)
				return err
			}
			rec, err := debug.NewRecord(res)
			if err != nil {
				return err
			}
			logger.InfoKV(ctx, "求解完成", "points", len(rec.Time), "nfev", rec.NFev)
			switch format {
			case "json":
				return rec.Render(cmd.OutOrStdout())
			case "table":
				return writeTable(cmd.OutOrStdout(), rec)
			}
			return fmt.Errorf("%w: 输出格式必须为 table 或 json (%q)", types.ErrInvalidInput, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table or json")
	return cmd
}

// writeTable 每行一个采样点：t、各状态概率、工作概率
func writeTable(w io.Writer, rec *debug.Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := append([]string{"t"}, rec.Labels...)
	header = append(header, debug.OperationalName)
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")
	row := make([]string, 0, len(header))
	for k, t := range rec.Time {
		row = append(row[:0], fmt.Sprintf("%.6g", t))
		for _, states := range rec.States {
			row = append(row, fmt.Sprintf("%.6f", states[k]))
		}
		row = append(row, fmt.Sprintf("%.6f", rec.Operational[k]))
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	return tw.Flush()
}
