package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"reliability/config"
	"reliability/logger"
)

// 构建信息，可由 ldflags 覆盖
var (
	Version = "dev"
	Commit  = "none"
)

// options 公共参数
type options struct {
	configPath string
	model      string
	set        []string
	strict     bool
	logLevel   string
	logFormat  string
}

// load 读取配置并应用命令行覆盖
func (o *options) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("model") {
		if err := cfg.Set("model", o.model); err != nil {
			return nil, err
		}
	}
	for _, kv := range o.set {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("参数格式应为 name=value: %q", kv)
		}
		if err := cfg.Set(name, value); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("strict") {
		cfg.Strict = o.strict
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat = o.logFormat
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	if err := logger.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "reliability",
		Short: "Failure rate impact on system state probabilities.",
		Long: `Models a multi-component system as a continuous-time Markov chain and integrates
the forward Kolmogorov equations to obtain the probability of every state over time,
plus the aggregate probability that the system is still operational.

Two models are available: "Nonrecoverable" (7 states, failure rates lambda1..lambda3)
and "Recoverable" (30 states, component and spare failure/repair rates).`,
		SilenceUsage: true,
	}
	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	flags.StringVarP(&opts.model, "model", "m", "", "system model: Nonrecoverable or Recoverable")
	flags.StringArrayVarP(&opts.set, "set", "s", nil, "override a parameter, e.g. --set lambda1=5e-4 (repeatable)")
	flags.BoolVar(&opts.strict, "strict", false, "reject non-positive rates, reversed spans and non-conserving results")
	flags.StringVar(&opts.logLevel, "log-level", config.DefaultLogLevel, "log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", config.DefaultLogFormat, "log format: console or json")

	root.AddCommand(newSolveCmd(opts), newServeCmd(opts), &cobra.Command{
		Use:   "version",
		Short: "Print version information.",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "version: %s, commit: %s\n", Version, Commit)
		},
	})
	return root
}
