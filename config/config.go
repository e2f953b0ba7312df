// Package config 运行配置：YAML 文件、默认参数与自由文本数值解析
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"reliability"
	"reliability/logger"
	"reliability/markov"
	"reliability/ode"
	"reliability/types"
)

// 默认值
const (
	DefaultConfigFilename = "reliability.yaml"
	DefaultListenAddress  = "127.0.0.1:8080"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "console"
)

// ErrNotNumber 参数文本不是实数
var ErrNotNumber = errors.New("值必须是数字")

// ErrUnknownParameter 未知参数名
var ErrUnknownParameter = errors.New("未知参数")

// Config 运行配置
type Config struct {
	Model          string                     `yaml:"model"`
	Span           types.Span                 `yaml:"span"`
	Points         int                        `yaml:"points"`
	Initial        []float64                  `yaml:"initial,omitempty"`
	Nonrecoverable markov.NonrecoverableRates `yaml:"nonrecoverable"`
	Recoverable    markov.RecoverableRates    `yaml:"recoverable"`
	Solver         ode.Config                 `yaml:"solver"`
	Strict         bool                       `yaml:"strict"`
	LogLevel       string                     `yaml:"log_level"`
	LogFormat      string                     `yaml:"log_format"`
	Listen         string                     `yaml:"listen"`
}

// Default 默认配置
func Default() *Config {
	return &Config{
		Model:  reliability.Nonrecoverable.String(),
		Span:   types.NewSpan(0, types.DefaultTimeEnd),
		Points: types.DefaultPoints,
		Nonrecoverable: markov.NonrecoverableRates{
			Lambda1: 5e-4,
			Lambda2: 4e-4,
			Lambda3: 3e-4,
		},
		Recoverable: markov.RecoverableRates{
			LambdaH: [3]float64{5e-4, 4e-4, 3e-4},
			MuH:     [3]float64{1e-2, 1e-2, 1e-2},
			LambdaS: 2e-4,
			MuS:     1e-2,
		},
		Solver:    ode.DefaultConfig(),
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Listen:    DefaultListenAddress,
	}
}

// Load 读取 YAML 配置，未给出的字段保持默认值；文件不存在时返回默认配置
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	contents, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取配置文件 %s: %w", path, err)
	}
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件 %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 检查求解所需的配置；速率与区间的物理意义只在严格模式下由求解检查
func Validate(cfg *Config) error {
	if _, err := reliability.ParseModel(cfg.Model); err != nil {
		return err
	}
	if cfg.Points <= 0 {
		return fmt.Errorf("%w: 采样点数量必须大于0 (%d)", types.ErrInvalidInput, cfg.Points)
	}
	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("%w: 日志级别 %q", types.ErrInvalidInput, cfg.LogLevel)
	}
	if _, ok := logger.ParseFormat(cfg.LogFormat); !ok {
		return fmt.Errorf("%w: 日志格式 %q", types.ErrInvalidInput, cfg.LogFormat)
	}
	return nil
}

// ValidateListen 检查监听地址，只在启动服务时需要
func ValidateListen(cfg *Config) error {
	if _, _, err := net.SplitHostPort(cfg.Listen); err != nil {
		return fmt.Errorf("%w: 监听地址 %q: %v", types.ErrInvalidInput, cfg.Listen, err)
	}
	return nil
}

// Request 由配置生成求解请求
func (c *Config) Request() (reliability.Request, error) {
	model, err := reliability.ParseModel(c.Model)
	if err != nil {
		return reliability.Request{}, err
	}
	req := reliability.Request{
		Model:   model,
		Span:    c.Span,
		Initial: c.Initial,
		TEval:   c.Span.Linspace(c.Points),
		Config:  c.Solver,
		Strict:  c.Strict,
	}
	switch model {
	case reliability.Nonrecoverable:
		req.Rates = c.Nonrecoverable
	case reliability.Recoverable:
		req.Rates = c.Recoverable
	}
	return req, nil
}

// ParseValue 解析自由文本数值
func ParseValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotNumber, s)
	}
	return v, nil
}

// 可按名称修改的数值参数
func (c *Config) fields() map[string]*float64 {
	return map[string]*float64{
		"start":    &c.Span.Start,
		"end":      &c.Span.End,
		"lambda1":  &c.Nonrecoverable.Lambda1,
		"lambda2":  &c.Nonrecoverable.Lambda2,
		"lambda3":  &c.Nonrecoverable.Lambda3,
		"lambda1h": &c.Recoverable.LambdaH[0],
		"lambda2h": &c.Recoverable.LambdaH[1],
		"lambda3h": &c.Recoverable.LambdaH[2],
		"mu1h":     &c.Recoverable.MuH[0],
		"mu2h":     &c.Recoverable.MuH[1],
		"mu3h":     &c.Recoverable.MuH[2],
		"lambda1s": &c.Recoverable.LambdaS,
		"mu1s":     &c.Recoverable.MuS,
	}
}

// Parameters 可修改的参数名（已排序）
func (c *Config) Parameters() []string {
	names := []string{"model", "points"}
	for name := range c.fields() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Set 按名称修改参数；解析失败时配置保持不变
func (c *Config) Set(name, value string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "model":
		m, err := reliability.ParseModel(value)
		if err != nil {
			return err
		}
		c.Model = m.String()
		return nil
	case "points":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %q", ErrNotNumber, value)
		}
		if n <= 0 {
			return fmt.Errorf("%w: 采样点数量必须大于0 (%d)", types.ErrInvalidInput, n)
		}
		c.Points = n
		return nil
	}
	field, ok := c.fields()[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	v, err := ParseValue(value)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*field = v
	return nil
}

// Clone 深拷贝
func (c *Config) Clone() *Config {
	out := *c
	out.Initial = append([]float64(nil), c.Initial...)
	return &out
}
