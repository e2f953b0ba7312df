package debug

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// OperationalName 工作概率曲线名称
const OperationalName = "Operational"

// Charts 交互式曲线页面
type Charts struct {
	*Record
}

// NewCharts 由记录创建页面
func NewCharts(rec *Record) *Charts { return &Charts{Record: rec} }

// Render 输出 HTML 页面
func (c *Charts) Render(w io.Writer) error {
	page := components.NewPage()
	page.PageTitle = "Failure Rate Impact on System State Probabilities"
	page.AddCharts(c.graph(), c.line())
	return page.Render(w)
}

// graph 状态转移图
func (c *Charts) graph() *charts.Graph {
	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s 状态转移图", c.Model),
			Subtitle: "绿色为工作状态，节点数值为总出流速率，连线数值为转移速率",
		}),
	)
	nodes := make([]opts.GraphNode, len(c.Labels))
	for i, name := range c.Labels {
		category := 1
		switch {
		case c.IsGreen(i):
			category = 0
		case c.IsAbsorbing(i):
			category = 2
		}
		nodes[i] = opts.GraphNode{
			Name:     name,
			Category: category,
			Tooltip:  &opts.Tooltip{Show: opts.Bool(true)},
		}
		if i < len(c.Outflow) {
			nodes[i].Value = float32(c.Outflow[i])
		}
	}
	links := make([]opts.GraphLink, len(c.Links))
	for i, l := range c.Links {
		links[i] = opts.GraphLink{
			Source: c.Labels[l.From],
			Target: c.Labels[l.To],
			Value:  float32(l.Value),
		}
	}
	graph.AddSeries("状态", nodes, links,
		charts.WithGraphChartOpts(opts.GraphChart{
			Layout: "circular",
			Categories: []*opts.GraphCategory{
				{Name: "工作", ItemStyle: &opts.ItemStyle{Color: "#2e9d4cb7"}},
				{Name: "故障", ItemStyle: &opts.ItemStyle{Color: "#c71979b7"}},
				{Name: "吸收", ItemStyle: &opts.ItemStyle{Color: "#000000de"}},
			},
			Roam:               opts.Bool(true),
			EdgeSymbol:         []string{"none", "arrow"},
			EdgeLabel:          &opts.EdgeLabel{Show: opts.Bool(true)},
			FocusNodeAdjacency: opts.Bool(true),
		}),
		charts.WithLineStyleOpts(opts.LineStyle{
			Curveness: 0.2,
		}),
	)
	return graph
}

// line 状态概率曲线，工作概率加粗
func (c *Charts) line() *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "状态概率曲线",
			Subtitle: "各状态概率随时间变化曲线",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Type:   "scroll",
			Orient: "vertical",
			Right:  "10",
			Top:    "20",
			Bottom: "20",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:        "t",
			SplitNumber: 20,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "P",
			Min:  0,
			Max:  1,
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
		charts.WithAnimation(false),
	)
	x := make([]string, len(c.Time))
	for i, t := range c.Time {
		x[i] = fmt.Sprintf("%.6g", t)
	}
	line.SetXAxis(x)
	for i, row := range c.States {
		line.AddSeries(c.Labels[i], lineData(row),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		)
	}
	line.AddSeries(OperationalName, lineData(c.Operational),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		charts.WithLineStyleOpts(opts.LineStyle{Width: 4, Color: "#000000"}),
	)
	return line
}

func lineData(values []float64) []opts.LineData {
	items := make([]opts.LineData, len(values))
	for i, v := range values {
		items[i] = opts.LineData{Value: v}
	}
	return items
}
