package debug

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// 默认图片尺寸
const (
	DefaultWidth  = 24 * vg.Centimeter
	DefaultHeight = 12 * vg.Centimeter
)

// 支持的图片格式
var plotFormats = map[string]string{
	"png": "image/png",
	"svg": "image/svg+xml",
	"pdf": "application/pdf",
}

// ContentType 图片格式对应的 MIME 类型
func ContentType(format string) (string, bool) {
	ct, ok := plotFormats[format]
	return ct, ok
}

// Plot 静态曲线图
type Plot struct {
	*Record
	Width, Height vg.Length
	Format        string
}

// NewPlot 创建默认尺寸的 PNG 曲线图
func NewPlot(rec *Record) *Plot {
	return &Plot{Record: rec, Width: DefaultWidth, Height: DefaultHeight, Format: "png"}
}

// Render 绘制并输出图片
func (p *Plot) Render(w io.Writer) error {
	if _, ok := plotFormats[p.Format]; !ok {
		return fmt.Errorf("不支持的图片格式: %q", p.Format)
	}
	pl := plot.New()
	pl.Title.Text = fmt.Sprintf("%s: state probabilities", p.Model)
	pl.X.Label.Text = "t"
	pl.Y.Label.Text = "P"
	pl.Y.Min, pl.Y.Max = 0, 1
	pl.Legend.Top = true
	pl.Add(plotter.NewGrid())

	for i, row := range p.States {
		l, err := plotter.NewLine(series(p.Time, row))
		if err != nil {
			return fmt.Errorf("%s: %w", p.Labels[i], err)
		}
		l.LineStyle.Color = plotutil.Color(i)
		l.LineStyle.Width = vg.Points(1)
		pl.Add(l)
		pl.Legend.Add(p.Labels[i], l)
	}
	// 工作概率加粗
	l, err := plotter.NewLine(series(p.Time, p.Operational))
	if err != nil {
		return fmt.Errorf("%s: %w", OperationalName, err)
	}
	l.LineStyle.Color = color.Black
	l.LineStyle.Width = vg.Points(3)
	pl.Add(l)
	pl.Legend.Add(OperationalName, l)

	wt, err := pl.WriterTo(p.Width, p.Height, p.Format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

func series(t, v []float64) plotter.XYs {
	xys := make(plotter.XYs, len(t))
	for i := range t {
		xys[i].X = t[i]
		xys[i].Y = v[i]
	}
	return xys
}
