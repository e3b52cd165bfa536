package renderer

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"

	"github.com/etnz/heatmap"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ScatterSample is the maximum number of merchants drawn on the customers chart.
const ScatterSample = 1000

const (
	chartWidth  = 8 * vg.Inch
	chartHeight = 4 * vg.Inch
)

// Chart is a figure of the dashboard, rendered as a PNG image.
type Chart struct {
	Name  string // used as file name, without extension
	Title string
	draw  func(d *heatmap.Dashboard) (*plot.Plot, error)
}

// Charts lists all the dashboard figures in display order.
var Charts = []Chart{
	{Name: "payments", Title: "Payment Size Distribution", draw: paymentsPlot},
	{Name: "hours", Title: "Peak Activity Hours (UTC)", draw: hoursPlot},
	{Name: "activity", Title: "Merchant Activity Distribution", draw: activityPlot},
	{Name: "customers", Title: "Customer Base vs Transaction Activity", draw: customersPlot},
}

// ErrUnknownChart is returned by FindChart for a name not in Charts.
var ErrUnknownChart = errors.New("unknown chart")

// FindChart returns the chart called name.
func FindChart(name string) (Chart, error) {
	for _, c := range Charts {
		if c.Name == name {
			return c, nil
		}
	}
	return Chart{}, fmt.Errorf("%w %q", ErrUnknownChart, name)
}

// WritePNG draws the chart for d and writes it to w as a PNG image.
func (c Chart) WritePNG(w io.Writer, d *heatmap.Dashboard) error {
	p, err := c.draw(d)
	if err != nil {
		return fmt.Errorf("cannot draw chart %q: %w", c.Name, err)
	}
	wt, err := p.WriterTo(chartWidth, chartHeight, "png")
	if err != nil {
		return fmt.Errorf("cannot render chart %q: %w", c.Name, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("cannot write chart %q: %w", c.Name, err)
	}
	return nil
}

// hexColor parses a "#rrggbb" display color, falling back to gray.
func hexColor(hex string) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.Gray{Y: 0x99}
	}
	return c
}

func paymentsPlot(d *heatmap.Dashboard) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = "Average Payment Size (USDT)"
	p.Y.Label.Text = "Number of Merchants"

	values := make(plotter.Values, len(d.PaymentSizes))
	labels := make([]string, len(d.PaymentSizes))
	for i, b := range d.PaymentSizes {
		values[i] = float64(b.Count)
		labels[i] = b.Label()
	}
	bars, err := plotter.NewBarChart(values, vg.Points(16))
	if err != nil {
		return nil, err
	}
	bars.Color = hexColor("#00ff88")
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	return p, nil
}

func hoursPlot(d *heatmap.Dashboard) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = "Hour (UTC)"
	p.Y.Label.Text = "Percentage of Merchants"
	p.Legend.Top = true

	width := vg.Points(5)
	n := len(d.PeakHours)
	for i, rh := range d.PeakHours {
		values := make(plotter.Values, len(rh.Hours))
		for h, s := range rh.Hours {
			values[h] = float64(s.Percent)
		}
		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return nil, err
		}
		bars.Color = hexColor(rh.Color)
		bars.LineStyle.Width = 0
		bars.Offset = vg.Length(float64(i)-float64(n-1)/2) * width
		p.Add(bars)
		p.Legend.Add(rh.Region, bars)
	}
	labels := make([]string, 24)
	for h := range labels {
		labels[h] = strconv.Itoa(h)
	}
	p.NominalX(labels...)
	return p, nil
}

var activityColors = []string{"#333333", "#666666", "#00cc66", "#00ff88"}

func activityPlot(d *heatmap.Dashboard) (*plot.Plot, error) {
	p := plot.New()
	p.Y.Label.Text = "Share of Merchants (%)"

	var labels []string
	for i, band := range d.ActivityLevels {
		bars, err := plotter.NewBarChart(plotter.Values{float64(band.Percent)}, vg.Points(40))
		if err != nil {
			return nil, err
		}
		bars.XMin = float64(i)
		bars.Color = hexColor(activityColors[i%len(activityColors)])
		bars.LineStyle.Width = 0
		p.Add(bars)
		labels = append(labels, fmt.Sprintf("%s (%d)", band.Level, band.Count))
	}
	p.NominalX(labels...)
	return p, nil
}

// sample returns at most n merchants of t, evenly spread over the table.
func sample(t *heatmap.MerchantTable, n int) []heatmap.Merchant {
	step := 1
	if t.Len() > n {
		step = (t.Len() + n - 1) / n
	}
	var ms []heatmap.Merchant
	for i := 0; i < t.Len(); i += step {
		ms = append(ms, t.At(i))
	}
	return ms
}

// customersPlot draws transactions against customers on log scales, one
// series per region. Merchants without customers or transactions cannot be
// placed on a log scale and are skipped.
func customersPlot(d *heatmap.Dashboard) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = "Unique Customers (log scale)"
	p.Y.Label.Text = "Total Transactions (log scale)"
	p.Legend.Top = true

	series := make(map[string]plotter.XYs)
	var order []string
	minX, maxX, minY, maxY := math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)
	for _, m := range sample(d.Table(), ScatterSample) {
		if m.UniqueCustomers <= 0 || m.TransactionCount <= 0 {
			continue
		}
		if _, ok := series[m.Region]; !ok {
			order = append(order, m.Region)
		}
		x, y := float64(m.UniqueCustomers), float64(m.TransactionCount)
		series[m.Region] = append(series[m.Region], plotter.XY{X: x, Y: y})
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	if len(order) == 0 {
		return p, nil
	}

	colors := make(map[string]string)
	for _, r := range d.Regions {
		colors[r.Region] = r.Color
	}
	for _, region := range order {
		s, err := plotter.NewScatter(series[region])
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Color = hexColor(colors[region])
		s.GlyphStyle.Radius = vg.Points(2)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add(region, s)
	}
	p.X.Scale, p.Y.Scale = plot.LogScale{}, plot.LogScale{}
	p.X.Tick.Marker, p.Y.Tick.Marker = plot.LogTicks{Prec: -1}, plot.LogTicks{Prec: -1}
	// keep strictly positive and distinct bounds for the log scales
	p.X.Min, p.X.Max = minX/2, maxX*2
	p.Y.Min, p.Y.Max = minY/2, maxY*2
	return p, nil
}
