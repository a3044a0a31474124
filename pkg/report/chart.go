package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/sherine-k/mm1sim/pkg/sweep"
	"gonum.org/v1/gonum/floats"
)

const (
	chartWidth  = 80
	chartHeight = 16
	labelWidth  = 10
)

// Generator generates ASCII charts
type Generator struct {
	width  int
	height int
}

// NewGenerator creates a new chart generator
func NewGenerator() *Generator {
	return &Generator{
		width:  chartWidth,
		height: chartHeight,
	}
}

// GenerateSweepCharts renders one chart per metric against the arrival rate
func (g *Generator) GenerateSweepCharts(points []sweep.Point) string {
	if len(points) == 0 {
		return "No data to display"
	}

	rates := make([]float64, len(points))
	turnaround := make([]float64, len(points))
	throughput := make([]float64, len(points))
	utilization := make([]float64, len(points))
	queueLength := make([]float64, len(points))
	for i, p := range points {
		rates[i] = p.Rate
		turnaround[i] = p.Result.AvgTurnaroundTime
		throughput[i] = p.Result.Throughput
		utilization[i] = p.Result.CPUUtilization
		queueLength[i] = p.Result.AvgQueueLength
	}

	var sb strings.Builder
	sb.WriteString(g.GenerateMetricChart("Average Turnaround Time vs Arrival Rate", rates, turnaround))
	sb.WriteString(g.GenerateMetricChart("Throughput vs Arrival Rate", rates, throughput))
	sb.WriteString(g.GenerateMetricChart("CPU Utilization vs Arrival Rate", rates, utilization))
	sb.WriteString(g.GenerateMetricChart("Average Queue Length vs Arrival Rate", rates, queueLength))
	return sb.String()
}

// GenerateMetricChart plots ys against xs. xs must be ascending.
func (g *Generator) GenerateMetricChart(title string, xs, ys []float64) string {
	if len(xs) == 0 || len(xs) != len(ys) {
		return "No data to display"
	}

	var sb strings.Builder

	// Header
	sb.WriteString("\n")
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")

	plotWidth := g.width - labelWidth - 2
	minY, maxY := floats.Min(ys), floats.Max(ys)
	if maxY == minY {
		minY, maxY = minY-0.5, maxY+0.5
	}

	grid := make([][]rune, g.height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", plotWidth))
	}

	for i := range xs {
		col := g.column(i, len(xs), plotWidth)
		row := int(math.Round((ys[i] - minY) / (maxY - minY) * float64(g.height-1)))
		grid[g.height-1-row][col] = '*'
	}

	// Label the top, middle and bottom rows
	mid := (g.height - 1) / 2
	for r := range grid {
		if r == 0 || r == mid || r == g.height-1 {
			value := maxY - float64(r)*(maxY-minY)/float64(g.height-1)
			sb.WriteString(fmt.Sprintf("%*.4g |", labelWidth, value))
		} else {
			sb.WriteString(strings.Repeat(" ", labelWidth) + " |")
		}
		sb.WriteString(strings.TrimRight(string(grid[r]), " "))
		sb.WriteString("\n")
	}

	// X-axis
	sb.WriteString(strings.Repeat(" ", labelWidth) + " +")
	sb.WriteString(strings.Repeat("-", plotWidth))
	sb.WriteString("\n")

	labelLine := []rune(strings.Repeat(" ", plotWidth))
	placeLabel := func(pos int, text string) {
		if pos+len(text) > plotWidth {
			pos = plotWidth - len(text)
		}
		if pos < 0 {
			pos = 0
		}
		for i, ch := range text {
			if pos+i < plotWidth {
				labelLine[pos+i] = ch
			}
		}
	}
	placeLabel(0, fmt.Sprintf("%g", xs[0]))
	if len(xs) > 2 {
		m := len(xs) / 2
		placeLabel(g.column(m, len(xs), plotWidth), fmt.Sprintf("%g", xs[m]))
	}
	if len(xs) > 1 {
		placeLabel(plotWidth, fmt.Sprintf("%g", xs[len(xs)-1]))
	}

	sb.WriteString(strings.Repeat(" ", labelWidth+2))
	sb.WriteString(strings.TrimRight(string(labelLine), " "))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(" ", labelWidth+2) + "Arrival Rate (λ)\n")

	return sb.String()
}

// column maps the i-th of n points onto the plot width
func (g *Generator) column(i, n, plotWidth int) int {
	if n <= 1 {
		return 0
	}
	return int(float64(i) / float64(n-1) * float64(plotWidth-1))
}
