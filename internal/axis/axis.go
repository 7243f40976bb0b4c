// Package axis chooses tick positions and labels for a linear axis.
package axis

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// MinTickDistance is the smallest preferred distance between ticks, in pixels.
	MinTickDistance = 50.0

	// tickTolerance scales MinTickDistance into the hard lower bound.
	tickTolerance = 0.8

	maxTicks = 10

	// log10Slack absorbs rounding in math.Log10 near exact powers of ten.
	log10Slack = 1e-9
)

// Tick is one labeled position on the axis.
type Tick struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Generator holds the tick layout for one axis range.
type Generator struct {
	min, max    float64
	step        float64
	first, last int64
	decimals    int
	printer     *message.Printer
}

// NewGenerator lays out ticks for [min, max] drawn over axisLength pixels.
// Reversed bounds are swapped. An empty or invalid range has no ticks.
func NewGenerator(min, max, axisLength float64) *Generator {
	g := &Generator{
		min:     math.Min(min, max),
		max:     math.Max(min, max),
		first:   1,
		printer: message.NewPrinter(language.English),
	}

	delta := g.max - g.min
	if delta <= 0 || math.IsInf(delta, 0) || math.IsNaN(delta) {
		return g
	}
	scale := axisLength / delta

	step := math.Pow(10, float64(decade(delta)))
	next, last := 5.0, 5.0
	for int(delta/step) < maxTicks && step*scale > MinTickDistance {
		step /= next
		last = next
		if next == 5 {
			next = 2
		} else {
			next = 5
		}
	}
	if step*scale < MinTickDistance*tickTolerance {
		step *= last
	}

	g.step = step
	g.first = int64(math.Ceil(g.min / step))
	g.last = int64(math.Floor(g.max / step))

	if exp := decade(step); exp < 0 {
		g.decimals = -exp
	}
	return g
}

// decade returns floor(log10(x)).
func decade(x float64) int {
	return int(math.Floor(math.Log10(x) + log10Slack))
}

// Min returns the lower bound of the axis.
func (g *Generator) Min() float64 { return g.min }

// Max returns the upper bound of the axis.
func (g *Generator) Max() float64 { return g.max }

// Step returns the distance between ticks; zero when there are none.
func (g *Generator) Step() float64 { return g.step }

// Decimals returns the number of decimals used in labels.
func (g *Generator) Decimals() int { return g.decimals }

// Len returns the number of ticks.
func (g *Generator) Len() int {
	if g.last < g.first {
		return 0
	}
	return int(g.last - g.first + 1)
}

// ForEach calls visit with the label and value of every tick in
// increasing order.
func (g *Generator) ForEach(visit func(label string, value float64)) {
	format := fmt.Sprintf("%%.%df", g.decimals)
	for k := g.first; k <= g.last; k++ {
		v := float64(k) * g.step
		visit(g.printer.Sprintf(format, v), v)
	}
}

// Ticks returns every tick.
func (g *Generator) Ticks() []Tick {
	ticks := make([]Tick, 0, g.Len())
	g.ForEach(func(label string, value float64) {
		ticks = append(ticks, Tick{Label: label, Value: value})
	})
	return ticks
}
