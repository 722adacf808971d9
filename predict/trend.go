// Package predict extrapolates usage history with a linear trend. It is a
// stateless numeric utility, not part of the stepwise engine.
package predict

import "gonum.org/v1/gonum/stat"

// DefaultHorizon is how many future points the trend line extends past the
// observed history.
const DefaultHorizon = 10

// Trend is a fitted and extrapolated usage line. Line covers the observed
// range plus the horizon; Next is the value predicted for the very next
// step. Values are clamped to [0, 100] (usage percentages).
type Trend struct {
	Line      []float64 `json:"line"`
	Next      float64   `json:"next"`
	Slope     float64   `json:"slope"`
	Intercept float64   `json:"intercept"`
}

// Fit performs an ordinary least-squares fit over the history. Returns
// false when fewer than two points are available.
func Fit(history []float64, horizon int) (*Trend, bool) {
	if len(history) < 2 {
		return nil, false
	}
	if horizon < 0 {
		horizon = DefaultHorizon
	}
	xs := make([]float64, len(history))
	for i := range xs {
		xs[i] = float64(i)
	}
	intercept, slope := stat.LinearRegression(xs, history, nil, false)
	line := make([]float64, len(history)+horizon)
	for i := range line {
		v := intercept + slope*float64(i)
		if v < 0 {
			v = 0
		} else if v > 100 {
			v = 100
		}
		line[i] = v
	}
	next := line[len(history)-1]
	if len(line) > len(history) {
		next = line[len(history)]
	}
	return &Trend{
		Line:      line,
		Next:      next,
		Slope:     slope,
		Intercept: intercept,
	}, true
}
