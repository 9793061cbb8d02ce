// Package fuel forecasts the next car refill from a history of refills.
package fuel

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Common errors for refill estimation
var (
	ErrTooFewRefills   = errors.New("expected at least two refills in order to estimate consumption and forecasting")
	ErrMissingColumn   = errors.New("missing column")
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// Strategy selects how the next refill is forecast
type Strategy string

const (
	// StrategyAverage forecasts from the average distance and average cost
	StrategyAverage Strategy = "avg"
	// StrategyMax forecasts a full tank: the most expensive refill so far
	StrategyMax Strategy = "max"
)

// GaugeSteps is the number of steps drawn between two refills
const GaugeSteps = 20

// Refill is a single row of the refills file
type Refill struct {
	Km   float64
	Cost float64
}

// Estimate is the forecast of the next refill
type Estimate struct {
	Km   float64
	Cost float64
}

// History is the ordered list of past refills
type History struct {
	Refills []Refill
}

// ParseStrategy validates a strategy name
func ParseStrategy(name string) (Strategy, error) {
	switch s := Strategy(strings.ToLower(strings.TrimSpace(name))); s {
	case StrategyAverage, StrategyMax:
		return s, nil
	default:
		return "", fmt.Errorf("%w '%s' (valid: avg, max)", ErrUnknownStrategy, name)
	}
}

// Read parses a ';' delimited file with a header row holding "km" and "cost" columns
func Read(r io.Reader) (History, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return History{}, fmt.Errorf("failed to read refills: %w", err)
	}
	if len(records) == 0 {
		return History{}, nil
	}

	kmIdx, costIdx := -1, -1
	for i, name := range records[0] {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "km":
			kmIdx = i
		case "cost":
			costIdx = i
		}
	}
	if kmIdx == -1 {
		return History{}, fmt.Errorf("%w 'km'", ErrMissingColumn)
	}
	if costIdx == -1 {
		return History{}, fmt.Errorf("%w 'cost'", ErrMissingColumn)
	}

	history := History{Refills: make([]Refill, 0, len(records)-1)}
	for i, record := range records[1:] {
		km, err := strconv.ParseFloat(strings.TrimSpace(record[kmIdx]), 64)
		if err != nil {
			return History{}, fmt.Errorf("line %d: invalid km '%s'", i+2, record[kmIdx])
		}
		cost, err := strconv.ParseFloat(strings.TrimSpace(record[costIdx]), 64)
		if err != nil {
			return History{}, fmt.Errorf("line %d: invalid cost '%s'", i+2, record[costIdx])
		}
		history.Refills = append(history.Refills, Refill{Km: km, Cost: cost})
	}
	return history, nil
}

// ReadFile reads the refills file at path
func ReadFile(path string) (History, error) {
	file, err := os.Open(path)
	if err != nil {
		return History{}, err
	}
	defer func() { _ = file.Close() }()

	return Read(file)
}

func (h History) kms() []float64 {
	values := make([]float64, len(h.Refills))
	for i, r := range h.Refills {
		values[i] = r.Km
	}
	return values
}

func (h History) costs() []float64 {
	values := make([]float64, len(h.Refills))
	for i, r := range h.Refills {
		values[i] = r.Cost
	}
	return values
}

func (h History) last() Refill {
	return h.Refills[len(h.Refills)-1]
}

// deltaAverage sums the successive differences of values and divides by the
// number of refills, not the number of differences
func (h History) deltaAverage(values []float64) float64 {
	deltas := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		deltas[i-1] = values[i] - values[i-1]
	}
	return math.RoundToEven(floats.Sum(deltas) / float64(len(values)))
}

// AverageKm returns the distance usually driven between two refills
func (h History) AverageKm() (float64, error) {
	if len(h.Refills) < 2 {
		return 0, ErrTooFewRefills
	}
	if len(h.Refills) > 2 {
		return h.deltaAverage(h.kms()), nil
	}
	return h.Refills[1].Km - h.Refills[0].Km, nil
}

// AverageCost returns the rounded mean cost of a refill
func (h History) AverageCost() (float64, error) {
	if len(h.Refills) == 0 {
		return 0, ErrTooFewRefills
	}
	return math.RoundToEven(stat.Mean(h.costs(), nil)), nil
}

// KmPerCost returns the distance driven per unit of cost, rounded to two decimals
func (h History) KmPerCost() (float64, error) {
	km, err := h.AverageKm()
	if err != nil {
		return 0, err
	}
	cost, err := h.AverageCost()
	if err != nil {
		return 0, err
	}
	if cost == 0 {
		return 0, nil
	}
	return math.Round(km/cost*100) / 100, nil
}

// Forecast estimates where the next refill happens and what it costs
func (h History) Forecast(strategy Strategy) (Estimate, error) {
	if len(h.Refills) < 2 {
		return Estimate{}, ErrTooFewRefills
	}

	switch strategy {
	case StrategyAverage:
		cost, err := h.AverageCost()
		if err != nil {
			return Estimate{}, err
		}
		return Estimate{
			Km:   h.deltaAverage(h.kms()) + h.last().Km,
			Cost: cost,
		}, nil
	case StrategyMax:
		avg, err := h.AverageKm()
		if err != nil {
			return Estimate{}, err
		}
		costs := h.costs()
		return Estimate{
			Km:   h.last().Km + avg,
			Cost: costs[floats.MaxIdx(costs)],
		}, nil
	default:
		return Estimate{}, fmt.Errorf("%w '%s'", ErrUnknownStrategy, strategy)
	}
}

// Gauge draws how far currentKm is between the last refill and the next
// full-tank forecast:
// "<prev> km ==== <current> km ==== <next> km [<p>% of tank capacity left]"
func (h History) Gauge(currentKm float64) (string, error) {
	next, err := h.Forecast(StrategyMax)
	if err != nil {
		return "", err
	}

	prev := h.last().Km
	stepKm := math.RoundToEven((next.Km - prev) / GaugeSteps)

	used := 0
	if stepKm > 0 {
		used = int(math.RoundToEven((currentKm - prev) / stepKm))
	}
	used = min(max(used, 0), GaugeSteps)
	left := GaugeSteps - used
	percent := int(math.RoundToEven(float64(left) / GaugeSteps * 100))

	return fmt.Sprintf("%s km %s %s km %s %s km [%d%% of tank capacity left]",
		formatKm(prev), strings.Repeat("=", used),
		formatKm(currentKm), strings.Repeat("=", left),
		formatKm(next.Km), percent), nil
}

func formatKm(km float64) string {
	return strconv.FormatFloat(km, 'f', -1, 64)
}
