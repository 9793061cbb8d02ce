package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/JustNello/punctual/internal/fuel"
)

// fuelCmd represents the fuel command
var fuelCmd = &cobra.Command{
	Use:   "fuel <refills.csv>",
	Short: "Forecast the next car refill",
	Long: `Forecast where the next car refill happens and how much it costs.

The refills file is ';' separated with a header row and the numeric columns
km (odometer at the refill) and cost:

  km;cost
  136000;65
  136550;70

Strategies:
  avg    Average distance between refills and average cost (default)
  max    A full tank: average distance and the most expensive refill so far

Examples:
  punctual fuel refills.csv
  punctual fuel refills.csv --strategy max --km 138480`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		strategy, _ := cmd.Flags().GetString("strategy")
		var current *float64
		if cmd.Flags().Changed("km") {
			km, _ := cmd.Flags().GetFloat64("km")
			current = &km
		}
		forecastRefill(args[0], strategy, current)
	},
}

func init() {
	rootCmd.AddCommand(fuelCmd)
	fuelCmd.Flags().String("strategy", string(fuel.StrategyAverage), "Forecast strategy: avg or max")
	fuelCmd.Flags().Float64("km", 0, "Current odometer reading, draws the tank gauge")
}

// forecastRefill prints the refill forecast and, when current is set, the tank gauge
func forecastRefill(path, strategyName string, current *float64) {
	strategy, err := fuel.ParseStrategy(strategyName)
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Valid strategies: avg, max")
		deps.Exit(1)
		return
	}

	history, err := fuel.ReadFile(path)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to read refills file")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		if errors.Is(err, fuel.ErrMissingColumn) {
			_, _ = fmt.Fprintln(deps.Stderr, "Hint: The header row must contain the columns 'km' and 'cost' separated by ';'")
		} else {
			_, _ = fmt.Fprintf(deps.Stderr, "Hint: Check that the file exists and is readable: %s\n", path)
		}
		deps.Exit(1)
		return
	}

	estimate, err := history.Forecast(strategy)
	if err != nil {
		printFuelError(err)
		return
	}
	avgKm, err := history.AverageKm()
	if err != nil {
		printFuelError(err)
		return
	}
	avgCost, err := history.AverageCost()
	if err != nil {
		printFuelError(err)
		return
	}
	kmPerCost, err := history.KmPerCost()
	if err != nil {
		printFuelError(err)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "You'll have next refill at %s km and you'll pay € %s\n", number(estimate.Km), number(estimate.Cost))
	_, _ = fmt.Fprintf(deps.Stdout, "On average, you drive %s km on each refill\n", number(avgKm))
	_, _ = fmt.Fprintf(deps.Stdout, "On average, you pay € %s at each refill\n", number(avgCost))
	_, _ = fmt.Fprintf(deps.Stdout, "That is %s km/euro\n", number(kmPerCost))

	if current == nil {
		return
	}
	gauge, err := history.Gauge(*current)
	if err != nil {
		printFuelError(err)
		return
	}
	_, _ = fmt.Fprintln(deps.Stdout, gauge)
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func printFuelError(err error) {
	_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to forecast the next refill")
	_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
	if errors.Is(err, fuel.ErrTooFewRefills) {
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Add at least two refills to the file")
	}
	deps.Exit(1)
}
