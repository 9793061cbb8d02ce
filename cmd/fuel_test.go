package cmd

import (
	"strings"
	"testing"
)

const testRefills = `km;cost
136000;60
136700;70
137500;65
138200;75
`

func TestForecastRefill(t *testing.T) {
	env := setupTest(t)
	path := env.writeFile(t, "refills.csv", testRefills)

	forecastRefill(path, "avg", nil)

	env.assertNoExit(t)
	expected := "You'll have next refill at 138750 km and you'll pay € 68\n" +
		"On average, you drive 550 km on each refill\n" +
		"On average, you pay € 68 at each refill\n" +
		"That is 8.09 km/euro\n"
	if env.stdout.String() != expected {
		t.Errorf("Unexpected output:\n%s\nexpected:\n%s", env.stdout.String(), expected)
	}
}

func TestForecastRefill_MaxWithGauge(t *testing.T) {
	env := setupTest(t)
	path := env.writeFile(t, "refills.csv", testRefills)
	current := 138480.0

	forecastRefill(path, "max", &current)

	env.assertNoExit(t)
	output := env.stdout.String()
	if !strings.HasPrefix(output, "You'll have next refill at 138750 km and you'll pay € 75\n") {
		t.Errorf("Unexpected forecast:\n%s", output)
	}
	if !strings.Contains(output, "138200 km ========== 138480 km ========== 138750 km [50% of tank capacity left]") {
		t.Errorf("Expected gauge in output:\n%s", output)
	}
}

func TestForecastRefill_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		strategy string
		errMsg   string
		hint     string
	}{
		{"unknown strategy", testRefills, "min", "unknown strategy 'min'", "Hint: Valid strategies: avg, max"},
		{"missing column", "km\n1000\n", "avg", "missing column 'cost'", "Hint: The header row must contain"},
		{"single refill", "km;cost\n1000;50\n", "avg", "at least two refills", "Hint: Add at least two refills"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTest(t)
			path := env.writeFile(t, "refills.csv", tt.content)

			forecastRefill(path, tt.strategy, nil)

			env.assertExit(t, 1)
			errOutput := env.stderr.String()
			if !strings.Contains(errOutput, tt.errMsg) {
				t.Errorf("Expected %q, got: %s", tt.errMsg, errOutput)
			}
			if !strings.Contains(errOutput, tt.hint) {
				t.Errorf("Expected %q, got: %s", tt.hint, errOutput)
			}
		})
	}
}

func TestForecastRefill_MissingFile(t *testing.T) {
	env := setupTest(t)

	forecastRefill(env.dir+"/missing.csv", "avg", nil)

	env.assertExit(t, 1)
	if !strings.Contains(env.stderr.String(), "Error: Failed to read refills file") {
		t.Errorf("Unexpected error output: %s", env.stderr.String())
	}
}
