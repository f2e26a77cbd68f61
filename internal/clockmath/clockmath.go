// Package clockmath converts between "HH:MM" wall-clock strings and
// minute-of-day integers, and provides the small statistical helpers the
// sleep analytics are built on.
package clockmath

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MinutesPerDay is the modulus for all wall-clock arithmetic.
const MinutesPerDay = 24 * 60

// ErrMalformedClock indicates a clock string whose hour or minute field is
// not a parseable integer.
var ErrMalformedClock = errors.New("malformed clock value")

// ToMinutes parses "HH:MM" (or bare "HH", minute defaulting to 0) into a
// minute-of-day integer.
func ToMinutes(clock string) (int, error) {
	parts := strings.Split(clock, ":")

	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedClock, clock)
	}

	minute := 0
	if len(parts) > 1 {
		minute, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrMalformedClock, clock)
		}
	}

	return hour*60 + minute, nil
}

// ToClock formats a minute-of-day value as zero-padded "HH:MM". The input
// is normalized modulo 1440 first, so negative values and values past
// midnight wrap around to a valid clock time.
func ToClock(minutes int) string {
	m := ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// WrapMinutes reduces a (possibly fractional) minute value into [0, 1440).
func WrapMinutes(minutes float64) float64 {
	m := math.Mod(minutes, MinutesPerDay)
	if m < 0 {
		m += MinutesPerDay
	}
	return m
}

// Mean returns the arithmetic mean of values. It returns 0 for an empty
// slice; callers guard for emptiness where the distinction matters.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// PStdev returns the population standard deviation (denominator N, not
// N-1) of values.
//
// Bedtime inputs are raw minute-of-day values with no wraparound
// correction: a window straddling midnight (23:50 vs 00:10) reads as
// widely spread even though the times are 20 minutes apart. The summary
// figures depend on this exact arithmetic, so it stays as-is; treat it as
// a documented limitation of the consistency metric, not a bug.
func PStdev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}
