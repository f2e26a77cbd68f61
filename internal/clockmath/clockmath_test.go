package clockmath

import (
	"errors"
	"math"
	"testing"
)

func TestToMinutes(t *testing.T) {
	tests := []struct {
		name    string
		clock   string
		want    int
		wantErr bool
	}{
		{name: "midnight", clock: "00:00", want: 0},
		{name: "late evening", clock: "23:45", want: 1425},
		{name: "hour only defaults minute to zero", clock: "22", want: 1320},
		{name: "single digit hour", clock: "7:05", want: 425},
		{name: "non-numeric hour", clock: "ab:30", wantErr: true},
		{name: "non-numeric minute", clock: "22:xx", wantErr: true},
		{name: "empty string", clock: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToMinutes(tt.clock)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ToMinutes(%q) = %d, want error", tt.clock, got)
				}
				if !errors.Is(err, ErrMalformedClock) {
					t.Errorf("error = %v, want ErrMalformedClock", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToMinutes(%q) error: %v", tt.clock, err)
			}
			if got != tt.want {
				t.Errorf("ToMinutes(%q) = %d, want %d", tt.clock, got, tt.want)
			}
		})
	}
}

func TestClockRoundTrip(t *testing.T) {
	for m := 0; m < MinutesPerDay; m++ {
		got, err := ToMinutes(ToClock(m))
		if err != nil {
			t.Fatalf("round trip of %d: %v", m, err)
		}
		if got != m {
			t.Fatalf("round trip of %d: got %d", m, got)
		}
	}
}

func TestToClockNormalization(t *testing.T) {
	tests := []struct {
		name    string
		minutes int
		want    string
	}{
		{name: "negative wraps backward", minutes: -10, want: "23:50"},
		{name: "equivalent positive", minutes: 1430, want: "23:50"},
		{name: "overflow wraps forward", minutes: 1450, want: "00:10"},
		{name: "exactly one day", minutes: 1440, want: "00:00"},
		{name: "large negative", minutes: -1450, want: "23:50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToClock(tt.minutes); got != tt.want {
				t.Errorf("ToClock(%d) = %q, want %q", tt.minutes, got, tt.want)
			}
		})
	}
}

func TestWrapMinutes(t *testing.T) {
	if got := WrapMinutes(1475.5); got != 35.5 {
		t.Errorf("WrapMinutes(1475.5) = %v, want 35.5", got)
	}
	if got := WrapMinutes(-30); got != 1410 {
		t.Errorf("WrapMinutes(-30) = %v, want 1410", got)
	}
}

func TestMean(t *testing.T) {
	if got := Mean([]float64{420, 450, 480}); got != 450 {
		t.Errorf("Mean = %v, want 450", got)
	}
	if got := Mean(nil); got != 0 {
		t.Errorf("Mean(nil) = %v, want 0", got)
	}
}

func TestPStdev(t *testing.T) {
	// Population stddev of {2, 4, 4, 4, 5, 5, 7, 9} is exactly 2.
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if got := PStdev(values); math.Abs(got-2) > 1e-9 {
		t.Errorf("PStdev = %v, want 2", got)
	}
	if got := PStdev([]float64{1380}); got != 0 {
		t.Errorf("PStdev of single value = %v, want 0", got)
	}
}
