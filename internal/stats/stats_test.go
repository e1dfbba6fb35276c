package stats

import "testing"

func TestMovingAverage(t *testing.T) {
	values := []float64{10, 20, 30, 40}
	out := MovingAverage(values, 2)
	want := []float64{10, 15, 25, 35}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("index %d: expected %f, got %f", i, want[i], out[i])
		}
	}
}

func TestMovingAverageWindowOne(t *testing.T) {
	values := []float64{1, 2, 3}
	out := MovingAverage(values, 1)
	for i := range values {
		if out[i] != values[i] {
			t.Fatalf("window 1 must copy values, index %d differs", i)
		}
	}
	out[0] = 99
	if values[0] == 99 {
		t.Fatalf("output must not alias the input")
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil); got != "" {
		t.Fatalf("empty input should render empty, got %q", got)
	}
	flat := Sparkline([]float64{5, 5, 5})
	if len(flat) != 3 {
		t.Fatalf("expected 3 chars, got %q", flat)
	}
	if flat[0] != flat[1] || flat[1] != flat[2] {
		t.Fatalf("flat series should render uniformly, got %q", flat)
	}
	rising := Sparkline([]float64{0, 50, 100})
	if rising[0] != ' ' || rising[2] != '@' {
		t.Fatalf("rising series should span the ramp, got %q", rising)
	}
}

func TestPassRate(t *testing.T) {
	if got := PassRate(0, 0); got != 0 {
		t.Fatalf("zero rounds should be 0, got %f", got)
	}
	if got := PassRate(3, 4); got != 0.75 {
		t.Fatalf("expected 0.75, got %f", got)
	}
}

func TestScoreCurve(t *testing.T) {
	out := ScoreCurve([]int{1, 2})
	if len(out) != 2 || out[0] != 1 || out[1] != 2 {
		t.Fatalf("unexpected curve: %v", out)
	}
}
