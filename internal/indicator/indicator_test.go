package indicator

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSMA(t *testing.T) {
	got := SMA([]float64{1, 2, 3, 4, 5}, 3)
	if Valid(got[0]) || Valid(got[1]) {
		t.Fatalf("expected NaN warmup, got %v", got[:2])
	}
	if !almostEqual(got[2], 2) || !almostEqual(got[3], 3) || !almostEqual(got[4], 4) {
		t.Fatalf("unexpected SMA %v", got)
	}
}

func TestSMATooShort(t *testing.T) {
	got := SMA([]float64{1, 2}, 3)
	for i, v := range got {
		if Valid(v) {
			t.Fatalf("expected all NaN, got %v at %d", v, i)
		}
	}
}

func TestEMASeededWithSMA(t *testing.T) {
	values := []float64{2, 4, 6, 8}
	got := EMA(values, 3)
	if Valid(got[0]) || Valid(got[1]) {
		t.Fatalf("expected NaN warmup")
	}
	if !almostEqual(got[2], 4) {
		t.Fatalf("expected SMA seed 4, got %v", got[2])
	}
	// k = 0.5: 8*0.5 + 4*0.5
	if !almostEqual(got[3], 6) {
		t.Fatalf("expected 6, got %v", got[3])
	}
}

func TestEWMSeededWithFirstValue(t *testing.T) {
	values := []float64{10, 20}
	got := EWM(values, 3)
	if !almostEqual(got[0], 10) {
		t.Fatalf("expected first-value seed, got %v", got[0])
	}
	// k = 0.5
	if !almostEqual(got[1], 15) {
		t.Fatalf("expected 15, got %v", got[1])
	}
}

func TestRSIExtremes(t *testing.T) {
	up := make([]float64, 20)
	down := make([]float64, 20)
	for i := range up {
		up[i] = float64(i)
		down[i] = float64(20 - i)
	}
	rsiUp := RSI(up, 14)
	rsiDown := RSI(down, 14)
	last := len(up) - 1
	if !almostEqual(rsiUp[last], 100) {
		t.Fatalf("all-gain series should pin RSI at 100, got %v", rsiUp[last])
	}
	if !almostEqual(rsiDown[last], 0) {
		t.Fatalf("all-loss series should pin RSI at 0, got %v", rsiDown[last])
	}
}

func TestRSIWarmup(t *testing.T) {
	got := RSI([]float64{1, 2, 3}, 14)
	for _, v := range got {
		if Valid(v) {
			t.Fatalf("expected NaN for short input")
		}
	}
}

func TestBollingerConstantSeries(t *testing.T) {
	values := make([]float64, 25)
	for i := range values {
		values[i] = 10
	}
	upper, lower := Bollinger(values, 20, 2)
	last := len(values) - 1
	if !almostEqual(upper[last], 10) || !almostEqual(lower[last], 10) {
		t.Fatalf("constant series should collapse bands, got %v/%v", upper[last], lower[last])
	}
}

func TestRollingMaxMin(t *testing.T) {
	values := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	mx := RollingMax(values, 3)
	mn := RollingMin(values, 3)
	if !almostEqual(mx[4], 5) || !almostEqual(mx[5], 9) {
		t.Fatalf("unexpected rolling max %v", mx)
	}
	if !almostEqual(mn[3], 1) || !almostEqual(mn[6], 2) {
		t.Fatalf("unexpected rolling min %v", mn)
	}
	if Valid(mx[0]) || Valid(mn[1]) {
		t.Fatalf("expected NaN warmup")
	}
}

func TestMean(t *testing.T) {
	if Mean(nil) != 0 {
		t.Fatalf("empty mean should be 0")
	}
	if !almostEqual(Mean([]float64{1, 2, 3}), 2) {
		t.Fatalf("unexpected mean")
	}
}
