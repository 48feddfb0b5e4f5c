package features

import (
	"testing"

	"FXPulse/internal/domain/models"
)

func TestTrailing(t *testing.T) {
	pts := makeSeries(1, 2, 3, 4).Points
	cases := []struct {
		n    int
		want int
	}{
		{0, 0}, {-1, 0}, {2, 2}, {4, 4}, {30, 4},
	}
	for _, c := range cases {
		got := Trailing(pts, c.n)
		if len(got) != c.want {
			t.Fatalf("Trailing(%d) len=%d want=%d", c.n, len(got), c.want)
		}
		if c.want > 0 && got[len(got)-1] != pts[len(pts)-1] {
			t.Fatalf("Trailing(%d) must end at the last point", c.n)
		}
	}
}

func TestComputeFractionalReturns(t *testing.T) {
	if got := ComputeFractionalReturns([]float64{1}); got != nil {
		t.Fatalf("got %v want nil", got)
	}
	got := ComputeFractionalReturns([]float64{2, 3, 1.5})
	want := []float64{0.5, -0.5}
	if len(got) != len(want) {
		t.Fatalf("len=%d want=%d", len(got), len(want))
	}
	for i := range want {
		if !almostEqual(got[i], want[i]) {
			t.Fatalf("ret[%d]=%v want=%v", i, got[i], want[i])
		}
	}
}

func TestClosesKeepsOrder(t *testing.T) {
	got := Closes([]models.RatePoint{{Rate: 3}, {Rate: 1}})
	if got[0] != 3 || got[1] != 1 {
		t.Fatalf("got %v", got)
	}
}
