package features

import "FXPulse/internal/domain/models"

// Trailing returns the last min(n, len(points)) observations.
// A non-positive n yields an empty slice.
func Trailing(points []models.RatePoint, n int) []models.RatePoint {
	if n <= 0 {
		return nil
	}
	if n > len(points) {
		n = len(points)
	}
	return points[len(points)-n:]
}

// Closes extracts the rate column of points.
func Closes(points []models.RatePoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Rate
	}
	return out
}

// ComputeFractionalReturns computes r_t = (C_t - C_{t-1}) / C_{t-1}.
// It returns a slice of length len(rates)-1, or nil if insufficient data.
func ComputeFractionalReturns(rates []float64) []float64 {
	if len(rates) < 2 {
		return nil
	}
	out := make([]float64, 0, len(rates)-1)
	for i := 1; i < len(rates); i++ {
		prev := rates[i-1]
		if prev == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, (rates[i]-prev)/prev)
	}
	return out
}
