package specfuncs

import "math"

// PoissonCDF returns P(X <= x) for X ~ Poisson(lambda), computed as the
// regularised upper incomplete gamma function Q(floor(x)+1, lambda).
func PoissonCDF(x, lambda float64) float64 {
	if math.IsNaN(x) || math.IsNaN(lambda) || lambda < 0 {
		return math.NaN()
	}
	if x < 0 {
		return 0
	}
	return GammaIncUpper(math.Floor(x)+1, lambda)
}

// PoissonPValue returns P(X > x) = 1 - PoissonCDF(x, lambda) for
// X ~ Poisson(lambda), computed as the regularised lower incomplete gamma
// function P(floor(x)+1, lambda).
func PoissonPValue(x, lambda float64) float64 {
	if math.IsNaN(x) || math.IsNaN(lambda) || lambda < 0 {
		return math.NaN()
	}
	if x < 0 {
		return 1
	}
	return GammaInc(math.Floor(x)+1, lambda)
}
