package specfuncs

import "math"

// LinearCompTCDF returns the c.d.f. of the discrete distribution followed
// by the Berlekamp-Massey T statistic under the null hypothesis of a
// truly random bit sequence. Callers computing T from an integer linear
// complexity get an integer or half-integer k already; the formula itself
// is evaluated at the value given, with no internal rounding.
func LinearCompTCDF(k float64) float64 {
	if math.IsNaN(k) {
		return math.NaN()
	}
	if k > 0 {
		return 1 - math.Pow(2, -2*k+2)/3
	}
	return math.Pow(2, 2*k+1) / 3
}

// LinearCompTCCDF returns the complementary c.d.f. 1 - LinearCompTCDF(k).
func LinearCompTCCDF(k float64) float64 {
	return 1 - LinearCompTCDF(k)
}
