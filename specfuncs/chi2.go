package specfuncs

import "math"

// wilsonHilferyThreshold is the degrees-of-freedom count above which the
// exact gamma-function route is abandoned in favour of the Wilson-Hilferty
// cube-root normal approximation (spec'd at f >= 2e5, where the exact route
// starts losing precision to cancellation).
const wilsonHilferyThreshold = 2e5

// Chi2CDF returns P(X <= x) for a chi-square random variable with f
// degrees of freedom.
func Chi2CDF(x float64, f float64) float64 {
	p, _ := chi2Both(x, f)
	return p
}

// Chi2PValue returns P(X >= x) = 1 - Chi2CDF(x, f), computed from the
// complementary branch directly rather than by subtraction.
func Chi2PValue(x float64, f float64) float64 {
	_, q := chi2Both(x, f)
	return q
}

func chi2Both(x, f float64) (cdf, pvalue float64) {
	if math.IsNaN(x) || math.IsNaN(f) || f <= 0 {
		return math.NaN(), math.NaN()
	}
	if x <= 0 {
		return 0, 1
	}
	if f >= wilsonHilferyThreshold {
		z := (math.Pow(x/f, 1.0/3.0) - (1 - 2/(9*f))) / math.Sqrt(2/(9*f))
		return StdNormCDF(z), StdNormPValue(z)
	}
	switch f {
	case 1:
		// P(X<=x) = erf(sqrt(x/2)).
		e := erf(math.Sqrt(x / 2))
		return e, 1 - e
	case 2:
		cdf = -math.Expm1(-x / 2)
		return cdf, math.Exp(-x / 2)
	default:
		p, q := gammaIncBoth(f/2, x/2)
		return p, q
	}
}
