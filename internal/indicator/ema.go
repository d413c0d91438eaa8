package indicator

import "math"

// EMASeries computes the exponential moving average of prices for the given
// span, returning one value per input index.
//
// Smoothing factor is α = 2/(span+1) with the recursive definition
// ema[0] = price[0], ema[i] = α·price[i] + (1−α)·ema[i−1]. There is no
// separate SMA seeding or bias correction: the first price is the seed.
func EMASeries(prices []float64, span int) []float64 {
	if len(prices) == 0 || span <= 0 {
		return nil
	}
	alpha := 2.0 / float64(span+1)

	out := make([]float64, len(prices))
	out[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		out[i] = alpha*prices[i] + (1-alpha)*out[i-1]
	}
	return out
}

// RollingStd computes the trailing-window sample standard deviation
// (divisor = window−1) of vals at every index. Indices before the window
// has filled are NaN.
func RollingStd(vals []float64, window int) []float64 {
	out := make([]float64, len(vals))
	for i := range out {
		out[i] = math.NaN()
	}
	if window < 2 || len(vals) < window {
		return out
	}

	for i := window - 1; i < len(vals); i++ {
		win := vals[i-window+1 : i+1]

		mean := 0.0
		for _, v := range win {
			mean += v
		}
		mean /= float64(window)

		ss := 0.0
		for _, v := range win {
			d := v - mean
			ss += d * d
		}
		out[i] = math.Sqrt(ss / float64(window-1))
	}
	return out
}
