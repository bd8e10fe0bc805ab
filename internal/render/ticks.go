package render

import (
	"math"
	"strconv"
)

// niceTicks returns evenly spaced round values inside [lo, hi].
func niceTicks(lo, hi float64, maxTicks int) []float64 {
	if hi <= lo || maxTicks < 2 {
		return nil
	}

	span := niceNum(hi-lo, false)
	step := niceNum(span/float64(maxTicks-1), true)
	first := math.Ceil(lo/step) * step

	var ticks []float64
	for i := 0; ; i++ {
		v := first + float64(i)*step
		if v > hi+step*1e-9 {
			break
		}
		v = math.Round(v/step) * step
		if v == 0 {
			v = 0 // no "-0"
		}
		ticks = append(ticks, v)
	}
	return ticks
}

// niceNum rounds x to 1, 2, 5 or 10 times a power of ten.
func niceNum(x float64, round bool) float64 {
	exp := math.Floor(math.Log10(x))
	frac := x / math.Pow(10, exp)

	var nice float64
	switch {
	case round && frac < 1.5:
		nice = 1
	case round && frac < 3:
		nice = 2
	case round && frac < 7:
		nice = 5
	case round:
		nice = 10
	case frac <= 1:
		nice = 1
	case frac <= 2:
		nice = 2
	case frac <= 5:
		nice = 5
	default:
		nice = 10
	}
	return nice * math.Pow(10, exp)
}

// tickDecimals is the number of decimals needed to print multiples of step.
func tickDecimals(step float64) int {
	d := int(-math.Floor(math.Log10(step)))
	if d < 0 {
		return 0
	}
	return d
}

func formatTick(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// formatValue prints v with at most three decimals and no trailing zeros.
func formatValue(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
