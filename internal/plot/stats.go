package plot

import (
	"math"
)

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// stddev is the sample standard deviation
func stddev(vs []float64) float64 {
	if len(vs) < 2 {
		return 0
	}
	m := mean(vs)
	// scale by the largest deviation so squares cannot overflow
	var scale float64
	for _, v := range vs {
		scale = math.Max(scale, math.Abs(v-m))
	}
	if scale == 0 {
		return 0
	}
	var ss float64
	for _, v := range vs {
		d := (v - m) / scale
		ss += d * d
	}
	return scale * math.Sqrt(ss/float64(len(vs)-1))
}

// bin is one histogram bar
type bin struct {
	lo, hi  float64
	count   int
	density float64
}

// sturges returns the Sturges bin count for n samples
func sturges(n int) int {
	if n < 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

// histogram splits vs into equal-width bins whose densities integrate to
// one. unit rescales the width used for density, so temporal data (in
// nanoseconds) reports density per day instead of per nanosecond.
func histogram(vs []float64, unit float64) []bin {
	if len(vs) == 0 {
		return nil
	}
	lo, hi := bounds(vs)
	k := sturges(len(vs))
	width := (hi - lo) / float64(k)
	if width <= 0 {
		k = 1
		width = unit
		lo -= unit / 2
		hi = lo + unit
	}

	bins := make([]bin, k)
	for i := range bins {
		bins[i].lo = lo + float64(i)*width
		bins[i].hi = lo + float64(i+1)*width
	}
	bins[k-1].hi = hi
	for _, v := range vs {
		i := int((v - lo) / width)
		if i >= k {
			i = k - 1
		}
		if i < 0 {
			i = 0
		}
		bins[i].count++
	}
	n := float64(len(vs))
	for i := range bins {
		bins[i].density = float64(bins[i].count) / (n * width / unit)
	}
	return bins
}

// kde evaluates a Gaussian kernel density estimate of vs at points spread
// evenly over [lo, hi], using Scott's bandwidth. It returns nil when the
// samples have no spread.
func kde(vs []float64, lo, hi float64, points int, unit float64) (xs, ys []float64) {
	n := float64(len(vs))
	sd := stddev(vs)
	if sd == 0 || !(hi > lo) || points < 2 {
		return nil, nil
	}
	h := sd * math.Pow(n, -0.2)
	norm := unit / (n * h * math.Sqrt(2*math.Pi))

	xs = make([]float64, points)
	ys = make([]float64, points)
	step := (hi - lo) / float64(points-1)
	for i := range xs {
		x := lo + float64(i)*step
		var sum float64
		for _, v := range vs {
			z := (x - v) / h
			sum += math.Exp(-0.5 * z * z)
		}
		xs[i] = x
		ys[i] = sum * norm
	}
	return xs, ys
}
