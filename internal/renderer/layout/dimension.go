package layout

// maxSize stands in for "no upper bound".
const maxSize = 1_000_000

// Dimension is a size preference along one axis.
type Dimension struct {
	Min       int
	Max       int
	Preferred int
}

// Exact returns a dimension that accepts only n.
func Exact(n int) Dimension {
	return Dimension{Min: n, Max: n, Preferred: n}
}

// Flexible returns an unbounded dimension with the given minimum and
// preferred size.
func Flexible(lo, preferred int) Dimension {
	return Dimension{Min: lo, Max: maxSize, Preferred: preferred}.normalize()
}

// Zero is the dimension of a hidden container.
var Zero = Exact(0)

func (d Dimension) normalize() Dimension {
	d.Min = max(d.Min, 0)
	d.Max = max(d.Max, d.Min)
	d.Preferred = min(max(d.Preferred, d.Min), d.Max)
	return d
}

// sumDimensions adds up the dimensions of stacked children.
func sumDimensions(ds []Dimension) Dimension {
	var sum Dimension
	for _, d := range ds {
		sum.Min += d.Min
		sum.Max += d.Max
		sum.Preferred += d.Preferred
	}
	sum.Max = min(sum.Max, maxSize)
	return sum.normalize()
}

// maxDimensions combines the dimensions of side-by-side children: the
// result fits the largest of them.
func maxDimensions(ds []Dimension) Dimension {
	if len(ds) == 0 {
		return Zero
	}
	var out Dimension
	for _, d := range ds {
		out.Min = max(out.Min, d.Min)
		out.Max = max(out.Max, d.Max)
		out.Preferred = max(out.Preferred, d.Preferred)
	}
	return out.normalize()
}

// divide splits total among ds. Every child gets its minimum, then the
// children take turns growing one unit at a time, first up to their
// preferred size, then up to their maximum. It returns nil when the
// minimums do not fit.
func divide(ds []Dimension, total int) []int {
	sum := sumDimensions(ds)
	if sum.Min > total {
		return nil
	}
	sizes := make([]int, len(ds))
	used := 0
	for i, d := range ds {
		sizes[i] = d.Min
		used += d.Min
	}
	grow := func(stop int, limit func(Dimension) int) {
		for used < stop {
			grew := false
			for i, d := range ds {
				if used >= stop {
					break
				}
				if sizes[i] < limit(d) {
					sizes[i]++
					used++
					grew = true
				}
			}
			if !grew {
				return
			}
		}
	}
	grow(min(total, sum.Preferred), func(d Dimension) int { return d.Preferred })
	grow(min(total, sum.Max), func(d Dimension) int { return d.Max })
	return sizes
}
