package decode

import "math"

// ExpvalZ returns the expectation value of Pauli-Z on one site across shots,
// treating NaN samples as missing observations: they are excluded from the
// average rather than counted as zeros. Returns NaN when no shot determined
// the site.
func ExpvalZ(samples [][]float64, site int) float64 {
	sum, n := 0.0, 0
	for _, shot := range samples {
		s := shot[site]
		if math.IsNaN(s) {
			continue
		}
		// sample 0 is the ground state (z = +1), sample 1 the excited state.
		sum += 1 - 2*s
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// CountsZ tallies determined outcomes per site: counts[site][0] ground,
// counts[site][1] excited. Undetermined samples are dropped.
func CountsZ(samples [][]float64, sites int) [][2]int {
	counts := make([][2]int, sites)
	for _, shot := range samples {
		for i := 0; i < sites && i < len(shot); i++ {
			if math.IsNaN(shot[i]) {
				continue
			}
			counts[i][int(shot[i])]++
		}
	}
	return counts
}
