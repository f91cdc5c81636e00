// Package decode maps raw per-shot hardware measurements into
// computational-basis sample arrays.
package decode

import "math"

// Shot is one raw measurement outcome: per-site binary readouts taken before
// and after the pulse sequence, plus a success flag. Each shot is produced
// once by execution and consumed once by the decoder.
type Shot struct {
	Success bool    `msgpack:"success"`
	Pre     []uint8 `msgpack:"pre"`
	Post    []uint8 `msgpack:"post"`
}

// DecodeShot maps a shot to one sample per site, each in {0, 1, NaN}:
//
//	failed shot            -> NaN everywhere (undetermined)
//	pre 0                  -> NaN (no atom before the pulse)
//	pre 1, post 1          -> 0  (ground state retained)
//	pre 1, post 0          -> 1  (excited, or atom lost - indistinguishable)
//
// NaN is a missing observation, not a numeric zero; downstream statistics
// must skip it.
func DecodeShot(s Shot) []float64 {
	out := make([]float64, len(s.Post))
	for i := range out {
		switch {
		case !s.Success:
			out[i] = math.NaN()
		case s.Pre[i] == 0:
			out[i] = math.NaN()
		case s.Post[i] == 1:
			out[i] = 0
		default:
			out[i] = 1
		}
	}
	return out
}

// DecodeShots decodes a batch. Shots are independent; order is preserved.
func DecodeShots(shots []Shot) [][]float64 {
	out := make([][]float64, len(shots))
	for i, s := range shots {
		out[i] = DecodeShot(s)
	}
	return out
}
