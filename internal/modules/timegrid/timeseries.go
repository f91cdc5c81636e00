// Package timegrid provides the discrete time grid used by pulse programs and
// the time-series representation hardware set-points are expressed in.
package timegrid

// TimeSeries is an ordered list of (time, value) set-points. Times are in
// seconds and strictly increasing; there is exactly one value per time point.
type TimeSeries struct {
	Times  []float64 `json:"times" msgpack:"times"`
	Values []float64 `json:"values" msgpack:"values"`
}

// Put appends a set-point and returns the series for chaining.
func (ts *TimeSeries) Put(t, v float64) *TimeSeries {
	ts.Times = append(ts.Times, t)
	ts.Values = append(ts.Values, v)
	return ts
}

// Len returns the number of set-points.
func (ts TimeSeries) Len() int {
	return len(ts.Times)
}

// Duration returns the span between the first and last set-point in seconds,
// or 0 for an empty series.
func (ts TimeSeries) Duration() float64 {
	if len(ts.Times) == 0 {
		return 0
	}
	return ts.Times[len(ts.Times)-1] - ts.Times[0]
}
