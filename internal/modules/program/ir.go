package program

import (
	"encoding/json"
	"strconv"

	"github.com/atomlab/pulsebridge/internal/modules/timegrid"
)

// The task action submitted to the execution service is a JSON document in
// the AHS program schema. Numeric fields are rendered as decimal strings, as
// the schema requires, to avoid float round-tripping on the service side.

type irHeader struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type irTimeSeries struct {
	Times  []string `json:"times"`
	Values []string `json:"values"`
}

type irField struct {
	TimeSeries irTimeSeries `json:"time_series"`
	Pattern    any          `json:"pattern"`
}

type irHamiltonian struct {
	DrivingFields  []map[string]irField `json:"drivingFields"`
	ShiftingFields []map[string]irField `json:"shiftingFields"`
}

type irRegister struct {
	Sites   [][2]string `json:"sites"`
	Filling []int       `json:"filling"`
}

type irProgram struct {
	Header      irHeader      `json:"braketSchemaHeader"`
	Setup       map[string]irRegister `json:"setup"`
	Hamiltonian irHamiltonian `json:"hamiltonian"`
}

// EncodeIR renders the program as an AHS program-schema JSON document.
func EncodeIR(p Program) ([]byte, error) {
	sites := make([][2]string, len(p.Register))
	filling := make([]int, len(p.Register))
	for i, c := range p.Register {
		sites[i] = [2]string{dec(c[0]), dec(c[1])}
		filling[i] = 1
	}

	drive := map[string]irField{
		"amplitude": {TimeSeries: irSeries(p.Driving.Amplitude), Pattern: "uniform"},
		"phase":     {TimeSeries: irSeries(p.Driving.Phase), Pattern: "uniform"},
		"detuning":  {TimeSeries: irSeries(p.Driving.Detuning), Pattern: "uniform"},
	}

	ir := irProgram{
		Header: irHeader{Name: "braket.ir.ahs.program", Version: "1"},
		Setup: map[string]irRegister{
			"ahs_register": {Sites: sites, Filling: filling},
		},
		Hamiltonian: irHamiltonian{
			DrivingFields:  []map[string]irField{drive},
			ShiftingFields: []map[string]irField{},
		},
	}

	if p.Shifting != nil {
		pat := make([]string, len(p.Shifting.Magnitude.Pattern))
		for i, f := range p.Shifting.Magnitude.Pattern {
			pat[i] = dec(f)
		}
		ir.Hamiltonian.ShiftingFields = append(ir.Hamiltonian.ShiftingFields, map[string]irField{
			"magnitude": {TimeSeries: irSeries(p.Shifting.Magnitude.Series), Pattern: pat},
		})
	}

	return json.Marshal(ir)
}

func irSeries(ts timegrid.TimeSeries) irTimeSeries {
	out := irTimeSeries{
		Times:  make([]string, ts.Len()),
		Values: make([]string, ts.Len()),
	}
	for i := range ts.Times {
		out.Times[i] = dec(ts.Times[i])
		out.Values[i] = dec(ts.Values[i])
	}
	return out
}

func dec(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
