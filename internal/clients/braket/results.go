package braket

import (
	"encoding/json"
	"fmt"

	"github.com/atomlab/pulsebridge/internal/modules/decode"
)

// shotStatusSuccess is the per-shot status the AHS result schema uses for a
// usable measurement.
const shotStatusSuccess = "Success"

type resultDocument struct {
	Measurements []measurement `json:"measurements"`
}

type measurement struct {
	ShotMetadata shotMetadata `json:"shotMetadata"`
	ShotResult   shotResult   `json:"shotResult"`
}

type shotMetadata struct {
	ShotStatus string `json:"shotStatus"`
}

type shotResult struct {
	PreSequence  []uint8 `json:"preSequence"`
	PostSequence []uint8 `json:"postSequence"`
}

// ParseResults converts an AHS task result document into raw shots.
func ParseResults(data []byte) ([]decode.Shot, error) {
	var doc resultDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse task results: %w", err)
	}

	shots := make([]decode.Shot, len(doc.Measurements))
	for i, m := range doc.Measurements {
		shots[i] = decode.Shot{
			Success: m.ShotMetadata.ShotStatus == shotStatusSuccess,
			Pre:     m.ShotResult.PreSequence,
			Post:    m.ShotResult.PostSequence,
		}
	}
	return shots, nil
}
