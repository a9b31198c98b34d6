package filters

import (
	"encoding/json"
)

// Trace captures provenance for one partition run: which group, and
// therefore which filter literal, claimed each entry path.
type Trace struct {
	ID          string       `json:"id"`
	Groups      int          `json:"groups"`
	Assignments []Assignment `json:"assignments,omitempty"`
}

// Assignment details how a single entry was classified.
type Assignment struct {
	Path   string `json:"path"`
	Group  int    `json:"group"`
	Filter string `json:"filter,omitempty"`
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload that was previously generated
// via ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
