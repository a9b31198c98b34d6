package filters

import "testing"

func TestTraceJSONRoundTrip(t *testing.T) {
	trace := Trace{
		ID:     "trace-1",
		Groups: 2,
		Assignments: []Assignment{
			{Path: "a", Group: 0, Filter: `"frozen"`},
			{Path: "b", Group: 1},
		},
	}

	payload, err := trace.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	decoded, err := TraceFromJSON(payload)
	if err != nil {
		t.Fatalf("TraceFromJSON: %v", err)
	}

	if decoded.ID != trace.ID || decoded.Groups != trace.Groups {
		t.Fatalf("header mismatch: %+v", decoded)
	}
	if len(decoded.Assignments) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(decoded.Assignments))
	}
	if decoded.Assignments[0] != trace.Assignments[0] {
		t.Fatalf("assignment mismatch: %+v", decoded.Assignments[0])
	}
}

func TestTraceFromJSONRejectsGarbage(t *testing.T) {
	if _, err := TraceFromJSON([]byte(`{"id":`)); err == nil {
		t.Fatalf("expected decode error")
	}
}
