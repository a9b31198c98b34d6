package activity

import "time"

// PartitionEventInput describes the fields for partition lifecycle events.
type PartitionEventInput struct {
	StateID    string
	TraceID    string
	Entries    int
	GroupSizes []int
	Err        error
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildPartitionEvent constructs a normalized event for a flat-state
// partition run.
func BuildPartitionEvent(input PartitionEventInput) Event {
	return buildEvent("state.partitioned", input)
}

// BuildSplitEvent constructs a normalized event for a structured-node split.
func BuildSplitEvent(input PartitionEventInput) Event {
	return buildEvent("state.split", input)
}

func buildEvent(verb string, input PartitionEventInput) Event {
	event := Event{
		Verb:       verb,
		StateID:    input.StateID,
		TraceID:    input.TraceID,
		Entries:    input.Entries,
		Metadata:   cloneMap(input.Metadata),
		OccurredAt: input.OccurredAt,
	}
	if input.Err != nil {
		event.Outcome = "error"
		if event.Metadata == nil {
			event.Metadata = map[string]any{}
		}
		event.Metadata["error"] = input.Err.Error()
		return NormalizeEvent(event)
	}
	event.Outcome = "ok"
	if len(input.GroupSizes) > 0 {
		event.GroupSizes = append([]int{}, input.GroupSizes...)
	}
	return NormalizeEvent(event)
}
