package hydrate

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

type profile struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestDecodeBasic(t *testing.T) {
	decoder := NewDecoder[profile]()
	got, err := decoder.Decode(Context{Domain: "model", Group: 0}, map[string]any{
		"name":  "encoder",
		"count": 3,
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Name != "encoder" || got.Count != 3 {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestDecodeNilPayload(t *testing.T) {
	decoder := NewDecoder[profile]()
	if _, err := decoder.Decode(Context{Domain: "model", Group: 2}, nil); err == nil {
		t.Fatalf("expected error for nil payload")
	}
}

func TestDecodePreHookMutatesCopy(t *testing.T) {
	payload := map[string]any{"name": "raw"}
	decoder := NewDecoder[profile](
		WithPreHook[profile](func(_ Context, current map[string]any) (map[string]any, error) {
			current["name"] = strings.ToUpper(current["name"].(string))
			return current, nil
		}),
	)

	got, err := decoder.Decode(Context{}, payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Name != "RAW" {
		t.Fatalf("expected pre-hook to apply, got %+v", got)
	}
	if payload["name"] != "raw" {
		t.Fatalf("pre-hook mutated the caller's payload")
	}
}

func TestDecodePostHookValidates(t *testing.T) {
	decoder := NewDecoder[profile](
		WithPostHook[profile](func(_ Context, result *profile) error {
			if result.Count < 0 {
				return errors.New("count must be non-negative")
			}
			return nil
		}),
	)

	if _, err := decoder.Decode(Context{}, map[string]any{"count": -1}); err == nil {
		t.Fatalf("expected post-hook rejection")
	}
	if _, err := decoder.Decode(Context{}, map[string]any{"count": 1}); err != nil {
		t.Fatalf("Decode: %v", err)
	}
}

func TestDecodeDisallowUnknownFields(t *testing.T) {
	decoder := NewDecoder[profile](WithDisallowUnknownFields[profile]())
	if _, err := decoder.Decode(Context{}, map[string]any{"name": "x", "extra": 1}); err == nil {
		t.Fatalf("expected unknown field rejection")
	}
}

func TestDecodeUseNumber(t *testing.T) {
	type numbers struct {
		Value any `json:"value"`
	}
	decoder := NewDecoder[numbers](WithUseNumber[numbers]())
	got, err := decoder.Decode(Context{}, map[string]any{"value": 42})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if _, ok := got.Value.(json.Number); !ok {
		t.Fatalf("expected json.Number, got %T", got.Value)
	}
}

func TestDecodeCustomDecoder(t *testing.T) {
	decoder := NewDecoder[profile](
		WithCustomDecoder[profile](func(ctx Context, payload map[string]any) (profile, error) {
			return profile{Name: fmt.Sprintf("%s#%d", ctx.Domain, ctx.Group)}, nil
		}),
	)

	got, err := decoder.Decode(Context{Domain: "model", Group: 3}, map[string]any{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Name != "model#3" {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestDecodeErrorsNameDomainAndGroup(t *testing.T) {
	decoder := NewDecoder[profile](
		WithPreHook[profile](func(Context, map[string]any) (map[string]any, error) {
			return nil, errors.New("boom")
		}),
	)

	_, err := decoder.Decode(Context{Domain: "model", Group: 7}, map[string]any{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), `"model"`) || !strings.Contains(err.Error(), "7") {
		t.Fatalf("expected domain and group in error, got %v", err)
	}
}
