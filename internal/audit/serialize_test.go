package audit

import (
	"encoding/json"
	"testing"
)

func TestSerialize(t *testing.T) {
	t.Run("struct_to_json", func(t *testing.T) {
		snapshot := Serialize(&widget{ID: "w-1", Name: "dice set"})

		var decoded map[string]any
		if err := json.Unmarshal([]byte(snapshot), &decoded); err != nil {
			t.Fatalf("expected valid JSON, got %q: %v", snapshot, err)
		}
		if decoded["id"] != "w-1" || decoded["name"] != "dice set" {
			t.Errorf("unexpected snapshot contents: %q", snapshot)
		}
	})

	t.Run("unmarshallable_degrades_to_text", func(t *testing.T) {
		snapshot := Serialize(map[string]any{"fn": func() {}})
		if snapshot == "" {
			t.Error("expected a best-effort textual snapshot, got empty string")
		}
	})
}

func TestEntityName(t *testing.T) {
	cases := []struct {
		name   string
		entity any
		want   string
	}{
		{"pointer", &widget{}, "widget"},
		{"value", widget{}, "widget"},
		{"double_pointer", func() any { w := &widget{}; return &w }(), "widget"},
		{"nil", nil, "Unknown"},
		{"anonymous", struct{ X int }{}, "Unknown"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EntityName(tc.entity); got != tc.want {
				t.Errorf("EntityName(%T) = %q, want %q", tc.entity, got, tc.want)
			}
		})
	}
}
