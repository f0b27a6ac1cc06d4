package normalize

import "testing"

func TestRepairDirectObject(t *testing.T) {
	v, ok := Repair(`{"a": 1}`)
	if !ok {
		t.Fatalf("expected parse success")
	}
	m, _ := v.(map[string]any)
	if m["a"] != float64(1) {
		t.Fatalf("unexpected value: %+v", v)
	}
}

func TestRepairStripsCodeFences(t *testing.T) {
	v, ok := Repair("```json\n{\"scores\": {\"visibility\": 80}}\n```")
	if !ok {
		t.Fatalf("expected fenced payload to parse")
	}
	if asMap(asMap(v)["scores"]) == nil {
		t.Fatalf("nested object lost: %+v", v)
	}
}

func TestRepairCurlyQuotes(t *testing.T) {
	v, ok := Repair("{“label”: “Positive”}")
	if !ok {
		t.Fatalf("expected curly-quoted payload to parse")
	}
	if asMap(v)["label"] != "Positive" {
		t.Fatalf("unexpected value: %+v", v)
	}
}

func TestRepairTrailingComma(t *testing.T) {
	v, ok := Repair(`{"items": [1, 2, 3,], "done": true,}`)
	if !ok {
		t.Fatalf("expected trailing-comma payload to parse")
	}
	if len(asList(asMap(v)["items"])) != 3 {
		t.Fatalf("unexpected items: %+v", v)
	}
}

func TestRepairExtractsEmbeddedObject(t *testing.T) {
	v, ok := Repair(`Here is my analysis: {"visibility": 70, "note": "brace } inside string"} hope that helps`)
	if !ok {
		t.Fatalf("expected embedded object to parse")
	}
	m := asMap(v)
	if m["visibility"] != float64(70) {
		t.Fatalf("unexpected visibility: %+v", m)
	}
	if m["note"] != "brace } inside string" {
		t.Fatalf("quoted brace mishandled: %+v", m)
	}
}

func TestRepairGarbage(t *testing.T) {
	for _, payload := range []string{"", "   ", "not json at all", "{unclosed", "{{{"} {
		if _, ok := Repair(payload); ok {
			t.Fatalf("Repair(%q) should fail", payload)
		}
	}
}

func TestRepairNonObjectValues(t *testing.T) {
	// Lists and scalars parse successfully; rejecting them is the
	// normalizer's job, not the repairer's.
	if v, ok := Repair(`[1, 2]`); !ok || len(asList(v)) != 2 {
		t.Fatalf("list payload should parse, got %v %v", v, ok)
	}
	if v, ok := Repair(`"just a string"`); !ok || v != "just a string" {
		t.Fatalf("string payload should parse, got %v %v", v, ok)
	}
	if v, ok := Repair(`null`); !ok || v != nil {
		t.Fatalf("null payload should parse, got %v %v", v, ok)
	}
}
