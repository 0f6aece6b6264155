package blueprint

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuiltinsValidate(t *testing.T) {
	for _, b := range Builtins() {
		if err := b.Validate(); err != nil {
			t.Fatalf("builtin %s: %v", b.ID, err)
		}
		if !b.Builtin {
			t.Fatalf("builtin %s not marked", b.ID)
		}
	}
}

func TestValidateRejectsUnknownType(t *testing.T) {
	b := Blueprint{ID: "x", Fields: []Field{{Name: "amount", Type: "decimal"}}}
	err := b.Validate()
	if err == nil || !strings.Contains(err.Error(), `"amount"`) {
		t.Fatalf("expected error naming the field, got %v", err)
	}
}

func TestValidateRejectsDuplicatesAndEmpty(t *testing.T) {
	if err := (Blueprint{ID: "x"}).Validate(); err == nil {
		t.Fatalf("no fields must fail")
	}
	dup := Blueprint{ID: "x", Fields: []Field{
		{Name: "a", Type: TypeString},
		{Name: "a", Type: TypeNumber},
	}}
	if err := dup.Validate(); err == nil {
		t.Fatalf("duplicate field must fail")
	}
	items := Blueprint{ID: "x", Fields: []Field{{Name: "a", Type: TypeString, Items: TypeNumber}}}
	if err := items.Validate(); err == nil {
		t.Fatalf("items on non-array must fail")
	}
}

func TestSchemaJSONShape(t *testing.T) {
	b := Blueprint{
		ID:          "receipt",
		Description: "A shop receipt.",
		Fields: []Field{
			{Name: "merchant", Type: TypeString, Required: true},
			{Name: "total", Type: TypeNumber, Required: true},
			{Name: "items", Type: TypeArray},
		},
	}
	out, err := b.SchemaJSON()
	if err != nil {
		t.Fatalf("schema json: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("schema is not valid JSON: %v\n%s", err, out)
	}
	if got["type"] != "object" {
		t.Fatalf("type: %v", got["type"])
	}
	props, ok := got["properties"].(map[string]any)
	if !ok || len(props) != 3 {
		t.Fatalf("properties: %v", got["properties"])
	}
	items, ok := props["items"].(map[string]any)
	if !ok || items["type"] != "array" {
		t.Fatalf("array field: %v", props["items"])
	}
	req, ok := got["required"].([]any)
	if !ok || len(req) != 2 {
		t.Fatalf("required: %v", got["required"])
	}
}

func TestRegistryLoadDirShadowsBuiltins(t *testing.T) {
	d := t.TempDir()
	custom := `id: invoice
description: Custom invoice override.
fields:
  - name: po_number
    type: string
    required: true
`
	if err := os.WriteFile(filepath.Join(d, "invoice.yaml"), []byte(custom), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	r := NewRegistry()
	if err := r.LoadDir(d); err != nil {
		t.Fatalf("load dir: %v", err)
	}
	b, ok := r.Get("invoice")
	if !ok || b.Builtin || len(b.Fields) != 1 {
		t.Fatalf("shadowing failed: %+v", b)
	}
}

func TestRegistryLoadDirRejectsBadType(t *testing.T) {
	d := t.TempDir()
	bad := "id: broken\nfields:\n  - name: when\n    type: datetime\n"
	if err := os.WriteFile(filepath.Join(d, "broken.yml"), []byte(bad), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	r := NewRegistry()
	err := r.LoadDir(d)
	if err == nil || !strings.Contains(err.Error(), `"when"`) {
		t.Fatalf("expected error naming the field, got %v", err)
	}
}

func TestRegistryMissingDirIsFine(t *testing.T) {
	r := NewRegistry()
	if err := r.LoadDir("/no/such/blueprint-dir-555"); err != nil {
		t.Fatalf("missing dir: %v", err)
	}
	if len(r.List()) != len(Builtins()) {
		t.Fatalf("list: %d", len(r.List()))
	}
}

func TestRegistryFileNameFallbackID(t *testing.T) {
	d := t.TempDir()
	noID := "description: nameless\nfields:\n  - name: f\n    type: string\n"
	if err := os.WriteFile(filepath.Join(d, "shipping-label.yaml"), []byte(noID), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	r := NewRegistry()
	if err := r.LoadDir(d); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := r.Get("shipping-label"); !ok {
		t.Fatalf("file name fallback id missing")
	}
}
