package types

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestExtractResultAttributesInlineJSON(t *testing.T) {
	res := ExtractResult{
		Key:        "a.pdf",
		Blueprint:  "invoice",
		Model:      "m",
		Attributes: json.RawMessage(`{"total":42}`),
	}
	b, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// Attributes must appear as a JSON object, not a base64 string.
	if !strings.Contains(string(b), `"attributes":{"total":42}`) {
		t.Fatalf("attributes not inline JSON: %s", string(b))
	}

	var back ExtractResult
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(back.Attributes) != `{"total":42}` {
		t.Fatalf("round trip: %s", string(back.Attributes))
	}
}
