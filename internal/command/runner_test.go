package command

import "testing"

func TestDecodeJSONWithMarkers(t *testing.T) {
	output := []byte("warning: something\n# JSON-begin\n{\"COMMENT_EN\": \"ok\"}\n# JSON-end\ntrailer")
	var decoded map[string]string
	if err := DecodeJSON(output, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["COMMENT_EN"] != "ok" {
		t.Fatalf("unexpected payload: %v", decoded)
	}
}

func TestDecodeJSONWithoutMarkers(t *testing.T) {
	var decoded map[string]int
	if err := DecodeJSON([]byte(`{"count": 3}`), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["count"] != 3 {
		t.Fatalf("unexpected payload: %v", decoded)
	}
}

func TestDecodeJSONEmptyOutput(t *testing.T) {
	var decoded map[string]any
	if err := DecodeJSON([]byte("# JSON-begin\n# JSON-end"), &decoded); err != nil {
		t.Fatalf("empty payload must decode to nothing: %v", err)
	}
	if decoded != nil {
		t.Fatalf("expected nil map, got %v", decoded)
	}
}

func TestDecodeJSONGarbage(t *testing.T) {
	var decoded map[string]any
	if err := DecodeJSON([]byte("# JSON-begin\nnot json\n# JSON-end"), &decoded); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}
