package chunk

import (
	"reflect"
	"testing"
)

func TestParseChunkFields(t *testing.T) {
	c, err := parseChunkFields("owner-1", chunkRecord("doc-a", 7, "some text", vectorField(1.5, -2.25)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.DocumentID() != "doc-a" || c.ChunkIndex() != 7 {
		t.Errorf("unexpected identity: %s/%d", c.DocumentID(), c.ChunkIndex())
	}
	if c.Content() != "some text" {
		t.Errorf("unexpected content: %q", c.Content())
	}
	if !reflect.DeepEqual(c.Embedding(), []float32{1.5, -2.25}) {
		t.Errorf("unexpected embedding: %v", c.Embedding())
	}
}

func TestParseChunkFields_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
	}{
		{"missing document id", map[string]string{fieldChunkIndex: "0", fieldContent: "x"}},
		{"missing chunk index", map[string]string{fieldDocumentID: "doc-a", fieldContent: "x"}},
		{"non-numeric index", map[string]string{fieldDocumentID: "doc-a", fieldChunkIndex: "seven", fieldContent: "x"}},
		{"empty content", map[string]string{fieldDocumentID: "doc-a", fieldChunkIndex: "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseChunkFields("owner-1", tt.fields); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParseChunkFields_MalformedVectorTolerated(t *testing.T) {
	fields := chunkRecord("doc-a", 0, "text", "odd")
	c, err := parseChunkFields("owner-1", fields)
	if err != nil {
		t.Fatalf("malformed vector must not fail the record: %v", err)
	}
	if c.Embedding() != nil {
		t.Errorf("expected nil embedding, got %v", c.Embedding())
	}
}

func TestBytesToVector(t *testing.T) {
	if got := bytesToVector(""); got != nil {
		t.Errorf("empty input: expected nil, got %v", got)
	}
	if got := bytesToVector("abc"); got != nil {
		t.Errorf("non-multiple-of-4 input: expected nil, got %v", got)
	}

	got := bytesToVector(vectorField(0.5, 100.0, -1.0))
	want := []float32{0.5, 100.0, -1.0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round-trip mismatch: got %v, want %v", got, want)
	}
}
