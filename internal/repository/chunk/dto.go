package chunk

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/siamdocs/retrieval/internal/domain"
)

// Hash field names of a stored chunk record.
const (
	fieldDocumentID = "document_id"
	fieldChunkIndex = "chunk_index"
	fieldContent    = "__content"
	fieldVector     = "__vector"
)

// parseChunkFields converts a flat hash map into a domain Chunk. Content is
// mandatory; a missing or unparsable vector yields a chunk without an
// embedding, which the semantic scorer skips.
func parseChunkFields(ownerID string, m map[string]string) (domain.Chunk, error) {
	docID := m[fieldDocumentID]
	if docID == "" {
		return domain.Chunk{}, fmt.Errorf("missing %s", fieldDocumentID)
	}

	idx, err := strconv.Atoi(m[fieldChunkIndex])
	if err != nil {
		return domain.Chunk{}, fmt.Errorf("invalid %s %q: %w", fieldChunkIndex, m[fieldChunkIndex], err)
	}

	content := m[fieldContent]
	if content == "" {
		return domain.Chunk{}, fmt.Errorf("empty %s", fieldContent)
	}

	return domain.ReconstructChunk(docID, idx, content, bytesToVector(m[fieldVector]), ownerID), nil
}

// bytesToVector deserializes a binary string (4 bytes per float,
// little-endian) back to []float32. Returns nil on malformed input.
func bytesToVector(s string) []float32 {
	b := []byte(s)
	if len(b) == 0 || len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
