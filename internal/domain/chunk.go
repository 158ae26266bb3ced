package domain

// Chunk is the atomic retrieval unit: a bounded span of a source document's
// text plus its embedding. Chunks are created by ingestion (out of scope) and
// are read-only here.
type Chunk struct {
	documentID string
	chunkIndex int
	content    string
	embedding  []float32
	ownerID    string
}

// ReconstructChunk rebuilds a chunk from stored fields without validation.
func ReconstructChunk(
	documentID string, chunkIndex int, content string,
	embedding []float32, ownerID string,
) Chunk {
	return Chunk{
		documentID: documentID,
		chunkIndex: chunkIndex,
		content:    content,
		embedding:  embedding,
		ownerID:    ownerID,
	}
}

// DocumentID returns the parent document identifier.
func (c *Chunk) DocumentID() string { return c.documentID }

// ChunkIndex returns the chunk position within its document.
func (c *Chunk) ChunkIndex() int { return c.chunkIndex }

// Content returns the chunk text.
func (c *Chunk) Content() string { return c.content }

// Embedding returns the chunk embedding vector.
func (c *Chunk) Embedding() []float32 { return c.embedding }

// OwnerID returns the owning tenant identifier.
func (c *Chunk) OwnerID() string { return c.ownerID }

// Key returns the chunk's unique identity within an owner's corpus.
func (c *Chunk) Key() ChunkKey {
	return ChunkKey{DocumentID: c.documentID, ChunkIndex: c.chunkIndex}
}

// ChunkKey identifies a chunk by document and position. chunkIndex is unique
// within a document, so the pair is unique within an owner's corpus.
type ChunkKey struct {
	DocumentID string
	ChunkIndex int
}

// Less orders keys by (DocumentID, ChunkIndex) for deterministic tie-breaks.
func (k ChunkKey) Less(other ChunkKey) bool {
	if k.DocumentID != other.DocumentID {
		return k.DocumentID < other.DocumentID
	}
	return k.ChunkIndex < other.ChunkIndex
}
