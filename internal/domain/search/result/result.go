package result

// Result is a single ranked search hit. It carries enough provenance
// (document id, chunk index, content) for downstream prompt assembly and
// citation.
type Result struct {
	documentID    string
	chunkIndex    int
	content       string
	finalScore    float64
	lexicalScore  float64
	semanticScore float64
}

// New creates a ranked result.
func New(
	documentID string, chunkIndex int, content string,
	finalScore, lexicalScore, semanticScore float64,
) Result {
	return Result{
		documentID:    documentID,
		chunkIndex:    chunkIndex,
		content:       content,
		finalScore:    finalScore,
		lexicalScore:  lexicalScore,
		semanticScore: semanticScore,
	}
}

// DocumentID returns the parent document identifier.
func (r *Result) DocumentID() string { return r.documentID }

// ChunkIndex returns the chunk position within its document.
func (r *Result) ChunkIndex() int { return r.chunkIndex }

// Content returns the chunk text.
func (r *Result) Content() string { return r.content }

// FinalScore returns the fused relevance score.
func (r *Result) FinalScore() float64 { return r.finalScore }

// LexicalScore returns the normalized lexical component.
func (r *Result) LexicalScore() float64 { return r.lexicalScore }

// SemanticScore returns the semantic component.
func (r *Result) SemanticScore() float64 { return r.semanticScore }
