package scope

import (
	"fmt"

	"github.com/siamdocs/retrieval/internal/domain"
)

// Scope restricts a search to one owner's corpus, optionally narrowed to an
// explicit document allow-list. Built per call; never persisted.
type Scope struct {
	ownerID   string
	documents []string
}

// New validates a search scope. An empty allow-list means the whole corpus.
func New(ownerID string, documentIDs []string) (Scope, error) {
	if ownerID == "" {
		return Scope{}, fmt.Errorf("%w: owner id is required", domain.ErrInvalidScope)
	}
	for i, id := range documentIDs {
		if id == "" {
			return Scope{}, fmt.Errorf("%w: empty document id at position %d", domain.ErrInvalidScope, i)
		}
	}
	return Scope{ownerID: ownerID, documents: documentIDs}, nil
}

// OwnerID returns the owning tenant identifier.
func (s *Scope) OwnerID() string { return s.ownerID }

// DocumentIDs returns the allow-list (nil = all documents).
func (s *Scope) DocumentIDs() []string { return s.documents }

// IsDocumentScoped reports whether the scope carries a document allow-list.
func (s *Scope) IsDocumentScoped() bool { return len(s.documents) > 0 }

// Allows reports whether a document passes the allow-list.
func (s *Scope) Allows(documentID string) bool {
	if len(s.documents) == 0 {
		return true
	}
	for _, id := range s.documents {
		if id == documentID {
			return true
		}
	}
	return false
}
