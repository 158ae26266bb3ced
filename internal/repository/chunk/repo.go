// Package chunk adapts the shared KV/hash store into the chunk store the
// retrieval core consumes. Chunks are written by ingestion (a separate
// system); this adapter is strictly read-only.
//
// Key schema:
//
//	siamdocs:owner:{ownerID}:chunks        SET of chunk hash keys (whole corpus)
//	siamdocs:doc:{ownerID}:{docID}:chunks  SET of chunk hash keys (one document)
//	siamdocs:chunk:{ownerID}:{docID}:{idx} HASH holding one chunk record
package chunk

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/siamdocs/retrieval/internal/domain"
	"github.com/siamdocs/retrieval/internal/domain/search/scope"
)

// store is the consumer interface for chunk reads (ISP).
type store interface {
	SMembers(ctx context.Context, key string) ([]string, error)
	SMembersMulti(ctx context.Context, keys []string) ([][]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
}

// Repo implements usecase/search.ChunkStore.
type Repo struct {
	store  store
	logger *zap.Logger
}

// New creates a chunk repository.
func New(s store, logger *zap.Logger) *Repo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repo{store: s, logger: logger}
}

// ListChunks bulk-reads every chunk in scope: the owner's whole corpus, or
// only the allow-listed documents when the scope is document-scoped. One
// round-trip resolves the keys, a second fetches the records. Malformed
// records are skipped with a warning rather than failing the query.
func (r *Repo) ListChunks(ctx context.Context, sc scope.Scope) ([]domain.Chunk, error) {
	keys, err := r.chunkKeys(ctx, sc)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	// Deterministic fetch order so identical queries see identical
	// candidate ordering.
	sort.Strings(keys)

	records, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch chunks: %w", domain.ErrChunkStoreError, err)
	}

	chunks := make([]domain.Chunk, 0, len(records))
	for i, fields := range records {
		c, err := parseChunkFields(sc.OwnerID(), fields)
		if err != nil {
			r.logger.Warn("skipping malformed chunk record",
				zap.String("key", keys[i]), zap.Error(err))
			continue
		}
		chunks = append(chunks, c)
	}
	return chunks, nil
}

func (r *Repo) chunkKeys(ctx context.Context, sc scope.Scope) ([]string, error) {
	if !sc.IsDocumentScoped() {
		keys, err := r.store.SMembers(ctx, ownerSetKey(sc.OwnerID()))
		if err != nil {
			return nil, fmt.Errorf("%w: list owner chunks: %w", domain.ErrChunkStoreError, err)
		}
		return keys, nil
	}

	setKeys := make([]string, len(sc.DocumentIDs()))
	for i, docID := range sc.DocumentIDs() {
		setKeys[i] = docSetKey(sc.OwnerID(), docID)
	}
	memberLists, err := r.store.SMembersMulti(ctx, setKeys)
	if err != nil {
		return nil, fmt.Errorf("%w: list document chunks: %w", domain.ErrChunkStoreError, err)
	}

	var keys []string
	for _, members := range memberLists {
		keys = append(keys, members...)
	}
	return keys, nil
}

func ownerSetKey(ownerID string) string {
	return domain.KeyPrefix + "owner:" + ownerID + ":chunks"
}

func docSetKey(ownerID, docID string) string {
	return domain.KeyPrefix + "doc:" + ownerID + ":" + docID + ":chunks"
}
