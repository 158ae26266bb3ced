package chunk

import (
	"context"
	"encoding/binary"
	"math"
	"strconv"

	"github.com/siamdocs/retrieval/internal/domain/search/scope"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	smembersFn      func(ctx context.Context, key string) ([]string, error)
	smembersMultiFn func(ctx context.Context, keys []string) ([][]string, error)
	hgetallMultiFn  func(ctx context.Context, keys []string) ([]map[string]string, error)

	smembersKeys      []string
	smembersMultiKeys [][]string
	hgetallMultiKeys  [][]string
}

func (m *mockStore) SMembers(ctx context.Context, key string) ([]string, error) {
	m.smembersKeys = append(m.smembersKeys, key)
	if m.smembersFn != nil {
		return m.smembersFn(ctx, key)
	}
	return nil, nil
}

func (m *mockStore) SMembersMulti(ctx context.Context, keys []string) ([][]string, error) {
	m.smembersMultiKeys = append(m.smembersMultiKeys, keys)
	if m.smembersMultiFn != nil {
		return m.smembersMultiFn(ctx, keys)
	}
	return make([][]string, len(keys)), nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	m.hgetallMultiKeys = append(m.hgetallMultiKeys, keys)
	if m.hgetallMultiFn != nil {
		return m.hgetallMultiFn(ctx, keys)
	}
	return make([]map[string]string, len(keys)), nil
}

func mustScope(ownerID string, docIDs []string) scope.Scope {
	sc, err := scope.New(ownerID, docIDs)
	if err != nil {
		panic(err)
	}
	return sc
}

func vectorField(vals ...float32) string {
	buf := make([]byte, len(vals)*4)
	for i, f := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

func chunkRecord(docID string, idx int, content string, vec string) map[string]string {
	m := map[string]string{
		fieldDocumentID: docID,
		fieldChunkIndex: strconv.Itoa(idx),
		fieldContent:    content,
	}
	if vec != "" {
		m[fieldVector] = vec
	}
	return m
}
