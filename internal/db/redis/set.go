package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/siamdocs/retrieval/internal/db"
)

// SMembers returns all members of a set. A missing key yields an empty slice.
func (s *Store) SMembers(ctx context.Context, key string) ([]string, error) {
	cmd := s.b().Smembers().Key(key).Build()
	members, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpSMembers, Err: err}
	}
	return members, nil
}

// SMembersMulti fetches members of multiple sets in a single DoMulti
// round-trip. The result slice is positionally aligned with keys.
func (s *Store) SMembersMulti(ctx context.Context, keys []string) ([][]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	cmds := make([]rueidis.Completed, len(keys))
	for i, key := range keys {
		cmds[i] = s.b().Smembers().Key(key).Build()
	}

	results := s.client.DoMulti(ctx, cmds...)
	out := make([][]string, len(keys))
	for i, res := range results {
		members, err := res.AsStrSlice()
		if err != nil {
			return nil, &db.Error{Op: db.OpSMembers, Err: fmt.Errorf("key %s: %w", keys[i], err)}
		}
		out[i] = members
	}
	return out, nil
}
