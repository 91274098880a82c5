package guest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/classpulse/classpulse/internal/client/repositories/metadata"
)

// KVStore implements Store over a metadata repository, JSON-encoding one
// identity per token slot. Intended for the ephemeral session database.
type KVStore struct {
	repo metadata.Repository
}

func NewKVStore(repo metadata.Repository) *KVStore {
	return &KVStore{repo: repo}
}

func (s *KVStore) Load(ctx context.Context, joinToken string) (*Identity, error) {
	raw, err := s.repo.Get(ctx, StorageKey(joinToken))
	if err != nil {
		return nil, fmt.Errorf("failed to load guest identity: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	var identity Identity
	if err := json.Unmarshal(raw, &identity); err != nil {
		// Unparsable data reads as "no identity", never as an error.
		return nil, nil
	}
	return &identity, nil
}

func (s *KVStore) Save(ctx context.Context, joinToken string, identity Identity) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("failed to encode guest identity: %w", err)
	}
	if err := s.repo.Set(ctx, StorageKey(joinToken), raw); err != nil {
		return fmt.Errorf("failed to save guest identity: %w", err)
	}
	return nil
}
