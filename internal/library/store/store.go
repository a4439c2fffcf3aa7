package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/document"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/kv"
)

// Key is the store key holding the JSON array of documents.
const Key = "documents"

type Store struct {
	kv kv.Store
}

func New(s kv.Store) *Store {
	return &Store{kv: s}
}

func (s *Store) LoadDocuments(ctx context.Context) ([]*document.Document, error) {
	var docs []*document.Document

	err := kv.GetJSON(ctx, s.kv, Key, &docs)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", Key, err)
	}

	return docs, nil
}

func (s *Store) SaveDocuments(ctx context.Context, docs []*document.Document) error {
	if docs == nil {
		docs = []*document.Document{}
	}

	return kv.SetJSON(ctx, s.kv, Key, docs)
}
