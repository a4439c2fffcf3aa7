package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/client"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/kv"
)

// Key is the store key holding the JSON array of clients.
const Key = "clients"

type Store struct {
	mu sync.Mutex
	kv kv.Store
}

func New(s kv.Store) *Store {
	return &Store{kv: s}
}

func (s *Store) load(ctx context.Context) ([]*client.Client, error) {
	var clients []*client.Client

	err := kv.GetJSON(ctx, s.kv, Key, &clients)
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		return nil, fmt.Errorf("loading clients: %w", err)
	}

	return clients, nil
}

func (s *Store) save(ctx context.Context, clients []*client.Client) error {
	if clients == nil {
		clients = []*client.Client{}
	}

	if err := kv.SetJSON(ctx, s.kv, Key, clients); err != nil {
		return fmt.Errorf("saving clients: %w", err)
	}

	return nil
}

func (s *Store) CreateClients(ctx context.Context, clients []*client.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load(ctx)
	if err != nil {
		return err
	}

	return s.save(ctx, append(all, clients...))
}

func (s *Store) GetClient(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	all, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	i := slices.IndexFunc(all, func(c *client.Client) bool { return c.ID == id })
	if i < 0 {
		return nil, client.ErrNotFound
	}

	return all[i], nil
}

func (s *Store) UpdateClient(ctx context.Context, c *client.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load(ctx)
	if err != nil {
		return err
	}

	i := slices.IndexFunc(all, func(x *client.Client) bool { return x.ID == c.ID })
	if i < 0 {
		return client.ErrNotFound
	}

	all[i] = c

	return s.save(ctx, all)
}

func (s *Store) DeleteClients(ctx context.Context, ids []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load(ctx)
	if err != nil {
		return err
	}

	all = slices.DeleteFunc(all, func(c *client.Client) bool { return slices.Contains(ids, c.ID) })

	return s.save(ctx, all)
}

func (s *Store) ListClients(ctx context.Context) ([]*client.Client, error) {
	return s.load(ctx)
}
