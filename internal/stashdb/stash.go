// Package stashdb keeps containers, items, their images and login
// sessions as separate collections of one storage.Store.
//
// Operations touching several keys read first and then write a single
// batch. The batch lands atomically, but nothing locks the keys between
// the read and the write: concurrent updates of one record resolve as
// last writer wins.
package stashdb

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/S0me0neR0man/homebox/internal/codec"
	"github.com/S0me0neR0man/homebox/internal/storage"
)

var (
	ErrUnknownContainer = errors.New("container does not exist")
	ErrCorruptRecord    = errors.New("corrupt record")
)

// Stash the set of collection accessors sharing one store
type Stash struct {
	store *storage.Store
	now   func() time.Time
	newId func() uuid.UUID
	sugar *zap.SugaredLogger

	Containers      *Containers
	Items           *Items
	ContainerImages *ContainerImages
	ItemImages      *ItemImages
	Sessions        *Sessions
}

type Option func(*Stash)

// WithClock replaces time.Now for created/updated stamps
func WithClock(now func() time.Time) Option {
	return func(s *Stash) {
		s.now = now
	}
}

// WithIdGenerator replaces uuid.New for fresh record ids and tokens
func WithIdGenerator(newId func() uuid.UUID) Option {
	return func(s *Stash) {
		s.newId = newId
	}
}

func NewStash(store *storage.Store, logger *zap.Logger, opts ...Option) *Stash {
	s := &Stash{
		store: store,
		now:   time.Now,
		newId: uuid.New,
		sugar: logger.Sugar(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Containers = &Containers{s: s}
	s.Items = &Items{s: s}
	s.ContainerImages = &ContainerImages{s: s}
	s.ItemImages = &ItemImages{s: s}
	s.Sessions = &Sessions{s: s}
	return s
}

// Store returns the shared store handle
func (s *Stash) Store() *storage.Store {
	return s.store
}

// stamp current time without the monotonic reading
func (s *Stash) stamp() time.Time {
	return s.now().UTC()
}

// NewId returns a fresh random id
func (s *Stash) NewId() uuid.UUID {
	return s.newId()
}

func encode(v any) ([]byte, error) {
	data, err := codec.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return data, nil
}

func decode(key storage.Key, data []byte, v any) error {
	if err := codec.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorruptRecord, key, err)
	}
	return nil
}

// laterOf keeps updated >= created under clock skew
func laterOf(now, created time.Time) time.Time {
	if now.Before(created) {
		return created
	}
	return now
}
