package stashdb

import (
	"github.com/google/uuid"

	"github.com/S0me0neR0man/homebox/internal/storage"
)

// Sessions login tokens, the key alone is the state
type Sessions struct {
	s *Stash
}

func (ss *Sessions) Put(token uuid.UUID) error {
	return wrap("sessions.Put:", ss.s.store.Put(sessionKey(token), nil))
}

func (ss *Sessions) Has(token uuid.UUID) (bool, error) {
	found, err := ss.s.store.Has(sessionKey(token))
	return found, wrap("sessions.Has:", err)
}

// Delete succeeds whether or not the token exists
func (ss *Sessions) Delete(token uuid.UUID) error {
	return wrap("sessions.Delete:", ss.s.store.Delete(sessionKey(token)))
}

// List returns every live token in key order
func (ss *Sessions) List() ([]uuid.UUID, error) {
	res := make([]uuid.UUID, 0)
	err := ss.s.store.Map(storage.Prefix(storage.SessionTag), func(key storage.Key, _ []byte) error {
		_, ids, err := storage.DecodeKey(key)
		if err != nil {
			return err
		}
		res = append(res, ids[0])
		return nil
	})
	if err != nil {
		return nil, wrap("sessions.List:", err)
	}
	return res, nil
}

func sessionKey(token uuid.UUID) storage.Key {
	return storage.NewKey(storage.SessionTag, token)
}
