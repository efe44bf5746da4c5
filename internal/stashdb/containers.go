package stashdb

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/S0me0neR0man/homebox/internal/storage"
)

// Containers accessor of the container collection
type Containers struct {
	s *Stash
}

// Create stores a new container under a fresh id
func (c *Containers) Create(name string, location *uuid.UUID) (Container, error) {
	const msg = "containers.Create:"
	now := c.s.stamp()
	rec := Container{
		ID:      c.s.newId(),
		Created: now,
		Updated: now,
		Name:    name,
	}
	if location != nil {
		l := *location
		rec.Location = &l
	}
	if err := c.put(rec); err != nil {
		return Container{}, fmt.Errorf("%s %w", msg, err)
	}
	c.s.sugar.Debugw("container created", "id", rec.ID, "name", rec.Name)
	return rec, nil
}

// Get returns the container, found is false if there is none
func (c *Containers) Get(id uuid.UUID) (Container, bool, error) {
	const msg = "containers.Get:"
	key := storage.NewKey(storage.ContainerTag, id)
	data, found, err := c.s.store.Get(key)
	if err != nil || !found {
		return Container{}, false, wrap(msg, err)
	}
	var rec Container
	if err := decodeContainer(key, data, &rec); err != nil {
		return Container{}, false, fmt.Errorf("%s %w", msg, err)
	}
	return rec, true, nil
}

// Exists reports whether the container is present
func (c *Containers) Exists(id uuid.UUID) (bool, error) {
	found, err := c.s.store.Has(storage.NewKey(storage.ContainerTag, id))
	return found, wrap("containers.Exists:", err)
}

// List returns every container in key order
func (c *Containers) List() ([]Container, error) {
	const msg = "containers.List:"
	res := make([]Container, 0)
	err := c.s.store.Map(storage.Prefix(storage.ContainerTag), func(key storage.Key, value []byte) error {
		var rec Container
		if err := decodeContainer(key, value, &rec); err != nil {
			return err
		}
		res = append(res, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s %w", msg, err)
	}
	return res, nil
}

// Update applies the patch, found is false and nothing is written if
// the container is absent
func (c *Containers) Update(id uuid.UUID, patch ContainerPatch) (Container, bool, error) {
	const msg = "containers.Update:"
	rec, found, err := c.Get(id)
	if err != nil || !found {
		return Container{}, false, wrap(msg, err)
	}

	if patch.Name != nil {
		rec.Name = *patch.Name
	}
	switch {
	case patch.ClearLocation:
		rec.Location = nil
	case patch.Location != nil:
		location := *patch.Location
		rec.Location = &location
	}
	rec.Updated = laterOf(c.s.stamp(), rec.Created)

	if err := c.put(rec); err != nil {
		return Container{}, false, fmt.Errorf("%s %w", msg, err)
	}
	c.s.sugar.Debugw("container updated", "id", id)
	return rec, true, nil
}

// Delete removes the container and its image in one batch.
//
// Items of the container are left in place, see Stash.Orphans.
func (c *Containers) Delete(id uuid.UUID) (bool, error) {
	const msg = "containers.Delete:"
	key := storage.NewKey(storage.ContainerTag, id)
	found, err := c.s.store.Has(key)
	if err != nil || !found {
		return false, wrap(msg, err)
	}

	b := storage.NewBatch().
		Delete(key).
		Delete(storage.NewKey(storage.ContainerImageTag, id))
	if err := c.s.store.Write(b); err != nil {
		return false, fmt.Errorf("%s %w", msg, err)
	}
	c.s.sugar.Debugw("container deleted", "id", id)
	return true, nil
}

func (c *Containers) put(rec Container) error {
	data, err := encode(rec)
	if err != nil {
		return err
	}
	return c.s.store.Put(storage.NewKey(storage.ContainerTag, rec.ID), data)
}

func decodeContainer(key storage.Key, data []byte, rec *Container) error {
	_, ids, err := storage.DecodeKey(key)
	if err != nil {
		return err
	}
	if err := decode(key, data, rec); err != nil {
		return err
	}
	if rec.ID != ids[0] {
		return fmt.Errorf("%w: %s holds container %s", ErrCorruptRecord, key, rec.ID)
	}
	return nil
}

// wrap prefixes err with msg, nil stays nil
func wrap(msg string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s %w", msg, err)
}
