package stashdb

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/S0me0neR0man/homebox/internal/storage"
)

// Items accessor of the item collection.
//
// An item key embeds its container id, every operation therefore
// addresses an item by (container id, item id).
type Items struct {
	s *Stash
}

// Create stores a new item in an existing container
func (it *Items) Create(containerId uuid.UUID, name string, quantity uint64, description string) (Item, error) {
	const msg = "items.Create:"
	exists, err := it.s.Containers.Exists(containerId)
	if err != nil {
		return Item{}, fmt.Errorf("%s %w", msg, err)
	}
	if !exists {
		return Item{}, fmt.Errorf("%s %w: %s", msg, ErrUnknownContainer, containerId)
	}

	now := it.s.stamp()
	rec := Item{
		ID:          it.s.newId(),
		ContainerID: containerId,
		Created:     now,
		Updated:     now,
		Name:        name,
		Quantity:    quantity,
		Description: description,
	}
	data, err := encode(rec)
	if err != nil {
		return Item{}, fmt.Errorf("%s %w", msg, err)
	}
	if err := it.s.store.Put(itemKey(containerId, rec.ID), data); err != nil {
		return Item{}, fmt.Errorf("%s %w", msg, err)
	}
	it.s.sugar.Debugw("item created", "container", containerId, "id", rec.ID, "name", name)
	return rec, nil
}

// Get returns the item, found is false if there is none
func (it *Items) Get(containerId, id uuid.UUID) (Item, bool, error) {
	const msg = "items.Get:"
	key := itemKey(containerId, id)
	data, found, err := it.s.store.Get(key)
	if err != nil || !found {
		return Item{}, false, wrap(msg, err)
	}
	var rec Item
	if err := decodeItem(key, data, &rec); err != nil {
		return Item{}, false, fmt.Errorf("%s %w", msg, err)
	}
	return rec, true, nil
}

// List returns the items of one container in item id order
func (it *Items) List(containerId uuid.UUID) ([]Item, error) {
	items, err := it.scan(storage.Prefix(storage.ItemTag, containerId))
	return items, wrap("items.List:", err)
}

// ListAll returns every item of every container
func (it *Items) ListAll() ([]Item, error) {
	items, err := it.scan(storage.Prefix(storage.ItemTag))
	return items, wrap("items.ListAll:", err)
}

func (it *Items) scan(prefix storage.Key) ([]Item, error) {
	res := make([]Item, 0)
	err := it.s.store.Map(prefix, func(key storage.Key, value []byte) error {
		var rec Item
		if err := decodeItem(key, value, &rec); err != nil {
			return err
		}
		res = append(res, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Update applies the patch, found is false and nothing is written if
// the item is absent
func (it *Items) Update(containerId, id uuid.UUID, patch ItemPatch) (Item, bool, error) {
	const msg = "items.Update:"
	rec, found, err := it.Get(containerId, id)
	if err != nil || !found {
		return Item{}, false, wrap(msg, err)
	}

	if patch.Name != nil {
		rec.Name = *patch.Name
	}
	if patch.Quantity != nil {
		rec.Quantity = *patch.Quantity
	}
	if patch.Description != nil {
		rec.Description = *patch.Description
	}
	rec.Updated = laterOf(it.s.stamp(), rec.Created)

	data, err := encode(rec)
	if err != nil {
		return Item{}, false, fmt.Errorf("%s %w", msg, err)
	}
	if err := it.s.store.Put(itemKey(containerId, id), data); err != nil {
		return Item{}, false, fmt.Errorf("%s %w", msg, err)
	}
	it.s.sugar.Debugw("item updated", "container", containerId, "id", id)
	return rec, true, nil
}

// Delete removes the item and its image in one batch
func (it *Items) Delete(containerId, id uuid.UUID) (bool, error) {
	const msg = "items.Delete:"
	key := itemKey(containerId, id)
	found, err := it.s.store.Has(key)
	if err != nil || !found {
		return false, wrap(msg, err)
	}

	b := storage.NewBatch().
		Delete(key).
		Delete(storage.NewKey(storage.ItemImageTag, containerId, id))
	if err := it.s.store.Write(b); err != nil {
		return false, fmt.Errorf("%s %w", msg, err)
	}
	it.s.sugar.Debugw("item deleted", "container", containerId, "id", id)
	return true, nil
}

// Move re-keys the item (and its image) under another container.
//
// The new keys are written and the old ones deleted in one batch, so
// once Move returns nil exactly one of the two keys exists. Moving into
// the current container only reports presence.
func (it *Items) Move(id, from, to uuid.UUID) (Item, bool, error) {
	const msg = "items.Move:"
	rec, found, err := it.Get(from, id)
	if err != nil || !found {
		return Item{}, false, wrap(msg, err)
	}
	if from == to {
		return rec, true, nil
	}

	exists, err := it.s.Containers.Exists(to)
	if err != nil {
		return Item{}, false, fmt.Errorf("%s %w", msg, err)
	}
	if !exists {
		return Item{}, false, fmt.Errorf("%s %w: %s", msg, ErrUnknownContainer, to)
	}

	oldImageKey := storage.NewKey(storage.ItemImageTag, from, id)
	image, hasImage, err := it.s.store.Get(oldImageKey)
	if err != nil {
		return Item{}, false, fmt.Errorf("%s %w", msg, err)
	}

	rec.ContainerID = to
	rec.Updated = laterOf(it.s.stamp(), rec.Created)
	data, err := encode(rec)
	if err != nil {
		return Item{}, false, fmt.Errorf("%s %w", msg, err)
	}

	b := storage.NewBatch().
		Put(itemKey(to, id), data).
		Delete(itemKey(from, id))
	if hasImage {
		b.Put(storage.NewKey(storage.ItemImageTag, to, id), image).Delete(oldImageKey)
	}
	if err := it.s.store.Write(b); err != nil {
		return Item{}, false, fmt.Errorf("%s %w", msg, err)
	}
	it.s.sugar.Debugw("item moved", "id", id, "from", from, "to", to, "image", hasImage)
	return rec, true, nil
}

func itemKey(containerId, id uuid.UUID) storage.Key {
	return storage.NewKey(storage.ItemTag, containerId, id)
}

func decodeItem(key storage.Key, data []byte, rec *Item) error {
	_, ids, err := storage.DecodeKey(key)
	if err != nil {
		return err
	}
	if len(ids) != 2 {
		return fmt.Errorf("%w: %s is not an item key", storage.ErrMalformedKey, key)
	}
	if err := decode(key, data, rec); err != nil {
		return err
	}
	if rec.ID != ids[1] {
		return fmt.Errorf("%w: %s holds item %s", ErrCorruptRecord, key, rec.ID)
	}
	rec.ContainerID = ids[0]
	return nil
}
