package stashdb

import (
	"github.com/google/uuid"

	"github.com/S0me0neR0man/homebox/internal/storage"
)

// ContainerImages opaque image bytes keyed like their container
type ContainerImages struct {
	s *Stash
}

func (c *ContainerImages) Put(id uuid.UUID, image []byte) error {
	return wrap("containerImages.Put:", c.s.store.Put(containerImageKey(id), image))
}

func (c *ContainerImages) Get(id uuid.UUID) ([]byte, bool, error) {
	image, found, err := c.s.store.Get(containerImageKey(id))
	return image, found, wrap("containerImages.Get:", err)
}

func (c *ContainerImages) Has(id uuid.UUID) (bool, error) {
	found, err := c.s.store.Has(containerImageKey(id))
	return found, wrap("containerImages.Has:", err)
}

// Delete reports whether an image was present
func (c *ContainerImages) Delete(id uuid.UUID) (bool, error) {
	return deleteIfPresent("containerImages.Delete:", c.s.store, containerImageKey(id))
}

func containerImageKey(id uuid.UUID) storage.Key {
	return storage.NewKey(storage.ContainerImageTag, id)
}

// ItemImages opaque image bytes keyed like their item
type ItemImages struct {
	s *Stash
}

func (i *ItemImages) Put(containerId, id uuid.UUID, image []byte) error {
	return wrap("itemImages.Put:", i.s.store.Put(itemImageKey(containerId, id), image))
}

func (i *ItemImages) Get(containerId, id uuid.UUID) ([]byte, bool, error) {
	image, found, err := i.s.store.Get(itemImageKey(containerId, id))
	return image, found, wrap("itemImages.Get:", err)
}

func (i *ItemImages) Has(containerId, id uuid.UUID) (bool, error) {
	found, err := i.s.store.Has(itemImageKey(containerId, id))
	return found, wrap("itemImages.Has:", err)
}

// Delete reports whether an image was present
func (i *ItemImages) Delete(containerId, id uuid.UUID) (bool, error) {
	return deleteIfPresent("itemImages.Delete:", i.s.store, itemImageKey(containerId, id))
}

func itemImageKey(containerId, id uuid.UUID) storage.Key {
	return storage.NewKey(storage.ItemImageTag, containerId, id)
}

func deleteIfPresent(msg string, store *storage.Store, key storage.Key) (bool, error) {
	found, err := store.Has(key)
	if err != nil || !found {
		return false, wrap(msg, err)
	}
	if err := store.Delete(key); err != nil {
		return false, wrap(msg, err)
	}
	return true, nil
}
