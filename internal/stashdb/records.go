package stashdb

import (
	"time"

	"github.com/google/uuid"
)

// Container a physical storage place
type Container struct {
	ID       uuid.UUID  `cbor:"id"`
	Created  time.Time  `cbor:"created"`
	Updated  time.Time  `cbor:"updated"`
	Name     string     `cbor:"name"`
	Location *uuid.UUID `cbor:"location,omitempty"`
}

// ContainerPatch nil fields are left unchanged
type ContainerPatch struct {
	Name          *string
	Location      *uuid.UUID
	ClearLocation bool
}

// Item an inventory entry, ContainerID comes from the key and is not stored
type Item struct {
	ID          uuid.UUID `cbor:"id"`
	ContainerID uuid.UUID `cbor:"-"`
	Created     time.Time `cbor:"created"`
	Updated     time.Time `cbor:"updated"`
	Name        string    `cbor:"name"`
	Quantity    uint64    `cbor:"quantity"`
	Description string    `cbor:"description"`
}

// ItemPatch nil fields are left unchanged
type ItemPatch struct {
	Name        *string
	Quantity    *uint64
	Description *string
}
