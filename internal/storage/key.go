package storage

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Tag the collection discriminant, first byte of every key.
//
// The values below are the on-disk schema: never renumber, never reuse.
type Tag byte

const (
	ContainerTag      Tag = 0x00
	ContainerImageTag Tag = 0x01
	ItemTag           Tag = 0x0a
	ItemImageTag      Tag = 0x0b
	SessionTag        Tag = 0x14
)

// IdSize width of every id component in a key
const IdSize = 16

var ErrMalformedKey = errors.New("malformed key")

// Width returns the number of ids in a key of this tag, 0 for an unknown tag
func (t Tag) Width() int {
	switch t {
	case ContainerTag, ContainerImageTag, SessionTag:
		return 1
	case ItemTag, ItemImageTag:
		return 2
	}
	return 0
}

// String is Stringer implementation
func (t Tag) String() string {
	switch t {
	case ContainerTag:
		return "container"
	case ContainerImageTag:
		return "container-image"
	case ItemTag:
		return "item"
	case ItemImageTag:
		return "item-image"
	case SessionTag:
		return "session"
	}
	return fmt.Sprintf("tag(%02x)", byte(t))
}

// Key the synthetic composite key.
//
// [0] the tag
//
// [1:17] first id, uuid binary form
//
// [17:33] second id, only for two-id tags
//
// All components are fixed width so a shorter key is a strict prefix of
// every longer key built from the same components.
type Key []byte

// NewKey builds a full key, panics if the id count does not match the tag
func NewKey(tag Tag, ids ...uuid.UUID) Key {
	if len(ids) != tag.Width() {
		panic(fmt.Sprintf("storage.NewKey: %s takes %d ids, got %d", tag, tag.Width(), len(ids)))
	}
	return compose(tag, ids)
}

// Prefix builds a scan anchor from the tag and the leading ids
func Prefix(tag Tag, ids ...uuid.UUID) Key {
	if len(ids) > tag.Width() {
		panic(fmt.Sprintf("storage.Prefix: %s takes at most %d ids, got %d", tag, tag.Width(), len(ids)))
	}
	return compose(tag, ids)
}

func compose(tag Tag, ids []uuid.UUID) Key {
	k := make(Key, 1, 1+len(ids)*IdSize)
	k[0] = byte(tag)
	for _, id := range ids {
		k = append(k, id[:]...)
	}
	return k
}

// DecodeKey splits a raw key into its tag and ids
func DecodeKey(raw []byte) (Tag, []uuid.UUID, error) {
	if len(raw) == 0 {
		return 0, nil, fmt.Errorf("%w: empty", ErrMalformedKey)
	}
	tag := Tag(raw[0])
	width := tag.Width()
	if width == 0 {
		return tag, nil, fmt.Errorf("%w: unknown tag %02x", ErrMalformedKey, raw[0])
	}
	if len(raw) != 1+width*IdSize {
		return tag, nil, fmt.Errorf("%w: %s key has %d bytes, want %d", ErrMalformedKey, tag, len(raw), 1+width*IdSize)
	}
	ids := make([]uuid.UUID, width)
	for i := range ids {
		copy(ids[i][:], raw[1+i*IdSize:1+(i+1)*IdSize])
	}
	return tag, ids, nil
}

// Tag returns the key tag
func (k Key) Tag() Tag {
	if len(k) == 0 {
		return 0
	}
	return Tag(k[0])
}

// HasPrefix reports whether the key starts with p
func (k Key) HasPrefix(p Key) bool {
	return bytes.HasPrefix(k, p)
}

// String is Stringer implementation
func (k Key) String() string {
	if len(k) == 0 {
		return ""
	}
	parts := []string{hex.EncodeToString(k[0:1])}
	for rest := k[1:]; len(rest) > 0; {
		n := IdSize
		if len(rest) < n {
			n = len(rest)
		}
		parts = append(parts, hex.EncodeToString(rest[:n]))
		rest = rest[n:]
	}
	return strings.Join(parts, " ")
}

type KeyCompareResult int

const (
	KeyLessThan KeyCompareResult = -1
	KeyEqual    KeyCompareResult = 0
	KeyMoreThan KeyCompareResult = 1
)

// Compare byte-lexicographic comparison, the order of every engine
func (k Key) Compare(other Key) KeyCompareResult {
	return KeyCompareResult(bytes.Compare(k, other))
}
