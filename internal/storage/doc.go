// Package storage maintains the single ordered keyspace shared by every
// collection.
//
// Each collection is a contiguous key range selected by a one byte tag.
// Ids are uuids in their 16 byte binary form, so keys of one tag have a
// fixed width and a prefix scan never needs a delimiter.
//
// Notes:
// 1. ++  = concatenation of byte data
// 2. id  = 16 byte uuid
//
// Containers:
//
//	00 ++ container id               - container record (cbor)
//	01 ++ container id               - container image (opaque bytes)
//
// Items:
//
//	0a ++ container id ++ item id    - item record (cbor)
//	0b ++ container id ++ item id    - item image (opaque bytes)
//
// Sessions:
//
//	14 ++ token                      - login session, empty value
//
// A scan over 0a ++ container id yields exactly that container's items.
package storage
