package storage

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

var (
	testContainerId = uuid.MustParse("00112233-4455-6677-8899-aabbccddeeff")
	testItemId      = uuid.MustParse("ffeeddcc-bbaa-9988-7766-554433221100")
)

func TestKey_Layout(t *testing.T) {
	var buf bytes.Buffer
	for _, k := range []Key{
		NewKey(ContainerTag, testContainerId),
		NewKey(ContainerImageTag, testContainerId),
		NewKey(ItemTag, testContainerId, testItemId),
		NewKey(ItemImageTag, testContainerId, testItemId),
		NewKey(SessionTag, testItemId),
	} {
		fmt.Fprintf(&buf, "%s %s\n", k.Tag(), k)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "key_layout", buf.Bytes())
}

func TestKey_Compare(t *testing.T) {
	low := uuid.UUID{}
	high := uuid.UUID{0xff}

	k0 := NewKey(ContainerTag, low)
	k1 := NewKey(ContainerTag, high)
	k2 := NewKey(ItemTag, low, low)
	k3 := NewKey(ItemTag, low, high)
	k4 := NewKey(ItemTag, high, low)
	k5 := NewKey(SessionTag, low)

	require.Equal(t, KeyLessThan, k0.Compare(k1))
	require.Equal(t, KeyLessThan, k1.Compare(k2))
	require.Equal(t, KeyLessThan, k2.Compare(k3))
	require.Equal(t, KeyLessThan, k3.Compare(k4))
	require.Equal(t, KeyLessThan, k4.Compare(k5))
	require.Equal(t, KeyMoreThan, k5.Compare(k0))
	require.Equal(t, KeyEqual, k3.Compare(NewKey(ItemTag, low, high)))
}

func TestKey_Prefix(t *testing.T) {
	other := uuid.New()

	p := Prefix(ItemTag, testContainerId)
	require.Len(t, p, 1+IdSize)
	require.True(t, NewKey(ItemTag, testContainerId, testItemId).HasPrefix(p))
	require.False(t, NewKey(ItemTag, other, testItemId).HasPrefix(p))
	require.False(t, NewKey(ItemImageTag, testContainerId, testItemId).HasPrefix(p))

	// a one-id key of another tag never matches a two-id prefix
	require.False(t, NewKey(ContainerTag, testContainerId).HasPrefix(p))
	require.True(t, NewKey(ContainerTag, testContainerId).HasPrefix(Prefix(ContainerTag)))
}

func TestKey_PanicsOnWrongWidth(t *testing.T) {
	require.Panics(t, func() { NewKey(ItemTag, testItemId) })
	require.Panics(t, func() { NewKey(SessionTag) })
	require.Panics(t, func() { Prefix(ContainerTag, testContainerId, testItemId) })
}

func TestDecodeKey(t *testing.T) {
	tag, ids, err := DecodeKey(NewKey(ItemTag, testContainerId, testItemId))
	require.NoError(t, err)
	require.Equal(t, ItemTag, tag)
	require.Equal(t, []uuid.UUID{testContainerId, testItemId}, ids)

	tag, ids, err = DecodeKey(NewKey(SessionTag, testItemId))
	require.NoError(t, err)
	require.Equal(t, SessionTag, tag)
	require.Equal(t, []uuid.UUID{testItemId}, ids)

	tests := []struct {
		name string
		raw  []byte
	}{
		{"empty", nil},
		{"unknown tag", append([]byte{0x7f}, testItemId[:]...)},
		{"short", NewKey(ItemTag, testContainerId, testItemId)[:20]},
		{"one id for item", NewKey(ContainerTag, testContainerId)[1:]},
		{"trailing byte", append(NewKey(ContainerTag, testContainerId), 0x00)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeKey(tt.raw)
			require.ErrorIs(t, err, ErrMalformedKey)
		})
	}
}

func TestKey_String(t *testing.T) {
	require.Equal(t,
		"00 00112233445566778899aabbccddeeff",
		NewKey(ContainerTag, testContainerId).String())
	require.Equal(t, "container-image", ContainerImageTag.String())
	require.Equal(t, "tag(7f)", Tag(0x7f).String())
}
