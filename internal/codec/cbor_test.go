package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string    `cbor:"name"`
	Count   uint64    `cbor:"count"`
	Created time.Time `cbor:"created"`
	Tags    map[string]string
}

func TestMarshal_Deterministic(t *testing.T) {
	v := sample{
		Name:    "drill",
		Count:   3,
		Created: time.Date(2024, 5, 1, 10, 0, 0, 123, time.UTC),
		Tags:    map[string]string{"b": "2", "a": "1", "c": "3"},
	}

	first, err := Marshal(v)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Marshal(v)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}

	var back sample
	require.NoError(t, Unmarshal(first, &back))
	require.Equal(t, v.Name, back.Name)
	require.Equal(t, v.Count, back.Count)
	require.True(t, v.Created.Equal(back.Created), "nanoseconds must survive: %v != %v", v.Created, back.Created)
	require.Equal(t, v.Tags, back.Tags)
}

func TestUnmarshal_IgnoresUnknownFields(t *testing.T) {
	data, err := Marshal(map[string]any{"name": "box", "future": true})
	require.NoError(t, err)

	var back sample
	require.NoError(t, Unmarshal(data, &back))
	require.Equal(t, "box", back.Name)
}

func TestUnmarshal_Garbage(t *testing.T) {
	var back sample
	require.Error(t, Unmarshal([]byte{0xff, 0x00, 0x13}, &back))
}
