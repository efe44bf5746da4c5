package stashdb

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_sessions_PutHasDelete(t *testing.T) {
	forEachStash(t, func(t *testing.T, s *Stash) {
		token := s.NewId()
		found, err := s.Sessions.Has(token)
		require.NoError(t, err)
		require.False(t, found)

		require.NoError(t, s.Sessions.Put(token))
		found, err = s.Sessions.Has(token)
		require.NoError(t, err)
		require.True(t, found)

		tokens, err := s.Sessions.List()
		require.NoError(t, err)
		require.Equal(t, []uuid.UUID{token}, tokens)

		require.NoError(t, s.Sessions.Delete(token))
		require.NoError(t, s.Sessions.Delete(token))
		found, err = s.Sessions.Has(token)
		require.NoError(t, err)
		require.False(t, found)
	})
}

func Test_images_PutGetDelete(t *testing.T) {
	forEachStash(t, func(t *testing.T, s *Stash) {
		cid, iid := uuid.New(), uuid.New()
		require.NoError(t, s.ContainerImages.Put(cid, []byte("container")))
		require.NoError(t, s.ItemImages.Put(cid, iid, []byte("item")))

		image, found, err := s.ContainerImages.Get(cid)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, []byte("container"), image)

		image, found, err = s.ItemImages.Get(cid, iid)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, []byte("item"), image)

		found, err = s.ContainerImages.Delete(cid)
		require.NoError(t, err)
		require.True(t, found)
		found, err = s.ContainerImages.Delete(cid)
		require.NoError(t, err)
		require.False(t, found)

		found, err = s.ItemImages.Has(cid, iid)
		require.NoError(t, err)
		require.True(t, found, "tags keep the image collections apart")
	})
}
