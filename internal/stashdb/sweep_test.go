package stashdb

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_stash_SweepOrphans(t *testing.T) {
	forEachStash(t, func(t *testing.T, s *Stash) {
		kept, err := s.Containers.Create("Kept", nil)
		require.NoError(t, err)
		gone, err := s.Containers.Create("Gone", nil)
		require.NoError(t, err)

		keptItem, err := s.Items.Create(kept.ID, "Hammer", 1, "")
		require.NoError(t, err)
		require.NoError(t, s.ItemImages.Put(kept.ID, keptItem.ID, []byte("hammer")))
		require.NoError(t, s.ContainerImages.Put(kept.ID, []byte("kept")))

		for i := 0; i < 3; i++ {
			item, err := s.Items.Create(gone.ID, "Nail", uint64(i), "")
			require.NoError(t, err)
			require.NoError(t, s.ItemImages.Put(gone.ID, item.ID, []byte("nail")))
		}
		// images without owners
		require.NoError(t, s.ItemImages.Put(kept.ID, uuid.New(), []byte("stray")))
		require.NoError(t, s.ContainerImages.Put(uuid.New(), []byte("stray")))

		_, err = s.Containers.Delete(gone.ID)
		require.NoError(t, err)

		orphans, err := s.Orphans()
		require.NoError(t, err)
		require.Len(t, orphans, 3)
		for _, item := range orphans {
			require.Equal(t, gone.ID, item.ContainerID)
		}

		report, err := s.SweepOrphans()
		require.NoError(t, err)
		require.Equal(t, SweepReport{Items: 3, ItemImages: 4, ContainerImages: 1}, report)
		require.Equal(t, 8, report.Total())

		orphans, err = s.Orphans()
		require.NoError(t, err)
		require.Empty(t, orphans)

		all, err := s.Items.ListAll()
		require.NoError(t, err)
		require.Len(t, all, 1)
		found, err := s.ItemImages.Has(kept.ID, keptItem.ID)
		require.NoError(t, err)
		require.True(t, found)
		found, err = s.ContainerImages.Has(kept.ID)
		require.NoError(t, err)
		require.True(t, found)

		report, err = s.SweepOrphans()
		require.NoError(t, err)
		require.Zero(t, report.Total())
	})
}
