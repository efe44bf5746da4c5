package stashdb

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/S0me0neR0man/homebox/internal/storage"
)

func Test_items_CreateGet(t *testing.T) {
	forEachStash(t, func(t *testing.T, s *Stash) {
		c, err := s.Containers.Create("Garage", nil)
		require.NoError(t, err)

		item, err := s.Items.Create(c.ID, "Drill", 1, "cordless")
		require.NoError(t, err)
		require.Equal(t, c.ID, item.ContainerID)
		require.Equal(t, uint64(1), item.Quantity)

		got, found, err := s.Items.Get(c.ID, item.ID)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, utcItem(item), utcItem(got))

		_, found, err = s.Items.Get(uuid.New(), item.ID)
		require.NoError(t, err)
		require.False(t, found, "item is addressed through its container")
	})
}

func Test_items_CreateUnknownContainer(t *testing.T) {
	forEachStash(t, func(t *testing.T, s *Stash) {
		_, err := s.Items.Create(uuid.New(), "Drill", 1, "")
		require.ErrorIs(t, err, ErrUnknownContainer)

		all, err := s.Items.ListAll()
		require.NoError(t, err)
		require.Empty(t, all)
	})
}

func Test_items_PrefixIsolation(t *testing.T) {
	forEachStash(t, func(t *testing.T, s *Stash) {
		a, err := s.Containers.Create("A", nil)
		require.NoError(t, err)
		b, err := s.Containers.Create("B", nil)
		require.NoError(t, err)

		inA := make(map[uuid.UUID]struct{})
		for i := 0; i < 10; i++ {
			item, err := s.Items.Create(a.ID, "a", uint64(i), "")
			require.NoError(t, err)
			inA[item.ID] = struct{}{}
			_, err = s.Items.Create(b.ID, "b", uint64(i), "")
			require.NoError(t, err)
		}
		require.NoError(t, s.ItemImages.Put(a.ID, uuid.New(), []byte("x")))

		list, err := s.Items.List(a.ID)
		require.NoError(t, err)
		require.Len(t, list, len(inA))
		for i, item := range list {
			require.Equal(t, a.ID, item.ContainerID)
			require.Contains(t, inA, item.ID)
			if i > 0 {
				prev := storage.NewKey(storage.ItemTag, a.ID, list[i-1].ID)
				require.Equal(t, storage.KeyLessThan, prev.Compare(storage.NewKey(storage.ItemTag, a.ID, item.ID)))
			}
		}

		all, err := s.Items.ListAll()
		require.NoError(t, err)
		require.Len(t, all, 20)

		list, err = s.Items.List(uuid.New())
		require.NoError(t, err)
		require.Empty(t, list)
	})
}

func Test_items_UpdatePartial(t *testing.T) {
	forEachStash(t, func(t *testing.T, s *Stash) {
		c, err := s.Containers.Create("Garage", nil)
		require.NoError(t, err)
		item, err := s.Items.Create(c.ID, "Drill", 3, "cordless")
		require.NoError(t, err)

		got, found, err := s.Items.Update(c.ID, item.ID, ItemPatch{Name: ptr("X")})
		require.NoError(t, err)
		require.True(t, found)

		want := utcItem(item)
		want.Name = "X"
		want.Updated = got.Updated.UTC()
		require.Equal(t, want, utcItem(got))
		require.True(t, got.Updated.After(item.Updated))

		got, found, err = s.Items.Update(c.ID, item.ID, ItemPatch{Quantity: ptr(uint64(0)), Description: ptr("")})
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, "X", got.Name)
		require.Zero(t, got.Quantity)
		require.Empty(t, got.Description)

		stored, _, err := s.Items.Get(c.ID, item.ID)
		require.NoError(t, err)
		require.Equal(t, utcItem(got), utcItem(stored))

		_, found, err = s.Items.Update(c.ID, uuid.New(), ItemPatch{Name: ptr("ghost")})
		require.NoError(t, err)
		require.False(t, found)
		all, err := s.Items.ListAll()
		require.NoError(t, err)
		require.Len(t, all, 1)
	})
}

func Test_items_DeleteIdempotent(t *testing.T) {
	forEachStash(t, func(t *testing.T, s *Stash) {
		c, err := s.Containers.Create("Garage", nil)
		require.NoError(t, err)
		item, err := s.Items.Create(c.ID, "Drill", 1, "")
		require.NoError(t, err)
		require.NoError(t, s.ItemImages.Put(c.ID, item.ID, []byte("jpeg")))

		found, err := s.Items.Delete(c.ID, item.ID)
		require.NoError(t, err)
		require.True(t, found)

		found, err = s.Items.Delete(c.ID, item.ID)
		require.NoError(t, err)
		require.False(t, found)

		found, err = s.ItemImages.Has(c.ID, item.ID)
		require.NoError(t, err)
		require.False(t, found, "image goes with its item")
	})
}

func Test_items_MoveScenario(t *testing.T) {
	forEachStash(t, func(t *testing.T, s *Stash) {
		a, err := s.Containers.Create("Garage", nil)
		require.NoError(t, err)
		b, err := s.Containers.Create("Attic", nil)
		require.NoError(t, err)
		drill, err := s.Items.Create(a.ID, "Drill", 1, "")
		require.NoError(t, err)

		list, err := s.Items.List(a.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, drill.ID, list[0].ID)

		moved, found, err := s.Items.Move(drill.ID, a.ID, b.ID)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, b.ID, moved.ContainerID)
		require.True(t, moved.Updated.After(drill.Updated))
		require.True(t, moved.Created.Equal(drill.Created))

		list, err = s.Items.List(a.ID)
		require.NoError(t, err)
		require.Empty(t, list)

		list, err = s.Items.List(b.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, drill.ID, list[0].ID)
		require.Equal(t, "Drill", list[0].Name)
	})
}

func Test_items_MoveLeavesExactlyOne(t *testing.T) {
	forEachStash(t, func(t *testing.T, s *Stash) {
		a, err := s.Containers.Create("A", nil)
		require.NoError(t, err)
		b, err := s.Containers.Create("B", nil)
		require.NoError(t, err)
		item, err := s.Items.Create(a.ID, "Drill", 1, "")
		require.NoError(t, err)
		require.NoError(t, s.ItemImages.Put(a.ID, item.ID, []byte("jpeg")))

		_, found, err := s.Items.Move(item.ID, a.ID, b.ID)
		require.NoError(t, err)
		require.True(t, found)

		_, inA, err := s.Items.Get(a.ID, item.ID)
		require.NoError(t, err)
		_, inB, err := s.Items.Get(b.ID, item.ID)
		require.NoError(t, err)
		require.True(t, inA != inB)
		require.True(t, inB)

		image, found, err := s.ItemImages.Get(b.ID, item.ID)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, []byte("jpeg"), image)
		found, err = s.ItemImages.Has(a.ID, item.ID)
		require.NoError(t, err)
		require.False(t, found)
	})
}

func Test_items_MoveEdgeCases(t *testing.T) {
	forEachStash(t, func(t *testing.T, s *Stash) {
		a, err := s.Containers.Create("A", nil)
		require.NoError(t, err)
		item, err := s.Items.Create(a.ID, "Drill", 1, "")
		require.NoError(t, err)

		// same container
		got, found, err := s.Items.Move(item.ID, a.ID, a.ID)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, utcItem(item), utcItem(got))

		// unknown destination
		_, _, err = s.Items.Move(item.ID, a.ID, uuid.New())
		require.ErrorIs(t, err, ErrUnknownContainer)
		_, found, err = s.Items.Get(a.ID, item.ID)
		require.NoError(t, err)
		require.True(t, found)

		// absent item
		_, found, err = s.Items.Move(uuid.New(), a.ID, a.ID)
		require.NoError(t, err)
		require.False(t, found)
	})
}
