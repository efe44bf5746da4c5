package stashdb

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/S0me0neR0man/homebox/internal/storage"
)

// SweepReport counts of records removed by SweepOrphans
type SweepReport struct {
	Items           int
	ItemImages      int
	ContainerImages int
}

func (r SweepReport) Total() int {
	return r.Items + r.ItemImages + r.ContainerImages
}

// Orphans lists items whose container no longer exists.
//
// Deleting a container leaves its items in place, they stay reachable
// by key until swept.
func (s *Stash) Orphans() ([]Item, error) {
	const msg = "stash.Orphans:"
	containers, err := s.containerIds()
	if err != nil {
		return nil, fmt.Errorf("%s %w", msg, err)
	}
	items, err := s.Items.ListAll()
	if err != nil {
		return nil, fmt.Errorf("%s %w", msg, err)
	}
	res := make([]Item, 0)
	for _, item := range items {
		if _, ok := containers[item.ContainerID]; !ok {
			res = append(res, item)
		}
	}
	return res, nil
}

// SweepOrphans deletes orphaned items together with images that have
// no owning record, all in one batch. Records written while the sweep
// scans may be judged against a stale container set, run it on a quiet
// store.
func (s *Stash) SweepOrphans() (SweepReport, error) {
	const msg = "stash.SweepOrphans:"
	var report SweepReport

	containers, err := s.containerIds()
	if err != nil {
		return report, fmt.Errorf("%s %w", msg, err)
	}

	b := storage.NewBatch()
	items := make(map[[2]uuid.UUID]struct{})
	err = s.store.Map(storage.Prefix(storage.ItemTag), func(key storage.Key, _ []byte) error {
		_, ids, err := storage.DecodeKey(key)
		if err != nil {
			return err
		}
		if _, ok := containers[ids[0]]; ok {
			items[[2]uuid.UUID{ids[0], ids[1]}] = struct{}{}
			return nil
		}
		b.Delete(key)
		report.Items++
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("%s %w", msg, err)
	}

	err = s.store.Map(storage.Prefix(storage.ItemImageTag), func(key storage.Key, _ []byte) error {
		_, ids, err := storage.DecodeKey(key)
		if err != nil {
			return err
		}
		if _, ok := items[[2]uuid.UUID{ids[0], ids[1]}]; !ok {
			b.Delete(key)
			report.ItemImages++
		}
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("%s %w", msg, err)
	}

	err = s.store.Map(storage.Prefix(storage.ContainerImageTag), func(key storage.Key, _ []byte) error {
		_, ids, err := storage.DecodeKey(key)
		if err != nil {
			return err
		}
		if _, ok := containers[ids[0]]; !ok {
			b.Delete(key)
			report.ContainerImages++
		}
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("%s %w", msg, err)
	}

	if err := s.store.Write(b); err != nil {
		return SweepReport{}, fmt.Errorf("%s %w", msg, err)
	}
	s.sugar.Infow("orphans swept",
		"items", report.Items,
		"item_images", report.ItemImages,
		"container_images", report.ContainerImages,
	)
	return report, nil
}

func (s *Stash) containerIds() (map[uuid.UUID]struct{}, error) {
	res := make(map[uuid.UUID]struct{})
	err := s.store.Map(storage.Prefix(storage.ContainerTag), func(key storage.Key, _ []byte) error {
		_, ids, err := storage.DecodeKey(key)
		if err != nil {
			return err
		}
		res[ids[0]] = struct{}{}
		return nil
	})
	return res, err
}
