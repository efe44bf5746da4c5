package stashdb

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/S0me0neR0man/homebox/internal/storage"
)

var (
	onceLogger sync.Once
	logger     *zap.Logger
)

func getTestLogger() *zap.Logger {
	onceLogger.Do(func() {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
	})
	return logger
}

// testClock advances a second on every reading
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 3, 1, 10, 0, 0, 123456789, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

// forEachStash runs f once per storage engine on an empty stash
func forEachStash(t *testing.T, f func(t *testing.T, s *Stash)) {
	t.Run(storage.EngineMemory, func(t *testing.T) {
		store := storage.NewStore(storage.NewTreeEngine(), getTestLogger(), nil)
		defer store.Close()
		f(t, NewStash(store, getTestLogger(), WithClock(newTestClock().Now)))
	})
	t.Run(storage.EngineLevelDB, func(t *testing.T) {
		engine, err := storage.NewMemLevelEngine()
		require.NoError(t, err)
		store := storage.NewStore(engine, getTestLogger(), nil)
		defer store.Close()
		f(t, NewStash(store, getTestLogger(), WithClock(newTestClock().Now)))
	})
}

func utcContainer(c Container) Container {
	c.Created, c.Updated = c.Created.UTC(), c.Updated.UTC()
	return c
}

func utcItem(i Item) Item {
	i.Created, i.Updated = i.Created.UTC(), i.Updated.UTC()
	return i
}

func ptr[T any](v T) *T {
	return &v
}
