package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/S0me0neR0man/homebox/internal/client"
	"github.com/S0me0neR0man/homebox/internal/stashdb"
)

const (
	displayCounter = 100
)

type simpleRecord struct {
	item    stashdb.Item
	deleted bool
	updated bool
	moved   bool
}

func (s simpleRecord) String() string {
	if s.item.ID == uuid.Nil {
		return "uninitialized"
	}
	return fmt.Sprintf("id=%s container=%s deleted=%v updated=%v moved=%v name=%q quantity=%d",
		s.item.ID, s.item.ContainerID, s.deleted, s.updated, s.moved, s.item.Name, s.item.Quantity)
}

func newSimpleRecord(containerId uuid.UUID) simpleRecord {
	i := rand.Intn(100)
	return simpleRecord{
		item: stashdb.Item{
			ContainerID: containerId,
			Name:        "item" + strconv.Itoa(i),
			Quantity:    uint64(i),
			Description: "sample text" + strconv.Itoa(i),
		},
	}
}

// Checker drives create, read, update, move and delete pipelines against
// a running server and reports every mismatch it observes
type Checker struct {
	out       io.Writer
	toDisplay chan string

	toGet      chan simpleRecord
	toChange   chan simpleRecord
	toGetAfter chan simpleRecord

	containers []uuid.UUID
	mismatches int
	mu         sync.Mutex

	wg sync.WaitGroup

	client *client.GRPCClient
	sugar  *zap.SugaredLogger
}

func NewChecker(c *client.GRPCClient, out io.Writer, logger *zap.Logger) *Checker {
	return &Checker{
		client:     c,
		out:        out,
		sugar:      logger.Sugar(),
		toDisplay:  make(chan string),
		toGet:      make(chan simpleRecord),
		toChange:   make(chan simpleRecord),
		toGetAfter: make(chan simpleRecord),
	}
}

// Prepare creates the containers items are spread over
func (c *Checker) Prepare(ctx context.Context, count int) error {
	for i := 0; i < count; i++ {
		rec, err := c.client.AddContainer(ctx, "box"+strconv.Itoa(i), nil)
		if err != nil {
			return fmt.Errorf("prepare: %w", err)
		}
		c.containers = append(c.containers, rec.ID)
	}
	return nil
}

func (c *Checker) Go(ctx context.Context) {
	c.wg.Add(9)

	go c.display(ctx)

	go c.insert(ctx)
	go c.insert(ctx)
	go c.get(ctx)
	go c.get(ctx)
	go c.change(ctx)
	go c.change(ctx)
	go c.getAfter(ctx)
	go c.getAfter(ctx)
}

// Wait returns the number of mismatches seen
func (c *Checker) Wait() int {
	c.wg.Wait()
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mismatches
}

func (c *Checker) randomContainer() uuid.UUID {
	return c.containers[rand.Intn(len(c.containers))]
}

func (c *Checker) mismatch(msg string, keysAndValues ...any) {
	c.mu.Lock()
	c.mismatches++
	c.mu.Unlock()
	c.sugar.Errorw(msg, keysAndValues...)
}

// send hands rec to the next stage unless ctx is done
func send(ctx context.Context, ch chan<- simpleRecord, rec simpleRecord) bool {
	select {
	case ch <- rec:
		return true
	case <-ctx.Done():
		return false
	}
}

func (c *Checker) tick(ctx context.Context, count *int, mark string) {
	*count++
	if *count < displayCounter {
		return
	}
	*count = 0
	select {
	case c.toDisplay <- mark:
	case <-ctx.Done():
	}
}

func (c *Checker) display(ctx context.Context) {
	defer c.wg.Done()
	c.sugar.Infow("display start")

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out)
			c.sugar.Infow("display done")
			return
		case s := <-c.toDisplay:
			if _, err := fmt.Fprint(c.out, s); err != nil {
				c.sugar.Errorw("display", "error", err)
			}
		}
	}
}

func (c *Checker) insert(ctx context.Context) {
	defer c.wg.Done()

	count := 0
	c.sugar.Infow("insert start")

	for {
		select {
		case <-ctx.Done():
			c.sugar.Infow("insert done")
			return
		default:
			rec := newSimpleRecord(c.randomContainer())
			item, err := c.client.AddItem(ctx, rec.item.ContainerID, rec.item.Name, rec.item.Quantity, rec.item.Description)
			if err != nil {
				if ctx.Err() == nil {
					c.mismatch("insert", "error", err)
				}
				continue
			}
			rec.item = item
			c.sugar.Debugw("insert ok", "rec", rec)
			c.tick(ctx, &count, "I")
			if !send(ctx, c.toGet, rec) {
				return
			}
		}
	}
}

func (c *Checker) get(ctx context.Context) {
	defer c.wg.Done()

	c.sugar.Infow("get start")
	count := 0

	for {
		select {
		case <-ctx.Done():
			c.sugar.Infow("get done")
			return

		case rec := <-c.toGet:
			got, err := c.client.Item(ctx, rec.item.ContainerID, rec.item.ID)
			if err != nil {
				if ctx.Err() == nil {
					c.mismatch("get", "rec", rec, "error", err)
				}
				continue
			}
			c.compare(rec, got)
			c.tick(ctx, &count, "G")
			if !send(ctx, c.toChange, rec) {
				return
			}
		}
	}
}

// change updates, moves or deletes the record at random
func (c *Checker) change(ctx context.Context) {
	defer c.wg.Done()

	c.sugar.Infow("change start")
	count := 0

	for {
		select {
		case <-ctx.Done():
			c.sugar.Infow("change done")
			return
		case rec := <-c.toChange:
			var err error
			switch rand.Intn(3) {
			case 0:
				name := rec.item.Name + "+"
				quantity := rec.item.Quantity + 1
				rec.item, err = c.client.UpdateItem(ctx, rec.item.ContainerID, rec.item.ID, stashdb.ItemPatch{
					Name:     &name,
					Quantity: &quantity,
				})
				rec.updated = true
			case 1:
				rec.item, err = c.client.MoveItem(ctx, rec.item.ID, rec.item.ContainerID, c.randomContainer())
				rec.moved = true
			default:
				err = c.client.DeleteItem(ctx, rec.item.ContainerID, rec.item.ID)
				rec.deleted = true
			}
			if err != nil {
				if ctx.Err() == nil {
					c.mismatch("change", "rec", rec, "error", err)
				}
				continue
			}
			c.tick(ctx, &count, "C")
			if !send(ctx, c.toGetAfter, rec) {
				return
			}
		}
	}
}

func (c *Checker) getAfter(ctx context.Context) {
	defer c.wg.Done()

	c.sugar.Infow("getAfter start")
	count := 0

	for {
		select {
		case <-ctx.Done():
			c.sugar.Infow("getAfter done")
			return

		case rec := <-c.toGetAfter:
			got, err := c.client.Item(ctx, rec.item.ContainerID, rec.item.ID)
			switch {
			case rec.deleted && status.Code(err) == codes.NotFound:
			case rec.deleted && err == nil:
				c.mismatch("deleted item still present", "rec", rec)
			case err != nil:
				if ctx.Err() == nil && !errors.Is(err, context.Canceled) {
					c.mismatch("getAfter", "rec", rec, "error", err)
				}
			default:
				c.compare(rec, got)
			}
			c.tick(ctx, &count, "A")
		}
	}
}

func (c *Checker) compare(rec simpleRecord, got stashdb.Item) {
	want := rec.item
	if want.ID != got.ID || want.ContainerID != got.ContainerID || want.Name != got.Name ||
		want.Quantity != got.Quantity || want.Description != got.Description {
		c.mismatch("not equal", "rec", rec, "got", got)
	}
	if got.Updated.Before(got.Created) {
		c.mismatch("updated before created", "rec", rec, "got", got)
	}
}
