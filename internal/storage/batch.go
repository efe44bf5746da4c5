package storage

// Op one batched mutation
type Op struct {
	Key    Key
	Value  []byte
	Delete bool
}

// Batch an ordered list of mutations applied atomically.
// Later operations on the same key win.
type Batch struct {
	ops []Op
}

func NewBatch() *Batch {
	return &Batch{}
}

// Put queues an upsert
func (b *Batch) Put(key Key, value []byte) *Batch {
	if value == nil {
		value = []byte{}
	}
	b.ops = append(b.ops, Op{Key: key, Value: value})
	return b
}

// Delete queues a removal
func (b *Batch) Delete(key Key) *Batch {
	b.ops = append(b.ops, Op{Key: key, Delete: true})
	return b
}

// Ops returns queued mutations in order
func (b *Batch) Ops() []Op {
	return b.ops
}

// Len returns number of queued mutations
func (b *Batch) Len() int {
	return len(b.ops)
}

// Reset empties the batch for reuse
func (b *Batch) Reset() {
	b.ops = b.ops[:0]
}
