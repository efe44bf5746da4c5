package storage

// WriteHandler applies one batch of mutations.
type WriteHandler interface {
	Write(*Batch) error
}

// The WriteHandlerFunc type is an adapter to allow the use of
// ordinary functions as handlers. If f is a function
// with the appropriate signature, WriteHandlerFunc(f) is a
// Handler that calls f.
type WriteHandlerFunc func(*Batch) error

// Write calls f(b).
func (f WriteHandlerFunc) Write(b *Batch) error {
	return f(b)
}

// MiddlewareWriteFunc is a function which receives a WriteHandler and returns another WriteHandler
type MiddlewareWriteFunc func(WriteHandler) WriteHandler

// writeMiddlewarer interface is anything which implements a MiddlewareWriteFunc named WriteMiddleware
type writeMiddlewarer interface {
	WriteMiddleware(WriteHandler) WriteHandler
}

// WriteMiddleware allows MiddlewareWriteFunc to implement the writeMiddlewarer interface
func (mw MiddlewareWriteFunc) WriteMiddleware(h WriteHandler) WriteHandler {
	return mw(h)
}

// WriteChain use pattern chain of responsibility in front of the engine
type WriteChain struct {
	writeMiddlewares []writeMiddlewarer
}

// NewWriteChain make new empty chain
func NewWriteChain() *WriteChain {
	return &WriteChain{}
}

// Attach appends a MiddlewareWriteFunc to the write chain
func (c *WriteChain) Attach(mwf ...MiddlewareWriteFunc) *WriteChain {
	for _, fn := range mwf {
		c.writeMiddlewares = append(c.writeMiddlewares, fn)
	}
	return c
}

// Len returns number of attached middlewares
func (c *WriteChain) Len() int {
	return len(c.writeMiddlewares)
}

// then builds the handler, first attached middleware runs first
func (c *WriteChain) then(final WriteHandler) WriteHandler {
	h := final
	for i := len(c.writeMiddlewares) - 1; i >= 0; i-- {
		h = c.writeMiddlewares[i].WriteMiddleware(h)
	}
	return h
}
