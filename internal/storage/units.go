package storage

import (
	"go.uber.org/zap"
)

// LogUnit logs every batch at debug level
type LogUnit struct {
	sugar *zap.SugaredLogger
}

func NewLogUnit(logger *zap.Logger) *LogUnit {
	return &LogUnit{sugar: logger.Sugar()}
}

func (l *LogUnit) String() string {
	return "LogUnit"
}

func (l *LogUnit) WriteMiddleware(next WriteHandler) WriteHandler {
	return WriteHandlerFunc(func(b *Batch) error {
		err := next.Write(b)
		for _, op := range b.Ops() {
			if op.Delete {
				l.sugar.Debugw("delete", "tag", op.Key.Tag(), "key", op.Key, "err", err)
			} else {
				l.sugar.Debugw("put", "tag", op.Key.Tag(), "key", op.Key, "size", len(op.Value), "err", err)
			}
		}
		return err
	})
}

// ReadOnlyUnit rejects every write
type ReadOnlyUnit struct {
}

func NewReadOnlyUnit() *ReadOnlyUnit {
	return &ReadOnlyUnit{}
}

func (r *ReadOnlyUnit) String() string {
	return "ReadOnlyUnit"
}

func (r *ReadOnlyUnit) WriteMiddleware(next WriteHandler) WriteHandler {
	return WriteHandlerFunc(func(b *Batch) error {
		if b.Len() == 0 {
			return next.Write(b)
		}
		return ErrReadOnly
	})
}
