package token

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Tokens gRPC per-call credentials carrying the session token obtained
// from Login. Until Set is called no metadata is attached.
type Tokens struct {
	mu            sync.Mutex
	tokenMetadata map[string]string
}

func (t *Tokens) Set(token uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tokenMetadata = map[string]string{"authorization": Bearer(token)}
}

func (t *Tokens) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tokenMetadata = nil
}

func (t *Tokens) GetRequestMetadata(_ context.Context, _ ...string) (map[string]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	md := make(map[string]string, len(t.tokenMetadata))
	for k, v := range t.tokenMetadata {
		md[k] = v
	}
	return md, nil
}

// RequireTransportSecurity homebox runs on a trusted LAN without TLS
func (t *Tokens) RequireTransportSecurity() bool {
	return false
}
