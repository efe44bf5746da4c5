// Package token issues and checks login sessions and carries them over
// gRPC calls.
package token

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/S0me0neR0man/homebox/internal/stashdb"
)

const bearerPrefix = "Bearer "

var ErrMalformedToken = errors.New("malformed session token")

// Gate session state machine: a token is valid while its key exists.
// Tokens do not expire, they live until revoked.
type Gate struct {
	stash *stashdb.Stash
	sugar *zap.SugaredLogger
}

func NewGate(stash *stashdb.Stash, logger *zap.Logger) *Gate {
	return &Gate{
		stash: stash,
		sugar: logger.Sugar(),
	}
}

// Issue stores a fresh token, handing it to the client is the caller's job
func (g *Gate) Issue() (uuid.UUID, error) {
	token := g.stash.NewId()
	if err := g.stash.Sessions.Put(token); err != nil {
		return uuid.Nil, fmt.Errorf("gate.Issue: %w", err)
	}
	g.sugar.Infow("session issued", "session", short(token))
	return token, nil
}

// Verify reports whether the token is present
func (g *Gate) Verify(token uuid.UUID) (bool, error) {
	ok, err := g.stash.Sessions.Has(token)
	if err != nil {
		return false, fmt.Errorf("gate.Verify: %w", err)
	}
	return ok, nil
}

// Revoke is idempotent
func (g *Gate) Revoke(token uuid.UUID) error {
	if err := g.stash.Sessions.Delete(token); err != nil {
		return fmt.Errorf("gate.Revoke: %w", err)
	}
	g.sugar.Infow("session revoked", "session", short(token))
	return nil
}

// RevokeAll drops every session and returns how many there were
func (g *Gate) RevokeAll() (int, error) {
	const msg = "gate.RevokeAll:"
	tokens, err := g.stash.Sessions.List()
	if err != nil {
		return 0, fmt.Errorf("%s %w", msg, err)
	}
	for _, t := range tokens {
		if err := g.stash.Sessions.Delete(t); err != nil {
			return 0, fmt.Errorf("%s %w", msg, err)
		}
	}
	g.sugar.Infow("all sessions revoked", "count", len(tokens))
	return len(tokens), nil
}

// Bearer formats an authorization header value
func Bearer(token uuid.UUID) string {
	return bearerPrefix + token.String()
}

// ParseBearer extracts the token from an authorization header value
func ParseBearer(value string) (uuid.UUID, error) {
	raw, ok := strings.CutPrefix(value, bearerPrefix)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: missing %q prefix", ErrMalformedToken, strings.TrimSpace(bearerPrefix))
	}
	token, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return token, nil
}

// short keeps full tokens out of the logs
func short(token uuid.UUID) string {
	return token.String()[:8]
}
