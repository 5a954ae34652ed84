// Package testutil provides common test utilities for the ledger engine.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/structura/backend/internal/domain/shared"
)

// NewTestUUID returns a deterministic UUID derived from a seed string
func NewTestUUID(seed string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed))
}

// TestScope returns a deterministic tenant/company scope
func TestScope() shared.Scope {
	return shared.NewScope(NewTestUUID("tenant"), NewTestUUID("company"))
}

// ContextWithTimeout returns a context that is cancelled on test cleanup
func ContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}
