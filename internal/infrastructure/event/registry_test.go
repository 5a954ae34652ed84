package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry_RegisterAndGet(t *testing.T) {
	registry := NewHandlerRegistry()

	txHandler := newRecordingHandler("TransactionPosted")
	periodHandler := newRecordingHandler("PeriodClosed", "PeriodReopened")
	registry.Register(txHandler, txHandler.EventTypes()...)
	registry.Register(periodHandler, periodHandler.EventTypes()...)

	assert.Len(t, registry.GetHandlers("TransactionPosted"), 1)
	assert.Len(t, registry.GetHandlers("PeriodClosed"), 1)
	assert.Len(t, registry.GetHandlers("PeriodReopened"), 1)
	assert.Empty(t, registry.GetHandlers("Unknown"))
}

func TestHandlerRegistry_WildcardReceivesEverything(t *testing.T) {
	registry := NewHandlerRegistry()

	audit := newRecordingHandler()
	specific := newRecordingHandler("TransactionPosted")
	registry.Register(audit)
	registry.Register(specific, "TransactionPosted")

	assert.Len(t, registry.GetHandlers("TransactionPosted"), 2)
	assert.Len(t, registry.GetHandlers("PeriodClosed"), 1)
}

func TestHandlerRegistry_WildcardTypeLiteral(t *testing.T) {
	registry := NewHandlerRegistry()

	audit := newRecordingHandler(WildcardEventType)
	registry.Register(audit, audit.EventTypes()...)

	assert.Len(t, registry.GetHandlers("TransactionPosted"), 1)
	assert.Len(t, registry.GetHandlers("PeriodClosed"), 1)
	assert.Empty(t, registry.handlers, "wildcard must not register under the literal key")
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	registry := NewHandlerRegistry()

	handler := newRecordingHandler("TransactionPosted", "TransferExecuted")
	registry.Register(handler, handler.EventTypes()...)
	registry.Unregister(handler)

	assert.Empty(t, registry.GetHandlers("TransactionPosted"))
	assert.Empty(t, registry.GetHandlers("TransferExecuted"))
}

func TestHandlerRegistry_GetAllHandlersDeduplicates(t *testing.T) {
	registry := NewHandlerRegistry()

	handler := newRecordingHandler("TransactionPosted", "PeriodClosed")
	registry.Register(handler, handler.EventTypes()...)

	assert.Len(t, registry.GetAllHandlers(), 1)
}
