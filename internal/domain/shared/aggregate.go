package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// CompanyAggregateRoot extends BaseAggregateRoot with tenant and company scoping.
// Every ledger and reporting aggregate is owned by exactly one company within a tenant.
type CompanyAggregateRoot struct {
	BaseAggregateRoot
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CompanyID uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid;index"`
}

// NewCompanyAggregateRoot creates a new company-scoped aggregate root
func NewCompanyAggregateRoot(scope Scope) CompanyAggregateRoot {
	return CompanyAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		TenantID:          scope.TenantID,
		CompanyID:         scope.CompanyID,
	}
}

// SetCreatedBy sets the creator user ID
func (c *CompanyAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	c.CreatedBy = &userID
}

// Scope returns the tenant/company scope this aggregate belongs to
func (c *CompanyAggregateRoot) Scope() Scope {
	return Scope{TenantID: c.TenantID, CompanyID: c.CompanyID}
}

// Scope identifies the (tenant, company) pair every engine operation is bound to.
// It is passed explicitly on each call and never stored as mutable service state,
// so services stay safe under concurrent use from multiple callers.
type Scope struct {
	TenantID  uuid.UUID
	CompanyID uuid.UUID
}

// NewScope creates a scope from tenant and company IDs
func NewScope(tenantID, companyID uuid.UUID) Scope {
	return Scope{TenantID: tenantID, CompanyID: companyID}
}

// IsZero reports whether either component of the scope is missing
func (s Scope) IsZero() bool {
	return s.TenantID == uuid.Nil || s.CompanyID == uuid.Nil
}

// Validate returns a domain error if the scope is incomplete
func (s Scope) Validate() error {
	if s.TenantID == uuid.Nil {
		return NewDomainError("INVALID_SCOPE", "Tenant ID cannot be empty")
	}
	if s.CompanyID == uuid.Nil {
		return NewDomainError("INVALID_SCOPE", "Company ID cannot be empty")
	}
	return nil
}
