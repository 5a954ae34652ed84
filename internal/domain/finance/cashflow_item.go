package finance

import (
	"time"

	"github.com/google/uuid"

	"github.com/structura/backend/internal/domain/shared"
)

// Section classifies cash activity per standard cashflow-statement structure
type Section string

const (
	SectionOperating Section = "OPERATING"
	SectionInvesting Section = "INVESTING"
	SectionFinancing Section = "FINANCING"
)

// IsValid checks if the section is valid
func (s Section) IsValid() bool {
	switch s {
	case SectionOperating, SectionInvesting, SectionFinancing:
		return true
	}
	return false
}

// String returns the string representation of Section
func (s Section) String() string {
	return string(s)
}

// Direction classifies whether an activity is inflow or outflow
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// IsValid checks if the direction is valid
func (d Direction) IsValid() bool {
	return d == DirectionIn || d == DirectionOut
}

// String returns the string representation of Direction
func (d Direction) String() string {
	return string(d)
}

// CashflowItem is a classification leaf (e.g. "Sales", "Payroll") carrying a
// section and direction, used to bucket transactions for reporting.
type CashflowItem struct {
	shared.CompanyAggregateRoot
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	Section   Section    `json:"section"`
	Direction Direction  `json:"direction"`
	ParentID  *uuid.UUID `json:"parent_id"`
	IsActive  bool       `json:"is_active"`
}

// NewCashflowItem creates a new cashflow classification item
func NewCashflowItem(scope shared.Scope, code, name string, section Section, direction Direction) (*CashflowItem, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Cashflow item code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Cashflow item code cannot exceed 50 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Cashflow item name cannot be empty")
	}
	if !section.IsValid() {
		return nil, shared.NewDomainError("INVALID_SECTION", "Section must be OPERATING, INVESTING or FINANCING")
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Direction must be IN or OUT")
	}

	return &CashflowItem{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(scope),
		Code:                 code,
		Name:                 name,
		Section:              section,
		Direction:            direction,
		IsActive:             true,
	}, nil
}

// SetParent nests the item under another classification node
func (ci *CashflowItem) SetParent(parentID uuid.UUID) error {
	if parentID == ci.ID {
		return shared.NewDomainError("INVALID_PARENT", "Cashflow item cannot be its own parent")
	}
	ci.ParentID = &parentID
	ci.UpdatedAt = time.Now()
	ci.IncrementVersion()
	return nil
}

// Deactivate hides the item from new classifications
func (ci *CashflowItem) Deactivate() {
	ci.IsActive = false
	ci.UpdatedAt = time.Now()
	ci.IncrementVersion()
}
