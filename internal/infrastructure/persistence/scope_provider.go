package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/structura/backend/internal/domain/shared"
)

// GormScopeProvider enumerates the tenant and company scopes the scheduled
// rebuilds should cover. A scope is active when it owns at least one active
// cash box; tenants with nothing but deactivated boxes are skipped.
type GormScopeProvider struct {
	db *gorm.DB
}

// NewGormScopeProvider creates a new GormScopeProvider
func NewGormScopeProvider(db *gorm.DB) *GormScopeProvider {
	return &GormScopeProvider{db: db}
}

// ListActiveScopes returns every distinct scope with an active cash box
func (p *GormScopeProvider) ListActiveScopes(ctx context.Context) ([]shared.Scope, error) {
	var rows []struct {
		TenantID  uuid.UUID
		CompanyID uuid.UUID
	}
	err := p.db.WithContext(ctx).
		Table("cash_boxes").
		Distinct("tenant_id", "company_id").
		Where("is_active = ?", true).
		Order("tenant_id, company_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	scopes := make([]shared.Scope, 0, len(rows))
	for _, r := range rows {
		scopes = append(scopes, shared.NewScope(r.TenantID, r.CompanyID))
	}
	return scopes, nil
}
