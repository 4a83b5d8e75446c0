package associations

import (
	"context"
	"errors"

	"clientdir-backend/internal/domain"
	"clientdir-backend/internal/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service is the single source of truth for which parent company sponsors a
// client account, under the single-active-association policy.
type Service struct {
	DB *gorm.DB
}

// Get returns the associated parent company id, or nil if none is recorded.
func (s *Service) Get(ctx context.Context, clientAccountID uuid.UUID) (*uuid.UUID, error) {
	var assoc domain.ParentCompanyAssociation
	err := s.DB.WithContext(ctx).
		Where("client_account_id = ?", clientAccountID).
		First(&assoc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Dependency("association read", err)
	}
	id := assoc.ParentCompanyID
	return &id, nil
}

// Set replaces the association for clientAccountID. A nil parentCompanyID
// deletes any existing row (deleting zero rows is not an error). A non-nil id
// upserts on the client_account_id unique index, atomically replacing any
// prior association.
func (s *Service) Set(ctx context.Context, clientAccountID uuid.UUID, parentCompanyID *uuid.UUID) error {
	if parentCompanyID == nil {
		err := s.DB.WithContext(ctx).
			Where("client_account_id = ?", clientAccountID).
			Delete(&domain.ParentCompanyAssociation{}).Error
		if err != nil {
			return apperr.Dependency("association delete", err)
		}
		return nil
	}

	assoc := domain.ParentCompanyAssociation{
		ClientAccountID: clientAccountID,
		ParentCompanyID: *parentCompanyID,
	}
	err := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "client_account_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"parent_company_id", "updated_at"}),
		}).
		Create(&assoc).Error
	if err != nil {
		return apperr.Dependency("association upsert", err)
	}
	return nil
}
