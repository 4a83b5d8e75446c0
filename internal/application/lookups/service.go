package lookups

import (
	"context"

	"clientdir-backend/internal/domain"
	"clientdir-backend/internal/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service serves the lookup tables feeding the client form pickers.
type Service struct {
	DB *gorm.DB
}

// Option is a value/label pair for a picker.
type Option struct {
	Value uuid.UUID `json:"value"`
	Label string    `json:"label"`
}

func (s *Service) Industries(ctx context.Context) ([]Option, error) {
	var industries []domain.Industry
	if err := s.DB.WithContext(ctx).Order("industry_name ASC").Find(&industries).Error; err != nil {
		return nil, apperr.Dependency("industries list", err)
	}
	options := make([]Option, 0, len(industries))
	for _, i := range industries {
		options = append(options, Option{Value: i.IndustryID, Label: i.IndustryName})
	}
	return options, nil
}

func (s *Service) EntityTypes(ctx context.Context) ([]Option, error) {
	var types []domain.EntityType
	if err := s.DB.WithContext(ctx).Order("type_name ASC").Find(&types).Error; err != nil {
		return nil, apperr.Dependency("entity types list", err)
	}
	options := make([]Option, 0, len(types))
	for _, e := range types {
		options = append(options, Option{Value: e.EntityTypeID, Label: e.TypeName})
	}
	return options, nil
}

// Headquarters lists HQ accounts for the parent-account picker on the form.
func (s *Service) Headquarters(ctx context.Context) ([]Option, error) {
	var accounts []domain.ClientAccount
	err := s.DB.WithContext(ctx).
		Select("client_account_id, display_name").
		Where("location_type = ?", "HEADQUARTERS").
		Order("display_name ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, apperr.Dependency("headquarters list", err)
	}
	options := make([]Option, 0, len(accounts))
	for _, a := range accounts {
		options = append(options, Option{Value: a.ClientAccountID, Label: a.DisplayName})
	}
	return options, nil
}
