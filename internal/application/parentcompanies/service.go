package parentcompanies

import (
	"context"
	"errors"
	"strings"

	"clientdir-backend/internal/application/identifier"
	"clientdir-backend/internal/domain"
	"clientdir-backend/internal/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service manages parent company records for the association picker.
type Service struct {
	DB *gorm.DB
}

// CreateInput carries the parent company form fields.
type CreateInput struct {
	DisplayName    string     `json:"display_name"`
	RegisteredName string     `json:"registered_name"`
	CompanyCode    string     `json:"company_code"`
	ParentID       *uuid.UUID `json:"parent_id"`

	AddressLine1 *string `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	Country      *string `json:"country"`
	PostalCode   *string `json:"postal_code"`

	RegistrationNumber *string `json:"registration_number"`
	TaxNumber          *string `json:"tax_number"`

	BankName        *string `json:"bank_name"`
	BankAccountNo   *string `json:"bank_account_no"`
	IFSCCode        *string `json:"ifsc_code"`
	BeneficiaryName *string `json:"beneficiary_name"`
	BranchName      *string `json:"branch_name"`

	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Website *string `json:"website"`
	LogoURL *string `json:"logo_url"`
}

// List returns active parent companies ordered by display name.
func (s *Service) List(ctx context.Context) ([]domain.ParentCompany, error) {
	var companies []domain.ParentCompany
	err := s.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_name ASC").
		Find(&companies).Error
	if err != nil {
		return nil, apperr.Dependency("parent company list", err)
	}
	return companies, nil
}

// Get returns one parent company by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.ParentCompany, error) {
	var company domain.ParentCompany
	err := s.DB.WithContext(ctx).Where("parent_company_id = ?", id).First(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("parent company not found")
	}
	if err != nil {
		return nil, apperr.Dependency("parent company read", err)
	}
	return &company, nil
}

// Create persists a parent company; company_code falls back to the same
// three-letter derivation as client codes.
func (s *Service) Create(ctx context.Context, in CreateInput, actorID *uuid.UUID) (*domain.ParentCompany, error) {
	if strings.TrimSpace(in.DisplayName) == "" {
		return nil, apperr.Validationf("display name is required")
	}
	if strings.TrimSpace(in.RegisteredName) == "" {
		return nil, apperr.Validationf("registered name is required")
	}
	// company_code column is varchar(10)
	if code := strings.TrimSpace(in.CompanyCode); len([]rune(code)) > 10 {
		return nil, apperr.Validationf("company code must be at most 10 characters")
	}
	if in.ParentID != nil {
		if _, err := s.Get(ctx, *in.ParentID); err != nil {
			return nil, err
		}
	}

	company := &domain.ParentCompany{
		DisplayName:        strings.TrimSpace(in.DisplayName),
		RegisteredName:     strings.TrimSpace(in.RegisteredName),
		CompanyCode:        identifier.DeriveClientCode(in.DisplayName, in.CompanyCode),
		ParentID:           in.ParentID,
		IsActive:           true,
		AddressLine1:       in.AddressLine1,
		AddressLine2:       in.AddressLine2,
		City:               in.City,
		State:              in.State,
		Country:            in.Country,
		PostalCode:         in.PostalCode,
		RegistrationNumber: in.RegistrationNumber,
		TaxNumber:          in.TaxNumber,
		BankName:           in.BankName,
		BankAccountNo:      in.BankAccountNo,
		IFSCCode:           in.IFSCCode,
		BeneficiaryName:    in.BeneficiaryName,
		BranchName:         in.BranchName,
		Email:              in.Email,
		Phone:              in.Phone,
		Website:            in.Website,
		LogoURL:            in.LogoURL,
		CreatedBy:          actorID,
		UpdatedBy:          actorID,
	}
	if err := s.DB.WithContext(ctx).Create(company).Error; err != nil {
		return nil, apperr.Dependency("parent company create", err)
	}
	return company, nil
}
