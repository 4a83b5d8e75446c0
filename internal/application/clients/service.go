package clients

import (
	"context"
	"errors"
	"strings"

	"clientdir-backend/internal/application/associations"
	"clientdir-backend/internal/application/directory"
	"clientdir-backend/internal/application/export"
	"clientdir-backend/internal/application/identifier"
	"clientdir-backend/internal/domain"
	"clientdir-backend/internal/pkg/apperr"
	"clientdir-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// maxHierarchyDepth bounds the parent-pointer walk on write. A chain deeper
// than this is treated as a cycle.
const maxHierarchyDepth = 32

// Service runs the client account save pipeline: validation, identifier
// allocation, the account write, then the association write.
type Service struct {
	DB           *gorm.DB
	Associations *associations.Service
	Cache        *directory.Cache
}

// SaveInput carries the client form fields. ParentCompanyID is required on
// every save; the zero values of LocationType/RelationshipType default to
// BRANCH/PROSPECT.
type SaveInput struct {
	DisplayName      string `json:"display_name"`
	RegisteredName   string `json:"registered_name"`
	ClientCode       string `json:"client_code"`
	LocationType     string `json:"location_type"`
	RelationshipType string `json:"relationship_type"`
	IsClient         bool   `json:"is_client"`
	IsActive         *bool  `json:"is_active"`

	ParentClientAccountID *uuid.UUID `json:"parent_client_account_id"`
	HeadquartersID        *uuid.UUID `json:"headquarters_id"`
	IndustryID            *uuid.UUID `json:"industry_id"`
	EntityTypeID          *uuid.UUID `json:"entity_type_id"`
	ParentCompanyID       *uuid.UUID `json:"parent_company_id"`

	AddressLine1 *string `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	Country      *string `json:"country"`
	PostalCode   *string `json:"postal_code"`

	GSTIN              *string `json:"gstin"`
	TAN                *string `json:"tan"`
	ICN                *string `json:"icn"`
	RegistrationNumber *string `json:"registration_number"`

	Website     *string        `json:"website"`
	LinkedIn    *string        `json:"linkedin"`
	ContactInfo datatypes.JSON `json:"contact_info"`
	LogoURL     *string        `json:"logo_url"`
}

// ClientWithParent is the read shape: the account plus its associated parent
// company id (nil when no association is recorded).
type ClientWithParent struct {
	domain.ClientAccount
	ParentCompanyID *uuid.UUID `json:"parent_company_id"`
}

func (in *SaveInput) validate() error {
	if strings.TrimSpace(in.DisplayName) == "" {
		return apperr.Validationf("display name is required")
	}
	if strings.TrimSpace(in.RegisteredName) == "" {
		return apperr.Validationf("registered name is required")
	}
	// client_code column is varchar(10)
	if code := strings.TrimSpace(in.ClientCode); len([]rune(code)) > 10 {
		return apperr.Validationf("client code must be at most 10 characters")
	}
	if in.ParentCompanyID == nil || *in.ParentCompanyID == uuid.Nil {
		return apperr.Validationf("parent company required")
	}
	if in.LocationType != "" && !validation.IsValidLocationType(in.LocationType) {
		return apperr.Validationf("invalid location type %q", in.LocationType)
	}
	if in.RelationshipType != "" && !validation.IsValidRelationshipType(in.RelationshipType) {
		return apperr.Validationf("invalid relationship type %q", in.RelationshipType)
	}
	if in.Website != nil && *in.Website != "" && !validation.IsValidURL(*in.Website) {
		return apperr.Validationf("website must be a valid URL")
	}
	if in.LinkedIn != nil && *in.LinkedIn != "" && !validation.IsValidURL(*in.LinkedIn) {
		return apperr.Validationf("linkedin must be a valid URL")
	}
	return nil
}

// slugLookup answers "is this slug taken" against the client_accounts table,
// optionally excluding one record (the one being renamed).
type slugLookup struct {
	db      *gorm.DB
	exclude uuid.UUID
}

func (l slugLookup) Taken(ctx context.Context, slug string) (bool, error) {
	q := l.db.WithContext(ctx).Model(&domain.ClientAccount{}).Where("slug = ?", slug)
	if l.exclude != uuid.Nil {
		q = q.Where("client_account_id <> ?", l.exclude)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// isSlugConflict reports whether err is the slug unique index firing: a
// concurrent writer took the slug between the availability check and the
// insert.
func isSlugConflict(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// writeWithSlugRetry runs the row write; when the slug unique index fires it
// reallocates once with a fresh suffix and retries. Losing the race twice
// surfaces as a ConflictError.
func (s *Service) writeWithSlugRetry(ctx context.Context, account *domain.ClientAccount, exclude uuid.UUID, op string, write func() error) error {
	err := write()
	if err == nil {
		return nil
	}
	if !isSlugConflict(err) {
		return apperr.Dependency(op, err)
	}
	log.Warn().Str("slug", account.Slug).Msg("slug taken by concurrent writer, reallocating")
	slug, allocErr := identifier.AllocateUniqueSlug(ctx, account.DisplayName, slugLookup{db: s.DB, exclude: exclude}, "")
	if allocErr != nil {
		return allocErr
	}
	account.Slug = slug
	if err := write(); err != nil {
		if isSlugConflict(err) {
			return &apperr.ConflictError{Msg: "slug allocation lost two concurrent races"}
		}
		return apperr.Dependency(op, err)
	}
	return nil
}

// Create validates, allocates identifiers and persists the account, then the
// association. The store has no cross-table transaction (table-API semantics),
// so an association failure after the account write surfaces as a
// PartialFailure carrying the persisted account id.
func (s *Service) Create(ctx context.Context, in SaveInput, actorID *uuid.UUID) (*domain.ClientAccount, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := s.checkHierarchy(ctx, uuid.Nil, in.ParentClientAccountID, in.HeadquartersID); err != nil {
		return nil, err
	}

	slug, err := identifier.AllocateUniqueSlug(ctx, in.DisplayName, slugLookup{db: s.DB}, "")
	if err != nil {
		return nil, err
	}

	account := &domain.ClientAccount{
		DisplayName:           strings.TrimSpace(in.DisplayName),
		RegisteredName:        strings.TrimSpace(in.RegisteredName),
		ClientCode:            identifier.DeriveClientCode(in.DisplayName, in.ClientCode),
		Slug:                  slug,
		LocationType:          defaultString(in.LocationType, "BRANCH"),
		RelationshipType:      defaultString(in.RelationshipType, "PROSPECT"),
		IsClient:              in.IsClient,
		IsActive:              in.IsActive == nil || *in.IsActive,
		ParentClientAccountID: in.ParentClientAccountID,
		HeadquartersID:        in.HeadquartersID,
		IndustryID:            in.IndustryID,
		EntityTypeID:          in.EntityTypeID,
		AddressLine1:          in.AddressLine1,
		AddressLine2:          in.AddressLine2,
		City:                  in.City,
		State:                 in.State,
		Country:               in.Country,
		PostalCode:            in.PostalCode,
		GSTIN:                 in.GSTIN,
		TAN:                   in.TAN,
		ICN:                   in.ICN,
		RegistrationNumber:    in.RegistrationNumber,
		Website:               in.Website,
		LinkedIn:              in.LinkedIn,
		ContactInfo:           in.ContactInfo,
		LogoURL:               in.LogoURL,
		CreatedBy:             actorID,
		UpdatedBy:             actorID,
	}

	if err := s.writeWithSlugRetry(ctx, account, uuid.Nil, "client create", func() error {
		return s.DB.WithContext(ctx).Create(account).Error
	}); err != nil {
		return nil, err
	}

	if err := s.Associations.Set(ctx, account.ClientAccountID, in.ParentCompanyID); err != nil {
		log.Error().Err(err).Str("client_account_id", account.ClientAccountID.String()).
			Msg("account persisted but association write failed")
		return account, &apperr.PartialFailure{ClientAccountID: account.ClientAccountID, Err: err}
	}

	s.bump(ctx)
	return account, nil
}

// Update applies the form to an existing account. The slug is reallocated
// only when the derived slug actually changes (stable on no-op renames).
func (s *Service) Update(ctx context.Context, id uuid.UUID, in SaveInput, actorID *uuid.UUID) (*domain.ClientAccount, error) {
	var account domain.ClientAccount
	if err := s.DB.WithContext(ctx).Where("client_account_id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("client account not found")
		}
		return nil, apperr.Dependency("client read", err)
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := s.checkHierarchy(ctx, id, in.ParentClientAccountID, in.HeadquartersID); err != nil {
		return nil, err
	}

	slug, err := identifier.AllocateUniqueSlug(ctx, in.DisplayName, slugLookup{db: s.DB, exclude: id}, account.Slug)
	if err != nil {
		return nil, err
	}

	account.DisplayName = strings.TrimSpace(in.DisplayName)
	account.RegisteredName = strings.TrimSpace(in.RegisteredName)
	account.ClientCode = identifier.DeriveClientCode(in.DisplayName, in.ClientCode)
	account.Slug = slug
	account.LocationType = defaultString(in.LocationType, account.LocationType)
	account.RelationshipType = defaultString(in.RelationshipType, account.RelationshipType)
	account.IsClient = in.IsClient
	if in.IsActive != nil {
		account.IsActive = *in.IsActive
	}
	account.ParentClientAccountID = in.ParentClientAccountID
	account.HeadquartersID = in.HeadquartersID
	account.IndustryID = in.IndustryID
	account.EntityTypeID = in.EntityTypeID
	account.AddressLine1 = in.AddressLine1
	account.AddressLine2 = in.AddressLine2
	account.City = in.City
	account.State = in.State
	account.Country = in.Country
	account.PostalCode = in.PostalCode
	account.GSTIN = in.GSTIN
	account.TAN = in.TAN
	account.ICN = in.ICN
	account.RegistrationNumber = in.RegistrationNumber
	account.Website = in.Website
	account.LinkedIn = in.LinkedIn
	account.ContactInfo = in.ContactInfo
	account.LogoURL = in.LogoURL
	account.UpdatedBy = actorID

	if err := s.writeWithSlugRetry(ctx, &account, id, "client update", func() error {
		return s.DB.WithContext(ctx).Save(&account).Error
	}); err != nil {
		return nil, err
	}

	if err := s.Associations.Set(ctx, account.ClientAccountID, in.ParentCompanyID); err != nil {
		log.Error().Err(err).Str("client_account_id", account.ClientAccountID.String()).
			Msg("account updated but association write failed")
		return &account, &apperr.PartialFailure{ClientAccountID: account.ClientAccountID, Err: err}
	}

	s.bump(ctx)
	return &account, nil
}

// Get returns the account with its associated parent company id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ClientWithParent, error) {
	var account domain.ClientAccount
	if err := s.DB.WithContext(ctx).Where("client_account_id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("client account not found")
		}
		return nil, apperr.Dependency("client read", err)
	}
	parentID, err := s.Associations.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ClientWithParent{ClientAccount: account, ParentCompanyID: parentID}, nil
}

// Deactivate soft-deletes the account. Records are never hard-deleted.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error {
	result := s.DB.WithContext(ctx).Model(&domain.ClientAccount{}).
		Where("client_account_id = ?", id).
		Updates(map[string]interface{}{"is_active": false, "updated_by": actorID})
	if result.Error != nil {
		return apperr.Dependency("client deactivate", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("client account not found")
	}
	s.bump(ctx)
	return nil
}

// RetryAssociation finishes a partially-failed save: it re-attempts only the
// association write for an already-persisted account.
func (s *Service) RetryAssociation(ctx context.Context, accountID uuid.UUID, parentCompanyID *uuid.UUID) error {
	if parentCompanyID == nil || *parentCompanyID == uuid.Nil {
		return apperr.Validationf("parent company required")
	}
	var count int64
	if err := s.DB.WithContext(ctx).Model(&domain.ClientAccount{}).
		Where("client_account_id = ?", accountID).Count(&count).Error; err != nil {
		return apperr.Dependency("client read", err)
	}
	if count == 0 {
		return apperr.NotFound("client account not found")
	}
	if err := s.Associations.Set(ctx, accountID, parentCompanyID); err != nil {
		return err
	}
	s.bump(ctx)
	return nil
}

// ExportRows loads the flattened list for the Excel export: accounts joined
// with industry, entity type and the associated parent company name.
func (s *Service) ExportRows(ctx context.Context) ([]export.Row, error) {
	var rows []export.Row
	err := s.DB.WithContext(ctx).Model(&domain.ClientAccount{}).
		Select(`client_accounts.display_name, client_accounts.registered_name,
			client_accounts.client_code, client_accounts.slug,
			client_accounts.location_type, client_accounts.relationship_type,
			client_accounts.is_active, client_accounts.city, client_accounts.state,
			client_accounts.country, client_accounts.website, client_accounts.created_at,
			industries.industry_name AS industry_name,
			entity_types.type_name AS entity_type_name,
			parent_companies.display_name AS parent_company_name`).
		Joins("LEFT JOIN industries ON industries.industry_id = client_accounts.industry_id").
		Joins("LEFT JOIN entity_types ON entity_types.entity_type_id = client_accounts.entity_type_id").
		Joins("LEFT JOIN parent_client_association ON parent_client_association.client_account_id = client_accounts.client_account_id").
		Joins("LEFT JOIN parent_companies ON parent_companies.parent_company_id = parent_client_association.parent_company_id").
		Order("client_accounts.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Dependency("export query", err)
	}
	return rows, nil
}

// checkHierarchy walks both self-reference chains from the proposed parents.
// Reaching selfID or exceeding maxHierarchyDepth rejects the write; the
// original store never enforced this and accumulated unverifiable chains.
func (s *Service) checkHierarchy(ctx context.Context, selfID uuid.UUID, parents ...*uuid.UUID) error {
	for _, start := range parents {
		if start == nil {
			continue
		}
		if selfID != uuid.Nil && *start == selfID {
			return apperr.Validationf("client account cannot reference itself")
		}
		current := *start
		for depth := 0; ; depth++ {
			if depth >= maxHierarchyDepth {
				return apperr.Validationf("client hierarchy exceeds depth %d (possible cycle)", maxHierarchyDepth)
			}
			var next struct {
				ParentClientAccountID *uuid.UUID
			}
			err := s.DB.WithContext(ctx).Model(&domain.ClientAccount{}).
				Select("parent_client_account_id").
				Where("client_account_id = ?", current).
				Scan(&next).Error
			if err != nil {
				return apperr.Dependency("hierarchy walk", err)
			}
			if next.ParentClientAccountID == nil {
				break
			}
			if selfID != uuid.Nil && *next.ParentClientAccountID == selfID {
				return apperr.Validationf("client hierarchy would form a cycle")
			}
			current = *next.ParentClientAccountID
		}
	}
	return nil
}

// bump invalidates the directory cache and notifies other processes. A failed
// bump only risks staleness, not correctness, so it is logged and swallowed.
func (s *Service) bump(ctx context.Context) {
	if err := s.Cache.Bump(ctx); err != nil {
		log.Warn().Err(err).Msg("directory cache bump failed")
	}
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
