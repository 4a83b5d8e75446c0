package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ClientAccount is a company record in the client directory. Hierarchy fields
// (parent_client_account_id, headquarters_id) are id back-references forming a
// forest; rows are deactivated, never hard-deleted.
type ClientAccount struct {
	ClientAccountID uuid.UUID `gorm:"column:client_account_id;type:uuid;primaryKey" json:"client_account_id"`

	DisplayName    string  `gorm:"column:display_name;not null" json:"display_name"`
	RegisteredName string  `gorm:"column:registered_name;not null" json:"registered_name"`
	ClientCode     string  `gorm:"column:client_code;type:varchar(10)" json:"client_code"`
	Slug           string  `gorm:"column:slug;uniqueIndex" json:"slug"`

	LocationType     string `gorm:"column:location_type;type:varchar(20);default:BRANCH" json:"location_type"`
	RelationshipType string `gorm:"column:relationship_type;type:varchar(20);default:PROSPECT" json:"relationship_type"`
	IsClient         bool   `gorm:"column:is_client" json:"is_client"`
	IsActive         bool   `gorm:"column:is_active;default:true" json:"is_active"`

	ParentClientAccountID *uuid.UUID `gorm:"column:parent_client_account_id;type:uuid" json:"parent_client_account_id"`
	HeadquartersID        *uuid.UUID `gorm:"column:headquarters_id;type:uuid" json:"headquarters_id"`
	IndustryID            *uuid.UUID `gorm:"column:industry_id;type:uuid" json:"industry_id"`
	EntityTypeID          *uuid.UUID `gorm:"column:entity_type_id;type:uuid" json:"entity_type_id"`

	AddressLine1 *string `gorm:"column:address_line1" json:"address_line1"`
	AddressLine2 *string `gorm:"column:address_line2" json:"address_line2"`
	City         *string `gorm:"column:city" json:"city"`
	State        *string `gorm:"column:state" json:"state"`
	Country      *string `gorm:"column:country" json:"country"`
	PostalCode   *string `gorm:"column:postal_code" json:"postal_code"`

	GSTIN              *string `gorm:"column:gstin" json:"gstin"`
	TAN                *string `gorm:"column:tan" json:"tan"`
	ICN                *string `gorm:"column:icn" json:"icn"`
	RegistrationNumber *string `gorm:"column:registration_number" json:"registration_number"`

	Website     *string        `gorm:"column:website" json:"website"`
	LinkedIn    *string        `gorm:"column:linkedin" json:"linkedin"`
	ContactInfo datatypes.JSON `gorm:"column:contact_info" json:"contact_info"`
	LogoURL     *string        `gorm:"column:logo_url" json:"logo_url"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	CreatedBy *uuid.UUID `gorm:"column:created_by;type:uuid" json:"created_by"`
	UpdatedBy *uuid.UUID `gorm:"column:updated_by;type:uuid" json:"updated_by"`
}

func (ClientAccount) TableName() string {
	return "client_accounts"
}

// BeforeCreate ensures client_account_id is set for DBs without default uuid.
func (a *ClientAccount) BeforeCreate(tx *gorm.DB) error {
	if a.ClientAccountID == uuid.Nil {
		a.ClientAccountID = uuid.New()
	}
	return nil
}
