package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ParentCompanyAssociation links a client account to its parent company.
// The unique index on client_account_id alone enforces single-parent
// cardinality: an upsert keyed on it atomically replaces any prior row.
type ParentCompanyAssociation struct {
	AssociationID   uuid.UUID `gorm:"column:association_id;type:uuid;primaryKey" json:"association_id"`
	ClientAccountID uuid.UUID `gorm:"column:client_account_id;type:uuid;not null;uniqueIndex" json:"client_account_id"`
	ParentCompanyID uuid.UUID `gorm:"column:parent_company_id;type:uuid;not null" json:"parent_company_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ParentCompanyAssociation) TableName() string {
	return "parent_client_association"
}

func (a *ParentCompanyAssociation) BeforeCreate(tx *gorm.DB) error {
	if a.AssociationID == uuid.Nil {
		a.AssociationID = uuid.New()
	}
	return nil
}
