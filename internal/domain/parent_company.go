package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ParentCompany is a sponsoring company a client account is associated with.
// parent_id points at another ParentCompany (corporate group hierarchy).
type ParentCompany struct {
	ParentCompanyID uuid.UUID `gorm:"column:parent_company_id;type:uuid;primaryKey" json:"parent_company_id"`

	DisplayName    string `gorm:"column:display_name;not null" json:"display_name"`
	RegisteredName string `gorm:"column:registered_name;not null" json:"registered_name"`
	CompanyCode    string `gorm:"column:company_code;type:varchar(10);not null" json:"company_code"`

	ParentID *uuid.UUID `gorm:"column:parent_id;type:uuid" json:"parent_id"`
	IsActive bool       `gorm:"column:is_active;default:true" json:"is_active"`

	AddressLine1 *string `gorm:"column:address_line1" json:"address_line1"`
	AddressLine2 *string `gorm:"column:address_line2" json:"address_line2"`
	City         *string `gorm:"column:city" json:"city"`
	State        *string `gorm:"column:state" json:"state"`
	Country      *string `gorm:"column:country" json:"country"`
	PostalCode   *string `gorm:"column:postal_code" json:"postal_code"`

	RegistrationNumber *string `gorm:"column:registration_number" json:"registration_number"`
	TaxNumber          *string `gorm:"column:tax_number" json:"tax_number"`

	BankName        *string `gorm:"column:bank_name" json:"bank_name"`
	BankAccountNo   *string `gorm:"column:bank_account_no" json:"bank_account_no"`
	IFSCCode        *string `gorm:"column:ifsc_code" json:"ifsc_code"`
	BeneficiaryName *string `gorm:"column:beneficiary_name" json:"beneficiary_name"`
	BranchName      *string `gorm:"column:branch_name" json:"branch_name"`

	Email   *string `gorm:"column:email" json:"email"`
	Phone   *string `gorm:"column:phone" json:"phone"`
	Website *string `gorm:"column:website" json:"website"`
	LogoURL *string `gorm:"column:logo_url" json:"logo_url"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	CreatedBy *uuid.UUID `gorm:"column:created_by;type:uuid" json:"created_by"`
	UpdatedBy *uuid.UUID `gorm:"column:updated_by;type:uuid" json:"updated_by"`
}

func (ParentCompany) TableName() string {
	return "parent_companies"
}

func (p *ParentCompany) BeforeCreate(tx *gorm.DB) error {
	if p.ParentCompanyID == uuid.Nil {
		p.ParentCompanyID = uuid.New()
	}
	return nil
}
