package domain

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Industry is a lookup row for the industry picker.
type Industry struct {
	IndustryID   uuid.UUID `gorm:"column:industry_id;type:uuid;primaryKey" json:"industry_id"`
	IndustryName string    `gorm:"column:industry_name;not null" json:"industry_name"`
}

func (Industry) TableName() string {
	return "industries"
}

func (i *Industry) BeforeCreate(tx *gorm.DB) error {
	if i.IndustryID == uuid.Nil {
		i.IndustryID = uuid.New()
	}
	return nil
}

// EntityType is a lookup row for the legal entity type picker.
type EntityType struct {
	EntityTypeID uuid.UUID `gorm:"column:entity_type_id;type:uuid;primaryKey" json:"entity_type_id"`
	TypeName     string    `gorm:"column:type_name;not null" json:"type_name"`
}

func (EntityType) TableName() string {
	return "entity_types"
}

func (e *EntityType) BeforeCreate(tx *gorm.DB) error {
	if e.EntityTypeID == uuid.Nil {
		e.EntityTypeID = uuid.New()
	}
	return nil
}
