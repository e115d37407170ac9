package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PolicyRecord is a journal entry for every generated policy. Text fields hold
// the normalized values exactly as they were printed.
type PolicyRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Holder      string    `gorm:"type:text;not null" json:"holder"`
	Address     string    `gorm:"type:text;not null" json:"address"`
	StartDate   time.Time `gorm:"type:date;not null;index" json:"start_date"`
	EndDate     time.Time `gorm:"type:date;not null" json:"end_date"`
	PlateNumber string    `gorm:"type:varchar(32);not null;index" json:"plate_number"`
	VehicleType string    `gorm:"type:varchar(4);not null" json:"vehicle_type"`
	BrandModel  string    `gorm:"type:text;not null" json:"brand_model"`
	Filename    string    `gorm:"type:varchar(64);not null" json:"filename"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PolicyRecord) TableName() string {
	return "policy_records"
}

func (p *PolicyRecord) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
