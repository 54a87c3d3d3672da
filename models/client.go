package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is a customer the inspections are performed for.
// A client owns its inspection orders; deleting a client with existing
// orders is refused at the store level to protect historical data.
type Client struct {
	ID            string  `gorm:"size:36;primaryKey" json:"id"`
	Name          string  `gorm:"size:200;not null" json:"name"`
	Address       string  `gorm:"size:255;not null" json:"address"`
	ContactPerson *string `gorm:"size:200" json:"contactPerson,omitempty"`
	Phone         *string `gorm:"size:50" json:"phone,omitempty"`
	Email         *string `gorm:"size:200" json:"email,omitempty"`
	Notes         *string `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	// Relationships
	Orders []InspectionOrder `gorm:"foreignKey:ClientID" json:"-"`
}

// BeforeCreate hook for Client
func (c *Client) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return
}
