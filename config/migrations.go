package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
	"p9e.in/elinspect/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20260901_create_inspection_tables",
			Migrate: func(tx *gorm.DB) error {
				// Enum restrictions on order status and point type ride
				// along as check constraints from the model tags.
				return tx.AutoMigrate(
					&models.Client{},
					&models.InspectionOrder{},
					&models.Room{},
					&models.MeasurementPoint{},
					&models.MeasurementResult{},
					&models.VisualInspection{},
				)
			},
		},
		{
			ID: "20260901_add_protocol_snapshots",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.ProtocolSnapshot{})
			},
		},
	})
	return m.Migrate()
}
