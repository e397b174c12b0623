package postgres

import (
	"fmt"

	"delivery/internal/adapters/out/postgres/courierrepo"
	"delivery/internal/adapters/out/postgres/routerepo"

	"gorm.io/gorm"
)

// Migrate creates or updates the couriers and routes tables and their indexes.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&courierrepo.CourierDTO{}, &routerepo.RouteDTO{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
