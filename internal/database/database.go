package database

import (
	"log"
	"strings"

	"deudasacero/internal/domain"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	// Registers the pure-Go "sqlite" driver used for local development and tests.
	_ "modernc.org/sqlite"
)

func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Println("Using SQLite for local development:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

// Migrate runs AutoMigrate for every aggregate, children after parents.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Expediente{},
		&domain.Deuda{},
		&domain.Documento{},
		&domain.ChecklistItem{},
		&domain.Mensaje{},
		&domain.Facturacion{},
		&domain.Pago{},
		&domain.Factura{},
		&domain.Firma{},
		&domain.AuditLog{},
	)
}
