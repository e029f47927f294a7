package config

import (
	"fmt"
	"log"
	"os"

	"github.com/vnkhanh/invite-server/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// ConnectDB opens the PostgreSQL connection and migrates the schema.
func ConnectDB() {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		host, user, password, dbName, port)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	DB = db
	log.Println("Connected to PostgreSQL & migrated successfully")
}

// Migrate brings the schema up to date. Installations that predate the
// expiry column on invites get it added here before AutoMigrate runs, so
// the upgrade path matches fresh installs.
func Migrate(db *gorm.DB) error {
	m := db.Migrator()
	if m.HasTable(&models.Invite{}) && !m.HasColumn(&models.Invite{}, "expiry") {
		if err := m.AddColumn(&models.Invite{}, "Expiry"); err != nil {
			return err
		}
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Invite{},
		&models.InviteGroup{},
		&models.GroupMembership{},
		&models.RenewalEvent{},
		&models.ExportJob{},
	)
}
