package Models

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	var err error
	// DB_DSN switches to MySQL for deployments, local default is sqlite
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	} else {
		DB, err = gorm.Open(sqlite.Open("database.db"), &gorm.Config{})
	}
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}

	if err := SeedDefaultManager(DB); err != nil {
		log.Println("Failed to seed default manager:", err)
	}
}

// Migrate runs AutoMigrate in dependency order so foreign keys resolve.
func Migrate(db *gorm.DB) error {
	// 1. Base entities with no dependencies
	if err := db.AutoMigrate(
		&User{},
		&Deli{},
		&ChecklistTemplate{},
		&Alert{},
	); err != nil {
		return err
	}

	// 2. Entities with simple foreign key relationships
	if err := db.AutoMigrate(
		&TemplateField{},
		&DeliJoinRequest{},
		&ChecklistDefinition{},
		&ChecklistRowItem{},
	); err != nil {
		return err
	}

	// 3. Generated records, depend on definitions and their row items
	return db.AutoMigrate(
		&ChecklistInstance{},
		&InstanceRowLink{},
		&ResponseSession{},
		&Answer{},
		&EvidencePhoto{},
	)
}

// SeedDefaultManager creates the initial manager account on a fresh
// database so the first login is possible.
func SeedDefaultManager(db *gorm.DB) error {
	var count int64
	if err := db.Model(&User{}).Where("permission = ?", PermissionManager).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	passwordByte, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	manager := User{
		Name:       "Manager",
		Email:      email,
		Password:   passwordByte,
		Permission: PermissionManager,
		IsActive:   true,
	}
	return db.Create(&manager).Error
}
