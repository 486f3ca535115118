package database

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// InitDB opens the connection and migrates the schema. It exits the process
// when either step fails.
func InitDB(dsn string) *gorm.DB {
	if dsn == "" {
		log.Fatal().Msg("DB_URL not set")
	}

	db, err := Open(dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	if err := Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("AutoMigrate error")
	}

	log.Info().Msg("Connected and migrated successfully")
	return db
}

func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		// maps unique violations to gorm.ErrDuplicatedKey
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

func Migrate(db *gorm.DB) error {
	// REQUIRED for UUID generation
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		return fmt.Errorf("enable pgcrypto: %w", err)
	}

	if err := db.AutoMigrate(
		&UserRow{},
		&ProfileRow{},
		&LanguageRow{},
		&ArtistRow{},
		&DemoRow{},
	); err != nil {
		return err
	}

	// usernames are stored lower-case; this keeps hand-written rows honest too
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_artists_username_lower ON artists (lower(username));`).Error; err != nil {
		return err
	}
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_languages_name_lower ON languages (lower(name));`).Error
}
