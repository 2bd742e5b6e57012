package database

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// ConnectDatabase opens the Postgres connection described by the DB_*
// environment variables and configures the shared connection pool.
func ConnectDatabase(log *logrus.Logger) {
	host := os.Getenv("DB_HOST")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	port := os.Getenv("DB_PORT")
	sslmode := os.Getenv("DB_SSLMODE")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s application_name=portfolio",
		host, user, password, dbname, port, sslmode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Warn),
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		// Surfaces unique-index violations as gorm.ErrDuplicatedKey so the
		// controllers can map the slug race to a 409.
		TranslateError: true,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.WithError(err).Fatal("failed to get database connection")
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(15 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		log.WithError(err).Fatal("failed to ping database")
	}

	log.WithFields(logrus.Fields{
		"host": host,
		"db":   dbname,
	}).Info("connected to database")

	DB = db
}

// MonitorDBConnections logs a warning when the pool runs hot.
func MonitorDBConnections(log *logrus.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	go func() {
		for range ticker.C {
			sqlDB, err := DB.DB()
			if err != nil {
				continue
			}
			stats := sqlDB.Stats()
			if stats.InUse > 40 {
				log.WithFields(logrus.Fields{
					"in_use": stats.InUse,
					"idle":   stats.Idle,
					"open":   stats.OpenConnections,
				}).Warn("database connection pool running hot")
			}
		}
	}()
}
