package database

import (
	"portfolio/internal/models"

	"github.com/sirupsen/logrus"
)

func MigrateDatabase(log *logrus.Logger) error {
	log.Info("running database migrations")

	err := DB.AutoMigrate(
		&models.User{},
		&models.Blog{},
		&models.Project{},
	)
	if err != nil {
		log.WithError(err).Error("database migration failed")
		return err
	}

	log.Info("database migrations completed")
	return nil
}
