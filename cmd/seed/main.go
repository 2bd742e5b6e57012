package main

import (
	"flag"
	"os"

	"portfolio/database"
	"portfolio/internal/utils"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func init() {
	if err := godotenv.Load(); err != nil {
		// Running from cmd/seed/ puts the .env two levels up.
		_ = godotenv.Load("../../.env")
	}
}

func main() {
	withContent := flag.Bool("content", false, "Also seed sample blog posts and projects")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	database.ConnectDatabase(logger)
	if err := database.MigrateDatabase(logger); err != nil {
		logger.WithError(err).Fatal("failed to run database migrations")
	}

	if err := utils.SeedAdminUsers(database.DB, logger); err != nil {
		logger.WithError(err).Error("user seeding failed")
		os.Exit(1)
	}

	if *withContent {
		if err := utils.SeedSampleContent(database.DB, logger); err != nil {
			logger.WithError(err).Error("content seeding failed")
			os.Exit(1)
		}
	}

	logger.Info("seeding completed")
}
