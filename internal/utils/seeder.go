package utils

import (
	"os"

	"portfolio/internal/models"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdminUsers creates the admin accounts. There is no registration
// endpoint, so the seeder is the only way accounts come into existence.
// Passwords come from SEED_ADMIN_PASSWORD and SEED_SUPER_ADMIN_PASSWORD and
// are required; existing accounts are left untouched.
func SeedAdminUsers(db *gorm.DB, log *logrus.Logger) error {
	demoPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	mainPassword := os.Getenv("SEED_SUPER_ADMIN_PASSWORD")
	if demoPassword == "" || mainPassword == "" {
		return eris.New("SEED_ADMIN_PASSWORD and SEED_SUPER_ADMIN_PASSWORD must be set")
	}

	mainEmail := os.Getenv("SEED_SUPER_ADMIN_EMAIL")
	if mainEmail == "" {
		mainEmail = "owner@portfolio.com"
	}

	accounts := []struct {
		email    string
		name     string
		password string
	}{
		{"admin@portfolio.com", "Demo Admin User", demoPassword},
		{mainEmail, "Site Owner", mainPassword},
	}

	for _, account := range accounts {
		hashed, err := bcrypt.GenerateFromPassword([]byte(account.password), bcrypt.DefaultCost)
		if err != nil {
			return eris.Wrap(err, "hashing seed password")
		}

		user := models.User{
			Email:    account.email,
			Password: string(hashed),
			Name:     account.name,
			Role:     "admin",
		}
		result := db.Where("email = ?", account.email).FirstOrCreate(&user)
		if result.Error != nil {
			return eris.Wrapf(result.Error, "seeding user %s", account.email)
		}
		if result.RowsAffected > 0 {
			log.WithField("email", account.email).Info("admin user created")
		} else {
			log.WithField("email", account.email).Info("admin user already exists")
		}
	}

	return nil
}

// SeedSampleContent inserts a few published rows so a fresh install has
// something to render. Rows are keyed by slug and never duplicated.
func SeedSampleContent(db *gorm.DB, log *logrus.Logger) error {
	blogs := []models.Blog{
		{
			Title:     "Hello World",
			Slug:      "hello-world",
			Content:   "<p>Welcome to my corner of the internet. This is the first post.</p>",
			Published: true,
		},
		{
			Title:     "Building This Site",
			Slug:      "building-this-site",
			Content:   "<p>Notes on the stack behind this portfolio and why I picked it.</p>",
			Published: false,
		},
	}
	for i := range blogs {
		blogs[i].Excerpt = GenerateExcerpt(blogs[i].Content, 150)
		result := db.Where("slug = ?", blogs[i].Slug).FirstOrCreate(&blogs[i])
		if result.Error != nil {
			return eris.Wrapf(result.Error, "seeding blog %s", blogs[i].Slug)
		}
	}

	projects := []models.Project{
		{
			Title:       "Portfolio Backend",
			Slug:        "portfolio-backend",
			Description: "The JSON API serving this very site.",
			Tags:        []string{"go", "gin", "postgres"},
			Featured:    true,
		},
		{
			Title:       "Weekend Experiments",
			Slug:        "weekend-experiments",
			Description: "A grab bag of small tools and prototypes.",
			Tags:        []string{"go", "cli"},
		},
	}
	for i := range projects {
		result := db.Where("slug = ?", projects[i].Slug).FirstOrCreate(&projects[i])
		if result.Error != nil {
			return eris.Wrapf(result.Error, "seeding project %s", projects[i].Slug)
		}
	}

	log.Info("sample content seeded")
	return nil
}
