package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"portfolio/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	projectCacheKeyPrefix  = "project:"
	projectCacheExpiration = 30 * time.Minute
)

// ProjectListParams carries the query options of the project list endpoint.
// Tags matches rows containing any of the listed tags.
type ProjectListParams struct {
	Limit    int
	Offset   int
	Search   string
	Featured *bool
	Tags     []string
	Sort     string
	Order    string
}

type ProjectRepository interface {
	Create(project *models.Project) error
	FindAll(params ProjectListParams) ([]models.Project, error)
	FindByID(id uint) (*models.Project, error)
	FindBySlug(slug string) (*models.Project, error)
	Update(project *models.Project) error
	Delete(id uint) error
}

type projectRepository struct {
	db     *gorm.DB
	redis  *redis.Client
	logger *logrus.Logger
	ctx    context.Context
}

func NewProjectRepository(db *gorm.DB, logger *logrus.Logger) ProjectRepository {
	return &projectRepository{
		db:     db,
		redis:  nil,
		logger: logger,
		ctx:    context.Background(),
	}
}

func NewCachedProjectRepository(db *gorm.DB, redisClient *redis.Client, logger *logrus.Logger) ProjectRepository {
	return &projectRepository{
		db:     db,
		redis:  redisClient,
		logger: logger,
		ctx:    context.Background(),
	}
}

func projectCacheKey(id uint) string {
	return fmt.Sprintf("%s%d", projectCacheKeyPrefix, id)
}

func (r *projectRepository) Create(project *models.Project) error {
	if err := r.db.Create(project).Error; err != nil {
		r.logger.WithField("slug", project.Slug).WithError(err).Error("failed to create project")
		return eris.Wrap(err, "creating project")
	}
	return nil
}

func (r *projectRepository) FindAll(params ProjectListParams) ([]models.Project, error) {
	tx := r.db.Model(&models.Project{})

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		tx = tx.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if params.Featured != nil {
		tx = tx.Where("featured = ?", *params.Featured)
	}
	if len(params.Tags) > 0 {
		tagFilter := r.db.Session(&gorm.Session{NewDB: true})
		for i, tag := range params.Tags {
			// jsonb containment against a single-element array matches rows
			// whose tag list includes this tag.
			element, _ := json.Marshal([]string{tag})
			if i == 0 {
				tagFilter = tagFilter.Where("tags @> ?", string(element))
			} else {
				tagFilter = tagFilter.Or("tags @> ?", string(element))
			}
		}
		tx = tx.Where(tagFilter)
	}

	tx = tx.Order(listOrderClause(params.Sort, params.Order)).
		Limit(params.Limit).
		Offset(params.Offset)

	var projects []models.Project
	if err := tx.Find(&projects).Error; err != nil {
		return nil, eris.Wrap(err, "listing projects")
	}
	return projects, nil
}

func (r *projectRepository) FindByID(id uint) (*models.Project, error) {
	if r.redis != nil {
		cached, err := r.redis.Get(r.ctx, projectCacheKey(id)).Result()
		if err == nil {
			var project models.Project
			if err := json.Unmarshal([]byte(cached), &project); err == nil {
				return &project, nil
			}
		}
	}

	var project models.Project
	if err := r.db.First(&project, id).Error; err != nil {
		return nil, eris.Wrap(err, "fetching project by id")
	}

	r.cacheProject(&project)
	return &project, nil
}

func (r *projectRepository) FindBySlug(slug string) (*models.Project, error) {
	var project models.Project
	err := r.db.First(&project, "slug = ?", slug).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "fetching project by slug: %s", slug)
	}
	return &project, nil
}

func (r *projectRepository) Update(project *models.Project) error {
	if err := r.db.Save(project).Error; err != nil {
		r.logger.WithField("id", project.ID).WithError(err).Error("failed to update project")
		return eris.Wrap(err, "updating project")
	}
	r.invalidate(project.ID)
	return nil
}

func (r *projectRepository) Delete(id uint) error {
	if err := r.db.Delete(&models.Project{}, id).Error; err != nil {
		return eris.Wrap(err, "deleting project")
	}
	r.invalidate(id)
	return nil
}

func (r *projectRepository) cacheProject(project *models.Project) {
	if r.redis == nil {
		return
	}
	data, err := json.Marshal(project)
	if err != nil {
		return
	}
	if err := r.redis.Set(r.ctx, projectCacheKey(project.ID), data, projectCacheExpiration).Err(); err != nil {
		r.logger.WithField("id", project.ID).WithError(err).Warn("failed to cache project")
	}
}

func (r *projectRepository) invalidate(id uint) {
	if r.redis == nil {
		return
	}
	if err := r.redis.Del(r.ctx, projectCacheKey(id)).Err(); err != nil {
		r.logger.WithField("id", id).WithError(err).Warn("failed to invalidate project cache")
	}
}
