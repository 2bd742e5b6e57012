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
	blogCacheKeyPrefix  = "blog:"
	blogCacheExpiration = 30 * time.Minute
)

// BlogListParams carries the query options of the blog list endpoint. A nil
// Published means no published filter is applied.
type BlogListParams struct {
	Limit     int
	Offset    int
	Search    string
	Published *bool
	Sort      string
	Order     string
}

type BlogRepository interface {
	Create(blog *models.Blog) error
	FindAll(params BlogListParams) ([]models.Blog, error)
	FindByID(id uint) (*models.Blog, error)
	FindBySlug(slug string) (*models.Blog, error)
	Update(blog *models.Blog) error
	Delete(id uint) error
	IncrementViews(id uint) error
}

type blogRepository struct {
	db     *gorm.DB
	redis  *redis.Client
	logger *logrus.Logger
	ctx    context.Context
}

func NewBlogRepository(db *gorm.DB, logger *logrus.Logger) BlogRepository {
	return &blogRepository{
		db:     db,
		redis:  nil,
		logger: logger,
		ctx:    context.Background(),
	}
}

// NewCachedBlogRepository layers a Redis read-through cache over single-post
// reads. Slug lookups stay uncached: they back the uniqueness pre-check and
// must see the latest row.
func NewCachedBlogRepository(db *gorm.DB, redisClient *redis.Client, logger *logrus.Logger) BlogRepository {
	return &blogRepository{
		db:     db,
		redis:  redisClient,
		logger: logger,
		ctx:    context.Background(),
	}
}

func blogCacheKey(id uint) string {
	return fmt.Sprintf("%s%d", blogCacheKeyPrefix, id)
}

func (r *blogRepository) Create(blog *models.Blog) error {
	if err := r.db.Create(blog).Error; err != nil {
		r.logger.WithField("slug", blog.Slug).WithError(err).Error("failed to create blog")
		return eris.Wrap(err, "creating blog")
	}
	return nil
}

func (r *blogRepository) FindAll(params BlogListParams) ([]models.Blog, error) {
	tx := r.db.Model(&models.Blog{})

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		tx = tx.Where("title ILIKE ? OR excerpt ILIKE ?", pattern, pattern)
	}
	if params.Published != nil {
		tx = tx.Where("published = ?", *params.Published)
	}

	tx = tx.Order(listOrderClause(params.Sort, params.Order)).
		Limit(params.Limit).
		Offset(params.Offset)

	var blogs []models.Blog
	if err := tx.Find(&blogs).Error; err != nil {
		return nil, eris.Wrap(err, "listing blogs")
	}
	return blogs, nil
}

func (r *blogRepository) FindByID(id uint) (*models.Blog, error) {
	if r.redis != nil {
		cached, err := r.redis.Get(r.ctx, blogCacheKey(id)).Result()
		if err == nil {
			var blog models.Blog
			if err := json.Unmarshal([]byte(cached), &blog); err == nil {
				return &blog, nil
			}
		}
	}

	var blog models.Blog
	if err := r.db.First(&blog, id).Error; err != nil {
		return nil, eris.Wrap(err, "fetching blog by id")
	}

	r.cacheBlog(&blog)
	return &blog, nil
}

func (r *blogRepository) FindBySlug(slug string) (*models.Blog, error) {
	var blog models.Blog
	err := r.db.First(&blog, "slug = ?", slug).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "fetching blog by slug: %s", slug)
	}
	return &blog, nil
}

func (r *blogRepository) Update(blog *models.Blog) error {
	if err := r.db.Save(blog).Error; err != nil {
		r.logger.WithField("id", blog.ID).WithError(err).Error("failed to update blog")
		return eris.Wrap(err, "updating blog")
	}
	r.invalidate(blog.ID)
	return nil
}

func (r *blogRepository) Delete(id uint) error {
	if err := r.db.Delete(&models.Blog{}, id).Error; err != nil {
		return eris.Wrap(err, "deleting blog")
	}
	r.invalidate(id)
	return nil
}

// IncrementViews bumps the view counter without touching updated_at. Failures
// are the caller's to swallow; the public read must not fail on them.
func (r *blogRepository) IncrementViews(id uint) error {
	err := r.db.Model(&models.Blog{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
	if err != nil {
		return eris.Wrap(err, "incrementing views")
	}
	r.invalidate(id)
	return nil
}

func (r *blogRepository) cacheBlog(blog *models.Blog) {
	if r.redis == nil {
		return
	}
	data, err := json.Marshal(blog)
	if err != nil {
		return
	}
	if err := r.redis.Set(r.ctx, blogCacheKey(blog.ID), data, blogCacheExpiration).Err(); err != nil {
		r.logger.WithField("id", blog.ID).WithError(err).Warn("failed to cache blog")
	}
}

func (r *blogRepository) invalidate(id uint) {
	if r.redis == nil {
		return
	}
	if err := r.redis.Del(r.ctx, blogCacheKey(id)).Err(); err != nil {
		r.logger.WithField("id", id).WithError(err).Warn("failed to invalidate blog cache")
	}
}

// listOrderClause maps the public sort/order query values onto column order
// clauses, falling back to created_at desc for anything unrecognized.
func listOrderClause(sort, order string) string {
	column := "created_at"
	switch sort {
	case "title":
		column = "title"
	case "updatedAt":
		column = "updated_at"
	}

	direction := "desc"
	if order == "asc" {
		direction = "asc"
	}

	return column + " " + direction
}
