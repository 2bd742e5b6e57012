package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"portfolio/internal/middleware"
	"portfolio/internal/models"
	"portfolio/internal/repository"
	"portfolio/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	maxTitleLength   = 200
	maxExcerptLength = 300
	excerptLength    = 150
)

type BlogController struct {
	repo   repository.BlogRepository
	logger *logrus.Logger
}

func NewBlogController(repo repository.BlogRepository, logger *logrus.Logger) *BlogController {
	return &BlogController{repo: repo, logger: logger}
}

type createBlogRequest struct {
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	Content    string `json:"content"`
	Excerpt    string `json:"excerpt"`
	CoverImage string `json:"coverImage"`
	Published  bool   `json:"published"`
}

type updateBlogRequest struct {
	Title   *string `json:"title"`
	Slug    *string `json:"slug"`
	Content *string `json:"content"`
	Excerpt *string `json:"excerpt"`
	// RawMessage keeps "absent", "null" and a string value distinguishable:
	// null clears the cover image, absent leaves it untouched.
	CoverImage json.RawMessage `json:"coverImage"`
	Published  *bool           `json:"published"`
}

// ListBlogs godoc
// @Summary List blog posts
// @Description List blog posts with pagination, search, published filter and sorting
// @Tags blogs
// @Produce json
// @Router /blogs [get]
func (bc *BlogController) ListBlogs(c *gin.Context) {
	params := repository.BlogListParams{
		Limit:  parseLimit(c.DefaultQuery("limit", "10")),
		Offset: parseOffset(c.Query("offset")),
		Search: c.Query("search"),
		Sort:   c.DefaultQuery("sort", "createdAt"),
		Order:  c.DefaultQuery("order", "desc"),
	}

	// Listing only filters when published=true is asked for explicitly; the
	// default listing is unfiltered while single fetches gate on published.
	if c.Query("published") == "true" {
		published := true
		params.Published = &published
	}

	blogs, err := bc.repo.FindAll(params)
	if err != nil {
		storageFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, blogs)
}

// GetBlogByID godoc
// @Summary Get a blog post
// @Description Fetch a single blog post; drafts require a verified admin identity
// @Tags blogs
// @Produce json
// @Param id path int true "Blog ID"
// @Router /blogs/{id} [get]
func (bc *BlogController) GetBlogByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Valid blog ID is required",
			"code":    "INVALID_ID",
			"details": "Please provide a valid positive numeric ID",
		})
		return
	}

	// The admin flag only takes effect when the request carries a verified
	// admin identity; the bare query parameter grants nothing.
	isAdminRequest := c.Query("admin") == "true" && middleware.IsAdmin(c)

	blog, err := bc.repo.FindByID(uint(id))
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Blog post not found",
				"code":  "BLOG_NOT_FOUND",
			})
			return
		}
		storageFailure(c, err)
		return
	}

	if !blog.Published && !isAdminRequest {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Blog post is not published",
			"code":    "BLOG_NOT_PUBLISHED",
			"details": "This blog post is currently in draft status",
		})
		return
	}

	if !isAdminRequest {
		// Best-effort; a failed counter bump never fails the read.
		if err := bc.repo.IncrementViews(blog.ID); err != nil {
			bc.logger.WithField("id", blog.ID).WithError(err).Warn("failed to increment view count")
		}
	}

	if !isAdminRequest && blog.Published {
		c.Header("Cache-Control", cacheControlPublic)
	} else {
		c.Header("Cache-Control", cacheControlPrivate)
	}

	c.JSON(http.StatusOK, blog)
}

// CreateBlog godoc
// @Summary Create a blog post
// @Description Create a blog post with slug derivation and uniqueness check
// @Tags blogs
// @Accept json
// @Produce json
// @Router /blogs/create [post]
func (bc *BlogController) CreateBlog(c *gin.Context) {
	var req createBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
			"code":  "INVALID_JSON",
		})
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Title is required",
			"code":  "MISSING_TITLE",
		})
		return
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Title must not exceed 200 characters",
			"code":  "TITLE_TOO_LONG",
		})
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Content is required",
			"code":  "MISSING_CONTENT",
		})
		return
	}

	if utf8.RuneCountInString(req.Excerpt) > maxExcerptLength {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Excerpt must not exceed 300 characters",
			"code":  "EXCERPT_TOO_LONG",
		})
		return
	}

	if req.CoverImage != "" {
		if !utils.IsValidURL(req.CoverImage) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Cover image must be a valid URL",
				"code":  "INVALID_COVER_IMAGE_URL",
			})
			return
		}
		if !strings.Contains(req.CoverImage, utils.MediaHost()) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Cover image must be hosted on the trusted media host",
				"code":  "INVALID_MEDIA_HOST",
			})
			return
		}
	}

	finalSlug := strings.TrimSpace(req.Slug)
	if finalSlug == "" {
		finalSlug = utils.GenerateSlug(title)
	}
	if !utils.IsValidSlug(finalSlug) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Slug can only contain lowercase letters, numbers, and hyphens",
			"code":  "INVALID_SLUG_FORMAT",
		})
		return
	}

	existing, err := bc.repo.FindBySlug(finalSlug)
	if err != nil {
		storageFailure(c, err)
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":      "A blog with this slug already exists",
			"code":       "DUPLICATE_SLUG",
			"suggestion": utils.SuggestSlug(finalSlug),
		})
		return
	}

	excerpt := strings.TrimSpace(req.Excerpt)
	if excerpt == "" {
		excerpt = utils.GenerateExcerpt(content, excerptLength)
	}

	blog := models.Blog{
		Title:     title,
		Slug:      finalSlug,
		Content:   content,
		Excerpt:   excerpt,
		Published: req.Published,
	}
	if req.CoverImage != "" {
		blog.CoverImage = &req.CoverImage
	}

	if err := bc.repo.Create(&blog); err != nil {
		storageFailure(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Blog created successfully",
		"blog":    blog,
	})
}

// UpdateBlog godoc
// @Summary Update a blog post
// @Description Partial update; omitted fields keep their stored value
// @Tags blogs
// @Accept json
// @Produce json
// @Router /blogs/update [put]
func (bc *BlogController) UpdateBlog(c *gin.Context) {
	id, err := strconv.ParseUint(c.Query("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Valid blog ID is required",
			"code":  "INVALID_ID",
		})
		return
	}

	blog, err := bc.repo.FindByID(uint(id))
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Blog post not found",
				"code":  "BLOG_NOT_FOUND",
			})
			return
		}
		storageFailure(c, err)
		return
	}

	var req updateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
			"code":  "INVALID_JSON",
		})
		return
	}

	changed := false

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Title cannot be empty",
				"code":  "EMPTY_TITLE",
			})
			return
		}
		if utf8.RuneCountInString(title) > maxTitleLength {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Title must not exceed 200 characters",
				"code":  "TITLE_TOO_LONG",
			})
			return
		}
		blog.Title = title
		changed = true
	}

	if req.Slug != nil {
		slug := strings.TrimSpace(*req.Slug)
		if slug == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Slug cannot be empty",
				"code":  "EMPTY_SLUG",
			})
			return
		}
		if !utils.IsValidSlug(slug) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Slug can only contain lowercase letters, numbers, and hyphens",
				"code":  "INVALID_SLUG_FORMAT",
			})
			return
		}
		if slug != blog.Slug {
			existing, err := bc.repo.FindBySlug(slug)
			if err != nil {
				storageFailure(c, err)
				return
			}
			if existing != nil {
				c.JSON(http.StatusConflict, gin.H{
					"error":      "This slug is already in use",
					"code":       "SLUG_CONFLICT",
					"suggestion": utils.SuggestSlug(slug),
				})
				return
			}
			blog.Slug = slug
			changed = true
		}
	}

	// When the title changes without an explicit slug, a fresh slug is
	// derived but only adopted when free; on collision the old slug is kept
	// silently. Create errors loudly, update degrades quietly.
	if req.Title != nil && req.Slug == nil {
		derived := utils.GenerateSlug(blog.Title)
		if derived != "" && derived != blog.Slug {
			existing, err := bc.repo.FindBySlug(derived)
			if err != nil {
				storageFailure(c, err)
				return
			}
			if existing == nil {
				blog.Slug = derived
			}
		}
	}

	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if content == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Content cannot be empty",
				"code":  "EMPTY_CONTENT",
			})
			return
		}
		blog.Content = content
		changed = true
	}

	if req.Excerpt != nil {
		excerpt := strings.TrimSpace(*req.Excerpt)
		if utf8.RuneCountInString(excerpt) > maxExcerptLength {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Excerpt must not exceed 300 characters",
				"code":  "EXCERPT_TOO_LONG",
			})
			return
		}
		blog.Excerpt = excerpt
		changed = true
	} else if req.Content != nil {
		blog.Excerpt = utils.GenerateExcerpt(blog.Content, excerptLength)
	}

	if len(req.CoverImage) > 0 {
		if string(req.CoverImage) == "null" {
			blog.CoverImage = nil
			changed = true
		} else {
			var coverImage string
			if err := json.Unmarshal(req.CoverImage, &coverImage); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"error": "Cover image must be a string or null",
					"code":  "INVALID_COVER_IMAGE_URL",
				})
				return
			}
			if coverImage == "" {
				blog.CoverImage = nil
			} else {
				if !utils.IsValidURL(coverImage) {
					c.JSON(http.StatusBadRequest, gin.H{
						"error": "Cover image must be a valid URL",
						"code":  "INVALID_COVER_IMAGE_URL",
					})
					return
				}
				if !strings.Contains(coverImage, utils.MediaHost()) {
					c.JSON(http.StatusBadRequest, gin.H{
						"error": "Cover image must be hosted on the trusted media host",
						"code":  "INVALID_MEDIA_HOST",
					})
					return
				}
				blog.CoverImage = &coverImage
			}
			changed = true
		}
	}

	if req.Published != nil {
		blog.Published = *req.Published
		changed = true
	}

	if !changed {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No valid fields to update",
			"code":  "NO_UPDATES",
		})
		return
	}

	if err := bc.repo.Update(blog); err != nil {
		storageFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Blog post updated successfully",
		"blog":    blog,
	})
}

// DeleteBlog godoc
// @Summary Delete a blog post
// @Description Hard delete; returns the deleted row
// @Tags blogs
// @Produce json
// @Router /blogs/delete [delete]
func (bc *BlogController) DeleteBlog(c *gin.Context) {
	id, err := strconv.ParseUint(c.Query("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Valid blog ID is required",
			"code":  "INVALID_ID",
		})
		return
	}

	blog, err := bc.repo.FindByID(uint(id))
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Blog post not found",
				"code":  "BLOG_NOT_FOUND",
			})
			return
		}
		storageFailure(c, err)
		return
	}

	if err := bc.repo.Delete(blog.ID); err != nil {
		storageFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Blog post deleted successfully",
		"blog":    blog,
	})
}

// parseLimit passes an explicit limit=0 through unchanged, which yields an
// empty page.
func parseLimit(raw string) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 10
	}
	if limit > 100 {
		return 100
	}
	return limit
}

func parseOffset(raw string) int {
	offset, err := strconv.Atoi(raw)
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}
