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
	maxDescriptionLength = 500
	defaultThumbnail     = "https://placehold.co/600x400/png"
)

type ProjectController struct {
	repo   repository.ProjectRepository
	logger *logrus.Logger
}

func NewProjectController(repo repository.ProjectRepository, logger *logrus.Logger) *ProjectController {
	return &ProjectController{repo: repo, logger: logger}
}

type createProjectRequest struct {
	Title       string      `json:"title"`
	Slug        string      `json:"slug"`
	Description string      `json:"description"`
	Content     string      `json:"content"`
	Thumbnail   string      `json:"thumbnail"`
	ProjectURL  string      `json:"projectUrl"`
	GithubURL   string      `json:"githubUrl"`
	Tags        interface{} `json:"tags"`
	Featured    bool        `json:"featured"`
}

type updateProjectRequest struct {
	Title       *string         `json:"title"`
	Slug        *string         `json:"slug"`
	Description *string         `json:"description"`
	Content     json.RawMessage `json:"content"`
	Thumbnail   json.RawMessage `json:"thumbnail"`
	ProjectURL  json.RawMessage `json:"projectUrl"`
	GithubURL   json.RawMessage `json:"githubUrl"`
	Tags        json.RawMessage `json:"tags"`
	Featured    *bool           `json:"featured"`
}

// ListProjects godoc
// @Summary List projects
// @Description List projects with pagination, search, featured filter, tag filter and sorting
// @Tags projects
// @Produce json
// @Router /projects [get]
func (pc *ProjectController) ListProjects(c *gin.Context) {
	params := repository.ProjectListParams{
		Limit:  parseLimit(c.DefaultQuery("limit", "10")),
		Offset: parseOffset(c.Query("offset")),
		Search: c.Query("search"),
		Sort:   c.DefaultQuery("sort", "createdAt"),
		Order:  c.DefaultQuery("order", "desc"),
	}

	if raw, present := c.GetQuery("featured"); present {
		featured := strings.EqualFold(raw, "true")
		params.Featured = &featured
	}

	if tagsParam := c.Query("tags"); tagsParam != "" {
		for _, tag := range strings.Split(tagsParam, ",") {
			if trimmed := strings.TrimSpace(tag); trimmed != "" {
				params.Tags = append(params.Tags, trimmed)
			}
		}
	}

	projects, err := pc.repo.FindAll(params)
	if err != nil {
		storageFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, projects)
}

// GetProjectByID godoc
// @Summary Get a project
// @Description Fetch a single project by ID
// @Tags projects
// @Produce json
// @Param id path int true "Project ID"
// @Router /projects/{id} [get]
func (pc *ProjectController) GetProjectByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Valid project ID is required",
			"code":    "INVALID_ID",
			"details": "Please provide a valid positive numeric ID",
		})
		return
	}

	isAdminRequest := c.Query("admin") == "true" && middleware.IsAdmin(c)

	project, err := pc.repo.FindByID(uint(id))
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Project not found",
				"code":  "PROJECT_NOT_FOUND",
			})
			return
		}
		storageFailure(c, err)
		return
	}

	if isAdminRequest {
		c.Header("Cache-Control", cacheControlPrivate)
	} else {
		c.Header("Cache-Control", cacheControlPublic)
	}

	c.JSON(http.StatusOK, project)
}

// CreateProject godoc
// @Summary Create a project
// @Description Create a project with slug derivation, tag normalization and URL validation
// @Tags projects
// @Accept json
// @Produce json
// @Router /projects/create [post]
func (pc *ProjectController) CreateProject(c *gin.Context) {
	var req createProjectRequest
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
			"error": "Title must be 200 characters or less",
			"code":  "TITLE_TOO_LONG",
		})
		return
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Description is required",
			"code":  "MISSING_DESCRIPTION",
		})
		return
	}
	if utf8.RuneCountInString(description) > maxDescriptionLength {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Description must be 500 characters or less",
			"code":  "DESCRIPTION_TOO_LONG",
		})
		return
	}

	if req.Thumbnail != "" {
		if !utils.IsValidURL(req.Thumbnail) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Thumbnail must be a valid URL",
				"code":  "INVALID_THUMBNAIL_URL",
			})
			return
		}
		if !strings.Contains(req.Thumbnail, utils.MediaHost()) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Thumbnail must be hosted on the trusted media host",
				"code":  "INVALID_MEDIA_HOST",
			})
			return
		}
	}
	if req.ProjectURL != "" && !utils.IsValidURL(req.ProjectURL) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Project URL must be a valid URL",
			"code":  "INVALID_PROJECT_URL",
		})
		return
	}
	if req.GithubURL != "" && !utils.IsValidURL(req.GithubURL) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "GitHub URL must be a valid URL",
			"code":  "INVALID_GITHUB_URL",
		})
		return
	}

	tags, err := utils.ParseTags(req.Tags)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Each tag must be 20 characters or less",
			"code":  "TAG_TOO_LONG",
		})
		return
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

	existing, err := pc.repo.FindBySlug(finalSlug)
	if err != nil {
		storageFailure(c, err)
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":      "A project with this slug already exists",
			"code":       "DUPLICATE_SLUG",
			"suggestion": utils.SuggestSlug(finalSlug),
		})
		return
	}

	thumbnail := req.Thumbnail
	if thumbnail == "" {
		thumbnail = defaultThumbnail
	}

	project := models.Project{
		Title:       title,
		Slug:        finalSlug,
		Description: description,
		Thumbnail:   &thumbnail,
		Tags:        tags,
		Featured:    req.Featured,
	}
	if req.Content != "" {
		project.Content = &req.Content
	}
	if req.ProjectURL != "" {
		project.ProjectURL = &req.ProjectURL
	}
	if req.GithubURL != "" {
		project.GithubURL = &req.GithubURL
	}

	if err := pc.repo.Create(&project); err != nil {
		storageFailure(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Project created successfully",
		"project": project,
	})
}

// UpdateProject godoc
// @Summary Update a project
// @Description Partial update; omitted fields keep their stored value
// @Tags projects
// @Accept json
// @Produce json
// @Router /projects/update [put]
func (pc *ProjectController) UpdateProject(c *gin.Context) {
	id, err := strconv.ParseUint(c.Query("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Valid project ID is required",
			"code":  "INVALID_ID",
		})
		return
	}

	project, err := pc.repo.FindByID(uint(id))
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Project not found",
				"code":  "PROJECT_NOT_FOUND",
			})
			return
		}
		storageFailure(c, err)
		return
	}

	var req updateProjectRequest
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
				"error": "Title must be 200 characters or less",
				"code":  "TITLE_TOO_LONG",
			})
			return
		}
		project.Title = title
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
		if slug != project.Slug {
			existing, err := pc.repo.FindBySlug(slug)
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
			project.Slug = slug
			changed = true
		}
	}

	// Same quiet fallback as blogs: a title-derived slug is adopted only
	// when free, otherwise the old slug stays.
	if req.Title != nil && req.Slug == nil {
		derived := utils.GenerateSlug(project.Title)
		if derived != "" && derived != project.Slug {
			existing, err := pc.repo.FindBySlug(derived)
			if err != nil {
				storageFailure(c, err)
				return
			}
			if existing == nil {
				project.Slug = derived
			}
		}
	}

	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Description cannot be empty",
				"code":  "EMPTY_DESCRIPTION",
			})
			return
		}
		if utf8.RuneCountInString(description) > maxDescriptionLength {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Description must be 500 characters or less",
				"code":  "DESCRIPTION_TOO_LONG",
			})
			return
		}
		project.Description = description
		changed = true
	}

	if len(req.Content) > 0 {
		var content *string
		if string(req.Content) != "null" {
			var value string
			if err := json.Unmarshal(req.Content, &value); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"error": "Content must be a string or null",
					"code":  "INVALID_CONTENT",
				})
				return
			}
			if value != "" {
				content = &value
			}
		}
		project.Content = content
		changed = true
	}

	if ok, done := pc.applyURLUpdate(c, req.Thumbnail, &project.Thumbnail, "Thumbnail", "INVALID_THUMBNAIL_URL", true); done {
		return
	} else if ok {
		changed = true
	}
	if ok, done := pc.applyURLUpdate(c, req.ProjectURL, &project.ProjectURL, "Project URL", "INVALID_PROJECT_URL", false); done {
		return
	} else if ok {
		changed = true
	}
	if ok, done := pc.applyURLUpdate(c, req.GithubURL, &project.GithubURL, "GitHub URL", "INVALID_GITHUB_URL", false); done {
		return
	} else if ok {
		changed = true
	}

	if len(req.Tags) > 0 {
		var raw interface{}
		if err := json.Unmarshal(req.Tags, &raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Tags must be an array or string",
				"code":  "INVALID_TAGS",
			})
			return
		}
		tags, err := utils.ParseTags(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Each tag must be 20 characters or less",
				"code":  "TAG_TOO_LONG",
			})
			return
		}
		project.Tags = tags
		changed = true
	}

	if req.Featured != nil {
		project.Featured = *req.Featured
		changed = true
	}

	if !changed {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No valid fields to update",
			"code":  "NO_UPDATES",
		})
		return
	}

	if err := pc.repo.Update(project); err != nil {
		storageFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project updated successfully",
		"project": project,
	})
}

// DeleteProject godoc
// @Summary Delete a project
// @Description Hard delete; returns the deleted row
// @Tags projects
// @Produce json
// @Router /projects/delete [delete]
func (pc *ProjectController) DeleteProject(c *gin.Context) {
	id, err := strconv.ParseUint(c.Query("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Valid project ID is required",
			"code":  "INVALID_ID",
		})
		return
	}

	project, err := pc.repo.FindByID(uint(id))
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Project not found",
				"code":  "PROJECT_NOT_FOUND",
			})
			return
		}
		storageFailure(c, err)
		return
	}

	if err := pc.repo.Delete(project.ID); err != nil {
		storageFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted successfully",
		"project": project,
	})
}

// applyURLUpdate handles one nullable URL field of the update payload. The
// first return reports whether the field changed, the second whether an error
// response was already written.
func (pc *ProjectController) applyURLUpdate(c *gin.Context, raw json.RawMessage, target **string, label, code string, mustBeTrusted bool) (bool, bool) {
	if len(raw) == 0 {
		return false, false
	}

	if string(raw) == "null" {
		*target = nil
		return true, false
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": label + " must be a string or null",
			"code":  code,
		})
		return false, true
	}

	if value == "" {
		*target = nil
		return true, false
	}

	if !utils.IsValidURL(value) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": label + " must be a valid URL",
			"code":  code,
		})
		return false, true
	}
	if mustBeTrusted && !strings.Contains(value, utils.MediaHost()) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": label + " must be hosted on the trusted media host",
			"code":  "INVALID_MEDIA_HOST",
		})
		return false, true
	}

	*target = &value
	return true, false
}
