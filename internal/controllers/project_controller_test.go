package controllers_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"portfolio/internal/controllers"
	"portfolio/internal/models"
	"portfolio/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func setupProjectController() (*controllers.ProjectController, *MockProjectRepository) {
	mockRepo := new(MockProjectRepository)
	controller := controllers.NewProjectController(mockRepo, testLogger())
	return controller, mockRepo
}

func TestCreateProject(t *testing.T) {
	t.Run("comma string and native array normalize identically", func(t *testing.T) {
		var captured [][]string

		for _, tags := range []interface{}{"go, react, aws", []string{"go", "react", "aws"}} {
			controller, mockRepo := setupProjectController()
			mockRepo.On("FindBySlug", mock.AnythingOfType("string")).Return(nil, nil)
			mockRepo.On("Create", mock.AnythingOfType("*models.Project")).
				Run(func(args mock.Arguments) {
					project := args.Get(0).(*models.Project)
					captured = append(captured, project.Tags)
				}).Return(nil)

			router := setupTestRouter()
			router.POST("/projects/create", controller.CreateProject)

			body, _ := json.Marshal(map[string]interface{}{
				"title":       "My Project",
				"description": "A thing I built",
				"tags":        tags,
			})
			w := performRequest(router, http.MethodPost, "/projects/create", body)
			assert.Equal(t, http.StatusCreated, w.Code)
		}

		assert.Len(t, captured, 2)
		assert.Equal(t, []string{"go", "react", "aws"}, captured[0])
		assert.Equal(t, captured[0], captured[1])
	})

	t.Run("tag over 20 characters fails the whole request", func(t *testing.T) {
		controller, mockRepo := setupProjectController()

		router := setupTestRouter()
		router.POST("/projects/create", controller.CreateProject)

		body, _ := json.Marshal(map[string]interface{}{
			"title":       "My Project",
			"description": "A thing I built",
			"tags":        []string{"ok", strings.Repeat("x", 21)},
		})
		w := performRequest(router, http.MethodPost, "/projects/create", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "TAG_TOO_LONG", response["code"])
		mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("tag list is capped at 10 entries", func(t *testing.T) {
		controller, mockRepo := setupProjectController()
		mockRepo.On("FindBySlug", mock.AnythingOfType("string")).Return(nil, nil)
		mockRepo.On("Create", mock.AnythingOfType("*models.Project")).
			Run(func(args mock.Arguments) {
				project := args.Get(0).(*models.Project)
				assert.Len(t, project.Tags, 10)
			}).Return(nil)

		tags := make([]string, 12)
		for i := range tags {
			tags[i] = strings.Repeat("t", i+1)
		}

		router := setupTestRouter()
		router.POST("/projects/create", controller.CreateProject)

		body, _ := json.Marshal(map[string]interface{}{
			"title":       "My Project",
			"description": "A thing I built",
			"tags":        tags,
		})
		w := performRequest(router, http.MethodPost, "/projects/create", body)
		assert.Equal(t, http.StatusCreated, w.Code)
		mockRepo.AssertExpectations(t)
	})

	t.Run("missing description is rejected", func(t *testing.T) {
		controller, _ := setupProjectController()

		router := setupTestRouter()
		router.POST("/projects/create", controller.CreateProject)

		body, _ := json.Marshal(map[string]interface{}{"title": "My Project"})
		w := performRequest(router, http.MethodPost, "/projects/create", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "MISSING_DESCRIPTION", response["code"])
	})

	t.Run("description over 500 characters is rejected", func(t *testing.T) {
		controller, _ := setupProjectController()

		router := setupTestRouter()
		router.POST("/projects/create", controller.CreateProject)

		body, _ := json.Marshal(map[string]interface{}{
			"title":       "My Project",
			"description": strings.Repeat("d", 501),
		})
		w := performRequest(router, http.MethodPost, "/projects/create", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "DESCRIPTION_TOO_LONG", response["code"])
	})

	t.Run("description length is counted in characters, not bytes", func(t *testing.T) {
		controller, mockRepo := setupProjectController()
		mockRepo.On("FindBySlug", "my-project").Return(nil, nil)
		mockRepo.On("Create", mock.AnythingOfType("*models.Project")).Return(nil)

		router := setupTestRouter()
		router.POST("/projects/create", controller.CreateProject)

		body, _ := json.Marshal(map[string]interface{}{
			"title":       "My Project",
			"description": strings.Repeat("é", 500),
		})
		w := performRequest(router, http.MethodPost, "/projects/create", body)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("missing thumbnail falls back to the placeholder", func(t *testing.T) {
		controller, mockRepo := setupProjectController()
		mockRepo.On("FindBySlug", "my-project").Return(nil, nil)
		mockRepo.On("Create", mock.AnythingOfType("*models.Project")).
			Run(func(args mock.Arguments) {
				project := args.Get(0).(*models.Project)
				assert.NotNil(t, project.Thumbnail)
				assert.Equal(t, "https://placehold.co/600x400/png", *project.Thumbnail)
			}).Return(nil)

		router := setupTestRouter()
		router.POST("/projects/create", controller.CreateProject)

		body, _ := json.Marshal(map[string]interface{}{
			"title":       "My Project",
			"description": "A thing I built",
		})
		w := performRequest(router, http.MethodPost, "/projects/create", body)
		assert.Equal(t, http.StatusCreated, w.Code)
		mockRepo.AssertExpectations(t)
	})

	t.Run("duplicate slug conflicts with suggestion", func(t *testing.T) {
		controller, mockRepo := setupProjectController()
		mockRepo.On("FindBySlug", "my-project").Return(&models.Project{ID: 3, Slug: "my-project"}, nil)

		router := setupTestRouter()
		router.POST("/projects/create", controller.CreateProject)

		body, _ := json.Marshal(map[string]interface{}{
			"title":       "My Project",
			"description": "A thing I built",
		})
		w := performRequest(router, http.MethodPost, "/projects/create", body)

		assert.Equal(t, http.StatusConflict, w.Code)
		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "DUPLICATE_SLUG", response["code"])
		assert.True(t, strings.HasPrefix(response["suggestion"].(string), "my-project-"))
	})

	t.Run("project url must parse as absolute URL", func(t *testing.T) {
		controller, _ := setupProjectController()

		router := setupTestRouter()
		router.POST("/projects/create", controller.CreateProject)

		body, _ := json.Marshal(map[string]interface{}{
			"title":       "My Project",
			"description": "A thing I built",
			"projectUrl":  "not-a-url",
		})
		w := performRequest(router, http.MethodPost, "/projects/create", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "INVALID_PROJECT_URL", response["code"])
	})
}

func TestListProjects(t *testing.T) {
	t.Run("featured filter applies whenever present", func(t *testing.T) {
		controller, mockRepo := setupProjectController()
		mockRepo.On("FindAll", mock.MatchedBy(func(p repository.ProjectListParams) bool {
			return p.Featured != nil && !*p.Featured
		})).Return([]models.Project{}, nil).Once()

		router := setupTestRouter()
		router.GET("/projects", controller.ListProjects)

		w := performRequest(router, http.MethodGet, "/projects?featured=false", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		mockRepo.AssertExpectations(t)
	})

	t.Run("tags query splits on commas", func(t *testing.T) {
		controller, mockRepo := setupProjectController()
		mockRepo.On("FindAll", mock.MatchedBy(func(p repository.ProjectListParams) bool {
			return len(p.Tags) == 2 && p.Tags[0] == "go" && p.Tags[1] == "react"
		})).Return([]models.Project{}, nil).Once()

		router := setupTestRouter()
		router.GET("/projects", controller.ListProjects)

		w := performRequest(router, http.MethodGet, "/projects?tags=go,%20react", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		mockRepo.AssertExpectations(t)
	})
}

func TestUpdateProject(t *testing.T) {
	t.Run("null thumbnail clears the stored value", func(t *testing.T) {
		controller, mockRepo := setupProjectController()
		thumb := "https://res.cloudinary.com/demo/image.png"
		existing := &models.Project{ID: 1, Title: "P", Slug: "p", Description: "d", Thumbnail: &thumb}
		mockRepo.On("FindByID", uint(1)).Return(existing, nil)
		mockRepo.On("Update", mock.MatchedBy(func(p *models.Project) bool {
			return p.Thumbnail == nil
		})).Return(nil)

		router := setupTestRouter()
		router.PUT("/projects/update", controller.UpdateProject)

		w := performRequest(router, http.MethodPut, "/projects/update?id=1", []byte(`{"thumbnail":null}`))
		assert.Equal(t, http.StatusOK, w.Code)
		mockRepo.AssertExpectations(t)
	})

	t.Run("featured toggle counts as an update", func(t *testing.T) {
		controller, mockRepo := setupProjectController()
		existing := &models.Project{ID: 1, Title: "P", Slug: "p", Description: "d"}
		mockRepo.On("FindByID", uint(1)).Return(existing, nil)
		mockRepo.On("Update", mock.MatchedBy(func(p *models.Project) bool {
			return p.Featured
		})).Return(nil)

		router := setupTestRouter()
		router.PUT("/projects/update", controller.UpdateProject)

		w := performRequest(router, http.MethodPut, "/projects/update?id=1", []byte(`{"featured":true}`))
		assert.Equal(t, http.StatusOK, w.Code)
		mockRepo.AssertExpectations(t)
	})

	t.Run("tags sent as JSON string normalize on update", func(t *testing.T) {
		controller, mockRepo := setupProjectController()
		existing := &models.Project{ID: 1, Title: "P", Slug: "p", Description: "d"}
		mockRepo.On("FindByID", uint(1)).Return(existing, nil)
		mockRepo.On("Update", mock.MatchedBy(func(p *models.Project) bool {
			return len(p.Tags) == 2 && p.Tags[0] == "go" && p.Tags[1] == "cli"
		})).Return(nil)

		router := setupTestRouter()
		router.PUT("/projects/update", controller.UpdateProject)

		w := performRequest(router, http.MethodPut, "/projects/update?id=1", []byte(`{"tags":"go, cli"}`))
		assert.Equal(t, http.StatusOK, w.Code)
		mockRepo.AssertExpectations(t)
	})

	t.Run("empty update set is rejected", func(t *testing.T) {
		controller, mockRepo := setupProjectController()
		existing := &models.Project{ID: 1, Title: "P", Slug: "p", Description: "d"}
		mockRepo.On("FindByID", uint(1)).Return(existing, nil)

		router := setupTestRouter()
		router.PUT("/projects/update", controller.UpdateProject)

		w := performRequest(router, http.MethodPut, "/projects/update?id=1", []byte(`{}`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteProject(t *testing.T) {
	t.Run("deletes and returns the row", func(t *testing.T) {
		controller, mockRepo := setupProjectController()
		existing := &models.Project{ID: 4, Title: "P", Slug: "p", Description: "d"}
		mockRepo.On("FindByID", uint(4)).Return(existing, nil)
		mockRepo.On("Delete", uint(4)).Return(nil)

		router := setupTestRouter()
		router.DELETE("/projects/delete", controller.DeleteProject)

		w := performRequest(router, http.MethodDelete, "/projects/delete?id=4", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		controller, mockRepo := setupProjectController()
		mockRepo.On("FindByID", uint(9)).Return(nil, gorm.ErrRecordNotFound)

		router := setupTestRouter()
		router.DELETE("/projects/delete", controller.DeleteProject)

		w := performRequest(router, http.MethodDelete, "/projects/delete?id=9", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetProjectByID(t *testing.T) {
	t.Run("public fetch sets public cache headers", func(t *testing.T) {
		controller, mockRepo := setupProjectController()
		mockRepo.On("FindByID", uint(1)).Return(&models.Project{ID: 1, Slug: "p", Description: "d"}, nil)

		router := setupTestRouter()
		router.GET("/projects/:id", controller.GetProjectByID)

		w := performRequest(router, http.MethodGet, "/projects/1", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "public, s-maxage=300, stale-while-revalidate=60", w.Header().Get("Cache-Control"))
	})

	t.Run("verified admin fetch disables caching", func(t *testing.T) {
		controller, mockRepo := setupProjectController()
		mockRepo.On("FindByID", uint(1)).Return(&models.Project{ID: 1, Slug: "p", Description: "d"}, nil)

		router := setupTestRouter()
		router.Use(adminIdentity())
		router.GET("/projects/:id", controller.GetProjectByID)

		w := performRequest(router, http.MethodGet, "/projects/1?admin=true", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "no-cache, no-store, must-revalidate", w.Header().Get("Cache-Control"))
	})
}
