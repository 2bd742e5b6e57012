package controllers

import (
	"io"
	"net/http"
	"strings"

	"portfolio/internal/media"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const maxUploadSize = 2 * 1024 * 1024

var allowedImageTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/jpg":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
}

type UploadController struct {
	uploader media.Uploader
	logger   *logrus.Logger
}

func NewUploadController(uploader media.Uploader, logger *logrus.Logger) *UploadController {
	return &UploadController{uploader: uploader, logger: logger}
}

// UploadImage godoc
// @Summary Upload an image
// @Description Forward a single image to the external media host and return its URL
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Router /upload [post]
func (uc *UploadController) UploadImage(c *gin.Context) {
	// The gate checks only the shape of the header, matching the observed
	// behavior: the token is not verified against the signing secret here.
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Unauthorized",
			"code":  "MISSING_TOKEN",
		})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No file provided",
			"code":  "MISSING_FILE",
		})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid file type. Only JPEG, PNG, JPG, GIF, WEBP, and SVG are allowed.",
			"code":  "INVALID_FILE_TYPE",
		})
		return
	}

	if fileHeader.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "File size too large. Maximum size is 2MB.",
			"code":  "FILE_TOO_LARGE",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to read uploaded file",
			"code":  "INTERNAL_ERROR",
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to read uploaded file",
			"code":  "INTERNAL_ERROR",
		})
		return
	}

	imageURL, err := uc.uploader.Upload(fileHeader.Filename, data)
	if err != nil {
		uc.logger.WithField("file", fileHeader.Filename).WithError(err).Error("image upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to upload image",
			"code":  "UPLOAD_FAILED",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"imageUrl": imageURL,
	})
}
