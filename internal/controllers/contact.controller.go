package controllers

import (
	"net/http"
	"strings"

	"portfolio/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

type ContactController struct {
	mailer utils.Mailer
	logger *logrus.Logger
}

func NewContactController(mailer utils.Mailer, logger *logrus.Logger) *ContactController {
	return &ContactController{mailer: mailer, logger: logger}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// SubmitContact godoc
// @Summary Submit the contact form
// @Description Forward a visitor message to the site owner by email
// @Tags contact
// @Accept json
// @Produce json
// @Router /contact [post]
func (cc *ContactController) SubmitContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
			"code":  "INVALID_JSON",
		})
		return
	}

	if strings.TrimSpace(req.Name) == "" ||
		strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing required fields",
			"code":  "MISSING_FIELDS",
		})
		return
	}

	if err := cc.mailer.SendContactMessage(req.Name, req.Email, req.Message); err != nil {
		if eris.Is(err, utils.ErrMailAuth) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Email service rejected the configured credentials",
				"code":  "MAIL_AUTH_FAILED",
			})
			return
		}
		cc.logger.WithError(err).Error("failed to send contact message")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to send message",
			"code":  "MAIL_SEND_FAILED",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
