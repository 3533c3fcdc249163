package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/promptlens/promptlens/models"
)

const (
	invalidPromptMessage = "Invalid prompt provided"
	missingKeyMessage    = "No API key configured on the server and none provided in the request"
	refineFailedMessage  = "Failed to refine prompt. Please try again!"
)

// ProcessInvalidPrompt rejects a request whose prompt is missing, null,
// not a string, or blank.
func ProcessInvalidPrompt(c *gin.Context) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: invalidPromptMessage})
}

// ProcessMissingCredential reports the configuration error used when no
// credential is resolvable for the request.
func ProcessMissingCredential(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: missingKeyMessage})
}

// ProcessUpstreamFailure reports a failed upstream call. The message is
// deliberately generic so upstream status and body never reach clients.
func ProcessUpstreamFailure(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: refineFailedMessage})
}
