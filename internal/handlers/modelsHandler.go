package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/promptlens/promptlens/llm"
)

// ModelsHandler exposes the fixed set of model identifiers a client may
// select from.
type ModelsHandler struct {
}

func NewModelsHandler() *ModelsHandler {
	return &ModelsHandler{}
}

func (h *ModelsHandler) ListModels(c *gin.Context) {
	c.JSON(http.StatusOK, llm.SupportedModels)
}
