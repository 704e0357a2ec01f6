package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/brewcast/internal/domain/models"
	"github.com/mamadbah2/brewcast/internal/yeast"
)

// ProfileCatalog is the read-only view of the yeast profile table.
type ProfileCatalog interface {
	Lookup(key string) (models.YeastProfile, error)
	All() []models.YeastProfile
}

// YeastHandler exposes the yeast profile table.
type YeastHandler struct {
	profiles ProfileCatalog
}

// NewYeastHandler constructs the yeast profile handler.
func NewYeastHandler(profiles ProfileCatalog) *YeastHandler {
	return &YeastHandler{profiles: profiles}
}

// List returns every profile ordered by key.
func (h *YeastHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"profiles": h.profiles.All()})
}

// Get returns one profile by strain key.
func (h *YeastHandler) Get(c *gin.Context) {
	profile, err := h.profiles.Lookup(c.Param("key"))
	if err != nil {
		if errors.Is(err, yeast.ErrUnknownStrain) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Hello is the placeholder greeting route.
func Hello(c *gin.Context) {
	c.String(http.StatusOK, "Hello, world!")
}
