package handlers

import (
	"net/http"

	"dotmd/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CatalogHandler serves the static lookup entities the submission form
// and filter bar are built from.
type CatalogHandler struct {
	db *gorm.DB
}

func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

func (h *CatalogHandler) Tools(c *gin.Context) {
	var tools []models.Tool
	if err := h.db.Order("sort_order ASC").Find(&tools).Error; err != nil {
		ServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tools": tools})
}

func (h *CatalogHandler) Tags(c *gin.Context) {
	var tags []models.Tag
	if err := h.db.Order("category ASC, name ASC").Find(&tags).Error; err != nil {
		ServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

func (h *CatalogHandler) FileTypes(c *gin.Context) {
	var fileTypes []models.FileType
	if err := h.db.Order("sort_order ASC").Find(&fileTypes).Error; err != nil {
		ServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"file_types": fileTypes})
}
