package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"dotmd/internal/services"
	"dotmd/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ConfigHandler struct {
	configs *services.ConfigService
	browse  *services.BrowseService
}

func NewConfigHandler(configs *services.ConfigService, browse *services.BrowseService) *ConfigHandler {
	return &ConfigHandler{configs: configs, browse: browse}
}

type submitRequest struct {
	Title       string   `json:"title" binding:"required,min=3,max=100"`
	Description string   `json:"description" binding:"required,min=10,max=500"`
	Content     string   `json:"content" binding:"required,min=10,max=50000"`
	FileTypeID  string   `json:"file_type_id" binding:"required,uuid"`
	ToolIDs     []string `json:"tool_ids" binding:"required,min=1,dive,uuid"`
	TagIDs      []string `json:"tag_ids" binding:"required,min=1,dive,uuid"`
}

// Submit accepts a new config submission from the logged-in user and
// answers with the pending row's id and slug.
func (h *ConfigHandler) Submit(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindingError(c, err)
		return
	}

	result, err := h.configs.Submit(user, services.SubmitInput{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		FileTypeID:  req.FileTypeID,
		ToolIDs:     req.ToolIDs,
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		var fieldErr *services.FieldError
		if errors.As(err, &fieldErr) {
			FieldErrors(c, map[string][]string{fieldErr.Field: {fieldErr.Message}})
			return
		}
		ServerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Detail serves the read model for one published config.
func (h *ConfigHandler) Detail(c *gin.Context) {
	detail, err := h.configs.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		ServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Browse serves a filtered, sorted, paginated page of published
// configs. Unknown sorts fall back to popular; out-of-range pages
// clamp.
func (h *ConfigHandler) Browse(c *gin.Context) {
	page := utils.IntParam(c.Query("page"))
	if page < 1 {
		page = 1
	}

	result, err := h.browse.Browse(
		c.Query("tool"),
		c.Query("tag"),
		services.ParseSort(c.Query("sort")),
		page,
	)
	if err != nil {
		ServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Search runs the store-side text search over published configs.
func (h *ConfigHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query required"})
		return
	}

	results, err := h.browse.Search(query, utils.IntParam(c.Query("limit")), utils.IntParam(c.Query("offset")))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"total":   len(results),
		"query":   query,
	})
}

// Export serves the full published catalog with content, newest first.
func (h *ConfigHandler) Export(c *gin.Context) {
	configs, err := h.browse.ExportPublished()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "configs unavailable"})
		return
	}

	c.Header("Cache-Control", "s-maxage=86400")
	c.JSON(http.StatusOK, gin.H{
		"configs":      configs,
		"generated_at": time.Now().UTC().Format(time.RFC3339),
	})
}
