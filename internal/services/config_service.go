package services

import (
	"fmt"
	"time"

	"dotmd/internal/models"
	"dotmd/internal/utils"

	"gorm.io/gorm"
)

type ConfigService struct {
	db *gorm.DB
}

func NewConfigService(db *gorm.DB) *ConfigService {
	return &ConfigService{db: db}
}

// SubmitInput is a submission after shape validation (lengths, id
// formats) at the handler boundary.
type SubmitInput struct {
	Title       string
	Description string
	Content     string
	FileTypeID  string
	ToolIDs     []string
	TagIDs      []string
}

type SubmitResult struct {
	ID     string `json:"id"`
	Slug   string `json:"slug"`
	Status string `json:"status"`
}

// Submit persists a validated submission as a pending config plus its
// tool and tag link rows. The inserts are not transactional: a link
// failure after the config row exists surfaces as a generic error and
// leaves the orphan row behind. Pending rows are never publicly
// visible, so moderation cleans those up.
func (s *ConfigService) Submit(user *models.User, in SubmitInput) (*SubmitResult, error) {
	base := utils.SlugifyTitle(in.Title)
	if base == "" || utils.IsReservedSlug(base) {
		return nil, &FieldError{Field: "title", Message: "Title results in a reserved slug. Please choose a different title."}
	}

	slug := utils.GenerateSlug(in.Title)
	// Unreachable with the hash suffix in place, but cheap to keep the
	// invariant airtight.
	if utils.IsReservedSlug(slug) {
		return nil, &FieldError{Field: "title", Message: "Generated slug is reserved. Please choose a different title."}
	}

	cfg := models.Config{
		Slug:        slug,
		Title:       in.Title,
		Description: in.Description,
		Content:     in.Content,
		AuthorID:    &user.ID,
		AuthorName:  user.DisplayName(),
		License:     models.LicenseCC0,
		Status:      models.StatusPending,
		FileTypeID:  in.FileTypeID,
	}
	if err := s.db.Create(&cfg).Error; err != nil {
		return nil, fmt.Errorf("create config: %w", err)
	}

	toolLinks := make([]models.ConfigTool, 0, len(in.ToolIDs))
	for _, toolID := range dedupe(in.ToolIDs) {
		toolLinks = append(toolLinks, models.ConfigTool{ConfigID: cfg.ID, ToolID: toolID})
	}
	if err := s.db.Create(&toolLinks).Error; err != nil {
		return nil, fmt.Errorf("create config tools: %w", err)
	}

	tagLinks := make([]models.ConfigTag, 0, len(in.TagIDs))
	for _, tagID := range dedupe(in.TagIDs) {
		tagLinks = append(tagLinks, models.ConfigTag{ConfigID: cfg.ID, TagID: tagID})
	}
	if err := s.db.Create(&tagLinks).Error; err != nil {
		return nil, fmt.Errorf("create config tags: %w", err)
	}

	return &SubmitResult{ID: cfg.ID, Slug: slug, Status: models.StatusPending}, nil
}

// dedupe drops repeated ids while keeping first-seen order. The join
// tables carry no composite unique index, so this is the only guard
// against a client listing the same tool twice.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ToolVoteCount is the per-tool vote tally shown on a config detail.
type ToolVoteCount struct {
	ToolSlug string `json:"tool_slug"`
	ToolName string `json:"tool_name"`
	Count    int64  `json:"count"`
}

type ConfigDetail struct {
	ID           string           `json:"id"`
	Slug         string           `json:"slug"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Content      string           `json:"content"`
	ContentHTML  string           `json:"content_html"`
	AuthorName   string           `json:"author_name"`
	License      string           `json:"license"`
	SourceURL    string           `json:"source_url"`
	PublishedAt  *time.Time       `json:"published_at"`
	FileType     *FileTypeSummary `json:"file_type"`
	Tools        []ToolSummary    `json:"tools"`
	Tags         []TagSummary     `json:"tags"`
	HelpfulCount int64            `json:"helpful_count"`
	ToolVotes    []ToolVoteCount  `json:"tool_votes"`
	TotalVotes   int64            `json:"total_votes"`
}

func detailCacheKey(slug string) string {
	return "config:detail:" + slug
}

// GetBySlug assembles the detail read model for one published config.
// Returns gorm.ErrRecordNotFound (wrapped) when the slug does not
// resolve; that is a normal empty result, not a store failure.
func (s *ConfigService) GetBySlug(slug string) (*ConfigDetail, error) {
	cacheKey := detailCacheKey(slug)
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if detail, ok := cached.(*ConfigDetail); ok {
			return detail, nil
		}
	}

	var cfg models.Config
	if err := s.db.Preload("FileType").
		Where("slug = ? AND status = ?", slug, models.StatusPublished).
		First(&cfg).Error; err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	var tools []ToolSummary
	if err := s.db.Model(&models.ConfigTool{}).
		Select("tools.slug, tools.name").
		Joins("JOIN tools ON tools.id = config_tools.tool_id").
		Where("config_tools.config_id = ?", cfg.ID).
		Scan(&tools).Error; err != nil {
		return nil, fmt.Errorf("load config tools: %w", err)
	}

	var tags []TagSummary
	if err := s.db.Model(&models.ConfigTag{}).
		Select("tags.slug, tags.name, tags.category").
		Joins("JOIN tags ON tags.id = config_tags.tag_id").
		Where("config_tags.config_id = ?", cfg.ID).
		Scan(&tags).Error; err != nil {
		return nil, fmt.Errorf("load config tags: %w", err)
	}

	var helpful int64
	if err := s.db.Model(&models.AnonymousVote{}).
		Where("config_id = ?", cfg.ID).
		Count(&helpful).Error; err != nil {
		return nil, fmt.Errorf("count helpful votes: %w", err)
	}

	var toolVotes []ToolVoteCount
	if err := s.db.Model(&models.Vote{}).
		Select("tools.slug AS tool_slug, tools.name AS tool_name, COUNT(*) AS count").
		Joins("JOIN tools ON tools.id = votes.tool_id").
		Where("votes.config_id = ?", cfg.ID).
		Group("tools.slug, tools.name").
		Scan(&toolVotes).Error; err != nil {
		return nil, fmt.Errorf("count tool votes: %w", err)
	}

	total := helpful
	for _, tv := range toolVotes {
		total += tv.Count
	}

	detail := &ConfigDetail{
		ID:           cfg.ID,
		Slug:         cfg.Slug,
		Title:        cfg.Title,
		Description:  cfg.Description,
		Content:      cfg.Content,
		ContentHTML:  utils.RenderMarkdown(cfg.Content),
		AuthorName:   cfg.AuthorName,
		License:      cfg.License,
		SourceURL:    cfg.SourceURL,
		PublishedAt:  cfg.PublishedAt,
		FileType:     fileTypeSummary(cfg.FileType),
		Tools:        tools,
		Tags:         tags,
		HelpfulCount: helpful,
		ToolVotes:    toolVotes,
		TotalVotes:   total,
	}

	utils.GetCache().Set(cacheKey, detail, 5*time.Minute)
	return detail, nil
}

func fileTypeSummary(ft models.FileType) *FileTypeSummary {
	if ft.ID == "" {
		return nil
	}
	return &FileTypeSummary{Slug: ft.Slug, Name: ft.Name, DefaultPath: ft.DefaultPath}
}
