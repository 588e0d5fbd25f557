package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"dotmd/internal/models"
	"dotmd/internal/utils"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

const BrowsePageSize = 20

// Browse sort modes. Popular is the default.
const (
	SortPopular      = "popular"
	SortNewest       = "newest"
	SortAlphabetical = "alphabetical"
)

const (
	searchDefaultLimit = 20
	searchMaxLimit     = 50
)

// Cache keys for the read models built here. The vote toggles drop
// these when they change the counts the models carry.
const (
	browseCachePrefix = "browse:"
	exportCacheKey    = "configs:export"
)

type ToolSummary struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type TagSummary struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

type FileTypeSummary struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	DefaultPath string `json:"default_path,omitempty"`
}

// ConfigListItem is the browse/search read-model row: a published
// config joined with its relations and vote tallies.
type ConfigListItem struct {
	ID           string           `json:"id"`
	Slug         string           `json:"slug"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	AuthorName   string           `json:"author_name"`
	FileType     *FileTypeSummary `json:"file_type"`
	Tools        []ToolSummary    `json:"tools"`
	Tags         []TagSummary     `json:"tags"`
	HelpfulCount int64            `json:"helpful_count"`
	TotalVotes   int64            `json:"total_votes"`
	PublishedAt  *time.Time       `json:"published_at"`
}

type BrowsePage struct {
	Configs    []ConfigListItem `json:"configs"`
	Tools      []ToolSummary    `json:"tools"`
	Tags       []TagSummary     `json:"tags"`
	Sort       string           `json:"sort"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
	Total      int              `json:"total"`
}

// BrowseService assembles the published read model. Relations are
// fetched as flat rows and joined in memory by config id rather than
// asking the store for nested joins; at directory scale that is a few
// thousand rows per request at worst, and the result is cached.
type BrowseService struct {
	db *gorm.DB
}

func NewBrowseService(db *gorm.DB) *BrowseService {
	return &BrowseService{db: db}
}

// ParseSort maps an arbitrary query value onto a supported sort mode.
func ParseSort(value string) string {
	switch value {
	case SortNewest, SortAlphabetical, SortPopular:
		return value
	default:
		return SortPopular
	}
}

// Browse returns one page of published configs matching the optional
// tool and tag slug filters, plus the filter options that currently
// have published content.
func (s *BrowseService) Browse(toolSlug, tagSlug, sortMode string, page int) (*BrowsePage, error) {
	cacheKey := fmt.Sprintf(browseCachePrefix+"%s:%s:%s:%d", toolSlug, tagSlug, sortMode, page)
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if result, ok := cached.(*BrowsePage); ok {
			return result, nil
		}
	}

	items, err := s.loadPublished(nil)
	if err != nil {
		return nil, err
	}

	filtered := filterItems(items, toolSlug, tagSlug)
	sortItems(filtered, sortMode)
	pageItems, currentPage, totalPages := paginate(filtered, page)

	activeTools, activeTags, err := s.activeFilterOptions(items)
	if err != nil {
		return nil, err
	}

	result := &BrowsePage{
		Configs:    pageItems,
		Tools:      activeTools,
		Tags:       activeTags,
		Sort:       sortMode,
		Page:       currentPage,
		TotalPages: totalPages,
		Total:      len(filtered),
	}

	utils.GetCache().Set(cacheKey, result, time.Minute)
	return result, nil
}

// Search delegates matching to the store's websearch query over the
// stored tsvector and returns the [offset, offset+limit) window of
// read-model rows. Limit defaults to 20 and clamps to 50.
func (s *BrowseService) Search(query string, limit, offset int) ([]ConfigListItem, error) {
	limit = clampLimit(limit)
	if offset < 0 {
		offset = 0
	}

	var configs []models.Config
	if err := s.db.Preload("FileType").
		Where("status = ?", models.StatusPublished).
		Where("search_vector @@ websearch_to_tsquery('english', ?)", query).
		Limit(limit).
		Offset(offset).
		Find(&configs).Error; err != nil {
		return nil, fmt.Errorf("search configs: %w", err)
	}
	if len(configs) == 0 {
		return []ConfigListItem{}, nil
	}

	ids := make([]string, len(configs))
	for i, cfg := range configs {
		ids[i] = cfg.ID
	}
	return s.assemble(configs, ids)
}

// ExportConfig is the row shape of the public full-catalog export.
type ExportConfig struct {
	Slug        string           `json:"slug"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Content     string           `json:"content"`
	FileType    *FileTypeSummary `json:"file_type"`
	AuthorName  string           `json:"author_name"`
	License     string           `json:"license"`
	Tools       []ToolSummary    `json:"tools"`
	Tags        []TagSummary     `json:"tags"`
	TotalVotes  int64            `json:"total_votes"`
	PublishedAt *time.Time       `json:"published_at"`
}

// ExportPublished returns every published config with full content,
// newest first, for the public API export.
func (s *BrowseService) ExportPublished() ([]ExportConfig, error) {
	if cached := utils.GetCache().Get(exportCacheKey); cached != nil {
		if result, ok := cached.([]ExportConfig); ok {
			return result, nil
		}
	}

	items, err := s.loadPublished(nil)
	if err != nil {
		return nil, err
	}
	sortItems(items, SortNewest)

	contentByID := make(map[string]models.Config, len(items))
	var configs []models.Config
	if err := s.db.Select("id, content, license").
		Where("status = ?", models.StatusPublished).
		Find(&configs).Error; err != nil {
		return nil, fmt.Errorf("load config contents: %w", err)
	}
	for _, cfg := range configs {
		contentByID[cfg.ID] = cfg
	}

	out := make([]ExportConfig, 0, len(items))
	for _, item := range items {
		cfg := contentByID[item.ID]
		out = append(out, ExportConfig{
			Slug:        item.Slug,
			Title:       item.Title,
			Description: item.Description,
			Content:     cfg.Content,
			FileType:    item.FileType,
			AuthorName:  item.AuthorName,
			License:     cfg.License,
			Tools:       item.Tools,
			Tags:        item.Tags,
			TotalVotes:  item.TotalVotes,
			PublishedAt: item.PublishedAt,
		})
	}

	utils.GetCache().Set(exportCacheKey, out, time.Hour)
	return out, nil
}

// loadPublished fetches the published configs (optionally narrowed to
// ids) and joins in their relations and vote counts.
func (s *BrowseService) loadPublished(ids []string) ([]ConfigListItem, error) {
	q := s.db.Preload("FileType").Where("status = ?", models.StatusPublished)
	if ids != nil {
		q = q.Where("id IN ?", ids)
	}
	var configs []models.Config
	if err := q.Find(&configs).Error; err != nil {
		return nil, fmt.Errorf("load published configs: %w", err)
	}
	if len(configs) == 0 {
		return []ConfigListItem{}, nil
	}

	configIDs := make([]string, len(configs))
	for i, cfg := range configs {
		configIDs[i] = cfg.ID
	}
	return s.assemble(configs, configIDs)
}

func (s *BrowseService) assemble(configs []models.Config, ids []string) ([]ConfigListItem, error) {
	type toolLinkRow struct {
		ConfigID string
		Slug     string
		Name     string
	}
	var toolRows []toolLinkRow
	if err := s.db.Model(&models.ConfigTool{}).
		Select("config_tools.config_id, tools.slug, tools.name").
		Joins("JOIN tools ON tools.id = config_tools.tool_id").
		Where("config_tools.config_id IN ?", ids).
		Scan(&toolRows).Error; err != nil {
		return nil, fmt.Errorf("load config tools: %w", err)
	}
	toolsByConfig := make(map[string][]ToolSummary)
	for _, row := range toolRows {
		toolsByConfig[row.ConfigID] = append(toolsByConfig[row.ConfigID], ToolSummary{Slug: row.Slug, Name: row.Name})
	}

	type tagLinkRow struct {
		ConfigID string
		Slug     string
		Name     string
		Category string
	}
	var tagRows []tagLinkRow
	if err := s.db.Model(&models.ConfigTag{}).
		Select("config_tags.config_id, tags.slug, tags.name, tags.category").
		Joins("JOIN tags ON tags.id = config_tags.tag_id").
		Where("config_tags.config_id IN ?", ids).
		Scan(&tagRows).Error; err != nil {
		return nil, fmt.Errorf("load config tags: %w", err)
	}
	tagsByConfig := make(map[string][]TagSummary)
	for _, row := range tagRows {
		tagsByConfig[row.ConfigID] = append(tagsByConfig[row.ConfigID], TagSummary{Slug: row.Slug, Name: row.Name, Category: row.Category})
	}

	voteCounts, err := s.groupedCounts(&models.Vote{}, ids)
	if err != nil {
		return nil, fmt.Errorf("count votes: %w", err)
	}
	helpfulCounts, err := s.groupedCounts(&models.AnonymousVote{}, ids)
	if err != nil {
		return nil, fmt.Errorf("count anonymous votes: %w", err)
	}

	items := make([]ConfigListItem, 0, len(configs))
	for _, cfg := range configs {
		helpful := helpfulCounts[cfg.ID]
		items = append(items, ConfigListItem{
			ID:           cfg.ID,
			Slug:         cfg.Slug,
			Title:        cfg.Title,
			Description:  cfg.Description,
			AuthorName:   cfg.AuthorName,
			FileType:     fileTypeSummary(cfg.FileType),
			Tools:        toolsByConfig[cfg.ID],
			Tags:         tagsByConfig[cfg.ID],
			HelpfulCount: helpful,
			TotalVotes:   helpful + voteCounts[cfg.ID],
			PublishedAt:  cfg.PublishedAt,
		})
	}
	return items, nil
}

// groupedCounts batches per-config row counts the same way the list
// pages batch comment counts: one grouped aggregate per table.
func (s *BrowseService) groupedCounts(model interface{}, ids []string) (map[string]int64, error) {
	type countRow struct {
		ConfigID string
		Count    int64
	}
	var rows []countRow
	if err := s.db.Model(model).
		Select("config_id, COUNT(*) AS count").
		Where("config_id IN ?", ids).
		Group("config_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ConfigID] = row.Count
	}
	return counts, nil
}

// activeFilterOptions narrows the catalog to tools and tags that have
// at least one published config, in catalog order.
func (s *BrowseService) activeFilterOptions(items []ConfigListItem) ([]ToolSummary, []TagSummary, error) {
	toolSlugs := make(map[string]struct{})
	tagSlugs := make(map[string]struct{})
	for _, item := range items {
		for _, tool := range item.Tools {
			toolSlugs[tool.Slug] = struct{}{}
		}
		for _, tag := range item.Tags {
			tagSlugs[tag.Slug] = struct{}{}
		}
	}

	var tools []models.Tool
	if err := s.db.Order("sort_order ASC").Find(&tools).Error; err != nil {
		return nil, nil, fmt.Errorf("load tools: %w", err)
	}
	var tags []models.Tag
	if err := s.db.Order("category ASC, name ASC").Find(&tags).Error; err != nil {
		return nil, nil, fmt.Errorf("load tags: %w", err)
	}

	activeTools := make([]ToolSummary, 0, len(tools))
	for _, tool := range tools {
		if _, ok := toolSlugs[tool.Slug]; ok {
			activeTools = append(activeTools, ToolSummary{Slug: tool.Slug, Name: tool.Name})
		}
	}
	activeTags := make([]TagSummary, 0, len(tags))
	for _, tag := range tags {
		if _, ok := tagSlugs[tag.Slug]; ok {
			activeTags = append(activeTags, TagSummary{Slug: tag.Slug, Name: tag.Name, Category: tag.Category})
		}
	}
	return activeTools, activeTags, nil
}

// filterItems applies the tool and tag slug filters as a logical AND.
func filterItems(items []ConfigListItem, toolSlug, tagSlug string) []ConfigListItem {
	out := make([]ConfigListItem, 0, len(items))
	for _, item := range items {
		if toolSlug != "" && !hasToolSlug(item.Tools, toolSlug) {
			continue
		}
		if tagSlug != "" && !hasTagSlug(item.Tags, tagSlug) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func hasToolSlug(tools []ToolSummary, slug string) bool {
	for _, tool := range tools {
		if tool.Slug == slug {
			return true
		}
	}
	return false
}

func hasTagSlug(tags []TagSummary, slug string) bool {
	for _, tag := range tags {
		if tag.Slug == slug {
			return true
		}
	}
	return false
}

func publishedUnix(item ConfigListItem) int64 {
	if item.PublishedAt == nil {
		return 0 // missing timestamp sorts as the epoch
	}
	return item.PublishedAt.UnixMilli()
}

// sortItems orders in place: alphabetical is locale-aware title
// ascending, newest is published-time descending, popular is total
// votes descending with newest as the tiebreak.
func sortItems(items []ConfigListItem, sortMode string) {
	switch sortMode {
	case SortAlphabetical:
		coll := collate.New(language.English)
		sort.SliceStable(items, func(i, j int) bool {
			return coll.CompareString(items[i].Title, items[j].Title) < 0
		})
	case SortNewest:
		sort.SliceStable(items, func(i, j int) bool {
			return publishedUnix(items[i]) > publishedUnix(items[j])
		})
	default:
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].TotalVotes != items[j].TotalVotes {
				return items[i].TotalVotes > items[j].TotalVotes
			}
			return publishedUnix(items[i]) > publishedUnix(items[j])
		})
	}
}

// paginate clamps the requested page into [1, totalPages] and slices
// out that window. Out-of-range pages clamp instead of erroring.
func paginate(items []ConfigListItem, page int) ([]ConfigListItem, int, int) {
	totalPages := int(math.Ceil(float64(len(items)) / float64(BrowsePageSize)))
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * BrowsePageSize
	end := start + BrowsePageSize
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], page, totalPages
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return searchDefaultLimit
	}
	if limit > searchMaxLimit {
		return searchMaxLimit
	}
	return limit
}
