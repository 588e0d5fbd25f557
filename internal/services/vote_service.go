package services

import (
	"errors"
	"fmt"

	"dotmd/internal/models"
	"dotmd/internal/utils"

	"gorm.io/gorm"
)

// VoteService is the toggle engine behind both vote variants. A toggle
// is check-then-act: look up the (voter, subject) row, delete it if
// present, insert it if absent, then re-read the subject's count from
// the store. The composite unique indexes on the vote tables are what
// actually prevents a racing duplicate from the same voter; the lookup
// here only picks the direction. The returned count is always a fresh
// aggregate, never a locally incremented number, so racing toggles on
// the same subject still report durable state.
type VoteService struct {
	db *gorm.DB
}

func NewVoteService(db *gorm.DB) *VoteService {
	return &VoteService{db: db}
}

// ToggleToolVote flips the authenticated per-tool vote for
// (userID, configID, toolID) and returns the new presence plus the
// total vote count for the config+tool pair.
func (s *VoteService) ToggleToolVote(userID, configID, toolID string) (bool, int64, error) {
	var existing models.Vote
	err := s.db.Where("user_id = ? AND config_id = ? AND tool_id = ?", userID, configID, toolID).
		First(&existing).Error

	var voted bool
	switch {
	case err == nil:
		if err := s.db.Where("id = ?", existing.ID).Delete(&models.Vote{}).Error; err != nil {
			return false, 0, fmt.Errorf("delete vote: %w", err)
		}
		voted = false
	case errors.Is(err, gorm.ErrRecordNotFound):
		vote := models.Vote{UserID: userID, ConfigID: configID, ToolID: toolID}
		if err := s.db.Create(&vote).Error; err != nil {
			return false, 0, fmt.Errorf("create vote: %w", err)
		}
		voted = true
	default:
		return false, 0, fmt.Errorf("lookup vote: %w", err)
	}

	var count int64
	if err := s.db.Model(&models.Vote{}).
		Where("config_id = ? AND tool_id = ?", configID, toolID).
		Count(&count).Error; err != nil {
		return false, 0, fmt.Errorf("count votes: %w", err)
	}

	s.invalidateReadModels(configID)
	return voted, count, nil
}

// ToggleHelpfulVote flips the anonymous "found this helpful" vote for
// (configID, ipHash) and returns the new presence plus the config's
// helpful count. ipHash must already be the one-way digest; raw
// addresses never reach this layer.
func (s *VoteService) ToggleHelpfulVote(configID, ipHash string) (bool, int64, error) {
	var existing models.AnonymousVote
	err := s.db.Where("config_id = ? AND ip_hash = ?", configID, ipHash).
		First(&existing).Error

	var voted bool
	switch {
	case err == nil:
		if err := s.db.Where("id = ?", existing.ID).Delete(&models.AnonymousVote{}).Error; err != nil {
			return false, 0, fmt.Errorf("delete anonymous vote: %w", err)
		}
		voted = false
	case errors.Is(err, gorm.ErrRecordNotFound):
		vote := models.AnonymousVote{ConfigID: configID, IPHash: ipHash}
		if err := s.db.Create(&vote).Error; err != nil {
			return false, 0, fmt.Errorf("create anonymous vote: %w", err)
		}
		voted = true
	default:
		return false, 0, fmt.Errorf("lookup anonymous vote: %w", err)
	}

	var count int64
	if err := s.db.Model(&models.AnonymousVote{}).
		Where("config_id = ?", configID).
		Count(&count).Error; err != nil {
		return false, 0, fmt.Errorf("count anonymous votes: %w", err)
	}

	s.invalidateReadModels(configID)
	return voted, count, nil
}

// invalidateReadModels drops every cached read model this config's
// counts feed into, so the next read rebuilds from the store instead
// of serving pre-toggle numbers. The detail cache is keyed by slug, so
// that needs one lookup; a config that no longer resolves simply has
// no detail entry to drop.
func (s *VoteService) invalidateReadModels(configID string) {
	var cfg models.Config
	if err := s.db.Select("slug").Where("id = ?", configID).Take(&cfg).Error; err == nil && cfg.Slug != "" {
		utils.GetCache().Delete(detailCacheKey(cfg.Slug))
	}
	utils.GetCache().DeletePrefix(browseCachePrefix)
	utils.GetCache().Delete(exportCacheKey)
}
