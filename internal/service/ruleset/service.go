package ruleset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"league-service/internal/model"
	"league-service/internal/settlement"
	appErr "league-service/pkg/errors"
	"league-service/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Service struct {
	db       *gorm.DB
	rdb      *redis.Client
	cacheTTL time.Duration
}

type ListResult struct {
	Items []model.Ruleset
	Total int64
}

type MutationParams struct {
	Name      string
	InPoints  int
	OutPoints int
	UmaFirst  float64
	UmaSecond float64
	UmaThird  float64
	UmaFourth *float64
	Oka       float64
	Chonbo    float64
	Sanma     bool
	Status    string
}

func (p MutationParams) settlement() settlement.Ruleset {
	return settlement.Ruleset{
		InPoints:  p.InPoints,
		OutPoints: p.OutPoints,
		Uma: settlement.Uma{
			First:  p.UmaFirst,
			Second: p.UmaSecond,
			Third:  p.UmaThird,
			Fourth: p.UmaFourth,
		},
		Oka:    p.Oka,
		Chonbo: p.Chonbo,
		Sanma:  p.Sanma,
	}
}

// NewService accepts a nil redis client, in which case lookups always go
// to the database.
func NewService(db *gorm.DB, rdb *redis.Client, cacheTTL time.Duration) *Service {
	return &Service{db: db, rdb: rdb, cacheTTL: cacheTTL}
}

func (s *Service) List(ctx context.Context, page, size int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	var total int64
	if err := s.db.WithContext(ctx).
		Model(&model.Ruleset{}).
		Count(&total).Error; err != nil {
		return nil, err
	}

	items := make([]model.Ruleset, 0)
	if total > 0 {
		offset := (page - 1) * size
		if err := s.db.WithContext(ctx).
			Model(&model.Ruleset{}).
			Order("id DESC").
			Limit(size).
			Offset(offset).
			Find(&items).Error; err != nil {
			return nil, err
		}
	}

	return &ListResult{Items: items, Total: total}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Ruleset, error) {
	var rule model.Ruleset
	if err := s.db.WithContext(ctx).First(&rule, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.ErrRulesetNotFound
		}
		return nil, err
	}
	return &rule, nil
}

func (s *Service) Create(ctx context.Context, params MutationParams) (*model.Ruleset, error) {
	params, err := normalize(params)
	if err != nil {
		return nil, err
	}

	rule := model.Ruleset{
		Name:      params.Name,
		InPoints:  params.InPoints,
		OutPoints: params.OutPoints,
		UmaFirst:  params.UmaFirst,
		UmaSecond: params.UmaSecond,
		UmaThird:  params.UmaThird,
		UmaFourth: params.UmaFourth,
		Oka:       params.Oka,
		Chonbo:    params.Chonbo,
		Sanma:     params.Sanma,
		Status:    params.Status,
	}
	if err := s.db.WithContext(ctx).Create(&rule).Error; err != nil {
		return nil, err
	}
	logger.Log.Info("ruleset created",
		zap.Int64("rulesetID", rule.ID),
		zap.String("name", rule.Name),
		zap.Bool("sanma", rule.Sanma))
	return &rule, nil
}

func (s *Service) Update(ctx context.Context, id int64, params MutationParams) (*model.Ruleset, error) {
	params, err := normalize(params)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":       params.Name,
		"in_points":  params.InPoints,
		"out_points": params.OutPoints,
		"uma_first":  params.UmaFirst,
		"uma_second": params.UmaSecond,
		"uma_third":  params.UmaThird,
		"uma_fourth": params.UmaFourth,
		"oka":        params.Oka,
		"chonbo":     params.Chonbo,
		"sanma":      params.Sanma,
		"status":     params.Status,
	}

	result := s.db.WithContext(ctx).
		Model(&model.Ruleset{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, appErr.ErrRulesetNotFound
	}
	s.evict(ctx, id)

	return s.Get(ctx, id)
}

// Settlement loads a ruleset in the shape the settlement engine consumes.
// Stored rows are validated again so a malformed ruleset never reaches
// the engine.
func (s *Service) Settlement(ctx context.Context, id int64) (*settlement.Ruleset, error) {
	if cached, ok := s.cached(ctx, id); ok {
		return cached, nil
	}

	rule, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	rs := ToSettlement(*rule)
	if err := rs.Validate(); err != nil {
		return nil, fmt.Errorf("%w: ruleset %d: %v", appErr.ErrInvalidRuleset, id, err)
	}
	s.store(ctx, id, rs)
	return &rs, nil
}

func ToSettlement(rule model.Ruleset) settlement.Ruleset {
	return settlement.Ruleset{
		InPoints:  rule.InPoints,
		OutPoints: rule.OutPoints,
		Uma: settlement.Uma{
			First:  rule.UmaFirst,
			Second: rule.UmaSecond,
			Third:  rule.UmaThird,
			Fourth: rule.UmaFourth,
		},
		Oka:    rule.Oka,
		Chonbo: rule.Chonbo,
		Sanma:  rule.Sanma,
	}
}

func normalize(params MutationParams) (MutationParams, error) {
	params.Name = strings.TrimSpace(params.Name)
	if params.Name == "" {
		return params, fmt.Errorf("%w: name is required", appErr.ErrInvalidRuleset)
	}
	params.Status = strings.ToLower(strings.TrimSpace(params.Status))
	if params.Status == "" {
		params.Status = "enabled"
	}
	if params.Status != "enabled" && params.Status != "disabled" {
		return params, fmt.Errorf("%w: status must be enabled or disabled", appErr.ErrInvalidRuleset)
	}
	if err := params.settlement().Validate(); err != nil {
		return params, fmt.Errorf("%w: %v", appErr.ErrInvalidRuleset, err)
	}
	return params, nil
}

func (s *Service) cached(ctx context.Context, id int64) (*settlement.Ruleset, bool) {
	if s.rdb == nil {
		return nil, false
	}
	data, err := s.rdb.Get(ctx, buildCacheKey(id)).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("ruleset cache read failed", zap.Int64("rulesetID", id), zap.Error(err))
		}
		return nil, false
	}
	var rs settlement.Ruleset
	if err := json.Unmarshal([]byte(data), &rs); err != nil {
		return nil, false
	}
	return &rs, true
}

func (s *Service) store(ctx context.Context, id int64, rs settlement.Ruleset) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(rs)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, buildCacheKey(id), data, s.cacheTTL).Err(); err != nil {
		logger.Log.Warn("ruleset cache write failed", zap.Int64("rulesetID", id), zap.Error(err))
	}
}

func (s *Service) evict(ctx context.Context, id int64) {
	if s.rdb == nil {
		return
	}
	s.rdb.Del(ctx, buildCacheKey(id))
}

func buildCacheKey(id int64) string {
	return fmt.Sprintf("ruleset:settlement:%d", id)
}
