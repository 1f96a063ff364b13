package season

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"league-service/internal/model"
	appErr "league-service/pkg/errors"

	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Service struct {
	db *gorm.DB
}

type ListResult struct {
	Items []model.Season
	Total int64
}

type MutationParams struct {
	Name     string
	StartsOn time.Time
	EndsOn   *time.Time
	Status   string
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func normalizePagination(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

func (s *Service) List(ctx context.Context, page, size int) (*ListResult, error) {
	page, size = normalizePagination(page, size)

	var total int64
	if err := s.db.WithContext(ctx).Model(&model.Season{}).Count(&total).Error; err != nil {
		return nil, err
	}

	result := &ListResult{
		Items: make([]model.Season, 0),
		Total: total,
	}
	if total == 0 {
		return result, nil
	}

	offset := (page - 1) * size
	if err := s.db.WithContext(ctx).
		Model(&model.Season{}).
		Order("starts_on DESC, id DESC").
		Limit(size).
		Offset(offset).
		Find(&result.Items).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Season, error) {
	var season model.Season
	if err := s.db.WithContext(ctx).First(&season, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.ErrSeasonNotFound
		}
		return nil, err
	}
	return &season, nil
}

func (s *Service) Create(ctx context.Context, params MutationParams) (*model.Season, error) {
	params, err := validateMutationParams(params)
	if err != nil {
		return nil, err
	}

	season := model.Season{
		Name:     params.Name,
		StartsOn: params.StartsOn,
		EndsOn:   params.EndsOn,
		Status:   params.Status,
	}
	if err := s.db.WithContext(ctx).Create(&season).Error; err != nil {
		return nil, err
	}
	return &season, nil
}

func (s *Service) Update(ctx context.Context, id int64, params MutationParams) (*model.Season, error) {
	params, err := validateMutationParams(params)
	if err != nil {
		return nil, err
	}

	result := s.db.WithContext(ctx).
		Model(&model.Season{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":      params.Name,
			"starts_on": params.StartsOn,
			"ends_on":   params.EndsOn,
			"status":    params.Status,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, appErr.ErrSeasonNotFound
	}
	return s.Get(ctx, id)
}

func validateMutationParams(params MutationParams) (MutationParams, error) {
	params.Name = strings.TrimSpace(params.Name)
	params.Status = strings.ToLower(strings.TrimSpace(params.Status))
	if params.Status == "" {
		params.Status = "open"
	}

	if params.Name == "" {
		return params, fmt.Errorf("%w: name is required", appErr.ErrInvalidSeason)
	}
	if params.StartsOn.IsZero() {
		return params, fmt.Errorf("%w: startsOn is required", appErr.ErrInvalidSeason)
	}
	if params.EndsOn != nil && params.EndsOn.Before(params.StartsOn) {
		return params, fmt.Errorf("%w: endsOn must not be before startsOn", appErr.ErrInvalidSeason)
	}
	if params.Status != "open" && params.Status != "closed" {
		return params, fmt.Errorf("%w: status must be open or closed", appErr.ErrInvalidSeason)
	}
	return params, nil
}
