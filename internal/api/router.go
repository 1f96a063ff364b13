package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"league-service/internal/middleware"
	"league-service/internal/service"
	"league-service/internal/service/game"
	"league-service/internal/ws"
	appErr "league-service/pkg/errors"
	"league-service/pkg/logger"
	"league-service/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Handler struct {
	services *service.Container
	now      func() time.Time
}

func RegisterRoutes(r *gin.Engine, services *service.Container) {
	handler := &Handler{services: services, now: time.Now}
	wsHandler := ws.NewHandler(services.Game)

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong"})
	})

	v1 := r.Group("/league/v1")
	{
		players := v1.Group("/players")
		{
			players.GET("", handler.ListPlayers)
			players.GET("/search", handler.SearchPlayers)
			players.GET("/:id", handler.GetPlayer)
			players.POST("", handler.CreatePlayer)
			players.PUT("/:id", handler.UpdatePlayer)
		}

		seasons := v1.Group("/seasons")
		{
			seasons.GET("", handler.ListSeasons)
			seasons.POST("", handler.CreateSeason)
			seasons.PUT("/:id", handler.UpdateSeason)
		}

		tournaments := v1.Group("/tournaments")
		{
			tournaments.GET("", handler.ListTournaments)
			tournaments.GET("/:id", handler.GetTournament)
			tournaments.POST("", handler.CreateTournament)
			tournaments.PUT("/:id", handler.UpdateTournament)
		}

		rulesets := v1.Group("/rulesets")
		{
			rulesets.GET("", handler.ListRulesets)
			rulesets.GET("/:id", handler.GetRuleset)
			rulesets.POST("", handler.CreateRuleset)
			rulesets.PUT("/:id", handler.UpdateRuleset)
		}

		games := v1.Group("/games")
		{
			games.GET("", handler.ListGames)
			games.GET("/:id", handler.GetGame)
			games.POST("/preview", handler.PreviewGame)
			games.POST("", handler.SubmitGame)
			games.DELETE("/:id", handler.DeleteGame)
		}

		v1.GET("/standings", handler.Standings)
	}

	r.GET("/ws/settlement/preview", wsHandler.HandlePreviewWS)
}

// writeError maps service errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var verr *game.ValidationError
	if errors.As(err, &verr) {
		response.ValidationErrors(c, appErr.ErrSettlementValidation.Error(), verr.Messages)
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, appErr.ErrPlayerNotFound),
		errors.Is(err, appErr.ErrSeasonNotFound),
		errors.Is(err, appErr.ErrTournamentNotFound),
		errors.Is(err, appErr.ErrRulesetNotFound),
		errors.Is(err, appErr.ErrGameNotFound):
		status = http.StatusNotFound
	case errors.Is(err, appErr.ErrInvalidPlayer),
		errors.Is(err, appErr.ErrInvalidSeason),
		errors.Is(err, appErr.ErrInvalidTournament),
		errors.Is(err, appErr.ErrInvalidRuleset),
		errors.Is(err, appErr.ErrInvalidStandingScope):
		status = http.StatusBadRequest
	case errors.Is(err, appErr.ErrGameNumberTaken),
		errors.Is(err, gorm.ErrDuplicatedKey):
		status = http.StatusConflict
	case errors.Is(err, appErr.ErrSubmissionInProgress):
		status = http.StatusTooManyRequests
	}

	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		logger.WithRequest(middleware.RequestID(c)).Error("request failed", zap.Error(err))
	}
	response.Error(c, status, err.Error())
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, fmt.Sprintf("invalid %s id", name))
		return 0, false
	}
	return id, true
}

func parseInt64Query(c *gin.Context, key string) (int64, error) {
	val := c.Query(key)
	if val == "" {
		return 0, nil
	}
	parsed, err := strconv.ParseInt(val, 10, 64)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return parsed, nil
}

func parsePositiveIntQuery(c *gin.Context, key string, defaultVal int) (int, error) {
	val := c.Query(key)
	if val == "" {
		return defaultVal, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return parsed, nil
}

func parsePage(c *gin.Context) (int, int, bool) {
	page, err := parsePositiveIntQuery(c, "page", 1)
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return 0, 0, false
	}
	size, err := parsePositiveIntQuery(c, "size", 20)
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return 0, 0, false
	}
	return page, size, true
}

func parseDate(value string) (time.Time, error) {
	layouts := []string{
		time.DateOnly,
		time.RFC3339,
	}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or RFC3339", value)
}

func parseOptionalDate(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	ts, err := parseDate(strings.TrimSpace(*value))
	if err != nil {
		return nil, err
	}
	return &ts, nil
}
