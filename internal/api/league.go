package api

import (
	"net/http"
	"strings"

	"league-service/internal/service/player"
	"league-service/internal/service/ruleset"
	"league-service/internal/service/season"
	"league-service/internal/service/tournament"
	"league-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type playerBody struct {
	Name        string `json:"name" binding:"required"`
	Nickname    string `json:"nickname"`
	CountryCode string `json:"countryCode" binding:"omitempty,len=2"`
	LeagueCode  string `json:"leagueCode"`
	Status      string `json:"status" binding:"omitempty,oneof=active inactive"`
}

func (b playerBody) toParams() player.MutationParams {
	return player.MutationParams{
		Name:        b.Name,
		Nickname:    b.Nickname,
		CountryCode: b.CountryCode,
		LeagueCode:  b.LeagueCode,
		Status:      b.Status,
	}
}

type seasonBody struct {
	Name     string  `json:"name" binding:"required"`
	StartsOn string  `json:"startsOn" binding:"required"`
	EndsOn   *string `json:"endsOn"`
	Status   string  `json:"status" binding:"omitempty,oneof=open closed"`
}

func (b seasonBody) toParams() (season.MutationParams, error) {
	startsOn, err := parseDate(strings.TrimSpace(b.StartsOn))
	if err != nil {
		return season.MutationParams{}, err
	}
	endsOn, err := parseOptionalDate(b.EndsOn)
	if err != nil {
		return season.MutationParams{}, err
	}
	return season.MutationParams{
		Name:     b.Name,
		StartsOn: startsOn,
		EndsOn:   endsOn,
		Status:   b.Status,
	}, nil
}

type tournamentBody struct {
	SeasonID  int64   `json:"seasonId" binding:"required,min=1"`
	RulesetID int64   `json:"rulesetId" binding:"required,min=1"`
	Name      string  `json:"name" binding:"required"`
	Venue     string  `json:"venue"`
	StartsOn  string  `json:"startsOn" binding:"required"`
	EndsOn    *string `json:"endsOn"`
	Status    string  `json:"status" binding:"omitempty,oneof=scheduled running finished"`
}

func (b tournamentBody) toParams() (tournament.MutationParams, error) {
	startsOn, err := parseDate(strings.TrimSpace(b.StartsOn))
	if err != nil {
		return tournament.MutationParams{}, err
	}
	endsOn, err := parseOptionalDate(b.EndsOn)
	if err != nil {
		return tournament.MutationParams{}, err
	}
	return tournament.MutationParams{
		SeasonID:  b.SeasonID,
		RulesetID: b.RulesetID,
		Name:      b.Name,
		Venue:     b.Venue,
		StartsOn:  startsOn,
		EndsOn:    endsOn,
		Status:    b.Status,
	}, nil
}

type rulesetBody struct {
	Name      string   `json:"name" binding:"required"`
	InPoints  int      `json:"inPoints" binding:"required,min=1"`
	OutPoints int      `json:"outPoints" binding:"required,min=1"`
	UmaFirst  float64  `json:"umaFirst"`
	UmaSecond float64  `json:"umaSecond"`
	UmaThird  float64  `json:"umaThird"`
	UmaFourth *float64 `json:"umaFourth"`
	Oka       float64  `json:"oka"`
	Chonbo    float64  `json:"chonbo"`
	Sanma     bool     `json:"sanma"`
	Status    string   `json:"status" binding:"omitempty,oneof=enabled disabled"`
}

func (b rulesetBody) toParams() ruleset.MutationParams {
	return ruleset.MutationParams{
		Name:      b.Name,
		InPoints:  b.InPoints,
		OutPoints: b.OutPoints,
		UmaFirst:  b.UmaFirst,
		UmaSecond: b.UmaSecond,
		UmaThird:  b.UmaThird,
		UmaFourth: b.UmaFourth,
		Oka:       b.Oka,
		Chonbo:    b.Chonbo,
		Sanma:     b.Sanma,
		Status:    b.Status,
	}
}

func (h *Handler) ListPlayers(c *gin.Context) {
	page, size, ok := parsePage(c)
	if !ok {
		return
	}

	result, err := h.services.Player.List(c.Request.Context(), player.ListFilter{
		Page:        page,
		Size:        size,
		Status:      c.Query("status"),
		Keyword:     c.Query("keyword"),
		CountryCode: c.Query("countryCode"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Page(c, result.Items, result.Total, page, size)
}

func (h *Handler) SearchPlayers(c *gin.Context) {
	limit, err := parsePositiveIntQuery(c, "limit", 0)
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	players, err := h.services.Player.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, gin.H{"items": players})
}

func (h *Handler) GetPlayer(c *gin.Context) {
	id, ok := parseIDParam(c, "player")
	if !ok {
		return
	}
	p, err := h.services.Player.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, p)
}

func (h *Handler) CreatePlayer(c *gin.Context) {
	var body playerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.services.Player.Create(c.Request.Context(), body.toParams())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, gin.H{"id": p.ID})
}

func (h *Handler) UpdatePlayer(c *gin.Context) {
	id, ok := parseIDParam(c, "player")
	if !ok {
		return
	}

	var body playerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.services.Player.Update(c.Request.Context(), id, body.toParams())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, p)
}

func (h *Handler) ListSeasons(c *gin.Context) {
	page, size, ok := parsePage(c)
	if !ok {
		return
	}

	result, err := h.services.Season.List(c.Request.Context(), page, size)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Page(c, result.Items, result.Total, page, size)
}

func (h *Handler) CreateSeason(c *gin.Context) {
	var body seasonBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	params, err := body.toParams()
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	s, err := h.services.Season.Create(c.Request.Context(), params)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, gin.H{"id": s.ID})
}

func (h *Handler) UpdateSeason(c *gin.Context) {
	id, ok := parseIDParam(c, "season")
	if !ok {
		return
	}

	var body seasonBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	params, err := body.toParams()
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	s, err := h.services.Season.Update(c.Request.Context(), id, params)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, s)
}

func (h *Handler) ListTournaments(c *gin.Context) {
	page, size, ok := parsePage(c)
	if !ok {
		return
	}
	seasonID, err := parseInt64Query(c, "seasonId")
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.services.Tournament.List(c.Request.Context(), seasonID, page, size)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Page(c, result.Items, result.Total, page, size)
}

func (h *Handler) GetTournament(c *gin.Context) {
	id, ok := parseIDParam(c, "tournament")
	if !ok {
		return
	}
	t, err := h.services.Tournament.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, t)
}

func (h *Handler) CreateTournament(c *gin.Context) {
	var body tournamentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	params, err := body.toParams()
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	t, err := h.services.Tournament.Create(c.Request.Context(), params)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, gin.H{"id": t.ID})
}

func (h *Handler) UpdateTournament(c *gin.Context) {
	id, ok := parseIDParam(c, "tournament")
	if !ok {
		return
	}

	var body tournamentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	params, err := body.toParams()
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	t, err := h.services.Tournament.Update(c.Request.Context(), id, params)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, t)
}

func (h *Handler) ListRulesets(c *gin.Context) {
	page, size, ok := parsePage(c)
	if !ok {
		return
	}

	result, err := h.services.Ruleset.List(c.Request.Context(), page, size)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Page(c, result.Items, result.Total, page, size)
}

func (h *Handler) GetRuleset(c *gin.Context) {
	id, ok := parseIDParam(c, "ruleset")
	if !ok {
		return
	}
	rule, err := h.services.Ruleset.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, rule)
}

func (h *Handler) CreateRuleset(c *gin.Context) {
	var body rulesetBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	rule, err := h.services.Ruleset.Create(c.Request.Context(), body.toParams())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, gin.H{"id": rule.ID})
}

func (h *Handler) UpdateRuleset(c *gin.Context) {
	id, ok := parseIDParam(c, "ruleset")
	if !ok {
		return
	}

	var body rulesetBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	rule, err := h.services.Ruleset.Update(c.Request.Context(), id, body.toParams())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, rule)
}
