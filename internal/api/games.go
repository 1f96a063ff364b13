package api

import (
	"net/http"
	"strings"

	"league-service/internal/service/game"
	"league-service/internal/service/standing"
	"league-service/pkg/response"

	"github.com/gin-gonic/gin"
)

func (h *Handler) bindForm(c *gin.Context) (game.SubmitRequest, bool) {
	var form game.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return game.SubmitRequest{}, false
	}
	req, err := form.Request(h.now())
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return game.SubmitRequest{}, false
	}
	return req, true
}

func (h *Handler) PreviewGame(c *gin.Context) {
	req, ok := h.bindForm(c)
	if !ok {
		return
	}

	preview, err := h.services.Game.Preview(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, preview)
}

func (h *Handler) SubmitGame(c *gin.Context) {
	req, ok := h.bindForm(c)
	if !ok {
		return
	}

	created, err := h.services.Game.Submit(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.SuccessWithMsg(c, created, "game recorded")
}

func (h *Handler) GetGame(c *gin.Context) {
	id, ok := parseIDParam(c, "game")
	if !ok {
		return
	}
	g, err := h.services.Game.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, g)
}

func (h *Handler) ListGames(c *gin.Context) {
	page, size, ok := parsePage(c)
	if !ok {
		return
	}
	tournamentID, err := parseInt64Query(c, "tournamentId")
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	filter := game.ListFilter{TournamentID: tournamentID, Page: page, Size: size}
	if value := strings.TrimSpace(c.Query("playedOn")); value != "" {
		day, err := parseDate(value)
		if err != nil {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		filter.PlayedOn = &day
	}

	result, err := h.services.Game.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Page(c, result.Items, result.Total, page, size)
}

func (h *Handler) DeleteGame(c *gin.Context) {
	id, ok := parseIDParam(c, "game")
	if !ok {
		return
	}
	if err := h.services.Game.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.SuccessWithMsg(c, gin.H{}, "game deleted")
}

func (h *Handler) Standings(c *gin.Context) {
	tournamentID, err := parseInt64Query(c, "tournamentId")
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	seasonID, err := parseInt64Query(c, "seasonId")
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	table, err := h.services.Standing.Table(c.Request.Context(), standing.Scope{
		TournamentID: tournamentID,
		SeasonID:     seasonID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, gin.H{"items": table})
}
