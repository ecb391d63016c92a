package handlers

import (
	teamservice "gridstats/api/services/team"
	teamfetcher "gridstats/fetcher/data/team"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Team handler exposing the team performance aggregate.
type TeamHandler struct {
	teamService *teamservice.TeamService
}

// TeamHandlerDependencies is the dependency list for the team handler.
type TeamHandlerDependencies struct {
	TeamService *teamservice.TeamService
}

// Create a new instance of the team handler.
func NewTeamHandler(deps *TeamHandlerDependencies) *TeamHandler {
	return &TeamHandler{
		teamService: deps.TeamService,
	}
}

// Query params accepted by the team stats endpoint.
type teamStatsQuery struct {
	TimeWindow string `form:"timeWindow" binding:"omitempty,oneof=LAST_MONTH LAST_3_MONTHS LAST_6_MONTHS LAST_12_MONTHS"`
}

// Handler for getting the team aggregate.
func (h *TeamHandler) GetTeamStats(c *gin.Context) {
	teamId := c.Param("teamId")
	if teamId == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a team id must be provided"})
		return
	}

	var query teamStatsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if query.TimeWindow == "" {
		query.TimeWindow = teamfetcher.DefaultWindow
	}

	aggregate, err := h.teamService.GetTeamAggregate(c.Request.Context(), teamId, query.TimeWindow)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "couldn't load the team statistics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": aggregate})
}
