package handlers

import (
	seriesservice "gridstats/api/services/series"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Series handler exposing the game collection and the draft aggregate.
type SeriesHandler struct {
	seriesService *seriesservice.SeriesService
}

// SeriesHandlerDependencies is the dependency list for the series handler.
type SeriesHandlerDependencies struct {
	SeriesService *seriesservice.SeriesService
}

// Create a new instance of the series handler.
func NewSeriesHandler(deps *SeriesHandlerDependencies) *SeriesHandler {
	return &SeriesHandler{
		seriesService: deps.SeriesService,
	}
}

// Handler for getting the games of a series.
func (h *SeriesHandler) GetSeriesGames(c *gin.Context) {
	seriesId := c.Param("seriesId")
	if seriesId == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a series id must be provided"})
		return
	}

	games, err := h.seriesService.SeriesGames(c.Request.Context(), seriesId)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "couldn't load the series games"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"seriesId": seriesId, "games": games})
}

// Handler for getting the draft aggregate of a series.
func (h *SeriesHandler) GetDraftAggregate(c *gin.Context) {
	seriesId := c.Param("seriesId")
	if seriesId == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a series id must be provided"})
		return
	}

	aggregate, err := h.seriesService.DraftAggregate(c.Request.Context(), seriesId)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "couldn't compute the draft statistics"})
		return
	}

	// No valid games is not the same as zero-valued rates.
	if aggregate == nil {
		c.JSON(http.StatusOK, gin.H{"result": nil, "message": "no valid draft data for this series"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": aggregate})
}
