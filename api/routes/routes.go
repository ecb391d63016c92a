package routes

import (
	"gridstats/api/handlers"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	engine *gin.Engine
	api    *gin.RouterGroup
}

func NewRouter(engine *gin.Engine) *Router {
	engine.Use(RequestId())
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &Router{
		api:    engine.Group("/api/v1"),
		engine: engine,
	}
}

// RequestId tags every request with a correlation id.
func RequestId() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set("requestId", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

func (r *Router) SetupRoutes(handlerList ...any) {
	for _, h := range handlerList {
		switch handler := h.(type) {
		case *handlers.SeriesHandler:
			r.registerSeriesHandler(handler)
		case *handlers.TeamHandler:
			r.registerTeamHandler(handler)
		}
	}
}

// Register the series handler.
func (r *Router) registerSeriesHandler(handler *handlers.SeriesHandler) {
	series := r.api.Group("/series")
	{
		series.GET("/:seriesId/games", handler.GetSeriesGames)
		series.GET("/:seriesId/draft", handler.GetDraftAggregate)
	}
}

// Register the team handler.
func (r *Router) registerTeamHandler(handler *handlers.TeamHandler) {
	teams := r.api.Group("/teams")
	{
		teams.GET("/:teamId/stats", handler.GetTeamStats)
	}
}

// Start the router.
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
