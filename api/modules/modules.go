package modules

import (
	apicache "gridstats/api/cache"
	"gridstats/api/handlers"
	seriesservice "gridstats/api/services/series"
	teamservice "gridstats/api/services/team"
	"gridstats/fetcher/cache"
	catalogfetcher "gridstats/fetcher/data/catalog"
	gamefetcher "gridstats/fetcher/data/game"
	seriesfetcher "gridstats/fetcher/data/series"
	teamfetcher "gridstats/fetcher/data/team"
	"gridstats/pkg/logger"
	"gridstats/pkg/redis"

	"github.com/gin-gonic/gin"
)

// Module containing the necessary handlers.
type Module struct {
	Router        *gin.Engine
	SeriesHandler *handlers.SeriesHandler
	TeamHandler   *handlers.TeamHandler
}

// Create a new module with the whole pipeline composed: one shared result
// cache, the fetchers on top of it, the services and their handlers.
func NewModule(log *logger.Logger, redisClient *redis.RedisClient) *Module {
	router := gin.Default()

	resultCache := cache.New()

	catalog := catalogfetcher.NewFetcher(&catalogfetcher.FetcherDeps{Cache: resultCache})
	directory := seriesfetcher.NewFetcher(&seriesfetcher.FetcherDeps{Cache: resultCache})
	games := gamefetcher.NewFetcher(&gamefetcher.FetcherDeps{Cache: resultCache, Logger: log})
	teamStats := teamfetcher.NewFetcher(&teamfetcher.FetcherDeps{Cache: resultCache})

	championCache := apicache.NewChampionCache(&apicache.ChampionCacheDeps{
		Redis:   redisClient,
		Catalog: catalog,
	})

	// Initialize the services.
	seriesService := seriesservice.NewSeriesService(&seriesservice.SeriesServiceDeps{
		Directory: directory,
		Games:     games,
		Champions: championCache,
		Logger:    log,
	})
	teamService := teamservice.NewTeamService(&teamservice.TeamServiceDeps{
		Stats:  teamStats,
		Series: catalog,
		Logger: log,
	})

	// Initialize the handlers.
	seriesHandler := handlers.NewSeriesHandler(&handlers.SeriesHandlerDependencies{
		SeriesService: seriesService,
	})
	teamHandler := handlers.NewTeamHandler(&handlers.TeamHandlerDependencies{
		TeamService: teamService,
	})

	// Return the module with all handlers.
	return &Module{
		Router:        router,
		SeriesHandler: seriesHandler,
		TeamHandler:   teamHandler,
	}
}
