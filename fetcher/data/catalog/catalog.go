// Package catalogfetcher queries the central catalog: series listings,
// the champion content catalog and the patch versions.
package catalogfetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"gridstats/fetcher/cache"
	"gridstats/fetcher/requests"
	"gridstats/pkg/config"
	"gridstats/pkg/metrics"
	"net/http"
	"sort"
	"time"
)

// Champion is one entry of the champion content catalog.
type Champion struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	ImageUrl string `json:"imageUrl"`
}

// TeamBaseInfo identifies a team on a series listing.
type TeamBaseInfo struct {
	Id      string `json:"id"`
	Name    string `json:"name"`
	LogoUrl string `json:"logoUrl"`
}

// SeriesTeam is a team entry within a series. The array position of the
// entry encodes the starting side (position 0 is the first side).
type SeriesTeam struct {
	BaseInfo       TeamBaseInfo `json:"baseInfo"`
	ScoreAdvantage float64      `json:"scoreAdvantage"`
}

// ProductServiceLevel describes the data coverage of a series.
type ProductServiceLevel struct {
	ProductName  string `json:"productName"`
	ServiceLevel string `json:"serviceLevel"`
}

// SeriesFormat is the best-of format of a series.
type SeriesFormat struct {
	Id            string `json:"id"`
	Name          string `json:"name"`
	NameShortened string `json:"nameShortened"`
}

// SeriesNode is one series from the central catalog.
type SeriesNode struct {
	Id                   string                `json:"id"`
	StartTimeScheduled   time.Time             `json:"startTimeScheduled"`
	Teams                []SeriesTeam          `json:"teams"`
	ProductServiceLevels []ProductServiceLevel `json:"productServiceLevels"`
	Format               SeriesFormat          `json:"format"`
}

// PatchVersion is a content catalog version with its publish date.
type PatchVersion struct {
	Name        string    `json:"name"`
	PublishedOn time.Time `json:"publishedOn"`
}

const championsQuery = `
	query GetChampions {
		contentCatalogEntities(filter: { entityType: { in: [CHARACTER] } }) {
			edges {
				node {
					id
					name
					imageUrl
				}
			}
		}
	}`

const versionsQuery = `
	query GetContentCatalogVersions {
		contentCatalogVersions {
			edges {
				node {
					name
					publishedOn
				}
			}
		}
	}`

// The central catalog fetcher with its cache and endpoint.
type Fetcher struct {
	cache    *cache.TTLCache
	endpoint string
}

// FetcherDeps is the dependency list for the catalog fetcher.
type FetcherDeps struct {
	Cache *cache.TTLCache

	// Endpoint overrides the configured central URL. Used on tests.
	Endpoint string
}

// NewFetcher creates a catalog fetcher.
func NewFetcher(deps *FetcherDeps) *Fetcher {
	endpoint := deps.Endpoint
	if endpoint == "" {
		endpoint = config.Grid.CentralURL
	}

	return &Fetcher{
		cache:    deps.Cache,
		endpoint: endpoint,
	}
}

// allSeriesQuery builds the series listing query. The tournament filter is
// only emitted when a tournament was requested.
func allSeriesQuery(withTournament bool) string {
	varDecl := ""
	tournamentFilter := ""
	if withTournament {
		varDecl = ", $tournamentId: ID!"
		tournamentFilter = ", tournament: { id: { in: [$tournamentId] } }"
	}

	return fmt.Sprintf(`
	query GetAllSeries($titleId: ID!%s) {
		allSeries(filter: { titleId: $titleId%s }) {
			edges {
				node {
					id
					startTimeScheduled
					teams {
						baseInfo {
							id
							name
							logoUrl
						}
						scoreAdvantage
					}
					productServiceLevels {
						productName
						serviceLevel
					}
					format {
						id
						name
						nameShortened
					}
				}
			}
		}
	}`, varDecl, tournamentFilter)
}

// AllSeries lists the catalog series for the configured title, optionally
// restricted to one tournament.
func (f *Fetcher) AllSeries(ctx context.Context, tournamentId string) ([]SeriesNode, error) {
	key := "series_" + config.Grid.TitleId + "_" + tournamentId
	if cached, found := f.cache.Get(key); found {
		metrics.CacheHits.WithLabelValues("catalog_series").Inc()
		return cached.([]SeriesNode), nil
	}
	metrics.CacheMisses.WithLabelValues("catalog_series").Inc()

	variables := map[string]any{"titleId": config.Grid.TitleId}
	if tournamentId != "" {
		variables["tournamentId"] = tournamentId
	}

	var parsed struct {
		Data struct {
			AllSeries struct {
				Edges []struct {
					Node SeriesNode `json:"node"`
				} `json:"edges"`
			} `json:"allSeries"`
		} `json:"data"`
	}

	if err := f.query(ctx, allSeriesQuery(tournamentId != ""), variables, &parsed); err != nil {
		return nil, err
	}

	series := make([]SeriesNode, 0, len(parsed.Data.AllSeries.Edges))
	for _, edge := range parsed.Data.AllSeries.Edges {
		series = append(series, edge.Node)
	}

	f.cache.Set(key, series, cache.DefaultTTL)
	return series, nil
}

// Champions lists the champion content catalog.
func (f *Fetcher) Champions(ctx context.Context) ([]Champion, error) {
	if cached, found := f.cache.Get("champions"); found {
		metrics.CacheHits.WithLabelValues("catalog_champions").Inc()
		return cached.([]Champion), nil
	}
	metrics.CacheMisses.WithLabelValues("catalog_champions").Inc()

	var parsed struct {
		Data struct {
			ContentCatalogEntities struct {
				Edges []struct {
					Node Champion `json:"node"`
				} `json:"edges"`
			} `json:"contentCatalogEntities"`
		} `json:"data"`
	}

	if err := f.query(ctx, championsQuery, map[string]any{}, &parsed); err != nil {
		return nil, err
	}

	champions := make([]Champion, 0, len(parsed.Data.ContentCatalogEntities.Edges))
	for _, edge := range parsed.Data.ContentCatalogEntities.Edges {
		champions = append(champions, edge.Node)
	}

	f.cache.Set("champions", champions, cache.DefaultTTL)
	return champions, nil
}

// PatchVersions lists the known patches sorted by publish date.
func (f *Fetcher) PatchVersions(ctx context.Context) ([]PatchVersion, error) {
	if cached, found := f.cache.Get("patches"); found {
		metrics.CacheHits.WithLabelValues("catalog_patches").Inc()
		return cached.([]PatchVersion), nil
	}
	metrics.CacheMisses.WithLabelValues("catalog_patches").Inc()

	var parsed struct {
		Data struct {
			ContentCatalogVersions struct {
				Edges []struct {
					Node PatchVersion `json:"node"`
				} `json:"edges"`
			} `json:"contentCatalogVersions"`
		} `json:"data"`
	}

	if err := f.query(ctx, versionsQuery, map[string]any{}, &parsed); err != nil {
		return nil, err
	}

	patches := make([]PatchVersion, 0, len(parsed.Data.ContentCatalogVersions.Edges))
	for _, edge := range parsed.Data.ContentCatalogVersions.Edges {
		patches = append(patches, edge.Node)
	}

	sort.Slice(patches, func(i, j int) bool {
		return patches[i].PublishedOn.Before(patches[j].PublishedOn)
	})

	f.cache.Set("patches", patches, cache.DefaultTTL)
	return patches, nil
}

// query runs a GraphQL query against the central endpoint.
func (f *Fetcher) query(ctx context.Context, query string, variables map[string]any, dest any) error {
	start := time.Now()
	metrics.FetchRequests.WithLabelValues("central").Inc()

	resp, err := requests.GraphQLRequest(ctx, f.endpoint, query, variables)
	if err != nil {
		metrics.FetchFailures.WithLabelValues("central").Inc()
		return fmt.Errorf("central catalog request failed: %w", err)
	}
	defer resp.Body.Close()
	metrics.FetchDuration.WithLabelValues("central").Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		metrics.FetchFailures.WithLabelValues("central").Inc()
		return fmt.Errorf("central catalog returned status code %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to parse the catalog response: %w", err)
	}

	return nil
}

// IsSeriesComplete reports whether the series carries full match data.
func IsSeriesComplete(levels []ProductServiceLevel) bool {
	for _, level := range levels {
		if level.ProductName == "MATCH_DATA" && level.ServiceLevel == "FULL" {
			return true
		}
	}
	return false
}

// PatchFor buckets a series start into a patch: the patch whose publish
// date is the latest one not after the start. Empty when the start predates
// every known patch.
func PatchFor(patches []PatchVersion, seriesStart time.Time) string {
	sorted := make([]PatchVersion, len(patches))
	copy(sorted, patches)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PublishedOn.Before(sorted[j].PublishedOn)
	})

	name := ""
	for _, patch := range sorted {
		if patch.PublishedOn.After(seriesStart) {
			break
		}
		name = patch.Name
	}

	return name
}
