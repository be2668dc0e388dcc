package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/matchprice/ticket-market/internal/cache"
)

// CacheAdminHandler exposes the in-process caches for operations: size
// inspection and a full clear, used after out-of-band data fixes.
type CacheAdminHandler struct {
	Teams   *cache.TeamFixtures
	Leagues *cache.LeagueFixtures
	Offers  *cache.FixtureOffers
}

type cacheStatsResponse struct {
	Size     int `json:"size"`
	Capacity int `json:"capacity"`
}

func toStatsResponse(s cache.Stats) cacheStatsResponse {
	return cacheStatsResponse{Size: s.Size, Capacity: s.Capacity}
}

// Stats handles GET /v1/admin/cache/stats.
func (h *CacheAdminHandler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"team_fixtures":   toStatsResponse(h.Teams.Stats()),
		"league_fixtures": toStatsResponse(h.Leagues.Stats()),
		"fixture_offers":  toStatsResponse(h.Offers.Stats()),
	})
}

// Clear handles DELETE /v1/cache/:name where name is teams, leagues or
// offers. It reports how many entries were dropped.
func (h *CacheAdminHandler) Clear(c echo.Context) error {
	var cleared int
	switch c.Param("name") {
	case "teams":
		cleared = h.Teams.Clear()
	case "leagues":
		cleared = h.Leagues.Clear()
	case "offers":
		cleared = h.Offers.Clear()
	default:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown cache"})
	}
	return c.JSON(http.StatusOK, echo.Map{"cache": c.Param("name"), "cleared": cleared})
}
