package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/matchprice/ticket-market/internal/model"
	"github.com/matchprice/ticket-market/internal/repository"
	"github.com/matchprice/ticket-market/internal/service"
)

// FixtureHandler serves the cached team and league fixture listings.
type FixtureHandler struct {
	Queries *service.FixtureQueries
}

// fixtureResponse is the wire shape of a fixture, with the stored minimum
// price embedded when present.
type fixtureResponse struct {
	ID         uint64            `json:"id"`
	LeagueID   uint64            `json:"league_id"`
	HomeTeamID uint64            `json:"home_team_id"`
	AwayTeamID uint64            `json:"away_team_id"`
	VenueID    uint64            `json:"venue_id"`
	Date       time.Time         `json:"date"`
	Status     string            `json:"status"`
	MinPrice   *minPriceResponse `json:"min_price,omitempty"`
}

func toFixtureResponses(fixtures []*model.Fixture) []fixtureResponse {
	out := make([]fixtureResponse, 0, len(fixtures))
	for _, f := range fixtures {
		out = append(out, fixtureResponse{
			ID:         f.ID,
			LeagueID:   f.LeagueID,
			HomeTeamID: f.HomeTeamID,
			AwayTeamID: f.AwayTeamID,
			VenueID:    f.VenueID,
			Date:       f.Date,
			Status:     f.Status,
			MinPrice:   toMinPriceResponse(f.MinPrice),
		})
	}
	return out
}

// GetTeamFixtures handles GET /v1/teams/:id/fixtures, covering both home
// and away games.
func (h *FixtureHandler) GetTeamFixtures(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	fixtures, cached, err := h.Queries.ByTeam(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "team not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toFixtureResponses(fixtures), "cached": cached})
}

// GetLeagueFixtures handles GET /v1/leagues/:id/fixtures with optional
// month ("2026-08") and venue_id query filters. Each filter combination is
// cached independently.
func (h *FixtureHandler) GetLeagueFixtures(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	month := c.QueryParam("month")
	var venueID uint64
	if v := c.QueryParam("venue_id"); v != "" {
		venueID, err = strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue_id"})
		}
	}
	fixtures, cached, err := h.Queries.ByLeague(c.Request().Context(), id, month, venueID)
	if err != nil {
		if errors.Is(err, repository.ErrLeagueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "league not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toFixtureResponses(fixtures), "cached": cached})
}
