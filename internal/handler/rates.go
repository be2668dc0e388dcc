package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/matchprice/ticket-market/internal/exchange"
)

// RatesHandler exposes the exchange resolver: pair lookups, conversions and
// the admin refresh trigger.
type RatesHandler struct {
	Resolver *exchange.Resolver
}

// GetRate handles GET /v1/rates?from=USD&to=EUR. Tier-1 pairs always
// resolve via the fallback chain; other pairs return 404 when no cached
// rate exists.
func (h *RatesHandler) GetRate(c echo.Context) error {
	from := strings.ToUpper(strings.TrimSpace(c.QueryParam("from")))
	to := strings.ToUpper(strings.TrimSpace(c.QueryParam("to")))
	if from == "" || to == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from and to are required"})
	}

	rate, err := h.Resolver.Rate(c.Request().Context(), from, to)
	if err != nil {
		return rateError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"from": from, "to": to, "rate": rate})
}

// Convert handles GET /v1/rates/convert?amount=90&from=USD&to=EUR.
func (h *RatesHandler) Convert(c echo.Context) error {
	from := strings.ToUpper(strings.TrimSpace(c.QueryParam("from")))
	to := strings.ToUpper(strings.TrimSpace(c.QueryParam("to")))
	if from == "" || to == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from and to are required"})
	}
	amount, err := decimal.NewFromString(c.QueryParam("amount"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid amount"})
	}

	converted, err := h.Resolver.Convert(c.Request().Context(), amount, from, to)
	if err != nil {
		return rateError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"amount":    amount.String(),
		"from":      from,
		"to":        to,
		"converted": converted.String(),
	})
}

// RefreshRates handles POST /v1/admin/rates/refresh, forcing an immediate
// snapshot reload outside the cron schedule.
func (h *RatesHandler) RefreshRates(c echo.Context) error {
	if err := h.Resolver.Refresh(c.Request().Context()); err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "upstream refresh failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"loaded_at": h.Resolver.LastLoaded().Format(time.RFC3339)})
}

func rateError(c echo.Context, err error) error {
	if errors.Is(err, exchange.ErrRateUnavailable) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "rate not available"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "rate lookup failed"})
}
