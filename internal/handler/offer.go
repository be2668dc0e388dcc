// Package handler exposes the HTTP surface: offer mutations, cached fixture
// reads, exchange rate lookups and the admin cache endpoints.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/matchprice/ticket-market/internal/model"
	"github.com/matchprice/ticket-market/internal/repository"
	"github.com/matchprice/ticket-market/internal/service"
)

// OfferHandler serves the offer lifecycle endpoints.
type OfferHandler struct {
	Offers *service.OfferService
}

// createOfferRequest is the POST /v1/offers payload. Price arrives as a JSON
// number or string and is parsed into a decimal without a float round trip.
type createOfferRequest struct {
	FixtureID  uint64      `json:"fixture_id"`
	OwnerType  string      `json:"owner_type"`
	OwnerID    uint64      `json:"owner_id"`
	Price      json.Number `json:"price"`
	Currency   string      `json:"currency"`
	TicketType string      `json:"ticket_type"`
	URL        *string     `json:"url"`
	Notes      *string     `json:"notes"`
}

type setAvailabilityRequest struct {
	IsAvailable *bool `json:"is_available"`
}

// offerResponse is the wire shape of an offer. Price is rendered as a string
// so clients never see binary float artifacts.
type offerResponse struct {
	ID          uint64  `json:"id"`
	FixtureID   uint64  `json:"fixture_id"`
	OwnerType   string  `json:"owner_type"`
	OwnerID     uint64  `json:"owner_id"`
	Price       string  `json:"price"`
	Currency    string  `json:"currency"`
	TicketType  string  `json:"ticket_type"`
	IsAvailable bool    `json:"is_available"`
	URL         *string `json:"url,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

func toOfferResponse(o *model.Offer) offerResponse {
	return offerResponse{
		ID:          o.ID,
		FixtureID:   o.FixtureID,
		OwnerType:   string(o.Owner.Type),
		OwnerID:     o.Owner.ID,
		Price:       o.Price.String(),
		Currency:    o.Currency,
		TicketType:  o.TicketType,
		IsAvailable: o.IsAvailable,
		URL:         o.URL,
		Notes:       o.Notes,
	}
}

func toOfferResponses(offers []*model.Offer) []offerResponse {
	out := make([]offerResponse, 0, len(offers))
	for _, o := range offers {
		out = append(out, toOfferResponse(o))
	}
	return out
}

// CreateOffer handles POST /v1/offers. An offer by the same owner for the
// same fixture and ticket type supersedes the previous one.
func (h *OfferHandler) CreateOffer(c echo.Context) error {
	var req createOfferRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	price, err := decimal.NewFromString(req.Price.String())
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid price"})
	}

	offer, err := h.Offers.Create(c.Request().Context(), service.CreateOfferInput{
		FixtureID:  req.FixtureID,
		Owner:      model.OwnerRef{Type: model.OwnerType(req.OwnerType), ID: req.OwnerID},
		Price:      price,
		Currency:   req.Currency,
		TicketType: req.TicketType,
		URL:        req.URL,
		Notes:      req.Notes,
	})
	if err != nil {
		return offerError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"offer": toOfferResponse(offer)})
}

// DeleteOffer handles DELETE /v1/offers/:id and returns the removed record.
func (h *OfferHandler) DeleteOffer(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	offer, err := h.Offers.Delete(c.Request().Context(), id)
	if err != nil {
		return offerError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": toOfferResponse(offer)})
}

// DeleteOwnerOffer handles DELETE /v1/offers with fixture_id, owner_type,
// owner_id and optional ticket_type query parameters, removing an owner's
// current listing without knowing its row ID.
func (h *OfferHandler) DeleteOwnerOffer(c echo.Context) error {
	fixtureID, err := strconv.ParseUint(c.QueryParam("fixture_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid fixture_id"})
	}
	ownerID, err := strconv.ParseUint(c.QueryParam("owner_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid owner_id"})
	}
	owner := model.OwnerRef{Type: model.OwnerType(c.QueryParam("owner_type")), ID: ownerID}

	if err := h.Offers.DeleteByOwner(c.Request().Context(), fixtureID, owner, c.QueryParam("ticket_type")); err != nil {
		return offerError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SetAvailability handles PATCH /v1/offers/:id/availability. An unavailable
// offer keeps its row but leaves listings and price comparisons.
func (h *OfferHandler) SetAvailability(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req setAvailabilityRequest
	if err := c.Bind(&req); err != nil || req.IsAvailable == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "is_available is required"})
	}
	offer, err := h.Offers.SetAvailability(c.Request().Context(), id, *req.IsAvailable)
	if err != nil {
		return offerError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"offer": toOfferResponse(offer)})
}

// GetFixtureOffers handles GET /v1/fixtures/:id/offers, served through the
// fixture offers cache. Pagination slices the cached list; the cache always
// holds the full set so every page shares one entry.
func (h *OfferHandler) GetFixtureOffers(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 50)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	offers, cached, err := h.Offers.ByFixture(c.Request().Context(), id)
	if err != nil {
		return offerError(c, err)
	}

	total := len(offers)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return c.JSON(http.StatusOK, echo.Map{
		"items":  toOfferResponses(offers[start:end]),
		"total":  total,
		"page":   page,
		"limit":  limit,
		"cached": cached,
	})
}

func queryInt(c echo.Context, name string, def int) int {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// offerError maps service and repository errors to HTTP responses. Unknown
// errors surface as a generic 500 so internals never leak to clients.
func offerError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrOfferNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "offer not found"})
	case errors.Is(err, repository.ErrFixtureNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "fixture not found"})
	case errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrUnknownCurrency),
		errors.Is(err, service.ErrInvalidOwner),
		errors.Is(err, service.ErrInvalidTicketType):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}

// minPriceResponse is the denormalized minimum embedded in fixture payloads.
type minPriceResponse struct {
	Amount    string    `json:"amount"`
	Currency  string    `json:"currency"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toMinPriceResponse(p *model.MinPrice) *minPriceResponse {
	if p == nil {
		return nil
	}
	return &minPriceResponse{Amount: p.Amount.String(), Currency: p.Currency, UpdatedAt: p.UpdatedAt}
}
