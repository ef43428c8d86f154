package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/soulpet-ai/soulpet-api/internal/application"
	"github.com/soulpet-ai/soulpet-api/pkg/response"
	"github.com/soulpet-ai/soulpet-api/pkg/validation"
)

// MarketplaceHandler exposes the pet NFT listing book.
type MarketplaceHandler struct {
	Market    *app.MarketplaceService
	Companion *app.CompanionService
	Logger    *logrus.Logger
}

func NewMarketplaceHandler(market *app.MarketplaceService, companionSvc *app.CompanionService, logger *logrus.Logger) *MarketplaceHandler {
	return &MarketplaceHandler{Market: market, Companion: companionSvc, Logger: logger}
}

type listPetRequest struct {
	PetID    string  `json:"petId" binding:"required"`
	AssetID  uint64  `json:"assetId" binding:"required"`
	Seller   string  `json:"seller" binding:"required"`
	Price    float64 `json:"price" binding:"required,gt=0"`
	Currency string  `json:"currency"`
}

// List opens a listing for one of the caller's pets.
func (h *MarketplaceHandler) List(c *gin.Context) {
	var req listPetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	uid := c.GetString("userID")
	u, err := h.Companion.Bootstrap(c.Request.Context(), uid)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	pet := u.FindPet(req.PetID)
	if pet == nil {
		response.Error[any](c, http.StatusNotFound, "pet not found", nil)
		return
	}

	l, err := h.Market.ListForSale(c.Request.Context(), req.Seller, pet, req.AssetID, req.Price, req.Currency)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "failed to list pet", err.Error())
		return
	}
	response.Success(c, http.StatusCreated, l, "pet listed for sale", nil)
}

// Active returns open listings, newest first.
func (h *MarketplaceHandler) Active(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	listings, err := h.Market.ActiveListings(c.Request.Context(), limit)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to load listings", nil)
		return
	}
	response.Success(c, http.StatusOK, listings, "active listings", map[string]any{"count": len(listings)})
}

func (h *MarketplaceHandler) Get(c *gin.Context) {
	l, err := h.Market.Get(c.Request.Context(), c.Param("listingId"))
	if err != nil {
		if errors.Is(err, app.ErrListingNotFound) {
			response.Error[any](c, http.StatusNotFound, "listing not found", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to load listing", nil)
		return
	}
	response.Success(c, http.StatusOK, l, "listing", nil)
}

type buyRequest struct {
	Buyer string `json:"buyer" binding:"required"`
}

func (h *MarketplaceHandler) Buy(c *gin.Context) {
	var req buyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	txID, err := h.Market.Buy(c.Request.Context(), c.Param("listingId"), req.Buyer)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrListingNotFound):
			response.Error[any](c, http.StatusNotFound, "listing not found", nil)
		case errors.Is(err, app.ErrListingUnavailable):
			response.Error[any](c, http.StatusConflict, "listing is no longer active", nil)
		default:
			response.Error[any](c, http.StatusInternalServerError, "purchase failed", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"txId": txID}, "pet purchased", nil)
}

type cancelRequest struct {
	Seller string `json:"seller" binding:"required"`
}

func (h *MarketplaceHandler) Cancel(c *gin.Context) {
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	err := h.Market.Cancel(c.Request.Context(), c.Param("listingId"), req.Seller)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrListingNotFound):
			response.Error[any](c, http.StatusNotFound, "listing not found", nil)
		case errors.Is(err, app.ErrListingUnavailable):
			response.Error[any](c, http.StatusConflict, "listing is no longer active", nil)
		case errors.Is(err, app.ErrNotSeller):
			response.Error[any](c, http.StatusForbidden, "only the seller can cancel", nil)
		default:
			response.Error[any](c, http.StatusInternalServerError, "cancel failed", nil)
		}
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"cancelled": true}, "listing cancelled", nil)
}

// AlgoPrice quotes the ALGO/USD rate used for price display.
func (h *MarketplaceHandler) AlgoPrice(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"usd": h.Market.AlgoPriceUSD()}, "algo price", nil)
}
