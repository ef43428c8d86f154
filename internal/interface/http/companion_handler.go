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

// CompanionHandler exposes the coin ledger and pet roster operations.
type CompanionHandler struct {
	Svc    *app.CompanionService
	Logger *logrus.Logger
}

func NewCompanionHandler(svc *app.CompanionService, logger *logrus.Logger) *CompanionHandler {
	return &CompanionHandler{Svc: svc, Logger: logger}
}

// Me returns the caller's profile with decay caught up.
func (h *CompanionHandler) Me(c *gin.Context) {
	uid := c.GetString("userID")
	u, err := h.Svc.Bootstrap(c.Request.Context(), uid)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, u, "profile", nil)
}

func (h *CompanionHandler) CompleteOnboarding(c *gin.Context) {
	uid := c.GetString("userID")
	u, err := h.Svc.CompleteOnboarding(c.Request.Context(), uid)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, u, "onboarding complete", nil)
}

type createPetRequest struct {
	Name        string `json:"name" binding:"required"`
	Type        string `json:"type"`
	Personality string `json:"personality"`
	Voice       string `json:"voice"`
	Appearance  string `json:"appearance"`
	Backstory   string `json:"backstory"`
}

func (h *CompanionHandler) CreatePet(c *gin.Context) {
	uid := c.GetString("userID")
	var req createPetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, pet, err := h.Svc.CreatePet(c.Request.Context(), uid, app.CreatePetInput{
		Name:        req.Name,
		Type:        req.Type,
		Personality: req.Personality,
		Voice:       req.Voice,
		Appearance:  req.Appearance,
		Backstory:   req.Backstory,
	})
	if err != nil {
		if errors.Is(err, app.ErrInsufficientCoins) {
			response.Error[any](c, http.StatusPaymentRequired, "not enough cuddle coins", nil)
			return
		}
		response.Error[any](c, http.StatusBadRequest, "failed to create pet", err.Error())
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"user": u, "pet": pet}, "pet created", nil)
}

// Spend-only: credits come from care actions and purchases, never raw
// client deltas.
type adjustCoinsRequest struct {
	Amount int `json:"amount" binding:"required,lt=0"`
}

// AdjustCoins debits the caller's balance. Positive amounts are rejected.
func (h *CompanionHandler) AdjustCoins(c *gin.Context) {
	uid := c.GetString("userID")
	var req adjustCoinsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.AdjustCoins(c.Request.Context(), uid, req.Amount)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cuddleCoins": u.CuddleCoins, "coinUpdateId": u.CoinUpdateID}, "coins updated", nil)
}

func (h *CompanionHandler) UpdatePetStats(c *gin.Context) {
	uid := c.GetString("userID")
	petID := c.Param("petId")

	var req app.PetStatsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.UpdatePetStats(c.Request.Context(), uid, petID, req)
	if err != nil {
		if errors.Is(err, app.ErrPetNotFound) {
			response.Error[any](c, http.StatusNotFound, "pet not found", nil)
			return
		}
		response.Error[any](c, http.StatusBadRequest, "failed to update pet", err.Error())
		return
	}
	response.Success(c, http.StatusOK, u.FindPet(petID), "pet updated", nil)
}

func (h *CompanionHandler) BoostAllPets(c *gin.Context) {
	uid := c.GetString("userID")
	u, err := h.Svc.BoostAllPets(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, app.ErrNoPets) {
			response.Error[any](c, http.StatusBadRequest, "no pets to boost", nil)
			return
		}
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, u, "all pets blessed", nil)
}

func (h *CompanionHandler) FeedPet(c *gin.Context) {
	uid := c.GetString("userID")
	petID := c.Param("petId")

	u, reward, err := h.Svc.FeedPet(c.Request.Context(), uid, petID)
	if err != nil {
		h.careActionError(c, err, "feed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u, "pet": u.FindPet(petID), "coinsEarned": reward}, "pet fed", nil)
}

func (h *CompanionHandler) PetPet(c *gin.Context) {
	uid := c.GetString("userID")
	petID := c.Param("petId")

	u, reward, err := h.Svc.PetPet(c.Request.Context(), uid, petID)
	if err != nil {
		h.careActionError(c, err, "pet")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u, "pet": u.FindPet(petID), "coinsEarned": reward}, "pet petted", nil)
}

func (h *CompanionHandler) careActionError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, app.ErrPetNotFound):
		response.Error[any](c, http.StatusNotFound, "pet not found", nil)
	case errors.Is(err, app.ErrFeedCooldown), errors.Is(err, app.ErrPetCooldown):
		response.Error[any](c, http.StatusConflict, action+" is on cooldown", nil)
	case errors.Is(err, app.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
	default:
		response.Error[any](c, http.StatusInternalServerError, "action failed", nil)
	}
}

type purchaseRequest struct {
	Item  string `json:"item" binding:"required"`
	Price int    `json:"price" binding:"required,gt=0"`
}

func (h *CompanionHandler) PurchaseItem(c *gin.Context) {
	uid := c.GetString("userID")
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.PurchaseItem(c.Request.Context(), uid, req.Item, req.Price)
	if err != nil {
		if errors.Is(err, app.ErrInsufficientCoins) {
			response.Error[any](c, http.StatusPaymentRequired, "not enough cuddle coins", nil)
			return
		}
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, u, "purchase complete", nil)
}

// Forget deletes the caller's profile and its email index.
func (h *CompanionHandler) Forget(c *gin.Context) {
	uid := c.GetString("userID")
	u, err := h.Svc.Bootstrap(c.Request.Context(), uid)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	if err := h.Svc.Forget(c.Request.Context(), uid, u.Email); err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("user_id", uid).Warn("profile delete failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to delete profile", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "profile deleted", nil)
}

// SearchPets queries the Elasticsearch pet index.
func (h *CompanionHandler) SearchPets(c *gin.Context) {
	q := c.Query("q")
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	hits, err := h.Svc.SearchPets(c.Request.Context(), q, size)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "pets", map[string]any{"count": len(hits)})
}

// UploadPortrait stores a custom pet image.
func (h *CompanionHandler) UploadPortrait(c *gin.Context) {
	uid := c.GetString("userID")
	petID := c.Param("petId")

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing image file", nil)
		return
	}
	defer func() { _ = file.Close() }()

	url, err := h.Svc.UploadPortrait(c.Request.Context(), uid, petID, file, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, app.ErrPetNotFound) {
			response.Error[any](c, http.StatusNotFound, "pet not found", nil)
			return
		}
		if h.Logger != nil {
			h.Logger.WithError(err).Warn("portrait upload failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "upload failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"image": url}, "portrait updated", nil)
}
