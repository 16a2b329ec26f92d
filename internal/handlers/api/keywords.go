package api

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"

	"kwpulse/internal/middleware"
	"kwpulse/internal/models"
	"kwpulse/internal/provider"
	"kwpulse/internal/resolver"
	"kwpulse/internal/validation"
)

// KeywordResolver resolves keyword batches to metrics records.
type KeywordResolver interface {
	Resolve(ctx context.Context, req resolver.Request) ([]models.KeywordMetrics, error)
}

// UserRefresher re-resolves a requester's saved keyword set.
type UserRefresher interface {
	RefreshUser(ctx context.Context, requesterID string) (int, error)
}

// SavedKeywordStore reads and replaces saved keyword sets.
type SavedKeywordStore interface {
	GetSavedKeywords(ctx context.Context, requesterID string) ([]models.SavedKeyword, error)
	ReplaceSavedKeywords(ctx context.Context, requesterID, countryCode, languageCode string, keywords []string) error
}

// KeywordHandler exposes the metrics pipeline as a JSON API.
type KeywordHandler struct {
	resolver  KeywordResolver
	refresher UserRefresher
	saved     SavedKeywordStore
}

// NewKeywordHandler creates a new keyword API handler.
func NewKeywordHandler(res KeywordResolver, ref UserRefresher, saved SavedKeywordStore) *KeywordHandler {
	return &KeywordHandler{resolver: res, refresher: ref, saved: saved}
}

// Resolve returns metrics for each requested keyword.
func (h *KeywordHandler) Resolve(c fiber.Ctx) error {
	var req models.ResolveRequest
	if err := c.Bind().Body(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.CountryCode != "" && !validation.ValidateCountryCode(req.CountryCode) {
		return jsonError(c, fiber.StatusBadRequest, "invalid country code")
	}
	if req.LanguageCode != "" && !validation.ValidateLanguageCode(req.LanguageCode) {
		return jsonError(c, fiber.StatusBadRequest, "invalid language code")
	}

	useCache := true
	if req.UseCache != nil {
		useCache = *req.UseCache
	}

	records, err := h.resolver.Resolve(c.Context(), resolver.Request{
		Keywords:       req.Keywords,
		CountryCode:    req.CountryCode,
		LanguageCode:   req.LanguageCode,
		UseCache:       useCache,
		Prompt:         req.Prompt,
		RequesterID:    middleware.RequesterID(c),
		GeneratedViaAI: req.GeneratedViaAI,
	})
	if err != nil {
		switch {
		case errors.Is(err, resolver.ErrNoKeywords):
			return jsonError(c, fiber.StatusBadRequest, "at least one keyword is required")
		case errors.Is(err, provider.ErrAuthExpired):
			return jsonErrorCode(c, fiber.StatusUnauthorized, "auth_expired",
				"keyword provider authentication expired, please reconnect the account")
		case errors.Is(err, provider.ErrMisconfigured):
			return jsonErrorCode(c, fiber.StatusServiceUnavailable, "misconfigured",
				"keyword provider is not configured")
		default:
			return jsonError(c, fiber.StatusInternalServerError, "failed to resolve keywords")
		}
	}

	return jsonSuccess(c, models.ResolveResponse{Keywords: records, Count: len(records)})
}

// Refresh re-resolves the requester's saved keywords and reports the count.
func (h *KeywordHandler) Refresh(c fiber.Ctx) error {
	count, err := h.refresher.RefreshUser(c.Context(), middleware.RequesterID(c))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to refresh saved keywords")
	}
	return jsonSuccess(c, models.RefreshResponse{RefreshedCount: count})
}

// ListSaved returns the requester's saved keywords.
func (h *KeywordHandler) ListSaved(c fiber.Ctx) error {
	saved, err := h.saved.GetSavedKeywords(c.Context(), middleware.RequesterID(c))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to load saved keywords")
	}
	return jsonSuccess(c, models.SavedKeywordsResponse{Keywords: saved, Count: len(saved)})
}

// ReplaceSaved replaces the requester's saved keyword set for one locale.
func (h *KeywordHandler) ReplaceSaved(c fiber.Ctx) error {
	var req models.SavedKeywordsRequest
	if err := c.Bind().Body(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !validation.ValidateCountryCode(req.CountryCode) {
		return jsonError(c, fiber.StatusBadRequest, "invalid country code")
	}
	if !validation.ValidateLanguageCode(req.LanguageCode) {
		return jsonError(c, fiber.StatusBadRequest, "invalid language code")
	}

	keywords := validation.NormalizeKeywords(req.Keywords, 0)
	if err := h.saved.ReplaceSavedKeywords(c.Context(), middleware.RequesterID(c),
		req.CountryCode, req.LanguageCode, keywords); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to save keywords")
	}

	return jsonSuccess(c, fiber.Map{"saved": len(keywords)})
}
