package v1

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"storehub-backend/internal/delivery/http/middleware"
	"storehub-backend/internal/domain"
	"storehub-backend/pkg/logger"
	"storehub-backend/pkg/utils"
)

const maxBodyBytes = 1 << 20

// writeDomainError maps usecase errors onto status codes. Anything unrecognised is a 500
// and its detail stays in the log.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		utils.WriteError(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, domain.ErrCategoryCycle), errors.Is(err, domain.ErrInvalidChannel):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		utils.WriteError(w, http.StatusForbidden, "You do not have access to this store")
	case errors.Is(err, domain.ErrChannelNotActivated):
		utils.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrStoreNotFound):
		utils.WriteError(w, http.StatusNotFound, domain.ErrStoreNotFound.Error())
	case errors.Is(err, domain.ErrDomainNotFound):
		utils.WriteError(w, http.StatusNotFound, domain.ErrDomainNotFound.Error())
	case errors.Is(err, domain.ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, domain.ErrConflict):
		utils.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		utils.WriteError(w, http.StatusTooManyRequests, domain.ErrRateLimited.Error())
	case errors.Is(err, domain.ErrQuotaExceeded):
		utils.WriteError(w, http.StatusPaymentRequired, domain.ErrQuotaExceeded.Error())
	case errors.Is(err, domain.ErrNotConfigured):
		utils.WriteError(w, http.StatusServiceUnavailable, domain.ErrNotConfigured.Error())
	case errors.Is(err, domain.ErrLookupFailed), errors.Is(err, domain.ErrUpstream):
		logger.WithContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Upstream failure")
		utils.WriteError(w, http.StatusBadGateway, "Upstream service failed, please try again")
	case errors.Is(err, domain.ErrLoadFailed):
		logger.WithContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Storefront load failed")
		utils.WriteError(w, http.StatusInternalServerError, domain.ErrLoadFailed.Error())
	default:
		logger.WithContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeBody reads a JSON body into dst. An empty body leaves dst untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// sellerID returns the authenticated seller or writes a 401.
func sellerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	return user.ID, true
}
