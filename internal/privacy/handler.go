package privacy

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/campaign-management/internal"
	"github.com/frahmantamala/campaign-management/internal/auth"
	"github.com/frahmantamala/campaign-management/internal/transport"
	"github.com/frahmantamala/campaign-management/pkg/logger"
)

type ServiceAPI interface {
	Redact(ctx context.Context, principal *auth.Principal, module string, records ...Maskable)
	ListRules(ctx context.Context, companyID int64) ([]Rule, error)
	SetRule(ctx context.Context, dto SetRuleDTO) (*Rule, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// ListRules handles GET /companies/{id}/privacy-rules.
func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	companyID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid company id")
		return
	}

	rules, err := h.Service.ListRules(r.Context(), companyID)
	if err != nil {
		h.Logger.Error("failed to list privacy rules", "error", err, "company_id", companyID)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if rules == nil {
		rules = []Rule{}
	}

	h.WriteJSON(w, http.StatusOK, rules)
}

// SetRule handles PUT /companies/{id}/privacy-rules.
func (h *Handler) SetRule(w http.ResponseWriter, r *http.Request) {
	companyID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid company id")
		return
	}

	var dto SetRuleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dto.CompanyID = companyID

	rule, err := h.Service.SetRule(r.Context(), dto)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			h.WriteError(w, appErr.StatusCode, appErr.Error())
			return
		}
		h.Logger.Error("failed to set privacy rule", "error", err, "company_id", companyID)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, rule)
}
