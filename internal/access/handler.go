package access

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
	Aggregate(ctx context.Context, principal *auth.Principal) ([]int64, error)
	CreateGroup(ctx context.Context, dto CreateGroupDTO) (*Group, error)
	GetGroup(ctx context.Context, id int64) (*Group, error)
	ListGroups(ctx context.Context, companyID *int64, limit, offset int) ([]Group, error)
	DeleteGroup(ctx context.Context, id int64) error
	AddTag(ctx context.Context, groupID, tagID int64) error
	RemoveTag(ctx context.Context, groupID, tagID int64) error
	GrantToUser(ctx context.Context, groupID, userID int64) error
	RevokeFromUser(ctx context.Context, groupID, userID int64) error
	GrantToCompany(ctx context.Context, groupID, companyID int64) error
	RevokeFromCompany(ctx context.Context, groupID, companyID int64) error
	GrantToCompanyUserGroup(ctx context.Context, groupID, companyUserGroupID int64) error
	RevokeFromCompanyUserGroup(ctx context.Context, groupID, companyUserGroupID int64) error
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

// GetCatalogueAccess handles GET /catalogue-access: the aggregated product
// category tags the current principal may read.
func (h *Handler) GetCatalogueAccess(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok || principal == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	tags, err := h.Service.Aggregate(r.Context(), principal)
	if err != nil {
		h.Logger.Error("capability aggregation failed", "error", err, "user_id", principal.ID)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"tag_ids": tags})
}

func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var dto CreateGroupDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	group, err := h.Service.CreateGroup(r.Context(), dto)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, group)
}

func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid group id")
		return
	}

	group, err := h.Service.GetGroup(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, group)
}

func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	var companyID *int64
	if raw := r.URL.Query().Get("company_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid company_id")
			return
		}
		companyID = &id
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	groups, err := h.Service.ListGroups(r.Context(), companyID, limit, offset)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, groups)
}

func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid group id")
		return
	}

	if err := h.Service.DeleteGroup(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Grant handles POST /access-groups/{id}/grants: attach a tag or grant the
// group to a user, company, or company user group.
func (h *Handler) Grant(w http.ResponseWriter, r *http.Request) {
	h.applyGrant(w, r, true)
}

// Revoke handles POST /access-groups/{id}/revocations.
func (h *Handler) Revoke(w http.ResponseWriter, r *http.Request) {
	h.applyGrant(w, r, false)
}

func (h *Handler) applyGrant(w http.ResponseWriter, r *http.Request, grant bool) {
	groupID, err := h.pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid group id")
		return
	}

	var dto GrantDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := r.Context()
	switch {
	case dto.TagID != nil:
		if grant {
			err = h.Service.AddTag(ctx, groupID, *dto.TagID)
		} else {
			err = h.Service.RemoveTag(ctx, groupID, *dto.TagID)
		}
	case dto.UserID != nil:
		if grant {
			err = h.Service.GrantToUser(ctx, groupID, *dto.UserID)
		} else {
			err = h.Service.RevokeFromUser(ctx, groupID, *dto.UserID)
		}
	case dto.CompanyID != nil:
		if grant {
			err = h.Service.GrantToCompany(ctx, groupID, *dto.CompanyID)
		} else {
			err = h.Service.RevokeFromCompany(ctx, groupID, *dto.CompanyID)
		}
	case dto.CompanyUserGroupID != nil:
		if grant {
			err = h.Service.GrantToCompanyUserGroup(ctx, groupID, *dto.CompanyUserGroupID)
		} else {
			err = h.Service.RevokeFromCompanyUserGroup(ctx, groupID, *dto.CompanyUserGroupID)
		}
	default:
		h.WriteError(w, http.StatusBadRequest, "grant target is required")
		return
	}

	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		h.WriteError(w, appErr.StatusCode, appErr.Error())
		return
	}
	h.Logger.Error("access service error", "error", err)
	h.WriteError(w, http.StatusInternalServerError, "internal server error")
}
