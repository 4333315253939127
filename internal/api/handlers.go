package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"tacticalops/clanhub/internal/apperr"
	"tacticalops/clanhub/internal/auth"
	"tacticalops/clanhub/internal/common"
	"tacticalops/clanhub/internal/constants"
	"tacticalops/clanhub/internal/models/dtos"
	"tacticalops/clanhub/internal/models/entities"

	"github.com/go-chi/chi/v5"
)

// maxBodyBytes leaves room for a base64 encoded logo.
const maxBodyBytes = 4 << 20

// ClanAPI is the part of the clan service the HTTP layer calls.
type ClanAPI interface {
	Create(ctx context.Context, actorID string, in dtos.CreateClanInput) (*entities.Clan, error)
	Update(ctx context.Context, actorID, clanID string, in dtos.UpdateClanInput) (*entities.Clan, error)
	GetByID(ctx context.Context, clanID string) (*entities.Clan, error)
	ListPage(ctx context.Context, page, pageSize int, gameType string) (*entities.ClanPage, error)
	TopN(ctx context.Context, n int, gameType string) ([]entities.Clan, error)
	Search(ctx context.Context, term string, limit int) ([]entities.Clan, error)
	Join(ctx context.Context, clanID, userID string) (*entities.Clan, error)
	Invite(ctx context.Context, clanID, actorID, targetID string) (*entities.Clan, error)
	Leave(ctx context.Context, clanID, userID string) (*entities.Clan, error)
	RemoveMember(ctx context.Context, clanID, actorID, targetID string) (*entities.Clan, error)
	AssignSeniorOfficer(ctx context.Context, clanID, actorID, targetID string) (*entities.Clan, error)
	RemoveSeniorOfficer(ctx context.Context, clanID, actorID string) (*entities.Clan, error)
	Role(ctx context.Context, clanID, userID string) (constants.ClanRole, error)
	RankProgress(ctx context.Context, points int64) (entities.RankProgress, error)
	ValidFields(ctx context.Context, state, gameType string) ([]string, error)
	Members(ctx context.Context, clanID string) ([]entities.ClanMember, error)
	AwardPoints(ctx context.Context, clanID string, delta int64) (*entities.Clan, error)
	AddAchievement(ctx context.Context, clanID, achievement string) (*entities.Clan, error)
	Deactivate(ctx context.Context, clanID, actorID string) (*entities.Clan, error)
}

type Handlers struct {
	clans ClanAPI
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(clans ClanAPI) *Handlers {
	return &Handlers{clans: clans}
}

// ListClans handles GET /api/v1/clans?page=&page_size=&game_type=
func (h *Handlers) ListClans() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		q := r.URL.Query()

		page, err := queryInt(q.Get("page"), "page", 1)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		pageSize, err := queryInt(q.Get("page_size"), "page_size", constants.DefaultPageSize)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		result, err := h.clans.ListPage(r.Context(), page, pageSize, q.Get("game_type"))
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Clans fetched successfully", result)
	}
}

// TopClans handles GET /api/v1/clans/top?n=&game_type=
func (h *Handlers) TopClans() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		q := r.URL.Query()

		n, err := queryInt(q.Get("n"), "n", constants.DefaultTopN)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		clans, err := h.clans.TopN(r.Context(), n, q.Get("game_type"))
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Top clans fetched successfully", clans)
	}
}

// SearchClans handles GET /api/v1/clans/search?q=&limit=
func (h *Handlers) SearchClans() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		q := r.URL.Query()

		limit, err := queryInt(q.Get("limit"), "limit", constants.DefaultSearchLimit)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		clans, err := h.clans.Search(r.Context(), q.Get("q"), limit)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Search completed", clans)
	}
}

func (h *Handlers) GetClan() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		clan, err := h.clans.GetByID(r.Context(), chi.URLParam(r, "clan_id"))
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Clan fetched successfully", clan)
	}
}

func (h *Handlers) GetMembers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		members, err := h.clans.Members(r.Context(), chi.URLParam(r, "clan_id"))
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Members fetched successfully", members)
	}
}

// RankProgress handles GET /api/v1/ranks/progress?points=
func (h *Handlers) RankProgress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		raw := r.URL.Query().Get("points")
		points, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			common.RespondAppError(w, initTime, apperr.Validation("points", "must be an integer"))
			return
		}

		progress, err := h.clans.RankProgress(r.Context(), points)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Rank progress computed", progress)
	}
}

// ValidFields handles GET /api/v1/fields?state=&game_type=
func (h *Handlers) ValidFields() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		q := r.URL.Query()
		state, gameType := q.Get("state"), q.Get("game_type")

		fields, err := h.clans.ValidFields(r.Context(), state, gameType)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Fields fetched successfully", dtos.FieldsResponse{
			State:    state,
			GameType: gameType,
			Fields:   fields,
		})
	}
}

func (h *Handlers) CreateClan() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.CreateClanInput
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		clan, err := h.clans.Create(r.Context(), auth.UserIDFrom(r.Context()), req)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Clan created successfully", clan, http.StatusCreated)
	}
}

func (h *Handlers) UpdateClan() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.UpdateClanInput
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		clan, err := h.clans.Update(r.Context(), auth.UserIDFrom(r.Context()), chi.URLParam(r, "clan_id"), req)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Clan updated successfully", clan)
	}
}

func (h *Handlers) JoinClan() http.HandlerFunc {
	return h.actorAction("Joined clan", func(ctx context.Context, clanID, actorID string) (*entities.Clan, error) {
		return h.clans.Join(ctx, clanID, actorID)
	})
}

func (h *Handlers) LeaveClan() http.HandlerFunc {
	return h.actorAction("Left clan", func(ctx context.Context, clanID, actorID string) (*entities.Clan, error) {
		return h.clans.Leave(ctx, clanID, actorID)
	})
}

func (h *Handlers) RemoveSeniorOfficer() http.HandlerFunc {
	return h.actorAction("Senior officer removed", func(ctx context.Context, clanID, actorID string) (*entities.Clan, error) {
		return h.clans.RemoveSeniorOfficer(ctx, clanID, actorID)
	})
}

func (h *Handlers) DeactivateClan() http.HandlerFunc {
	return h.actorAction("Clan deactivated", func(ctx context.Context, clanID, actorID string) (*entities.Clan, error) {
		return h.clans.Deactivate(ctx, clanID, actorID)
	})
}

func (h *Handlers) InviteMember() http.HandlerFunc {
	return h.targetAction("Member invited", func(ctx context.Context, clanID, actorID, targetID string) (*entities.Clan, error) {
		return h.clans.Invite(ctx, clanID, actorID, targetID)
	})
}

func (h *Handlers) AssignSeniorOfficer() http.HandlerFunc {
	return h.targetAction("Senior officer assigned", func(ctx context.Context, clanID, actorID, targetID string) (*entities.Clan, error) {
		return h.clans.AssignSeniorOfficer(ctx, clanID, actorID, targetID)
	})
}

// RemoveMember handles DELETE /api/v1/clans/{clan_id}/members/{user_id}
func (h *Handlers) RemoveMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		clan, err := h.clans.RemoveMember(
			r.Context(),
			chi.URLParam(r, "clan_id"),
			auth.UserIDFrom(r.Context()),
			chi.URLParam(r, "user_id"),
		)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Member removed", clan)
	}
}

// CanManage reports the caller's role in the clan.
func (h *Handlers) CanManage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		clanID := chi.URLParam(r, "clan_id")
		userID := auth.UserIDFrom(r.Context())

		role, err := h.clans.Role(r.Context(), clanID, userID)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Role resolved", dtos.CanManageResponse{
			ClanID:    clanID,
			UserID:    userID,
			Role:      role.String(),
			CanManage: role.CanManage(),
		})
	}
}

func (h *Handlers) AwardPoints() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.AwardPointsRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		clan, err := h.clans.AwardPoints(r.Context(), chi.URLParam(r, "clan_id"), req.Delta)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Points awarded", clan)
	}
}

func (h *Handlers) AddAchievement() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.AchievementRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		clan, err := h.clans.AddAchievement(r.Context(), chi.URLParam(r, "clan_id"), req.Achievement)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Achievement added", clan)
	}
}

func (h *Handlers) actorAction(
	message string,
	do func(ctx context.Context, clanID, actorID string) (*entities.Clan, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		clan, err := do(r.Context(), chi.URLParam(r, "clan_id"), auth.UserIDFrom(r.Context()))
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, message, clan)
	}
}

func (h *Handlers) targetAction(
	message string,
	do func(ctx context.Context, clanID, actorID, targetID string) (*entities.Clan, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.TargetUserRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		if req.UserID == "" {
			common.RespondAppError(w, initTime, apperr.Validation("user_id", "is required"))
			return
		}

		clan, err := do(r.Context(), chi.URLParam(r, "clan_id"), auth.UserIDFrom(r.Context()), req.UserID)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, message, clan)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.Validation("body", "must be at most %d bytes", maxBodyBytes)
		}
		return apperr.Validation("body", "invalid JSON")
	}
	return nil
}

func queryInt(raw, field string, def int) (int, error) {
	v, err := common.ParseIntDefault(raw, def)
	if err != nil {
		return 0, apperr.Validation(field, "must be an integer")
	}
	return v, nil
}
