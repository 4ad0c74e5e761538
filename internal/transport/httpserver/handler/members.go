package handler

import (
	"errors"
	"net/http"
	"time"

	memberdomain "membership-admin/internal/domain/member"
	"membership-admin/internal/transport/httpserver/middleware"
	"membership-admin/pkg/logger"
)

type memberRequest struct {
	FullName            string  `json:"full_name"`
	Email               string  `json:"email"`
	PhoneNumber         *string `json:"phone_number"`
	Age                 *int    `json:"age"`
	Gender              *string `json:"gender"`
	MembershipType      *string `json:"membership_type"`
	Status              string  `json:"status"`
	MembershipStartDate *string `json:"membership_start_date"`
	MembershipEndDate   *string `json:"membership_end_date"`
	TrainingLevel       *string `json:"training_level"`
}

type memberResponse struct {
	ID                  string    `json:"id"`
	FullName            string    `json:"full_name"`
	Email               string    `json:"email"`
	PhoneNumber         *string   `json:"phone_number"`
	Age                 *int      `json:"age"`
	Gender              *string   `json:"gender"`
	MembershipType      *string   `json:"membership_type"`
	Status              string    `json:"status"`
	MembershipStartDate *string   `json:"membership_start_date"`
	MembershipEndDate   *string   `json:"membership_end_date"`
	TrainingLevel       *string   `json:"training_level"`
	CreatedAt           time.Time `json:"created_at"`
}

type memberListResponse struct {
	Items []memberResponse `json:"items"`
	Total int              `json:"total"`
}

type statsResponse struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Expired   int `json:"expired"`
	Suspended int `json:"suspended"`
	Cancelled int `json:"cancelled"`
}

type authMeResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

func (req memberRequest) fields() memberdomain.Fields {
	return memberdomain.Fields{
		FullName:            req.FullName,
		Email:               req.Email,
		PhoneNumber:         req.PhoneNumber,
		Age:                 req.Age,
		Gender:              req.Gender,
		MembershipType:      req.MembershipType,
		Status:              req.Status,
		MembershipStartDate: req.MembershipStartDate,
		MembershipEndDate:   req.MembershipEndDate,
		TrainingLevel:       req.TrainingLevel,
	}
}

func toMemberResponse(m memberdomain.Member) memberResponse {
	return memberResponse{
		ID:                  m.ID,
		FullName:            m.FullName,
		Email:               m.Email,
		PhoneNumber:         m.PhoneNumber,
		Age:                 m.Age,
		Gender:              m.Gender,
		MembershipType:      m.MembershipType,
		Status:              m.StatusOrDefault(),
		MembershipStartDate: m.MembershipStartDate,
		MembershipEndDate:   m.MembershipEndDate,
		TrainingLevel:       m.TrainingLevel,
		CreatedAt:           m.CreatedAt,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) Config(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Options)
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	writeJSON(w, http.StatusOK, authMeResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
	})
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	query, err := parseQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	items, err := h.Members.Search(r.Context(), query)
	if err != nil {
		h.writeMemberError(w, r, err)
		return
	}

	response := make([]memberResponse, 0, len(items))
	for _, m := range items {
		response = append(response, toMemberResponse(m))
	}

	writeJSON(w, http.StatusOK, memberListResponse{
		Items: response,
		Total: len(response),
	})
}

func (h *Handlers) GetMember(w http.ResponseWriter, r *http.Request) {
	id, err := memberIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	m, err := h.Members.Get(r.Context(), id)
	if err != nil {
		h.writeMemberError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toMemberResponse(*m))
}

func (h *Handlers) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", decodeErrorMessage(err))
		return
	}

	created, err := h.Members.Insert(r.Context(), req.fields())
	if err != nil {
		h.writeMemberError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMemberResponse(*created))
}

func (h *Handlers) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id, err := memberIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req memberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", decodeErrorMessage(err))
		return
	}

	updated, err := h.Members.Update(r.Context(), id, req.fields())
	if err != nil {
		h.writeMemberError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toMemberResponse(*updated))
}

func (h *Handlers) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id, err := memberIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.Members.Delete(r.Context(), id); err != nil {
		h.writeMemberError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) MemberStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Members.Stats(r.Context())
	if err != nil {
		h.writeMemberError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		Total:     stats.Total,
		Active:    stats.Active,
		Expired:   stats.Expired,
		Suspended: stats.Suspended,
		Cancelled: stats.Cancelled,
	})
}

func (h *Handlers) writeMemberError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *memberdomain.ValidationError
	switch {
	case errors.Is(err, memberdomain.ErrNotFound):
		writeError(w, http.StatusNotFound, "member_not_found", "member not found")
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, "validation_failed", validationErr.Message)
	default:
		logger.FromContext(r.Context(), h.log).InternalError("http: member request failed", err)
		writeError(w, http.StatusBadGateway, "backend_error", err.Error())
	}
}
