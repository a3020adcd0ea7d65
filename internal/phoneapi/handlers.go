package phoneapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/libmarket/phonecheck/internal/domain"
	"github.com/libmarket/phonecheck/internal/errmap"
	"github.com/libmarket/phonecheck/internal/phone"
)

type phoneRequest struct {
	Phone string `json:"phone"`
}

type validateResponse struct {
	Valid         bool          `json:"valid"`
	Canonical     string        `json:"canonical"`
	Carrier       phone.Carrier `json:"carrier"`
	Display       string        `json:"display"`
	International string        `json:"international"`
	Local         string        `json:"local"`
	E164          string        `json:"e164"`
}

type invalidResponse struct {
	Valid   bool   `json:"valid"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *API) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req phoneRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}

	res := phone.Validate(req.Phone)
	a.metrics.RecordValidation(r.Context(), res)

	if !res.Valid {
		httpErr := errmap.ToHTTPError(res.Err)
		writeJSON(w, httpErr.StatusCode, invalidResponse{Code: httpErr.Code, Message: httpErr.Message})
		return
	}

	n := phone.MustNew(res.Canonical)
	writeJSON(w, http.StatusOK, validateResponse{
		Valid:         true,
		Canonical:     n.String(),
		Carrier:       res.Carrier,
		Display:       n.Display(),
		International: n.International(),
		Local:         n.Local(),
		E164:          n.E164(),
	})
}

func (a *API) handleParse(w http.ResponseWriter, r *http.Request) {
	var req phoneRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, phone.Parse(req.Phone))
}

func (a *API) handleFormat(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("phone")
	writeJSON(w, http.StatusOK, map[string]string{"formatted": phone.Format(raw)})
}

type dedupeRequest struct {
	Phones []string `json:"phones"`
}

type groupResponse struct {
	Canonical string   `json:"canonical"`
	Display   string   `json:"display"`
	Raw       []string `json:"raw"`
}

type rejectedResponse struct {
	Input   string `json:"input"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type dedupeResponse struct {
	Unique     int                `json:"unique"`
	Groups     []groupResponse    `json:"groups"`
	Duplicates []groupResponse    `json:"duplicates"`
	Invalid    []rejectedResponse `json:"invalid"`
}

func (a *API) handleDedupe(w http.ResponseWriter, r *http.Request) {
	var req dedupeRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	if len(req.Phones) > domain.MaxBatchSize {
		a.writeError(w, r, fmt.Errorf("batch of %d exceeds %d numbers: %w",
			len(req.Phones), domain.MaxBatchSize, domain.ErrInvalidInput))
		return
	}

	idx := phone.NewIndex()
	resp := dedupeResponse{Invalid: []rejectedResponse{}}
	for _, raw := range req.Phones {
		res := phone.Validate(raw)
		a.metrics.RecordValidation(r.Context(), res)
		if !res.Valid {
			httpErr := errmap.ToHTTPError(res.Err)
			resp.Invalid = append(resp.Invalid, rejectedResponse{Input: raw, Code: httpErr.Code, Message: httpErr.Message})
			continue
		}
		// Validate already accepted raw, so Add cannot fail.
		_, _, _ = idx.Add(raw)
	}

	resp.Unique = idx.Len()
	resp.Groups = toGroupResponses(idx.Groups())
	resp.Duplicates = toGroupResponses(idx.Duplicates())
	writeJSON(w, http.StatusOK, resp)
}

func toGroupResponses(groups []phone.Group) []groupResponse {
	out := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, groupResponse{Canonical: g.Number.String(), Display: g.Number.Display(), Raw: g.Raw})
	}
	return out
}

type claimRequest struct {
	Phone  string `json:"phone"`
	UserID string `json:"user_id"`
}

type claimResponse struct {
	Phone     string    `json:"phone"`
	UserID    string    `json:"user_id"`
	ClaimedAt time.Time `json:"claimed_at,omitzero"`
}

func (a *API) handleClaimPhone(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	n, err := phone.New(req.Phone)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	owner, err := domain.NewUserID(req.UserID)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	if err := a.allowClaim(r.Context(), n); err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := a.registry.ClaimPhone(r.Context(), n, owner); err != nil {
		a.writeError(w, r, err)
		return
	}
	a.logger.InfoContext(r.Context(), "phone claimed",
		"phone", n,
		"user_id", owner.String(),
		"request_id", RequestIDFromContext(r.Context()),
	)
	writeJSON(w, http.StatusCreated, claimResponse{Phone: n.String(), UserID: owner.String()})
}

func (a *API) handleGetClaim(w http.ResponseWriter, r *http.Request) {
	n, err := phone.New(r.PathValue("phone"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := a.allowClaim(r.Context(), n); err != nil {
		a.writeError(w, r, err)
		return
	}
	c, err := a.registry.PhoneOwner(r.Context(), n)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, claimResponse{Phone: n.String(), UserID: c.Owner.String(), ClaimedAt: c.ClaimedAt})
}

func (a *API) handleReleaseClaim(w http.ResponseWriter, r *http.Request) {
	n, err := phone.New(r.PathValue("phone"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	owner, err := domain.NewUserID(r.URL.Query().Get("user_id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := a.registry.ReleasePhone(r.Context(), n, owner); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type slugRequest struct {
	Name string `json:"name"`
}

func (a *API) handleClaimSlug(w http.ResponseWriter, r *http.Request) {
	var req slugRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	s, err := a.registry.ClaimSlug(r.Context(), req.Name)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"slug": s})
}
