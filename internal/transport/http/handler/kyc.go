package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/exchange-admin/internal/application/kyc"
	"github.com/exchange-admin/internal/pkg/validate"
	"github.com/exchange-admin/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// ReviewRequest is the optional body of approve/reject.
type ReviewRequest struct {
	Notes string `json:"notes" validate:"max=2000"`
}

// KYCHandler serves the KYC review queue.
type KYCHandler struct {
	svc kyc.Service
}

func NewKYCHandler(svc kyc.Service) *KYCHandler { return &KYCHandler{svc: svc} }

func (h *KYCHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	res, err := h.svc.ListPending(r.Context(), page, limit)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *KYCHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.Get(r.Context(), chi.URLParam(r, "documentId"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: doc})
}

func (h *KYCHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.svc.Approve, "KYC document approved")
}

func (h *KYCHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.svc.Reject, "KYC document rejected")
}

type reviewFunc func(ctx context.Context, documentID, reviewerID, notes string) (*kyc.ReviewResult, error)

func (h *KYCHandler) review(w http.ResponseWriter, r *http.Request, fn reviewFunc, message string) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if _, err := fn(r.Context(), chi.URLParam(r, "documentId"), p.AdminID, req.Notes); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: message})
}
