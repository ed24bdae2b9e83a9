// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpcsvc

import (
	"encoding/json"
	"net/http"

	"google.golang.org/grpc/status"
)

// Handler exposes the Service over HTTP+JSON: POST /gen_proof and
// POST /verify_proof, each taking the corresponding request struct as a
// JSON body (see DESIGN.md for why this stands in for the spec's two-method
// gRPC surface).
type Handler struct {
	svc *Service
}

// NewHandler wraps svc as an http.Handler.
func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/gen_proof":
		h.handleGenProof(w, r)
	case "/verify_proof":
		h.handleVerifyProof(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) handleGenProof(w http.ResponseWriter, r *http.Request) {
	var req GenProofRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeStatusError(w, statusError{code: http.StatusBadRequest, msg: err.Error()})
		return
	}
	resp, err := h.svc.GenProof(r.Context(), req)
	if err != nil {
		writeGrpcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleVerifyProof(w http.ResponseWriter, r *http.Request) {
	var req VerifyProofRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeStatusError(w, statusError{code: http.StatusBadRequest, msg: err.Error()})
		return
	}
	resp, err := h.svc.VerifyProof(r.Context(), req)
	if err != nil {
		writeGrpcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type statusError struct {
	code int
	msg  string
}

func writeStatusError(w http.ResponseWriter, e statusError) {
	writeJSON(w, e.code, map[string]string{"error": e.msg})
}

// writeGrpcError maps a google.golang.org/grpc/codes-tagged error onto the
// nearest HTTP status, preserving the code name in the JSON body so a
// caller can recover the exact taxonomy (spec.md section 6).
func writeGrpcError(w http.ResponseWriter, err error) {
	st := status.Convert(err)
	httpCode := http.StatusInternalServerError
	switch st.Code().String() {
	case "InvalidArgument":
		httpCode = http.StatusBadRequest
	case "DataLoss":
		httpCode = http.StatusNotFound
	case "DeadlineExceeded":
		httpCode = http.StatusGatewayTimeout
	}
	writeJSON(w, httpCode, map[string]string{"code": st.Code().String(), "error": st.Message()})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
