package api

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/rustprint/pkg/errors"
	"github.com/matzehuels/rustprint/pkg/pipeline"
)

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

type toolchainResponse struct {
	ToolchainHash    string             `json:"toolchain_hash"`
	ToolchainVersion *string            `json:"toolchain_version"`
	Reports          []*pipeline.Report `json:"reports"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge,
				errors.New(errors.ErrCodeInvalidInput, "body exceeds %d bytes", s.maxBody))
			return
		}
		writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeIO, err, "read body"))
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidInput, "empty body"))
		return
	}

	q := r.URL.Query()
	name := q.Get("name")
	if name == "" {
		name = "upload"
	}
	persist, err := boolParam(q.Get("persist"), s.store != nil, "persist")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	refresh, err := boolParam(q.Get("refresh"), false, "refresh")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	opts := pipeline.Options{Persist: persist && s.store != nil, Refresh: refresh}

	report, err := s.runner.AnalyzeBytes(r.Context(), name, data, opts)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotImplemented, errors.New(errors.ErrCodeUnsupported, "report store not configured"))
		return
	}
	report, err := s.store.Get(r.Context(), chi.URLParam(r, "sha256"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleToolchainReports(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotImplemented, errors.New(errors.ErrCodeUnsupported, "report store not configured"))
		return
	}
	hash := chi.URLParam(r, "hash")
	reports, err := s.store.ByToolchain(r.Context(), hash)
	if err != nil {
		s.writeErr(w, err)
		return
	}

	resp := toolchainResponse{ToolchainHash: hash, Reports: reports}
	if v, ok := s.runner.Table.Lookup(hash); ok {
		resp.ToolchainVersion = &v
	}
	writeJSON(w, http.StatusOK, resp)
}

// boolParam parses an optional boolean query parameter.
func boolParam(v string, def bool, name string) (bool, error) {
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "invalid %s value %q", name, v)
	}
	return b, nil
}

// writeErr maps err to a status by its code and logs server-side failures.
func (s *Server) writeErr(w http.ResponseWriter, err error) {
	status := statusFor(errors.GetCode(err))
	if status >= 500 {
		s.logger.Error("request failed", "err", err)
	}
	writeError(w, status, err)
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidHash, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound, errors.ErrCodeReportNotFound:
		return http.StatusNotFound
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
