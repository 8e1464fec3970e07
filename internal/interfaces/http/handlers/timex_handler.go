package handlers

import (
	"net/http"
	"strings"

	"github.com/turtacn/timexnorm/internal/application/annotation"
	"github.com/turtacn/timexnorm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/timexnorm/pkg/errors"
	"github.com/turtacn/timexnorm/pkg/types/timex"
)

// DefaultMaxBodySize bounds request bodies when no limit is configured.
const DefaultMaxBodySize int64 = 4 << 20

// TimexHandler exposes normalisation, annotation and rule listing.
type TimexHandler struct {
	svc         annotation.Service
	logger      logging.Logger
	maxBodySize int64
}

// NewTimexHandler creates a TimexHandler.  A non-positive maxBodySize
// selects DefaultMaxBodySize.
func NewTimexHandler(svc annotation.Service, logger logging.Logger, maxBodySize int64) *TimexHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if maxBodySize <= 0 {
		maxBodySize = DefaultMaxBodySize
	}
	return &TimexHandler{svc: svc, logger: logger.Named("http"), maxBodySize: maxBodySize}
}

// NormaliseRequest is the body of POST /api/v1/normalise.  Either
// Expression or Expressions is set; each is resolved independently.
type NormaliseRequest struct {
	Expression  string   `json:"expression,omitempty"`
	Expressions []string `json:"expressions,omitempty"`
	Reference   string   `json:"reference"`
	Domain      string   `json:"domain,omitempty"`
}

// NormaliseResponse carries one result per requested expression.
type NormaliseResponse struct {
	Reference string         `json:"reference"`
	Results   []timex.Result `json:"results"`
}

// Normalise handles POST /api/v1/normalise.
func (h *TimexHandler) Normalise(w http.ResponseWriter, r *http.Request) {
	var req NormaliseRequest
	if err := decodeJSON(w, r, h.maxBodySize, &req); err != nil {
		writeAppError(w, err)
		return
	}

	exprs := req.Expressions
	if req.Expression != "" {
		exprs = append([]string{req.Expression}, exprs...)
	}
	if len(exprs) == 0 {
		writeAppError(w, errors.New(errors.ErrCodeEmptyExpression, "expression is required"))
		return
	}

	resp := NormaliseResponse{Reference: req.Reference, Results: make([]timex.Result, 0, len(exprs))}
	for _, expr := range exprs {
		res, err := h.svc.Normalise(r.Context(), expr, req.Reference, req.Domain)
		if err != nil {
			writeAppError(w, err)
			return
		}
		resp.Results = append(resp.Results, *res)
	}
	writeJSON(w, http.StatusOK, resp)
}

// AnnotateRequest is the body of POST /api/v1/annotate: a single Document
// or a batch of Documents.
type AnnotateRequest struct {
	Document  *annotation.Document   `json:"document,omitempty"`
	Documents []*annotation.Document `json:"documents,omitempty"`
}

// AnnotateBatchResponse is returned for a batch request.
type AnnotateBatchResponse struct {
	Documents []*annotation.AnnotatedDocument `json:"documents"`
}

// Annotate handles POST /api/v1/annotate.
func (h *TimexHandler) Annotate(w http.ResponseWriter, r *http.Request) {
	var req AnnotateRequest
	if err := decodeJSON(w, r, h.maxBodySize, &req); err != nil {
		writeAppError(w, err)
		return
	}

	switch {
	case req.Document != nil && len(req.Documents) > 0:
		writeAppError(w, errors.InvalidParam("set either document or documents, not both"))
	case req.Document != nil:
		out, err := h.svc.Annotate(r.Context(), req.Document)
		if err != nil {
			h.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	case len(req.Documents) > 0:
		out, err := h.svc.AnnotateBatch(r.Context(), req.Documents)
		if err != nil {
			h.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, AnnotateBatchResponse{Documents: out})
	default:
		writeAppError(w, errors.InvalidParam("document or documents is required"))
	}
}

// RulesResponse lists a cascade in evaluation order.
type RulesResponse struct {
	Domain string   `json:"domain,omitempty"`
	Rules  []string `json:"rules"`
}

// Rules handles GET /api/v1/rules?domain=general|clinical.
func (h *TimexHandler) Rules(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("domain"))
	rules, err := h.svc.Rules(name)
	if err != nil {
		writeAppError(w, err)
		return
	}
	var domain timex.Domain
	if name != "" {
		domain, _ = timex.ParseDomain(name)
	}
	writeJSON(w, http.StatusOK, RulesResponse{Domain: string(domain), Rules: rules})
}

func (h *TimexHandler) fail(w http.ResponseWriter, err error) {
	if clientError(err) == nil {
		h.logger.Error("annotation failed", logging.Err(err))
	}
	writeAppError(w, err)
}

//Personal.AI order the ending
