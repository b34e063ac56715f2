package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/solace-advocates/advocate-directory-api/internal/app/advocates"
)

// Server implements the advocate directory HTTP handlers.
type Server struct {
	Advocates *advocates.Service
	Logger    *slog.Logger
}

func NewServer(advocatesSvc *advocates.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		Advocates: advocatesSvc,
		Logger:    logger,
	}
}

// ListAdvocates serves GET /api/advocates?searchTerm=.
// Any failure yields 400 {"message":"error"} and no partial results.
func (s *Server) ListAdvocates(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("searchTerm")

	as, err := s.Advocates.SearchAdvocates(r.Context(), term)
	if err != nil {
		var ae *advocates.Error
		if errors.As(err, &ae) {
			s.Logger.WarnContext(r.Context(), "rejected advocate search",
				"code", ae.Code, "details", ae.Details, "request_id", middleware.GetReqID(r.Context()))
		} else {
			s.Logger.ErrorContext(r.Context(), "advocate search failed",
				"error", err, "request_id", middleware.GetReqID(r.Context()))
		}
		writeSearchError(w, r, s.Logger)
		return
	}

	out := ListAdvocatesResponse{Data: make([]Advocate, 0, len(as))}
	for _, a := range as {
		out.Data = append(out.Data, advocateFromDomain(a))
	}
	writeJSON(w, r, s.Logger, http.StatusOK, out)
}

// GetSearchPolicy reports the fields searches match against.
func (s *Server) GetSearchPolicy(w http.ResponseWriter, r *http.Request) {
	p := s.Advocates.Policy()
	fields := p.Fields()
	out := SearchPolicyResponse{Fields: make([]string, 0, len(fields)), Extended: p.Extended()}
	for _, f := range fields {
		out.Fields = append(out.Fields, string(f))
	}
	writeJSON(w, r, s.Logger, http.StatusOK, out)
}
