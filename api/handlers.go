package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/ByLCY/text2pdf/layout"
)

const headerPageCount = "X-Page-Count"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.presets.List())
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	req, err := s.readRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.converter.Convert(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Info("converted",
		"filename", res.Filename,
		"pages", res.Pages,
		"bytes", len(res.PDF),
		"request_id", middleware.GetReqID(r.Context()),
	)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, res.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.PDF)))
	w.Header().Set(headerPageCount, strconv.Itoa(res.Pages))
	w.Write(res.PDF)
}

// handlePreview returns the layout plan that /api/convert would render.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req, err := s.readRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	plan, err := s.converter.Plan(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(headerPageCount, strconv.Itoa(len(plan.Pages)))
	if err := layout.WritePlanJSON(w, plan); err != nil {
		s.log.Warn("write preview", "error", err)
	}
}
