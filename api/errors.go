package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ByLCY/text2pdf/convert"
	"github.com/ByLCY/text2pdf/source"
)

// fieldErrors follows the flattened validation error shape clients expect:
// {"error": {"formErrors": [], "fieldErrors": {"fontSize": ["..."]}}}
type fieldErrors struct {
	FormErrors  []string            `json:"formErrors"`
	FieldErrors map[string][]string `json:"fieldErrors"`
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// writeError maps conversion errors to HTTP responses.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, convert.ErrInvalidOption):
		fe := fieldErrors{FormErrors: []string{}, FieldErrors: map[string][]string{}}
		for _, oe := range convert.OptionErrors(err) {
			fe.FieldErrors[oe.Field] = append(fe.FieldErrors[oe.Field], oe.Reason)
		}
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": fe})
	case errors.Is(err, convert.ErrEmptyText):
		jsonError(w, "No text provided", http.StatusBadRequest)
	case errors.Is(err, convert.ErrTextTooLong):
		jsonError(w, convert.LimitMessage(s.converter.MaxTextLength()), http.StatusRequestEntityTooLarge)
	case errors.Is(err, errFileTooLarge):
		jsonError(w, fmt.Sprintf("File exceeds %s limit", formatBytes(s.cfg.MaxFileSize)), http.StatusRequestEntityTooLarge)
	case errors.Is(err, errBodyTooLarge):
		jsonError(w, fmt.Sprintf("Request body exceeds %s limit", formatBytes(s.cfg.MaxBodyBytes)), http.StatusRequestEntityTooLarge)
	case errors.Is(err, source.ErrUnsupportedFormat):
		jsonError(w, fmt.Sprintf("Only %s files are allowed", strings.Join(source.Extensions(), ", ")), http.StatusUnsupportedMediaType)
	case errors.Is(err, source.ErrExtract):
		s.log.Warn("extract upload", "error", err)
		jsonError(w, "Could not read uploaded file", http.StatusBadRequest)
	case errors.Is(err, convert.ErrUnknownTemplate), errors.Is(err, errBadRequest):
		jsonError(w, err.Error(), http.StatusBadRequest)
	default:
		s.log.Error("convert failed", "error", err, "path", r.URL.Path)
		body := map[string]any{"error": "Failed to generate PDF"}
		if !s.cfg.Production() {
			body["detail"] = err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, body)
	}
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%dMB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%dKB", n>>10)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
