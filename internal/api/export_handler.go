// File path: internal/api/export_handler.go
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	chi "github.com/go-chi/chi/v5"

	"github.com/nicodishanthj/xcgen/internal/common"
	"github.com/nicodishanthj/xcgen/internal/export"
)

// handleExport renders the posted cases as a download. The body is rendered
// into memory first so a failure never leaves a half-written attachment.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	format := chi.URLParam(r, "format")
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("api: export decode failed", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(req.TestCases) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("test_cases is required"))
		return
	}
	var buf bytes.Buffer
	f, err := export.Render(&buf, format, req.TestCases)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	logger.Info("api: export rendered", "format", f.Name, "cases", len(req.TestCases), "bytes", buf.Len())
	w.Header().Set("Content-Type", f.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
