// File path: internal/api/meta_handler.go
package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/nicodishanthj/xcgen/internal/common"
	"github.com/nicodishanthj/xcgen/internal/export"
	"github.com/nicodishanthj/xcgen/internal/testcase"
)

type optionsResponse struct {
	testcase.Options
	ExportFormats  []string `json:"export_formats"`
	IndexBackend   string   `json:"index_backend"`
	IndexAvailable bool     `json:"index_available"`
	IndexError     string   `json:"index_error,omitempty"`
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	resp := optionsResponse{
		Options:       s.options,
		ExportFormats: export.Formats(),
	}
	if store := s.orchestrator.Vector(); store != nil {
		resp.IndexBackend = store.Name()
		resp.IndexAvailable = store.Available()
	}
	if err := s.orchestrator.IndexError(); err != nil {
		resp.IndexError = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleLogs returns captured log entries, optionally filtered by level and
// component and trimmed to the most recent limit entries.
func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	level := strings.ToLower(strings.TrimSpace(query.Get("level")))
	component := strings.TrimSpace(query.Get("component"))
	entries := common.LogEntries()
	filtered := make([]common.LogEntry, 0, len(entries))
	for _, entry := range entries {
		if level != "" && strings.ToLower(entry.Level) != level {
			continue
		}
		if component != "" && entry.Component != component {
			continue
		}
		filtered = append(filtered, entry)
	}
	if limit, err := strconv.Atoi(query.Get("limit")); err == nil && limit > 0 && len(filtered) > limit {
		filtered = filtered[len(filtered)-limit:]
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": filtered})
}
