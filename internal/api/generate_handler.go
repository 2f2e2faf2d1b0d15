// File path: internal/api/generate_handler.go
package api

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/nicodishanthj/xcgen/internal/apperrors"
	"github.com/nicodishanthj/xcgen/internal/common"
	"github.com/nicodishanthj/xcgen/internal/intake"
	"github.com/nicodishanthj/xcgen/internal/testcase"
)

// handleGenerate accepts either a JSON body or a multipart form with an
// optional "file" part. Text from the file wins over typed requirements.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	ctx := r.Context()

	var (
		req      generateRequest
		warnings []string
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		parsed, warning, err := s.parseGenerateForm(r)
		if err != nil {
			logger.Warn("api: generate form parse failed", "error", err)
			writeError(w, http.StatusBadRequest, err)
			return
		}
		req = parsed
		if warning != "" {
			warnings = append(warnings, warning)
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("api: generate decode failed", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}

	count := testcase.DefaultCount
	if req.Count != nil {
		count = *req.Count
	}
	genReq, err := testcase.NewGenerationRequest(testcase.Facets{
		InsuranceType:  req.InsuranceType,
		Region:         req.Region,
		LineOfBusiness: req.LineOfBusiness,
	}, req.Requirements, count)
	if err != nil {
		writeErrorWithWarnings(w, statusFor(err), err, warnings)
		return
	}

	logger.Info("api: generate requested", "count", count, "insurance_type", req.InsuranceType, "region", req.Region, "lob", req.LineOfBusiness)
	result, err := s.generator.Generate(ctx, genReq)
	if err != nil {
		writeErrorWithWarnings(w, statusFor(err), err, warnings)
		return
	}
	for _, diag := range result.Diagnostics {
		warnings = append(warnings, fmt.Sprintf("Test case block %d skipped: missing %s", diag.Index+1, strings.Join(diag.Missing, ", ")))
	}
	if len(result.Cases) == 0 {
		warnings = append(warnings, "No test cases could be parsed from the response")
	}
	logger.Info("api: generate succeeded", "cases", len(result.Cases), "dropped", len(result.Diagnostics))
	writeJSON(w, http.StatusOK, generateResponse{
		TestCases:   result.Cases,
		Diagnostics: result.Diagnostics,
		Warnings:    warnings,
		Context:     result.Context,
		RawResponse: result.RawResponse,
		Requested:   genReq.Count(),
	})
}

// parseGenerateForm reads the form fields and, when present, the uploaded
// file. A file that cannot be read yields a warning, not an error, so typed
// requirements can still be used.
func (s *Server) parseGenerateForm(r *http.Request) (generateRequest, string, error) {
	const maxMemory = intake.MaxUploadBytes + 1<<20
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return generateRequest{}, "", fmt.Errorf("failed to parse upload form: %w", err)
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}
	req := generateRequest{
		InsuranceType:  r.FormValue("insurance_type"),
		Region:         r.FormValue("region"),
		LineOfBusiness: r.FormValue("line_of_business"),
		Requirements:   r.FormValue("requirements"),
	}
	if raw := strings.TrimSpace(r.FormValue("count")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return generateRequest{}, "", apperrors.New(apperrors.KindInvalidInput, "api.generate", fmt.Sprintf("count must be a number, got %q", raw))
		}
		req.Count = &n
	}

	file, header, err := r.FormFile("file")
	if err == http.ErrMissingFile {
		return req, "", nil
	}
	if err != nil {
		return generateRequest{}, "", fmt.Errorf("read upload: %w", err)
	}
	defer file.Close()

	blob, err := intake.Extract(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	warning := ""
	if err != nil {
		if appErr := asAppError(err); appErr != nil {
			warning = appErr.UserMessage()
		} else {
			warning = err.Error()
		}
	}
	req.Requirements = intake.Resolve(blob, req.Requirements)
	return req, warning, nil
}
