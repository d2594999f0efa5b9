// Package intake serves the document, coverage, prefill, report and chat endpoints.
package intake

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"modelrisk_intake/pkg/api/respond"
	"modelrisk_intake/pkg/core/classify"
	"modelrisk_intake/pkg/core/coverage"
	"modelrisk_intake/pkg/core/docs"
	"modelrisk_intake/pkg/core/interview"
	"modelrisk_intake/pkg/core/prefill"
	"modelrisk_intake/pkg/core/report"
	"modelrisk_intake/pkg/models"
)

// MaxFilesPerUpload bounds one multipart request.
const MaxFilesPerUpload = 20

var errEmptyFile = errors.New("empty file")

// DocumentsResponse is returned by POST /api/documents.
type DocumentsResponse struct {
	Documents []models.ParsedDocument `json:"documents"`
	Coverage  models.OverallCoverage  `json:"coverage"`
	Gaps      []string                `json:"gaps"`
}

// CoverageResponse is returned by POST /api/coverage.
type CoverageResponse struct {
	Coverage models.OverallCoverage `json:"coverage"`
	Gaps     []string               `json:"gaps"`
}

// DocumentsRequest carries already-classified documents.
type DocumentsRequest struct {
	Documents []models.ParsedDocument `json:"documents"`
}

// Handler holds the pipeline stages behind the intake endpoints.
type Handler struct {
	Extractor   *docs.Extractor
	Classifier  *classify.Classifier
	Prefill     *prefill.Extractor
	Reports     *report.Assembler
	Interviewer *interview.Interviewer
	MaxUpload   int64
	logger      *zap.Logger
}

// NewHandler wires a handler. maxUpload is the per-file byte cap.
func NewHandler(ext *docs.Extractor, cls *classify.Classifier, pf *prefill.Extractor, rep *report.Assembler, iv *interview.Interviewer, maxUpload int64, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxUpload <= 0 {
		maxUpload = docs.DefaultMaxFileSize
	}
	return &Handler{
		Extractor:   ext,
		Classifier:  cls,
		Prefill:     pf,
		Reports:     rep,
		Interviewer: iv,
		MaxUpload:   maxUpload,
		logger:      logger,
	}
}

// Register mounts the intake routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/documents", h.HandleDocuments)
		r.Post("/coverage", h.HandleCoverage)
		r.Post("/prefill", h.HandlePrefill)
		r.Post("/report", h.HandleReport)
		r.Post("/chat", h.HandleChat)
	})
}

// HandleDocuments extracts and classifies uploaded files in order.
func (h *Handler) HandleDocuments(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUpload*MaxFilesPerUpload)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid multipart upload")
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	var files []*multipart.FileHeader
	if r.MultipartForm != nil {
		files = r.MultipartForm.File["files"]
	}
	if len(files) == 0 {
		respond.Error(w, http.StatusBadRequest, "No files uploaded")
		return
	}
	if len(files) > MaxFilesPerUpload {
		respond.Error(w, http.StatusBadRequest, fmt.Sprintf("At most %d files per upload", MaxFilesPerUpload))
		return
	}

	inputs := make([]classify.Input, 0, len(files))
	for _, f := range files {
		text, err := h.readAndExtract(f)
		inputs = append(inputs, classify.Input{Filename: f.Filename, Text: text, Err: err})
	}

	parsed, err := h.Classifier.ClassifyAll(r.Context(), inputs)
	if err != nil {
		respond.Failure(w, h.logger, "documents", err)
		return
	}
	cov, gaps := coverage.Aggregate(parsed)
	h.logger.Info("documents processed", zap.Int("files", len(parsed)), zap.Int("gaps", len(gaps)))
	respond.JSON(w, http.StatusOK, DocumentsResponse{Documents: parsed, Coverage: cov, Gaps: gaps})
}

func (h *Handler) readAndExtract(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, h.MaxUpload+1))
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errEmptyFile
	}
	return h.Extractor.Extract(fh.Filename, data)
}

// HandleCoverage recomputes overall coverage for a document set.
func (h *Handler) HandleCoverage(w http.ResponseWriter, r *http.Request) {
	var req DocumentsRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	cov, gaps := coverage.Aggregate(req.Documents)
	respond.JSON(w, http.StatusOK, CoverageResponse{Coverage: cov, Gaps: gaps})
}

// HandlePrefill runs the section and sweep extraction passes.
func (h *Handler) HandlePrefill(w http.ResponseWriter, r *http.Request) {
	var req DocumentsRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	res, err := h.Prefill.Run(r.Context(), req.Documents)
	if err != nil {
		respond.Failure(w, h.logger, "prefill", err)
		return
	}
	respond.JSON(w, http.StatusOK, res)
}

// HandleReport assembles the report; ?format=html renders it.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	var req report.Request
	if !respond.Decode(w, r, &req) {
		return
	}
	rep, err := h.Reports.Assemble(r.Context(), req)
	if err != nil {
		respond.Failure(w, h.logger, "report", err)
		return
	}

	if strings.EqualFold(r.URL.Query().Get("format"), "html") {
		page, err := report.RenderHTML(rep)
		if err != nil {
			respond.Failure(w, h.logger, "report.html", err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, page)
		return
	}
	respond.JSON(w, http.StatusOK, rep)
}

// HandleChat runs one interview turn.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var turn interview.Turn
	if !respond.Decode(w, r, &turn) {
		return
	}
	reply, err := h.Interviewer.Respond(r.Context(), turn)
	if err != nil {
		respond.Failure(w, h.logger, "chat", err)
		return
	}
	respond.JSON(w, http.StatusOK, reply)
}
