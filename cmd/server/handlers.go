package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/cardflowhq/cardflow"
	"github.com/cardflowhq/cardflow/deck"
	"github.com/cardflowhq/cardflow/docx"
	"github.com/cardflowhq/cardflow/pptx"
	"github.com/cardflowhq/cardflow/store"
	"github.com/cardflowhq/cardflow/theme"
)

type handler struct {
	cfg   cardflow.Config
	store *store.Store
}

func newHandler(cfg cardflow.Config, st *store.Store) *handler {
	return &handler{cfg: cfg, store: st}
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// POST /documents/parse
// Multipart upload; the file extension selects the ingestion path.
func (h *handler) handleParse(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(h.cfg.MaxUploadMB) << 20
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read upload")
		slog.Error("reading upload", "error", err)
		return
	}

	// Sanitise filename before using its extension.
	safeName := filepath.Base(header.Filename)

	session := cardflow.NewSession()
	slides, err := session.Open(r.Context(), safeName, data)
	if err != nil {
		switch {
		case errors.Is(err, cardflow.ErrUnsupportedFormat):
			writeError(w, http.StatusUnsupportedMediaType, "unsupported document format")
		case errors.Is(err, pptx.ErrPackageRead), errors.Is(err, pptx.ErrPackageParse):
			writeError(w, http.StatusUnprocessableEntity, "document could not be parsed")
		default:
			writeError(w, http.StatusInternalServerError, "parsing failed")
		}
		slog.Error("parsing document", "file", safeName, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"filename": safeName,
		"format":   session.Source(),
		"slides":   slides,
	})
}

type exportRequest struct {
	Slides   []deck.Slide `json:"slides"`
	Theme    string       `json:"theme"`
	Filename string       `json:"filename"`
}

// POST /documents/export
// Serializes the posted slides and streams the package back as a
// download. Export is whole-package-or-nothing; a failure produces an
// error response, never partial bytes.
func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	themeID := req.Theme
	if themeID == "" {
		themeID = h.cfg.DefaultTheme
	}
	filename := req.Filename
	if filename == "" {
		filename = "Documento.docx"
	}

	session := cardflow.NewSession()
	session.SetSlides(req.Slides)

	blob, err := session.Export(themeID)
	if err != nil {
		switch {
		case errors.Is(err, cardflow.ErrEmptyDocument):
			writeError(w, http.StatusBadRequest, "document has no slides")
		case errors.Is(err, docx.ErrExportEncoding):
			writeError(w, http.StatusUnprocessableEntity, "invalid image payload")
		default:
			writeError(w, http.StatusInternalServerError, "export failed")
		}
		slog.Error("exporting document", "error", err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(filename)))
	w.Header().Set("Content-Length", strconv.Itoa(len(blob)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(blob); err != nil {
		slog.Error("writing export response", "error", err)
	}
}

// GET /themes
func (h *handler) handleThemes(w http.ResponseWriter, r *http.Request) {
	themes := theme.All()
	out := make([]map[string]string, 0, len(themes))
	for _, t := range themes {
		out = append(out, map[string]string{
			"id":          t.ID,
			"name":        t.Name,
			"description": t.Description,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /projects
func (h *handler) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "listing projects failed")
		slog.Error("listing projects", "error", err)
		return
	}
	if projects == nil {
		projects = []store.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

// POST /projects
func (h *handler) handleSaveProject(w http.ResponseWriter, r *http.Request) {
	var p store.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if p.Theme == "" {
		p.Theme = h.cfg.DefaultTheme
	}

	id, err := h.store.Save(r.Context(), &p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "saving project failed")
		slog.Error("saving project", "error", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// GET /projects/{id}
func (h *handler) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	p, err := h.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "loading project failed")
		slog.Error("loading project", "id", id, "error", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// PUT /projects/{id}
func (h *handler) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	var p store.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p.ID = id

	err = h.store.Update(r.Context(), &p)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "updating project failed")
		slog.Error("updating project", "id", id, "error", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DELETE /projects/{id}
func (h *handler) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	err = h.store.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "deleting project failed")
		slog.Error("deleting project", "id", id, "error", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
