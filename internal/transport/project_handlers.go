package transport

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/v2c/internal/domain/history"
	"github.com/rpggio/v2c/internal/domain/project"
	"github.com/rpggio/v2c/internal/export"
)

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Language string `json:"language"`
	}
	if err := decodeJSON(w, r, s.opts.MaxUploadBytes, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	proj, err := s.services.Projects.Create(r.Context(), project.CreateRequest{
		Name:     req.Name,
		Language: req.Language,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"project_id": proj.ID, "project": proj})
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	list, err := s.services.Projects.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"projects": list})
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	proj, err := s.services.Projects.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"project": proj})
}

func (s *Server) handleSetReadme(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Readme string `json:"readme"`
	}
	if err := decodeJSON(w, r, s.opts.MaxUploadBytes, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	proj, err := s.services.Projects.SetReadme(r.Context(), chi.URLParam(r, "id"), req.Readme)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"project": proj})
}

func (s *Server) handleAddFile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProjectID string `json:"project_id"`
		Filename  string `json:"filename"`
		Content   string `json:"content"`
		Language  string `json:"language"`
	}
	if err := decodeJSON(w, r, s.opts.MaxUploadBytes, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.services.Projects.AddFile(r.Context(), project.AddFileRequest{
		ProjectID: req.ProjectID,
		Filename:  req.Filename,
		Content:   req.Content,
		Language:  req.Language,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"filename": res.Filename, "project": res.Project})
}

func (s *Server) handleExportProject(w http.ResponseWriter, r *http.Request) {
	proj, err := s.services.Projects.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	query := r.URL.Query()
	archive, err := export.Package(proj, export.Extras{
		ConsoleOutput: query.Get("console_output"),
		Description:   query.Get("description"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": archive.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(archive.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive.Data)

	s.logger.Info("project exported", "project_id", proj.ID, "bytes", len(archive.Data))
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")

	limit := history.DefaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := s.services.History.GetRecent(r.Context(), projectID, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"project_id": projectID, "history": entries})
}

func (s *Server) handleRollback(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProjectID    string `json:"project_id"`
		VersionIndex *int   `json:"version_index"`
	}
	if err := decodeJSON(w, r, s.opts.MaxUploadBytes, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	index := -1
	if req.VersionIndex != nil {
		index = *req.VersionIndex
	}

	res, err := s.services.History.Rollback(r.Context(), history.RollbackRequest{
		ProjectID:    req.ProjectID,
		VersionIndex: index,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, envelope{
		"project_id":       res.ProjectID,
		"version_index":    res.VersionIndex,
		"filename":         res.Filename,
		"restored_content": res.RestoredContent,
		"recreated":        res.Recreated,
	})
}
