package web

import (
	"net/http"

	"github.com/conorfennell/cardb/internal/importer"
)

type importRequest struct {
	Dir string `json:"dir" validate:"required_without=Git,excluded_with=Git"`
	Git string `json:"git" validate:"required_without=Dir"`
}

type importResponse struct {
	Files              int      `json:"files"`
	CollectionsCreated int      `json:"collectionsCreated"`
	CardsAdded         int      `json:"cardsAdded"`
	Duplicates         int      `json:"duplicates"`
	Errors             []string `json:"errors"`
}

func newImportResponse(r importer.Report) importResponse {
	resp := importResponse{
		Files:              r.Files,
		CollectionsCreated: r.CollectionsCreated,
		CardsAdded:         r.CardsAdded,
		Duplicates:         r.Duplicates,
		Errors:             make([]string, 0, len(r.Errors)),
	}
	for _, err := range r.Errors {
		resp.Errors = append(resp.Errors, err.Error())
	}
	return resp
}

// handleImport runs an import in the foreground and reports what it did.
func (s *Server) handleImport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.importer == nil {
			s.writeError(w, http.StatusNotImplemented, "import is not configured")
			return
		}
		var req importRequest
		if err := s.decode(r, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		var (
			report importer.Report
			err    error
		)
		if req.Dir != "" {
			report, err = s.importer.ImportDir(r.Context(), req.Dir)
		} else {
			report, err = s.importer.ImportGit(r.Context(), req.Git)
		}
		if err != nil {
			s.logger.Error("Import failed", "dir", req.Dir, "git", req.Git, "error", err)
			s.writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, newImportResponse(report))
	}
}
