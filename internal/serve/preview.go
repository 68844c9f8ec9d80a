package serve

import (
	"encoding/json"
	"mysite/internal/domain/content"
	"mysite/internal/render"
	"net/http"
)

const maxPreviewBody = 1 << 20

type previewRequest struct {
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	MarkdownContent string          `json:"markdownContent"`
	ContentBlocks   []content.Block `json:"contentBlocks"`
}

type previewResponse struct {
	Markdown string           `json:"markdown"`
	HTML     string           `json:"html"`
	TOC      []render.Heading `json:"toc"`
}

// handlePreview renders unsaved editor content the same way a published page
// would be rendered.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPreviewBody))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid preview payload: " + err.Error()})
		return
	}

	src := render.Assemble(content.Entity{
		Title:           req.Title,
		Description:     req.Description,
		MarkdownContent: req.MarkdownContent,
		ContentBlocks:   req.ContentBlocks,
	})
	doc, err := s.md.Document(src)
	if err != nil {
		s.log.ErrorContext(r.Context(), "preview render failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "render failed"})
		return
	}
	writeJSON(w, http.StatusOK, previewResponse{Markdown: doc.Markdown, HTML: string(doc.HTML), TOC: doc.TOC})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
