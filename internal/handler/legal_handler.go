package handler

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// allowedLegalTypes is the allowlist of document names served from DocsDir.
var allowedLegalTypes = map[string]bool{
	"privacy": true,
}

// LegalConfig holds configuration for the LegalHandler.
type LegalConfig struct {
	// DocsDir is the directory legal Markdown files are read from
	// (LEGAL_DOCS_DIR).
	DocsDir string
}

// LegalHandler handles GET /api/legal/{type}.
type LegalHandler struct {
	cfg LegalConfig
	md  goldmark.Markdown
}

// NewLegalHandler creates a LegalHandler with the given configuration.
func NewLegalHandler(cfg LegalConfig) *LegalHandler {
	return &LegalHandler{
		cfg: cfg,
		// raw HTML in the source is dropped (goldmark's default is unsafe off)
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Legal returns the Markdown source of the requested document, or rendered
// HTML with ?format=html. Unknown documents are 404, traversal attempts 400.
func (h *LegalHandler) Legal(w http.ResponseWriter, r *http.Request) {
	docType := r.PathValue("type")

	if strings.Contains(docType, "/") || strings.Contains(docType, "\\") || strings.Contains(docType, "..") {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if !allowedLegalTypes[docType] {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	content, status := h.read(docType)
	if status != http.StatusOK {
		http.Error(w, strings.ToLower(http.StatusText(status)), status)
		return
	}

	if r.URL.Query().Get("format") == "html" {
		var buf bytes.Buffer
		if err := h.md.Convert(content, &buf); err != nil {
			slog.Error("render legal document", "type", docType, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

func (h *LegalHandler) read(docType string) ([]byte, int) {
	absDir, err := filepath.Abs(h.cfg.DocsDir)
	if err != nil {
		return nil, http.StatusInternalServerError
	}
	filePath := filepath.Join(absDir, docType+".md")
	if !strings.HasPrefix(filePath, absDir+string(filepath.Separator)) {
		return nil, http.StatusBadRequest
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, http.StatusNotFound
		}
		slog.Error("read legal document", "path", filePath, "error", err)
		return nil, http.StatusInternalServerError
	}
	return content, http.StatusOK
}
