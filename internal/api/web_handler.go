package api

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/valyala/fasthttp"
)

// Serve the built front-end assets (CSS, JS, images)
func (h *Handler) handleStatic(ctx *fasthttp.RequestCtx) {
	filePath := strings.TrimPrefix(string(ctx.Path()), "/static/")
	root := filepath.Join(h.webDir, "static")
	fullPath := filepath.Join(root, filepath.FromSlash(filePath))

	// Reject anything that escapes the static directory
	if rel, err := filepath.Rel(root, fullPath); err != nil || strings.HasPrefix(rel, "..") {
		writeError(ctx, fasthttp.StatusNotFound, "file not found")
		return
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		writeError(ctx, fasthttp.StatusNotFound, "file not found")
		return
	}

	switch filepath.Ext(filePath) {
	case ".css":
		ctx.SetContentType("text/css")
	case ".js":
		ctx.SetContentType("application/javascript")
	case ".json":
		ctx.SetContentType("application/json")
	case ".png":
		ctx.SetContentType("image/png")
	case ".jpg", ".jpeg":
		ctx.SetContentType("image/jpeg")
	case ".svg":
		ctx.SetContentType("image/svg+xml")
	case ".ico":
		ctx.SetContentType("image/x-icon")
	case ".woff2":
		ctx.SetContentType("font/woff2")
	default:
		ctx.SetContentType("application/octet-stream")
	}

	ctx.SetBody(content)
}

// Serve the single-page app shell
func (h *Handler) handleIndex(ctx *fasthttp.RequestCtx) {
	content, err := os.ReadFile(filepath.Join(h.webDir, "index.html"))
	if err != nil {
		writeError(ctx, fasthttp.StatusNotFound, "front-end not built")
		return
	}

	ctx.SetContentType("text/html; charset=utf-8")
	ctx.SetBody(content)
}
