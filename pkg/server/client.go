package server

import (
	_ "embed"
	"net/http"
)

//go:embed client.js
var clientJS []byte

// handleClient serves the browser script that keeps a page's element live.
func (s *Server) handleClient(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(clientJS)
}
