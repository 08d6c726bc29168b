package httpserver

import "net/http"

// NewMux 挂上 /api/ 和静态页面
func NewMux(h *Handler, webDir string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/api/", h)
	RegisterStaticRoutes(mux, webDir)
	return mux
}
