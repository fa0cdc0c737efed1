package preview

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/marben/julia/internal/logging"
)

//go:embed static
var static embed.FS

// Handler serves the viewer page at /, the row stream at /ws and the current Status at /status.
func (h *Hub) Handler() http.Handler {
	staticFS, err := fs.Sub(static, "static")
	if err != nil {
		panic(err) // embedded at build time
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.ServeWS)
	mux.HandleFunc("/status", h.serveStatus)
	mux.Handle("/", http.FileServer(http.FS(staticFS)))
	return mux
}

func (h *Hub) serveStatus(w http.ResponseWriter, r *http.Request) {
	data, err := sonic.Marshal(h.Status())
	if err != nil {
		logging.OrNoop(h.Logger).Errorf("preview", "status: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}
