package main

import (
	"net"
	"net/http"
	"os"
	"time"

	"github.com/marben/julia/preview"
)

// webServer serves the preview page and row stream, plus the saved frame once it exists.
func webServer(hub *preview.Hub, framePath string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/output.png", func(w http.ResponseWriter, r *http.Request) {
		if !hub.Status().Complete {
			http.Error(w, "frame is still rendering", http.StatusServiceUnavailable)
			return
		}
		http.ServeFile(w, r, framePath)
	})
	mux.Handle("/", hub.Handler())

	return &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// previewURL guesses an address of the preview that other devices on the network can open.
func previewURL(listen string) string {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return "http://" + listen
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		if name, err := os.Hostname(); err == nil {
			host = name
		} else {
			host = "localhost"
		}
	}
	return "http://" + net.JoinHostPort(host, port)
}
