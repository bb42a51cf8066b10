package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/miradorstack/mirador-twin/internal/models"
	"github.com/miradorstack/mirador-twin/internal/repo"
)

type graphExport struct {
	Version string        `json:"version"`
	Project string        `json:"project"`
	Nodes   []models.Node `json:"nodes"`
	Edges   []models.Edge `json:"edges"`
}

func main() {
	addr := flag.String("addr", ":8080", "Listen address")
	graphPath := flag.String("graph", "configs/graphs/sample.yaml", "Graph file to export")
	flag.Parse()

	logger := log.New(log.Writer(), "editor-mock ", log.LstdFlags|log.Lmicroseconds)
	source := repo.NewFileSource(*graphPath)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// The file is re-read per request so edits show up without a restart.
	mux.HandleFunc("/api/v1/architecture/graph", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		graph, err := source.LoadGraph(r.Context())
		if err != nil {
			logger.Printf("load graph: %v", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		project := r.URL.Query().Get("project")
		if project == "" {
			project = "default"
		}
		writeJSON(w, graphExport{
			Version: time.Now().UTC().Format(time.RFC3339),
			Project: project,
			Nodes:   graph.Nodes,
			Edges:   graph.Edges,
		})
	})

	if _, err := source.LoadGraph(context.Background()); err != nil {
		logger.Fatalf("graph %s unusable: %v", *graphPath, err)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           logRequests(logger, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Printf("listening on %s, exporting %s", *addr, *graphPath)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("server error: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode error: %v", err)
	}
}

func logRequests(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		logger.Printf("%s %s %d %s", r.Method, r.URL.Path, rw.status, time.Since(start))
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
