package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/cloud-ru/mcp-fixed-income-go/internal/logger"
	"github.com/cloud-ru/mcp-fixed-income-go/internal/metrics"
	"github.com/cloud-ru/mcp-fixed-income-go/internal/tools"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxBodyBytes = 1 << 20

type HTTPServer struct {
	s      *http.Server
	logger logger.Logger
}

// NewRouter публикует инструменты по POST /tools/{tool} и метрики по /metrics
func NewRouter(registry map[string]tools.ToolHandler, log logger.Logger) http.Handler {
	router := chi.NewRouter()

	router.Use(requestLogger(log))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/tools", func(r chi.Router) {
		r.Get("/", listTools(registry))
		r.Post("/{tool}", callTool(registry, log))
	})

	return router
}

func NewHTTPServer(ctx context.Context, port int, handler http.Handler, log logger.Logger) *HTTPServer {
	return &HTTPServer{
		s: &http.Server{
			Handler:           handler,
			Addr:              ":" + strconv.Itoa(port),
			ReadHeaderTimeout: 10 * time.Second,
			BaseContext: func(listener net.Listener) context.Context {
				return ctx
			},
		},
		logger: log,
	}
}

// Run обслуживает запросы до отмены ctx, затем корректно останавливает сервер
func (s *HTTPServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("starting server on %s", s.s.Addr)
		errCh <- s.s.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Infof("shutdown initiated")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.s.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func listTools(registry map[string]tools.ToolHandler) http.HandlerFunc {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string][]string{"tools": names})
	}
}

func callTool(registry map[string]tools.ToolHandler, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "tool")
		handler, ok := registry[name]
		if !ok {
			metrics.APICalls.WithLabelValues("http", name, "not_found").Inc()
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown tool " + name})
			return
		}

		params := map[string]interface{}{}
		body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := json.NewDecoder(body).Decode(&params); err != nil && !errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
			return
		}

		result, err := handler(r.Context(), params)
		if err != nil {
			log.Debugf("%s: tool %s failed", err, name)
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

// writeJSON сериализует ответ до записи статуса: ошибка кодирования
// отдается как 500
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Error: "can't encode response: " + err.Error()})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)

			next.ServeHTTP(ww, req)

			log.With("method", req.Method, "path", req.URL.Path, "remote_ip", req.RemoteAddr).
				Debugf("status %d in %s", ww.Status(), time.Since(start))
		})
	}
}
