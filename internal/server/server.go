// Package server exposes the sanitizer over HTTP for scrapers that run in
// other processes.
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/bodyscrub/bodyscrub/internal/config"
	"github.com/bodyscrub/bodyscrub/internal/observability"
	"github.com/bodyscrub/bodyscrub/internal/ratelimit"
	"github.com/bodyscrub/bodyscrub/internal/service"
	"github.com/rs/zerolog/log"
)

const requestIDHeader = "X-Request-ID"

type Server struct {
	svc             *service.Service
	limiter         *ratelimit.Limiter
	metrics         *observability.Metrics
	maxBodyBytes    int64
	rateLimitStatus int
	mux             *http.ServeMux

	requestCount uint64
}

func New(svc *service.Service, cfg config.ServerConfig) (*Server, error) {
	if svc == nil {
		return nil, errors.New("service is required")
	}

	s := &Server{
		svc:             svc,
		maxBodyBytes:    cfg.MaxBodyBytes,
		rateLimitStatus: rateLimitStatus(cfg.RateLimit.StatusCode),
		mux:             http.NewServeMux(),
	}
	if cfg.RateLimit.Enabled {
		s.limiter = ratelimit.NewLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	s.mux.HandleFunc("POST /v1/sanitize", s.handleSanitize)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	return s, nil
}

func (s *Server) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// StartJanitor prunes idle rate-limit buckets until ctx is done.
func (s *Server) StartJanitor(ctx context.Context, interval time.Duration) {
	if s.limiter == nil || interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := s.limiter.Prune(now, interval); n > 0 {
					log.Debug().Int("buckets", n).Msg("pruned rate limit buckets")
				}
			}
		}
	}()
}

func (s *Server) handleSanitize(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get(requestIDHeader)
	if requestID == "" {
		requestID = s.newRequestID()
	}
	w.Header().Set(requestIDHeader, requestID)

	if !s.limiter.Allow(clientIP(r), time.Now()) {
		s.metrics.ObserveRateLimited()
		http.Error(w, "rate limit exceeded", s.rateLimitStatus)
		return
	}

	if s.maxBodyBytes > 0 {
		if r.ContentLength > s.maxBodyBytes {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	}

	item, err := readItem(r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	out := s.svc.Process(item, requestID)

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		log.Warn().Err(err).Str("request_id", requestID).Msg("write response failed")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// readItem accepts a JSON item or a plain-text body with source and id in
// the query string.
func readItem(r *http.Request) (service.Item, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return service.Item{}, err
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var item service.Item
		if err := json.Unmarshal(data, &item); err != nil {
			return service.Item{}, fmt.Errorf("invalid json: %w", err)
		}
		return item, nil
	}

	query := r.URL.Query()
	return service.Item{
		ID:     query.Get("id"),
		Source: query.Get("source"),
		Body:   string(data),
	}, nil
}

func (s *Server) newRequestID() string {
	var buf [12]byte
	if _, err := rand.Read(buf[:]); err == nil {
		return hex.EncodeToString(buf[:])
	}
	value := atomic.AddUint64(&s.requestCount, 1)
	return fmt.Sprintf("req-%d", value)
}

func rateLimitStatus(code int) int {
	if code <= 0 {
		return http.StatusTooManyRequests
	}
	return code
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}
