package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/etnz/heatmap"
	"github.com/etnz/heatmap/date"
	"github.com/etnz/heatmap/renderer"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	clientSend = 8 // pending messages per websocket client
)

// pongWait is how long a silent websocket client is kept before being dropped.
// Clients are pinged every 9/10th of it.
var pongWait = 60 * time.Second

// server serves the dashboard of a dataset file over http, and pushes it to
// websocket clients whenever the file changes.
type server struct {
	path     string
	ref      *heatmap.Reference
	cache    heatmap.Cache
	logger   *zap.Logger
	upgrader websocket.Upgrader
	registry *prometheus.Registry
	pongWait time.Duration
	requests *prometheus.CounterVec
	records  prometheus.Gauge

	mu      sync.Mutex
	clients map[*client]struct{}
	last    heatmap.Signature
}

// client is a websocket connection, fed by its own writer goroutine.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// message is the payload pushed to websocket clients.
type message struct {
	Type      string             `json:"type"` // "dashboard" or "error"
	Dashboard *heatmap.Dashboard `json:"dashboard,omitempty"`
	Error     string             `json:"error,omitempty"`
}

func newServer(path string, ref *heatmap.Reference, logger *zap.Logger, registry *prometheus.Registry) *server {
	s := &server{
		path:     path,
		ref:      ref,
		logger:   logger,
		registry: registry,
		pongWait: pongWait,
		clients:  make(map[*client]struct{}),
		// the default origin check only accepts pages served by this server
		upgrader: websocket.Upgrader{},
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tmh_http_requests_total",
			Help: "Total number of http requests by route",
		}, []string{"route"}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tmh_dataset_records",
			Help: "Number of merchant records in the last dashboard computed",
		}),
	}
	registry.MustRegister(
		s.requests,
		s.records,
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "tmh_dataset_loads_total",
			Help: "Total number of dataset file parses",
		}, func() float64 { loads, _ := s.cache.Stats(); return float64(loads) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "tmh_dataset_cache_hits_total",
			Help: "Total number of dataset loads served from the cache",
		}, func() float64 { _, hits := s.cache.Stats(); return float64(hits) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "tmh_websocket_clients",
			Help: "Number of connected websocket clients",
		}, func() float64 { s.mu.Lock(); defer s.mu.Unlock(); return float64(len(s.clients)) }),
	)
	return s
}

func (s *server) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.instrument)
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/api/dashboard", s.handleDashboard).Methods(http.MethodGet)
	r.HandleFunc("/api/export", s.handleExport).Methods(http.MethodGet)
	r.HandleFunc("/charts/{name}.png", s.handleChart).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWebSocket)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

// instrument counts the requests by route template.
func (s *server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unknown"
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		s.requests.WithLabelValues(route).Inc()
		next.ServeHTTP(w, r)
	})
}

// dashboard computes the dashboard of the current dataset version.
func (s *server) dashboard() (*heatmap.Dashboard, heatmap.Signature, error) {
	table, sig, err := s.cache.Load(s.path)
	if err != nil {
		return nil, heatmap.Signature{}, err
	}
	s.records.Set(float64(table.Len()))
	return heatmap.NewDashboard(date.Today(), table, s.ref), sig, nil
}

func respondJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]any{
		"error": message,
	})
}

// respondDatasetError maps a dataset loading error to an http error.
func (s *server) respondDatasetError(w http.ResponseWriter, err error) {
	s.logger.Error("cannot load dataset", zap.String("path", s.path), zap.Error(err))
	if errors.Is(err, heatmap.ErrDatasetNotFound) {
		respondError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	respondError(w, err.Error(), http.StatusInternalServerError)
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	d, _, err := s.dashboard()
	if err != nil {
		s.respondDatasetError(w, err)
		return
	}
	var figures []renderer.Figure
	for _, c := range renderer.Charts {
		figures = append(figures, renderer.Figure{Title: c.Title, Src: "/charts/" + c.Name + ".png"})
	}
	var buf bytes.Buffer
	if err := renderer.HTML(&buf, d, figures); err != nil {
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (s *server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, _, err := s.dashboard()
	if err != nil {
		s.respondDatasetError(w, err)
		return
	}
	respondJSON(w, d)
}

var contentTypes = map[string]string{
	"csv":  "text/csv",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

func (s *server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	export, err := exporter(format)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	d, _, err := s.dashboard()
	if err != nil {
		s.respondDatasetError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := export(&buf, d.Table()); err != nil {
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", heatmap.ExportFileName(d.On, format)))
	buf.WriteTo(w)
}

func (s *server) handleChart(w http.ResponseWriter, r *http.Request) {
	chart, err := renderer.FindChart(mux.Vars(r)["name"])
	if err != nil {
		respondError(w, err.Error(), http.StatusNotFound)
		return
	}
	d, _, err := s.dashboard()
	if err != nil {
		s.respondDatasetError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := chart.WritePNG(&buf, d); err != nil {
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	buf.WriteTo(w)
}

// handleWebSocket registers a websocket client and sends it the current
// dashboard. Later versions are pushed by refresh.
func (s *server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &client{conn: conn, send: make(chan []byte, clientSend)}
	c.send <- s.snapshot()

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	s.logger.Debug("websocket client connected", zap.String("remote", r.RemoteAddr))

	go s.writer(c)
	s.reader(c)
}

// snapshot returns the encoded message for the current dataset version.
func (s *server) snapshot() []byte {
	msg := message{Type: "dashboard"}
	d, _, err := s.dashboard()
	if err != nil {
		msg = message{Type: "error", Error: err.Error()}
	} else {
		msg.Dashboard = d
	}
	data, err := json.Marshal(msg)
	if err != nil {
		data, _ = json.Marshal(message{Type: "error", Error: err.Error()})
	}
	return data
}

// writer sends the queued messages to the client until its queue is closed,
// and pings it so that silent clients are kept alive.
func (s *server) writer(c *client) {
	ticker := time.NewTicker(s.pongWait * 9 / 10)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				s.logger.Debug("websocket write failed", zap.Error(err))
				s.remove(c)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.logger.Debug("websocket ping failed", zap.Error(err))
				s.remove(c)
				return
			}
		}
	}
}

// reader discards client messages, it only detects disconnections.
func (s *server) reader(c *client) {
	defer s.remove(c)
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(s.pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(s.pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket read failed", zap.Error(err))
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(s.pongWait))
	}
}

// remove unregisters c and closes its queue, once.
func (s *server) remove(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; !ok {
		return
	}
	delete(s.clients, c)
	close(c.send)
}

// closeAll disconnects every websocket client.
func (s *server) closeAll() {
	s.mu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()
	for _, c := range clients {
		s.remove(c)
	}
}

// refresh pushes the dashboard to every client if the dataset changed since
// the last call. It reports whether a new version was pushed.
func (s *server) refresh() bool {
	sig, err := heatmap.Stat(s.path)
	if err != nil {
		s.logger.Debug("dataset unavailable", zap.String("path", s.path), zap.Error(err))
		return false
	}
	s.mu.Lock()
	changed := !sig.Equal(s.last)
	s.last = sig
	s.mu.Unlock()
	if !changed {
		return false
	}

	if table, _, err := s.cache.Load(s.path); err == nil {
		s.logger.Info("dataset changed", zap.String("path", s.path), zap.Int("records", table.Len()))
		logWarnings(s.logger, table.Check(s.ref))
	}
	s.broadcast(s.snapshot())
	return true
}

// broadcast queues msg to every client, dropping the ones that do not keep up.
func (s *server) broadcast(msg []byte) {
	s.mu.Lock()
	var slow []*client
	for c := range s.clients {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	s.mu.Unlock()
	for _, c := range slow {
		s.logger.Warn("dropping slow websocket client")
		s.remove(c)
	}
}
