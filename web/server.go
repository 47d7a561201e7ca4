package web

import (
	"context"
	"embed"
	"html/template"
	"log"
	"net/http"
	"path/filepath"
	"sync"

	"shorts-factory/config"
	"shorts-factory/pipeline"
	"shorts-factory/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

func newRunID() string {
	return uuid.NewString()[:8]
}

//go:embed templates/*.html
var templateFS embed.FS

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Runner executes one generation job and reports progress
type Runner interface {
	Run(ctx context.Context, req pipeline.Request, progress func(types.ProgressEvent)) *types.PipelineState
}

// TopicSource proposes topics for the operator form
type TopicSource interface {
	Run(ctx context.Context, limit int) ([]string, error)
}

// run tracks one in-flight or finished pipeline job so late
// websocket subscribers can replay everything they missed.
type run struct {
	mu          sync.Mutex
	events      []types.ProgressEvent
	state       *types.PipelineState
	done        bool
	subscribers map[chan types.ProgressEvent]struct{}
}

func (r *run) emit(e types.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	for ch := range r.subscribers {
		select {
		case ch <- e:
		default: // slow subscriber, drop rather than stall the pipeline
		}
	}
}

func (r *run) finish(state *types.PipelineState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = state
	r.done = true
	for ch := range r.subscribers {
		close(ch)
	}
	r.subscribers = nil
}

// subscribe returns a replay of past events plus a channel for new ones.
// The channel is nil when the run already finished.
func (r *run) subscribe() ([]types.ProgressEvent, chan types.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	replay := make([]types.ProgressEvent, len(r.events))
	copy(replay, r.events)
	if r.done {
		return replay, nil
	}
	ch := make(chan types.ProgressEvent, 16)
	if r.subscribers == nil {
		r.subscribers = make(map[chan types.ProgressEvent]struct{})
	}
	r.subscribers[ch] = struct{}{}
	return replay, ch
}

func (r *run) unsubscribe(ch chan types.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subscribers[ch]; ok {
		delete(r.subscribers, ch)
		close(ch)
	}
}

// Server is the operator-facing web surface
type Server struct {
	cfg      *config.Config
	pipeline Runner
	topics   TopicSource

	mu   sync.Mutex
	runs map[string]*run
}

// NewServer wires the pipeline behind the web form. topics may be nil.
func NewServer(cfg *config.Config, p Runner, topics TopicSource) *Server {
	return &Server{
		cfg:      cfg,
		pipeline: p,
		topics:   topics,
		runs:     make(map[string]*run),
	}
}

// Router builds the gin engine with all routes registered
func (s *Server) Router() *gin.Engine {
	router := gin.Default()

	tmpl := template.Must(template.ParseFS(templateFS, "templates/*.html"))
	router.SetHTMLTemplate(tmpl)

	router.GET("/", s.handleIndex)
	router.POST("/api/generate", s.handleGenerate)
	router.GET("/api/runs/:id", s.handleRunStatus)
	router.GET("/ws/runs/:id", s.handleRunStream)
	router.GET("/api/topics/suggest", s.handleSuggest)
	router.GET("/download/:name", s.handleDownload)

	return router
}

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"MinDuration": pipeline.MinDurationSec,
		"MaxDuration": pipeline.MaxDurationSec,
	})
}

func (s *Server) handleGenerate(c *gin.Context) {
	var req pipeline.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if req.Topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "topic must not be empty"})
		return
	}
	req.DurationSec = pipeline.ClampDuration(req.DurationSec)
	req.RunID = newRunID()

	r := &run{}
	s.mu.Lock()
	s.runs[req.RunID] = r
	s.mu.Unlock()

	go func() {
		log.Printf("[web] run %s started: %q (%ds, upload=%t)", req.RunID, req.Topic, req.DurationSec, req.Upload)
		state := s.pipeline.Run(context.Background(), req, r.emit)
		r.finish(state)
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"run_id":       req.RunID,
		"topic":        req.Topic,
		"duration_sec": req.DurationSec,
	})
}

func (s *Server) lookup(id string) *run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs[id]
}

func (s *Server) handleRunStatus(c *gin.Context) {
	r := s.lookup(c.Param("id"))
	if r == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown run"})
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	resp := gin.H{
		"done":   r.done,
		"events": r.events,
	}
	if r.state != nil {
		resp["error"] = r.state.Error
		if r.state.VideoFile != "" {
			resp["video_file"] = filepath.Base(r.state.VideoFile)
		}
		if r.state.Script != nil {
			resp["script"] = r.state.Script.Text
		}
		resp["youtube_url"] = r.state.YouTubeURL
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleRunStream(c *gin.Context) {
	r := s.lookup(c.Param("id"))
	if r == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown run"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[web] websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	replay, ch := r.subscribe()
	if ch != nil {
		defer r.unsubscribe(ch)
	}
	for _, e := range replay {
		if err := conn.WriteJSON(e); err != nil {
			return
		}
	}
	if ch != nil {
		for e := range ch {
			if err := conn.WriteJSON(e); err != nil {
				return
			}
		}
	}

	// Run is over; send a terminal frame with the outcome.
	r.mu.Lock()
	state := r.state
	r.mu.Unlock()
	final := gin.H{"stage": "done"}
	if state != nil {
		final["error"] = state.Error
		if state.VideoFile != "" {
			final["video_file"] = filepath.Base(state.VideoFile)
		}
		if state.Script != nil {
			final["script"] = state.Script.Text
		}
		final["youtube_url"] = state.YouTubeURL
	}
	conn.WriteJSON(final)
}

func (s *Server) handleSuggest(c *gin.Context) {
	if s.topics == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "topic suggestions not configured"})
		return
	}
	topics, err := s.topics.Run(c.Request.Context(), 10)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics})
}

func (s *Server) handleDownload(c *gin.Context) {
	// filepath.Base strips any directory components, so a crafted
	// name cannot escape the output directory.
	name := filepath.Base(c.Param("name"))
	if name == "." || name == ".." || name == "/" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file name"})
		return
	}
	c.FileAttachment(filepath.Join(s.cfg.Paths.Output, name), name)
}
