package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	research "shorts-factory/00_research"
	script "shorts-factory/01_script"
	assets "shorts-factory/02_assets"
	studio "shorts-factory/03_studio"
	upload "shorts-factory/04_upload"
	"shorts-factory/config"
	"shorts-factory/pipeline"
	"shorts-factory/web"

	"github.com/joho/godotenv"
)

func main() {
	// Headless mode renders one video and exits; without -topic the
	// operator web form is served instead.
	topic := flag.String("topic", "", "generate a single video for this topic and exit")
	duration := flag.Int("duration", 30, "target video duration in seconds (15-60)")
	uploadFlag := flag.Bool("upload", false, "upload the rendered video to YouTube")
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Load .env (local dev only — CI uses real env vars)
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	for _, dir := range []string{cfg.Paths.Output, cfg.Paths.Logs} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create dir %s: %v", dir, err)
		}
	}

	ctx := context.Background()

	planner, err := script.New(ctx, cfg, os.Getenv("GEMINI_API_KEY"))
	if err != nil {
		log.Fatalf("Failed to init script planner: %v", err)
	}
	defer planner.Close()
	fetcher := assets.New(cfg, os.Getenv("PEXELS_API_KEY"), planner)
	p := pipeline.New(cfg, planner, fetcher, studio.New(cfg), upload.New(cfg))

	if *topic != "" {
		runHeadless(ctx, p, *topic, *duration, *uploadFlag)
		return
	}

	// Topic suggestions are optional; the form works without them.
	var topics web.TopicSource
	if suggester, err := research.New(cfg); err != nil {
		log.Printf("⚠️ Topic suggestions disabled: %v", err)
	} else {
		topics = suggester
	}

	serve(web.NewServer(cfg, p, topics), cfg.Server.Port)
}

func runHeadless(ctx context.Context, p *pipeline.Pipeline, topic string, duration int, uploadVideo bool) {
	log.Printf("🎬 Generating %q (%ds, upload=%t)", topic, duration, uploadVideo)
	state := p.Run(ctx, pipeline.Request{
		Topic:       topic,
		DurationSec: duration,
		Upload:      uploadVideo,
	}, nil)
	if state.Error != "" {
		log.Fatalf("Run %s failed: %s", state.RunID, state.Error)
	}
	log.Printf("✅ Run %s complete: %s", state.RunID, state.VideoFile)
	if state.YouTubeURL != "" {
		log.Printf("🔗 %s", state.YouTubeURL)
	}
}

func serve(server *web.Server, port string) {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: server.Router(),
	}

	go func() {
		log.Printf("🌐 Shorts Factory listening on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Forced shutdown: %v", err)
	}
	log.Println("✅ Server stopped")
}
