package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"shorts-factory/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	maxTitleLen       = 100
	maxDescriptionLen = 5000
	uploadChunkSize   = 8 * 1024 * 1024
)

// Uploader publishes the final video to YouTube via the Data API v3
type Uploader struct {
	cfg *config.Config
}

// New creates an Uploader
func New(cfg *config.Config) *Uploader {
	return &Uploader{cfg: cfg}
}

// Run uploads the video with its metadata and returns the watch URL
func (u *Uploader) Run(ctx context.Context, videoFile, title, description string) (string, error) {
	log.Println("[upload] 🚀 Connecting to YouTube...")

	if _, err := os.Stat(u.cfg.Paths.Credentials); err != nil {
		return "", fmt.Errorf("%s not found. Cannot upload", u.cfg.Paths.Credentials)
	}

	client, err := u.oauthClient(ctx)
	if err != nil {
		return "", fmt.Errorf("youtube auth: %w", err)
	}

	svc, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return "", fmt.Errorf("youtube service: %w", err)
	}

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       Truncate(title, maxTitleLen),
			Description: Truncate(description, maxDescriptionLen),
			Tags:        u.cfg.Upload.Tags,
			CategoryId:  u.cfg.Upload.CategoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           u.cfg.Upload.Visibility,
			SelfDeclaredMadeForKids: u.cfg.Upload.MadeForKids,
			// false is the zero value; force it onto the wire
			ForceSendFields: []string{"SelfDeclaredMadeForKids"},
		},
	}

	f, err := os.Open(videoFile)
	if err != nil {
		return "", fmt.Errorf("open video file: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat video file: %w", err)
	}
	log.Printf("[upload] ☁️  Uploading %q (%.1f MB)...", video.Snippet.Title, float64(fi.Size())/1024/1024)

	call := svc.Videos.Insert([]string{"snippet", "status"}, video)
	call.Media(f, googleapi.ChunkSize(uploadChunkSize))
	call.ProgressUpdater(func(current, total int64) {
		if total == 0 {
			return
		}
		log.Printf("[upload]     Progress: %d%%", int(current*100/total))
	})

	uploaded, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("youtube upload: %w", err)
	}

	url := WatchURL(uploaded.Id)
	log.Printf("[upload] ✅ Upload successful: %s", url)

	_ = u.logUpload(uploaded.Id, url, videoFile, video.Snippet.Title)
	return url, nil
}

// WatchURL builds the canonical watch link for a video ID
func WatchURL(videoID string) string {
	return "https://youtu.be/" + videoID
}

// Truncate cuts s to at most n bytes (YouTube metadata limits)
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// oauthClient authenticates from the application credential file, reusing
// the persisted session token when present and running the console flow on
// first use.
func (u *Uploader) oauthClient(ctx context.Context) (*http.Client, error) {
	data, err := os.ReadFile(u.cfg.Paths.Credentials)
	if err != nil {
		return nil, err
	}

	conf, err := google.ConfigFromJSON(data, youtube.YoutubeUploadScope)
	if err != nil {
		return nil, fmt.Errorf("parse client secret: %w", err)
	}

	tok, err := tokenFromFile(u.cfg.Paths.Token)
	if err != nil {
		tok, err = tokenFromConsole(ctx, conf)
		if err != nil {
			return nil, err
		}
		if err := saveToken(u.cfg.Paths.Token, tok); err != nil {
			log.Printf("[upload] ⚠️ Could not persist token: %v", err)
		}
	}

	return conf.Client(ctx, tok), nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, err
	}
	return tok, nil
}

// tokenFromConsole runs the local first-run authorization: the operator
// opens the printed URL and pastes the authorization code back.
func tokenFromConsole(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
	authURL := conf.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Go to the following link in your browser then type the authorization code:\n%v\n", authURL)

	var code string
	if _, err := fmt.Scan(&code); err != nil {
		return nil, fmt.Errorf("read authorization code: %w", err)
	}

	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(tok)
}

// logUpload appends a record of the published video to the logs directory
func (u *Uploader) logUpload(videoID, url, videoFile, title string) error {
	if err := os.MkdirAll(u.cfg.Paths.Logs, 0755); err != nil {
		return err
	}

	entry := map[string]interface{}{
		"video_id":    videoID,
		"video_url":   url,
		"title":       title,
		"video_file":  videoFile,
		"uploaded_at": time.Now().UTC().Format(time.RFC3339),
	}

	logFile := filepath.Join(u.cfg.Paths.Logs, fmt.Sprintf("upload_%s.json", time.Now().Format("20060102_150405")))
	data, _ := json.MarshalIndent(entry, "", "  ")
	return os.WriteFile(logFile, data, 0644)
}
