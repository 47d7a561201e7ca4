package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"time"

	"shorts-factory/naming"
	"shorts-factory/types"
)

const defaultPexelsBaseURL = "https://api.pexels.com"

// PexelsClient searches and downloads portrait stock clips
type PexelsClient struct {
	apiKey     string
	baseURL    string
	maxResults int

	// Only the search request carries an enforced timeout; downloads
	// stream until done, matching the rest of the pipeline's calls.
	searchClient   *http.Client
	downloadClient *http.Client
}

// NewPexelsClient creates a client. An empty apiKey is allowed; fetches
// then degrade to an empty clip set.
func NewPexelsClient(apiKey string, maxResults, searchTimeoutSec int) *PexelsClient {
	return &PexelsClient{
		apiKey:         apiKey,
		baseURL:        defaultPexelsBaseURL,
		maxResults:     maxResults,
		searchClient:   &http.Client{Timeout: time.Duration(searchTimeoutSec) * time.Second},
		downloadClient: &http.Client{},
	}
}

type pexelsVideoFile struct {
	Width int    `json:"width"`
	Link  string `json:"link"`
}

type pexelsVideo struct {
	ID         int               `json:"id"`
	Duration   float64           `json:"duration"`
	VideoFiles []pexelsVideoFile `json:"video_files"`
}

type pexelsSearchResponse struct {
	Videos []pexelsVideo `json:"videos"`
}

// FetchClips downloads enough clips for the query to cover targetDuration
// seconds of footage. Failures are soft: a missing key, a failed search or
// an empty result all return an empty set, and a bad individual download is
// skipped rather than aborting the fetch.
func (c *PexelsClient) FetchClips(ctx context.Context, query, topic, outputDir string, targetDuration int, timestamp int64) types.ClipSet {
	log.Printf("[assets] Searching Pexels for: %s...", query)

	if c.apiKey == "" {
		log.Println("[assets] ⚠️ PEXELS_API_KEY missing — no clips will be downloaded")
		return nil
	}

	videos, err := c.search(ctx, query)
	if err != nil {
		log.Printf("[assets] ⚠️ Pexels search failed: %v", err)
		return nil
	}
	if len(videos) == 0 {
		log.Println("[assets] ⚠️ Pexels returned no videos")
		return nil
	}

	// Shuffle for variation across runs
	rand.Shuffle(len(videos), func(i, j int) {
		videos[i], videos[j] = videos[j], videos[i]
	})

	var clips types.ClipSet
	var covered float64
	for i, video := range videos {
		if covered >= float64(targetDuration) {
			break
		}

		variant := pickVariant(video.VideoFiles)
		if variant.Link == "" {
			continue
		}

		outFile := naming.Clip(outputDir, topic, timestamp, i)
		log.Printf("[assets] ⬇️  Downloading clip %d (ID: %d)...", i+1, video.ID)
		if err := c.download(ctx, variant.Link, outFile); err != nil {
			log.Printf("[assets] ⚠️ Skipped clip %d: %v", video.ID, err)
			continue
		}

		clips = append(clips, types.Clip{
			Path:        outFile,
			DurationSec: video.Duration,
			SourceID:    video.ID,
			Width:       variant.Width,
		})
		covered += video.Duration
	}

	log.Printf("[assets] ✅ Downloaded %d clips covering %.0fs", len(clips), covered)
	return clips
}

func (c *PexelsClient) search(ctx context.Context, query string) ([]pexelsVideo, error) {
	u := fmt.Sprintf("%s/videos/search?query=%s&orientation=portrait&size=medium&per_page=%d",
		c.baseURL, url.QueryEscape(query), c.maxResults)

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.searchClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pexels request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from Pexels", resp.StatusCode)
	}

	var parsed pexelsSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parse pexels response: %w", err)
	}
	return parsed.Videos, nil
}

func (c *PexelsClient) download(ctx context.Context, link, outFile string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", link, nil)
	if err != nil {
		return err
	}

	resp, err := c.downloadClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d downloading clip", resp.StatusCode)
	}

	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, resp.Body)
	return err
}

// pickVariant chooses the encoded variant to download: the widest one in
// the 720–1080 range when present, otherwise the widest available.
func pickVariant(files []pexelsVideoFile) pexelsVideoFile {
	var best, widest pexelsVideoFile
	for _, f := range files {
		if f.Width > widest.Width {
			widest = f
		}
		if f.Width >= 720 && f.Width <= 1080 && f.Width > best.Width {
			best = f
		}
	}
	if best.Link != "" {
		return best
	}
	return widest
}
