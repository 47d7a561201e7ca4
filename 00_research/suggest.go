package research

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode"

	"shorts-factory/config"

	"github.com/vartanbeno/go-reddit/v2/reddit"
)

// Suggester proposes video topics from trending Reddit posts.
// It is an optional convenience for the operator form; every failure is
// soft and the pipeline never depends on it.
type Suggester struct {
	cfg    *config.Config
	client *reddit.Client
}

// New creates a read-only Suggester
func New(cfg *config.Config) (*Suggester, error) {
	client, err := reddit.NewReadonlyClient()
	if err != nil {
		return nil, fmt.Errorf("reddit client: %w", err)
	}
	return &Suggester{cfg: cfg, client: client}, nil
}

// Run returns up to limit topic suggestions from the configured subreddits
func (s *Suggester) Run(ctx context.Context, limit int) ([]string, error) {
	subreddits := s.cfg.Research.Subreddits
	if len(subreddits) == 0 {
		subreddits = []string{"todayilearned", "interestingasfuck", "space"}
	}
	period := s.cfg.Research.TimePeriod
	if period == "" {
		period = "week"
	}
	maxPosts := s.cfg.Research.MaxPosts
	if maxPosts == 0 {
		maxPosts = 25
	}

	log.Printf("[research] Fetching top posts from r/%s...", strings.Join(subreddits, "+"))

	posts, _, err := s.client.Subreddit.TopPosts(ctx, strings.Join(subreddits, "+"), &reddit.ListPostOptions{
		ListOptions: reddit.ListOptions{Limit: maxPosts},
		Time:        period,
	})
	if err != nil {
		return nil, fmt.Errorf("reddit top posts: %w", err)
	}

	var topics []string
	for _, post := range posts {
		topic := CleanTitle(post.Title)
		if topic == "" {
			continue
		}
		topics = append(topics, topic)
		if len(topics) >= limit {
			break
		}
	}

	log.Printf("[research] ✅ %d topic suggestions", len(topics))
	return topics, nil
}

// CleanTitle turns a Reddit post title into a usable video topic
func CleanTitle(title string) string {
	t := strings.TrimSpace(title)

	// Strip common subreddit framing prefixes
	for _, prefix := range []string{"TIL that ", "TIL: ", "TIL ", "LPT: ", "PSA: "} {
		if strings.HasPrefix(t, prefix) {
			t = strings.TrimPrefix(t, prefix)
			break
		}
	}

	t = strings.TrimSpace(t)
	runes := []rune(t)
	if len(runes) < 10 {
		return ""
	}
	if len(runes) > 80 {
		head := string(runes[:80])
		if cut := strings.LastIndex(head, " "); cut >= 10 {
			head = head[:cut]
		}
		t = head
		runes = []rune(t)
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
