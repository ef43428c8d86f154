package memes

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/soulpet-ai/soulpet-api/pkg/helpers"
)

// Meme is a single feed entry as served to the dashboard.
type Meme struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Image    string   `json:"image"`
	Author   string   `json:"author"`
	Source   string   `json:"source"`
	Upvotes  int      `json:"upvotes"`
	Comments int      `json:"comments"`
	TimeAgo  string   `json:"timeAgo"`
	Awards   int      `json:"awards"`
	Hashtags []string `json:"hashtags"`
	Type     string   `json:"type"`
	IsVideo  bool     `json:"isVideo"`
	Trending bool     `json:"trending"`
	URL      string   `json:"url,omitempty"`
}

// Client aggregates memes from public APIs with a short Redis cache so
// the feed endpoint stays cheap under refresh-happy clients.
type Client struct {
	MemeAPIURL string
	RedditURL  string
	CacheTTL   time.Duration
	HTTP       *http.Client
	Redis      *redis.Client
	Logger     *logrus.Logger
}

func NewClient(memeAPIURL, redditURL string, cacheTTL time.Duration, rdb *redis.Client, logger *logrus.Logger) *Client {
	return &Client{
		MemeAPIURL: memeAPIURL,
		RedditURL:  redditURL,
		CacheTTL:   cacheTTL,
		HTTP:       &http.Client{Timeout: 10 * time.Second},
		Redis:      rdb,
		Logger:     logger,
	}
}

func cacheKey(category string) string {
	return "memes:feed:" + category
}

// Fetch returns the feed for a category, serving from cache when
// fresh. Upstream failures degrade to the built-in mock set rather
// than an error.
func (c *Client) Fetch(ctx context.Context, category string) ([]Meme, error) {
	if category == "" {
		category = "all"
	}

	if c.Redis != nil {
		var cached []Meme
		found, err := helpers.RedisGetJSON(ctx, c.Redis, cacheKey(category), &cached)
		if err != nil && c.Logger != nil {
			c.Logger.WithError(err).Warn("meme cache read failed")
		}
		if found && len(cached) > 0 {
			return cached, nil
		}
	}

	all := append(c.fetchMemeAPI(ctx), c.fetchReddit(ctx)...)
	if len(all) == 0 {
		all = MockMemes()
	}

	sortByEngagement(all)
	flagTrending(all)

	if c.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, c.Redis, cacheKey(category), all, c.CacheTTL); err != nil && c.Logger != nil {
			c.Logger.WithError(err).Warn("meme cache write failed")
		}
	}
	return all, nil
}

// ClearCache drops the cached feed for a category.
func (c *Client) ClearCache(ctx context.Context, category string) error {
	if c.Redis == nil {
		return nil
	}
	if category == "" {
		category = "all"
	}
	return helpers.RedisDel(ctx, c.Redis, cacheKey(category))
}

type memeAPIResponse struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Author   string `json:"author"`
	PostLink string `json:"postLink"`
}

func (c *Client) fetchMemeAPI(ctx context.Context) []Meme {
	var data memeAPIResponse
	if err := c.getJSON(ctx, c.MemeAPIURL, &data); err != nil {
		c.logWarn(err, "meme-api fetch failed")
		return nil
	}
	if data.URL == "" {
		return nil
	}
	title := data.Title
	if title == "" {
		title = "Fresh Meme"
	}
	author := data.Author
	if author == "" {
		author = "u/MemeBot"
	}
	return []Meme{{
		ID:       fmt.Sprintf("meme-api-%d", time.Now().UnixMilli()),
		Title:    title,
		Image:    data.URL,
		Author:   author,
		Source:   "r/memes",
		Upvotes:  rand.Intn(50000) + 1000,
		Comments: rand.Intn(1000) + 50,
		TimeAgo:  "Just now",
		Awards:   rand.Intn(20) + 1,
		Hashtags: []string{"#fresh", "#meme", "#viral", "#new"},
		Type:     "image",
		URL:      data.PostLink,
	}}
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				ID          string  `json:"id"`
				Title       string  `json:"title"`
				URL         string  `json:"url"`
				Author      string  `json:"author"`
				Subreddit   string  `json:"subreddit"`
				Ups         int     `json:"ups"`
				NumComments int     `json:"num_comments"`
				CreatedUTC  float64 `json:"created_utc"`
				Awards      int     `json:"total_awards_received"`
				PostHint    string  `json:"post_hint"`
				Over18      bool    `json:"over_18"`
				Permalink   string  `json:"permalink"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (c *Client) fetchReddit(ctx context.Context) []Meme {
	var listing redditListing
	if err := c.getJSON(ctx, c.RedditURL, &listing); err != nil {
		c.logWarn(err, "reddit fetch failed")
		return nil
	}

	out := make([]Meme, 0, 15)
	for _, child := range listing.Data.Children {
		p := child.Data
		if p.PostHint != "image" || p.Over18 {
			continue
		}
		out = append(out, Meme{
			ID:       "reddit-" + p.ID,
			Title:    p.Title,
			Image:    p.URL,
			Author:   "u/" + p.Author,
			Source:   "r/" + p.Subreddit,
			Upvotes:  p.Ups,
			Comments: p.NumComments,
			TimeAgo:  FormatTimeAgo(int64(p.CreatedUTC), time.Now().Unix()),
			Awards:   p.Awards,
			Hashtags: HashtagsFor(p.Title),
			Type:     "image",
			URL:      "https://reddit.com" + p.Permalink,
		})
		if len(out) == 15 {
			break
		}
	}
	return out
}

func (c *Client) getJSON(ctx context.Context, url string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "SoulPetAI/1.0")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d from %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

func (c *Client) logWarn(err error, msg string) {
	if c.Logger != nil {
		c.Logger.WithError(err).Warn(msg)
	}
}

// sortByEngagement orders trending entries first, then by a weighted
// score of upvotes, comments and awards.
func sortByEngagement(memes []Meme) {
	score := func(m Meme) int {
		return m.Upvotes + m.Comments*10 + m.Awards*100
	}
	sort.SliceStable(memes, func(i, j int) bool {
		if memes[i].Trending != memes[j].Trending {
			return memes[i].Trending
		}
		return score(memes[i]) > score(memes[j])
	})
}

// flagTrending marks entries well above the average upvote count, or
// with heavy award activity.
func flagTrending(memes []Meme) {
	if len(memes) == 0 {
		return
	}
	var sum int
	for _, m := range memes {
		sum += m.Upvotes
	}
	avg := float64(sum) / float64(len(memes))
	for i := range memes {
		memes[i].Trending = float64(memes[i].Upvotes) > avg*1.5 || memes[i].Awards > 15
	}
}

// HashtagsFor derives a small set of hashtags from a title.
func HashtagsFor(title string) []string {
	words := strings.Fields(strings.ToLower(title))
	tags := []string{"#meme", "#funny"}

	has := func(candidates ...string) bool {
		for _, w := range words {
			for _, c := range candidates {
				if w == c {
					return true
				}
			}
		}
		return false
	}

	if has("cat", "kitten", "feline") {
		tags = append(tags, "#cat")
	}
	if has("dog", "puppy", "doggo") {
		tags = append(tags, "#dog")
	}
	if has("pet", "animal") {
		tags = append(tags, "#pets")
	}
	if has("ai", "robot", "tech") {
		tags = append(tags, "#technology")
	}
	if has("work", "job", "office") {
		tags = append(tags, "#work")
	}
	return tags
}

// FormatTimeAgo renders a Unix timestamp as a compact relative label.
func FormatTimeAgo(createdUnix, nowUnix int64) string {
	diff := nowUnix - createdUnix
	switch {
	case diff < 60:
		return "Just now"
	case diff < 3600:
		return fmt.Sprintf("%dm", diff/60)
	case diff < 86400:
		return fmt.Sprintf("%dh", diff/3600)
	default:
		return fmt.Sprintf("%dd", diff/86400)
	}
}

// MockMemes is the fallback set served when every upstream source is
// down.
func MockMemes() []Meme {
	return []Meme{
		{
			ID:       "mock-1",
			Title:    "When your AI pet asks for treats at 3 AM",
			Image:    "https://images.pexels.com/photos/1108099/pexels-photo-1108099.jpeg?auto=compress&cs=tinysrgb&w=600",
			Author:   "u/NightFeeder",
			Source:   "r/AIpets",
			Upvotes:  15420,
			Comments: 342,
			TimeAgo:  "Just now",
			Awards:   12,
			Hashtags: []string{"#aipets", "#3am", "#treats", "#relatable"},
			Type:     "image",
			Trending: true,
		},
		{
			ID:       "mock-2",
			Title:    "My cat discovered the video call feature",
			Image:    "https://images.pexels.com/photos/416160/pexels-photo-416160.jpeg?auto=compress&cs=tinysrgb&w=600",
			Author:   "u/TechCat",
			Source:   "r/catmemes",
			Upvotes:  23156,
			Comments: 567,
			TimeAgo:  "2m",
			Awards:   25,
			Hashtags: []string{"#videocall", "#cat", "#technology", "#funny"},
			Type:     "image",
			Trending: true,
		},
		{
			ID:       "mock-3",
			Title:    "POV: Your digital pet has better social skills than you",
			Image:    "https://images.pexels.com/photos/1805164/pexels-photo-1805164.jpeg?auto=compress&cs=tinysrgb&w=600",
			Author:   "u/SociallyAwkward",
			Source:   "r/meirl",
			Upvotes:  18567,
			Comments: 445,
			TimeAgo:  "5m",
			Awards:   20,
			Hashtags: []string{"#socialskills", "#digitalpet", "#relatable", "#awkward"},
			Type:     "image",
		},
		{
			ID:       "mock-4",
			Title:    "When your pet's AI is smarter than your smart home",
			Image:    "https://images.pexels.com/photos/2835436/pexels-photo-2835436.jpeg?auto=compress&cs=tinysrgb&w=600",
			Author:   "u/SmartHomeFail",
			Source:   "r/technology",
			Upvotes:  12789,
			Comments: 234,
			TimeAgo:  "8m",
			Awards:   15,
			Hashtags: []string{"#ai", "#smarthome", "#technology", "#pets"},
			Type:     "image",
		},
		{
			ID:       "mock-5",
			Title:    "My dragon learned to code and now judges my programming",
			Image:    "https://images.pexels.com/photos/1591939/pexels-photo-1591939.jpeg?auto=compress&cs=tinysrgb&w=600",
			Author:   "u/CodeDragon",
			Source:   "r/ProgrammerHumor",
			Upvotes:  31245,
			Comments: 678,
			TimeAgo:  "12m",
			Awards:   35,
			Hashtags: []string{"#programming", "#dragon", "#coding", "#judgment"},
			Type:     "image",
			Trending: true,
		},
	}
}
