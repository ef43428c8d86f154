package memes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTimeAgo(t *testing.T) {
	now := int64(1_700_000_000)

	assert.Equal(t, "Just now", FormatTimeAgo(now-30, now))
	assert.Equal(t, "5m", FormatTimeAgo(now-300, now))
	assert.Equal(t, "2h", FormatTimeAgo(now-7200, now))
	assert.Equal(t, "3d", FormatTimeAgo(now-3*86400, now))
}

func TestHashtagsFor(t *testing.T) {
	tags := HashtagsFor("My cat broke the robot at work")

	assert.Contains(t, tags, "#meme")
	assert.Contains(t, tags, "#funny")
	assert.Contains(t, tags, "#cat")
	assert.Contains(t, tags, "#technology")
	assert.Contains(t, tags, "#work")
	assert.NotContains(t, tags, "#dog")
}

func TestFlagTrending(t *testing.T) {
	feed := []Meme{
		{ID: "a", Upvotes: 100},
		{ID: "b", Upvotes: 100},
		{ID: "c", Upvotes: 1000},
		{ID: "d", Upvotes: 50, Awards: 20},
	}
	flagTrending(feed)

	assert.False(t, feed[0].Trending)
	assert.False(t, feed[1].Trending)
	assert.True(t, feed[2].Trending, "well above average upvotes")
	assert.True(t, feed[3].Trending, "heavy awards")
}

func TestSortByEngagement(t *testing.T) {
	feed := []Meme{
		{ID: "low", Upvotes: 10},
		{ID: "high", Upvotes: 1000, Comments: 50, Awards: 5},
		{ID: "hot", Upvotes: 5, Trending: true},
	}
	sortByEngagement(feed)

	assert.Equal(t, "hot", feed[0].ID, "trending first")
	assert.Equal(t, "high", feed[1].ID)
	assert.Equal(t, "low", feed[2].ID)
}

func TestMockMemesShape(t *testing.T) {
	feed := MockMemes()

	assert.Len(t, feed, 5)
	for _, m := range feed {
		assert.NotEmpty(t, m.ID)
		assert.NotEmpty(t, m.Title)
		assert.NotEmpty(t, m.Image)
		assert.NotEmpty(t, m.Hashtags)
	}
}
