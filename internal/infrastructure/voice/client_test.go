package voice

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendRelaysAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "dragon_voice", r.FormValue("voice_type"))

		f, _, err := r.FormFile("audio")
		require.NoError(t, err)
		sent, _ := io.ReadAll(f)
		assert.Equal(t, []byte("webm-bytes"), sent)

		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second, nil)
	audio, ct := c.Send(context.Background(), []byte("webm-bytes"), "dragon_voice")

	assert.Equal(t, []byte("mp3-bytes"), audio)
	assert.Equal(t, "audio/mpeg", ct)
}

func TestSendFallsBackOnNonAudioResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>err</html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second, nil)
	audio, ct := c.Send(context.Background(), []byte("x"), "female_voice")

	assert.Equal(t, "audio/wav", ct)
	assert.Equal(t, FallbackClip(), audio)
}

func TestSendFallsBackWhenUnreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 500*time.Millisecond, nil)
	audio, ct := c.Send(context.Background(), []byte("x"), "female_voice")

	assert.Equal(t, "audio/wav", ct)
	assert.NotEmpty(t, audio)
}

func TestSendFallsBackWithoutBaseURL(t *testing.T) {
	c := NewClient("", time.Second, nil)
	audio, ct := c.Send(context.Background(), []byte("x"), "female_voice")

	assert.Equal(t, "audio/wav", ct)
	assert.Equal(t, FallbackClip(), audio)
}
