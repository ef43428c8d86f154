package voice

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Client talks to the remote voice endpoint. Responses are raw audio
// bytes; any failure substitutes the locally synthesized placeholder
// clip so voice chat never errors out.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *logrus.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
		Logger:  logger,
	}
}

// Send posts the recorded audio as multipart form data with the chosen
// voice type and returns (audio, contentType). A remote failure,
// non-audio response or empty body all fall back to the placeholder
// WAV.
func (c *Client) Send(ctx context.Context, audio []byte, voiceType string) ([]byte, string) {
	if c.BaseURL == "" {
		return FallbackClip(), "audio/wav"
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("audio", "voice_message.webm")
	if err == nil {
		_, err = fw.Write(audio)
	}
	if err == nil {
		err = mw.WriteField("voice_type", voiceType)
	}
	if cErr := mw.Close(); err == nil {
		err = cErr
	}
	if err != nil {
		c.logWarn(err, "voice form build failed")
		return FallbackClip(), "audio/wav"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/voice-chat", &buf)
	if err != nil {
		return FallbackClip(), "audio/wav"
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.logWarn(err, "voice request failed")
		return FallbackClip(), "audio/wav"
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logWarn(fmt.Errorf("status %d", resp.StatusCode), "voice request failed")
		return FallbackClip(), "audio/wav"
	}
	ct := resp.Header.Get("Content-Type")
	if !strings.Contains(ct, "audio") {
		c.logWarn(fmt.Errorf("content-type %q", ct), "voice response not audio")
		return FallbackClip(), "audio/wav"
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil || len(body) == 0 {
		c.logWarn(err, "voice response empty")
		return FallbackClip(), "audio/wav"
	}
	return body, ct
}

func (c *Client) logWarn(err error, msg string) {
	if c.Logger != nil {
		c.Logger.WithError(err).Warn(msg)
	}
}
