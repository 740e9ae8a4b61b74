package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Sender delivers outbound messages to players. The chat gateway in
// front of this process implements it for real; delivery is best
// effort and the game never waits on it.
type Sender interface {
	SendText(identity, text string) error
	SendPoll(identity, question string, options []string) (pollID string, err error)
}

// HTTPSender posts outbound messages to a chat gateway.
type HTTPSender struct {
	BaseURL string
	http    *http.Client
}

func NewHTTPSender(baseURL string) *HTTPSender {
	return &HTTPSender{
		BaseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *HTTPSender) SendText(identity, text string) error {
	body := map[string]any{"to": identity, "text": text}
	return s.post("/text", body, nil)
}

func (s *HTTPSender) SendPoll(identity, question string, options []string) (string, error) {
	body := map[string]any{"to": identity, "question": question, "options": options}
	var resp struct {
		PollID string `json:"pollId"`
	}
	if err := s.post("/poll", body, &resp); err != nil {
		return "", err
	}
	return resp.PollID, nil
}

func (s *HTTPSender) post(path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("gateway returned status %d", res.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(res.Body).Decode(out)
	}
	return nil
}

// LogSender writes outbound messages to the log. Used when no gateway
// is configured, mostly for local runs.
type LogSender struct{}

func (LogSender) SendText(identity, text string) error {
	log.Info().Str("to", identity).Str("text", text).Msg("send")
	return nil
}

func (LogSender) SendPoll(identity, question string, options []string) (string, error) {
	id := uuid.NewString()
	log.Info().Str("to", identity).Str("question", question).Strs("options", options).
		Str("pollId", id).Msg("send poll")
	return id, nil
}
