// Package api is the JSON-over-HTTP client for the chat server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zhubert/moodring/internal/conversation"
	"github.com/zhubert/moodring/internal/errors"
	"github.com/zhubert/moodring/internal/logger"
)

const (
	// DefaultBaseURL is where the chat server listens by default.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout bounds every request unless configured otherwise.
	DefaultTimeout = 60 * time.Second

	// maxErrorBody limits how much of a failed response is logged.
	maxErrorBody = 512
)

// Endpoint paths.
const (
	pathChat    = "/api/chat"
	pathAnalyze = "/api/analyze"
	pathReset   = "/api/reset"
	pathHistory = "/api/history"
)

// Client talks to the chat server.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a client for baseURL. A timeout of zero disables the
// request deadline.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return NewClientWithHTTP(baseURL, &http.Client{Timeout: timeout})
}

// NewClientWithHTTP creates a client with a custom HTTP client (for testing).
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// BaseURL returns the server address the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ChatReply is the server's answer to one user turn.
type ChatReply struct {
	ConversationID string
	UserSentiment  conversation.Sentiment
	Response       string
}

type chatRequest struct {
	Message        string  `json:"message"`
	ConversationID *string `json:"conversation_id"`
}

type chatResponse struct {
	ConversationID string  `json:"conversation_id"`
	UserSentiment  string  `json:"user_sentiment"`
	Response       *string `json:"response"`
}

type analyzeResponse struct {
	Label   string   `json:"label"`
	Score   *float64 `json:"score"`
	Summary string   `json:"summary"`
}

type resetResponse struct {
	ConversationID string `json:"conversation_id"`
}

type historyItem struct {
	ID          string `json:"id"`
	CreatedAt   string `json:"created_at"`
	LastMessage string `json:"last_message"`
}

type storedMessage struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Sentiment string `json:"sentiment"`
}

// Chat sends one user turn. An empty conversationID asks the server to start
// a new conversation.
func (c *Client) Chat(ctx context.Context, message, conversationID string) (*ChatReply, error) {
	const op errors.Op = "api.Chat"

	body := chatRequest{Message: message}
	if conversationID != "" {
		body.ConversationID = &conversationID
	}

	var resp chatResponse
	if err := c.do(ctx, op, http.MethodPost, pathChat, body, &resp); err != nil {
		return nil, err
	}
	if resp.Response == nil {
		return nil, errors.MalformedResponse(op, pathChat, fmt.Errorf("missing response field"))
	}

	return &ChatReply{
		ConversationID: resp.ConversationID,
		UserSentiment:  conversation.ParseSentiment(resp.UserSentiment),
		Response:       *resp.Response,
	}, nil
}

// Analyze fetches the aggregate verdict for a whole conversation.
func (c *Client) Analyze(ctx context.Context, conversationID string) (conversation.Verdict, error) {
	const op errors.Op = "api.Analyze"

	path := pathAnalyze + "?conversation_id=" + url.QueryEscape(conversationID)

	var resp analyzeResponse
	if err := c.do(ctx, op, http.MethodGet, path, nil, &resp); err != nil {
		return conversation.Verdict{}, err
	}
	if resp.Score == nil {
		return conversation.Verdict{}, errors.MalformedResponse(op, pathAnalyze, fmt.Errorf("missing score field"))
	}

	return conversation.Verdict{
		Label:   resp.Label,
		Score:   *resp.Score,
		Summary: resp.Summary,
	}, nil
}

// Reset asks the server for a fresh conversation and returns its identifier.
func (c *Client) Reset(ctx context.Context) (string, error) {
	const op errors.Op = "api.Reset"

	var resp resetResponse
	if err := c.do(ctx, op, http.MethodPost, pathReset, nil, &resp); err != nil {
		return "", err
	}
	if resp.ConversationID == "" {
		return "", errors.MalformedResponse(op, pathReset, fmt.Errorf("missing conversation_id field"))
	}
	return resp.ConversationID, nil
}

// History lists stored conversations in server order.
func (c *Client) History(ctx context.Context) ([]conversation.HistoryEntry, error) {
	const op errors.Op = "api.History"

	var items []historyItem
	if err := c.do(ctx, op, http.MethodGet, pathHistory, nil, &items); err != nil {
		return nil, err
	}

	entries := make([]conversation.HistoryEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, conversation.HistoryEntry{
			ID:          item.ID,
			CreatedAt:   ParseTimestamp(item.CreatedAt),
			LastMessage: item.LastMessage,
		})
	}
	return entries, nil
}

// Conversation fetches the stored messages of one conversation in order.
// Each message gets a fresh local id.
func (c *Client) Conversation(ctx context.Context, conversationID string) ([]conversation.Message, error) {
	const op errors.Op = "api.Conversation"

	var stored []storedMessage
	if err := c.do(ctx, op, http.MethodGet, pathHistory+"/"+url.PathEscape(conversationID), nil, &stored); err != nil {
		return nil, err
	}

	messages := make([]conversation.Message, 0, len(stored))
	for _, m := range stored {
		sender := conversation.SenderBot
		if m.Sender == string(conversation.SenderUser) {
			sender = conversation.SenderUser
		}
		sentiment := conversation.SentimentUnknown
		if sender == conversation.SenderUser {
			sentiment = conversation.ParseSentiment(m.Sentiment)
		}
		messages = append(messages, conversation.NewMessage(sender, m.Text, sentiment))
	}
	return messages, nil
}

// do performs one request and decodes a JSON body into out. Transport
// failures, non-2xx statuses and undecodable bodies map onto the Network,
// Status and Decode error kinds.
func (c *Client) do(ctx context.Context, op errors.Op, method, path string, in, out any) error {
	log := logger.WithComponent("api")
	endpoint := strings.SplitN(path, "?", 2)[0]

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.E(op, errors.KindInvalid, "failed to encode request", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.E(op, errors.KindInvalid, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return errors.E(op, errors.KindTimeout, fmt.Sprintf("request to %s timed out", endpoint), err)
		}
		return errors.RequestFailed(op, endpoint, err)
	}
	defer resp.Body.Close()

	log.Debug("request complete", "method", method, "endpoint", endpoint, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Warn("unexpected status", "endpoint", endpoint, "status", resp.StatusCode, "body", string(snippet))
		return errors.UnexpectedStatus(op, endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.MalformedResponse(op, endpoint, err)
	}
	return nil
}

// timestampLayouts are tried in order. The zone-less forms are what Python's
// datetime.isoformat() emits for naive timestamps; they are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp reads an ISO 8601 timestamp. It returns the zero time when
// s matches none of the accepted forms.
func ParseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	logger.WithComponent("api").Debug("unparseable timestamp", "value", s)
	return time.Time{}
}

// isTimeout reports whether a transport error, possibly wrapped, is a
// client timeout.
func isTimeout(err error) bool {
	var ue *url.Error
	return stderrors.As(err, &ue) && ue.Timeout()
}
