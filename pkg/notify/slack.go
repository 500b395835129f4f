package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"lottobot/pkg/logger"
	"lottobot/pkg/lottery"
)

const slackAPIURL = "https://slack.com/api/chat.postMessage"

// SlackClient posts messages to a Slack channel via chat.postMessage with
// bearer-token authorization.
type SlackClient struct {
	client  *http.Client
	apiURL  string
	token   string
	channel string
	log     *logger.Logger
}

// NewSlackClient returns a client for the given bot token and channel.
func NewSlackClient(token, channel string, log *logger.Logger) *SlackClient {
	return &SlackClient{
		client:  &http.Client{Timeout: 15 * time.Second},
		apiURL:  slackAPIURL,
		token:   token,
		channel: channel,
		log:     log,
	}
}

type textPayload struct {
	Text    string `json:"text"`
	Channel string `json:"channel"`
}

type blockPayload struct {
	Channel string         `json:"channel"`
	Blocks  []messageBlock `json:"blocks"`
}

type messageBlock struct {
	Type     string         `json:"type"`
	Text     *blockText     `json:"text,omitempty"`
	Elements []blockElement `json:"elements,omitempty"`
}

type blockText struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

type blockElement struct {
	Type     string     `json:"type"`
	Text     *blockText `json:"text"`
	URL      string     `json:"url"`
	ActionID string     `json:"action_id"`
}

// SendText posts a plain-text message.
func (c *SlackClient) SendText(ctx context.Context, message string) error {
	return c.post(ctx, textPayload{
		Text:    header(message),
		Channel: c.channel,
	})
}

// SendTopUpPrompt posts the insufficient-balance message as a section block
// plus an actions block with a single button linking to the funding page.
func (c *SlackClient) SendTopUpPrompt(ctx context.Context) error {
	return c.post(ctx, blockPayload{
		Channel: c.channel,
		Blocks: []messageBlock{
			{
				Type: "section",
				Text: &blockText{Type: "mrkdwn", Text: header(topUpText)},
			},
			{
				Type: "actions",
				Elements: []blockElement{
					{
						Type:     "button",
						Text:     &blockText{Type: "plain_text", Text: topUpButton, Emoji: true},
						URL:      lottery.PaymentURL,
						ActionID: "button_action",
					},
				},
			},
		},
	})
}

func (c *SlackClient) post(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack returned HTTP %d", resp.StatusCode)
	}

	// chat.postMessage reports failures in the body with HTTP 200.
	var result struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read slack response: %w", err)
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("decode slack response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("slack rejected message: %s", result.Error)
	}

	c.log.Debug("slack message delivered to %s", c.channel)
	return nil
}
