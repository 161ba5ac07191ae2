package telegram

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultAPIHost is the public Bot API host.
const DefaultAPIHost = "https://api.telegram.org"

// maxMessageLength is the Bot API ceiling on sendMessage text, with
// headroom for entities.
const maxMessageLength = 3900

// Client is a minimal Telegram Bot API client.
type Client struct {
	apiBase    string
	fileBase   string
	httpClient *http.Client
}

// NewClient creates a Telegram client for the given bot token.
func NewClient(token string, requestTimeout time.Duration) *Client {
	return NewClientWithHost(DefaultAPIHost, token, requestTimeout)
}

// NewClientWithHost creates a client against a non-default API host,
// which tests point at a local server.
func NewClientWithHost(host, token string, requestTimeout time.Duration) *Client {
	return &Client{
		apiBase:  fmt.Sprintf("%s/bot%s", host, token),
		fileBase: fmt.Sprintf("%s/file/bot%s", host, token),
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// apiResponse is the generic Telegram API response wrapper.
type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description,omitempty"`
}

func (c *Client) call(method string, payload interface{}, result interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", method, err)
	}

	resp, err := c.httpClient.Post(c.apiBase+"/"+method, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram %s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(data, &apiResp); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", method, err)
	}
	if !apiResp.OK {
		return fmt.Errorf("telegram %s rejected: %s", method, apiResp.Description)
	}
	if result != nil {
		if err := json.Unmarshal(apiResp.Result, result); err != nil {
			return fmt.Errorf("failed to parse %s result: %w", method, err)
		}
	}
	return nil
}

// SendMessage sends a text message to the given chat.
func (c *Client) SendMessage(chatID int64, text string) error {
	return c.call("sendMessage", map[string]interface{}{
		"chat_id": chatID,
		"text":    truncate(text, maxMessageLength),
	}, nil)
}

// SendChatAction reports a chat action (e.g. "typing") to the given chat.
func (c *Client) SendChatAction(chatID int64, action string) error {
	return c.call("sendChatAction", map[string]interface{}{
		"chat_id": chatID,
		"action":  action,
	}, nil)
}

// GetFile resolves a file_id into a downloadable file path.
func (c *Client) GetFile(fileID string) (File, error) {
	var file File
	if err := c.call("getFile", map[string]interface{}{"file_id": fileID}, &file); err != nil {
		return File{}, err
	}
	return file, nil
}

// DownloadFileBase64 fetches the file at the given Bot API file path and
// returns its raw bytes base64-encoded.
func (c *Client) DownloadFileBase64(filePath string) (string, error) {
	resp, err := c.httpClient.Get(c.fileBase + "/" + filePath)
	if err != nil {
		return "", fmt.Errorf("telegram file download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("telegram file download status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read file download: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// SetWebhook registers the webhook URL with the Bot API.
func (c *Client) SetWebhook(url string) error {
	return c.call("setWebhook", map[string]interface{}{"url": url}, nil)
}

// DeleteWebhook removes the registered webhook, optionally dropping
// pending updates.
func (c *Client) DeleteWebhook(dropPending bool) error {
	return c.call("deleteWebhook", map[string]interface{}{
		"drop_pending_updates": dropPending,
	}, nil)
}

func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
