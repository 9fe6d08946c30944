package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fsdevblog/topup-store/internal/domain"
)

const defaultBaseURL = "https://api.telegram.org"

const routeSendMessage = "/bot%s/sendMessage"

// HTTPClient отправляет сообщения через Telegram Bot API. Токен бота и чат
// берутся из настроек, сохраненных в базе.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient() HTTPClient {
	return HTTPClient{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
}

// NewHTTPClientWithBaseURL нужен тестам.
func NewHTTPClientWithBaseURL(baseURL string) HTTPClient {
	return HTTPClient{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// AnnounceUpgrade публикует в чат сообщение о повышении VIP уровня юзера.
func (c HTTPClient) AnnounceUpgrade(
	ctx context.Context,
	settings domain.TelegramSettings,
	username string,
	levelName string,
) error {
	text := fmt.Sprintf("🎉 <b>%s</b> достиг уровня <b>%s</b>!", username, levelName)
	return c.sendMessage(ctx, settings, text)
}

//nolint:nonamedreturns
func (c HTTPClient) sendMessage(ctx context.Context, settings domain.TelegramSettings, text string) (err error) {
	url := c.baseURL + fmt.Sprintf(routeSendMessage, settings.BotToken)

	payload, marshalErr := json.Marshal(sendMessageRequest{
		ChatID:    settings.ChatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if marshalErr != nil {
		return fmt.Errorf("marshal request: %s", marshalErr.Error())
	}

	req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if reqErr != nil {
		return fmt.Errorf("create request: %s", reqErr.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, doErr := c.httpClient.Do(req)
	if doErr != nil {
		return fmt.Errorf("do request: %s", doErr.Error())
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return fmt.Errorf("read response: %s", readErr.Error())
	}

	var response sendMessageResponse
	if jsonErr := json.Unmarshal(body, &response); jsonErr != nil {
		return fmt.Errorf("parse response: %s", jsonErr.Error())
	}

	if !response.OK {
		return fmt.Errorf("telegram api: status %d: %s", resp.StatusCode, response.Description)
	}
	return nil
}
