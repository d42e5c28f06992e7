// Package whatsapp содержит HTTP-клиент шлюза отправки WhatsApp-сообщений.
package whatsapp

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// Client клиент WhatsApp-шлюза.
type Client struct {
	apiURL     string
	token      string
	httpClient *http.Client
}

// NewClient создаёт новый клиент шлюза.
func NewClient(apiURL, token string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiURL:     apiURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) newRequest(method, path string, body interface{}) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// SendMessage отправляет текстовое сообщение на номер телефона.
func (c *Client) SendMessage(reqParams SendMessageRequest) (*SendMessageResponse, error) {
	req, err := c.newRequest("POST", "/messages", reqParams)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errors.New("whatsapp gateway returned status " + resp.Status)
	}

	var result SendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}
