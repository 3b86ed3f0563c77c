package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"
)

// MetaProvider talks to the official WhatsApp Cloud API.
// Documentation: https://developers.facebook.com/docs/whatsapp/cloud-api
type MetaProvider struct {
	baseURL     string
	phoneID     string
	accessToken string
	apiVersion  string
	client      *http.Client
}

func NewMetaProvider(phoneID, accessToken, apiVersion string) *MetaProvider {
	if apiVersion == "" {
		apiVersion = "v18.0"
	}

	return &MetaProvider{
		baseURL:     fmt.Sprintf("https://graph.facebook.com/%s/%s", apiVersion, phoneID),
		phoneID:     phoneID,
		accessToken: accessToken,
		apiVersion:  apiVersion,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (p *MetaProvider) Name() string {
	return "Meta Cloud API"
}

func (p *MetaProvider) SendMessage(ctx context.Context, to, body string) (*SendResult, error) {
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                cleanPhoneNumber(to),
		"type":              "text",
		"text": map[string]string{
			"preview_url": "false",
			"body":        body,
		},
	}

	var resp struct {
		Messages []struct {
			ID string `json:"id"`
		} `json:"messages"`
	}
	if err := p.sendRequest(ctx, http.MethodPost, "/messages", payload, &resp); err != nil {
		return nil, err
	}

	result := &SendResult{}
	if len(resp.Messages) > 0 {
		result.MessageID = resp.Messages[0].ID
	}
	return result, nil
}

// Inbound webhook payload shapes (only the fields we consume).
type metaWebhookPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Metadata struct {
					DisplayPhoneNumber string `json:"display_phone_number"`
				} `json:"metadata"`
				Messages []metaInboundMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type metaInboundMessage struct {
	From      string `json:"from"`
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Text      *struct {
		Body string `json:"body"`
	} `json:"text"`
	Image *struct {
		Caption string `json:"caption"`
	} `json:"image"`
	Location *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	Interactive *struct {
		ButtonReply *struct {
			Title string `json:"title"`
		} `json:"button_reply"`
		ListReply *struct {
			Title string `json:"title"`
		} `json:"list_reply"`
	} `json:"interactive"`
}

// ParseWebhook parses the Cloud API webhook JSON into normalized messages.
// Status-only notifications yield an empty slice.
func (p *MetaProvider) ParseWebhook(_ string, body []byte) ([]IncomingMessage, error) {
	var payload metaWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse meta webhook: %w", err)
	}

	var messages []IncomingMessage
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			to := change.Value.Metadata.DisplayPhoneNumber
			for _, m := range change.Value.Messages {
				messages = append(messages, normalizeMetaMessage(m, to))
			}
		}
	}
	return messages, nil
}

func normalizeMetaMessage(m metaInboundMessage, to string) IncomingMessage {
	msg := IncomingMessage{
		ProviderMessageID: m.ID,
		From:              m.From,
		To:                to,
		Timestamp:         time.Now(),
	}
	if ts, err := strconv.ParseInt(m.Timestamp, 10, 64); err == nil {
		msg.Timestamp = time.Unix(ts, 0)
	}

	switch m.Type {
	case "text":
		msg.Type = TypeText
		if m.Text != nil {
			msg.Text = m.Text.Body
		}
	case "image":
		msg.Type = TypeImage
		if m.Image != nil {
			msg.Caption = m.Image.Caption
		}
	case "audio":
		msg.Type = TypeAudio
	case "location":
		msg.Type = TypeLocation
		if m.Location != nil {
			msg.Latitude = m.Location.Latitude
			msg.Longitude = m.Location.Longitude
		}
	case "interactive":
		msg.Type = TypeInteractive
		if m.Interactive != nil {
			if m.Interactive.ButtonReply != nil {
				msg.InteractiveTitle = m.Interactive.ButtonReply.Title
			} else if m.Interactive.ListReply != nil {
				msg.InteractiveTitle = m.Interactive.ListReply.Title
			}
		}
	default:
		msg.Type = TypeUnsupported
	}

	return msg
}

// sendRequest is a helper to make Cloud API requests.
func (p *MetaProvider) sendRequest(ctx context.Context, method, endpoint string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+p.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("cloud API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	log.Printf("✅ Cloud API request successful: %s %s", method, endpoint)

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
