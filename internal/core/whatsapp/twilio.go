package whatsapp

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioProvider sends and receives WhatsApp messages through the Twilio
// Messaging API. Inbound webhooks arrive as form-encoded POSTs.
type TwilioProvider struct {
	client *twilio.RestClient
	from   string // "whatsapp:+14155238886"
}

func NewTwilioProvider(accountSID, authToken, from string) *TwilioProvider {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	if !strings.HasPrefix(from, "whatsapp:") {
		from = "whatsapp:" + from
	}

	return &TwilioProvider{client: client, from: from}
}

func (p *TwilioProvider) Name() string {
	return "Twilio"
}

func (p *TwilioProvider) SendMessage(ctx context.Context, to, body string) (*SendResult, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(p.from)
	params.SetTo("whatsapp:" + cleanPhoneNumber(to))
	params.SetBody(body)

	resp, err := p.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("❌ Failed to send WhatsApp message via Twilio: %v", err)
		return nil, err
	}

	result := &SendResult{}
	if resp.Sid != nil {
		result.MessageID = *resp.Sid
	}

	log.Printf("✅ WhatsApp message sent! SID: %s", result.MessageID)
	return result, nil
}

// ParseWebhook parses Twilio's form-encoded inbound message callback.
func (p *TwilioProvider) ParseWebhook(contentType string, body []byte) ([]IncomingMessage, error) {
	if !strings.Contains(contentType, "application/x-www-form-urlencoded") {
		return nil, fmt.Errorf("unexpected content type %q for twilio webhook", contentType)
	}

	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse twilio webhook form: %w", err)
	}

	sid := values.Get("MessageSid")
	if sid == "" {
		// Status callbacks and other events have no MessageSid payload to route.
		return nil, nil
	}

	msg := IncomingMessage{
		ProviderMessageID: sid,
		From:              cleanPhoneNumber(values.Get("From")),
		To:                cleanPhoneNumber(values.Get("To")),
		Type:              TypeText,
		Text:              values.Get("Body"),
		Timestamp:         time.Now(),
	}

	if lat := values.Get("Latitude"); lat != "" {
		msg.Type = TypeLocation
		msg.Latitude, _ = strconv.ParseFloat(lat, 64)
		msg.Longitude, _ = strconv.ParseFloat(values.Get("Longitude"), 64)
	} else if numMedia, _ := strconv.Atoi(values.Get("NumMedia")); numMedia > 0 {
		msg.Caption = values.Get("Body")
		switch {
		case strings.HasPrefix(values.Get("MediaContentType0"), "image/"):
			msg.Type = TypeImage
		case strings.HasPrefix(values.Get("MediaContentType0"), "audio/"):
			msg.Type = TypeAudio
		default:
			msg.Type = TypeUnsupported
		}
	} else if msg.Text == "" {
		msg.Type = TypeUnsupported
	}

	return []IncomingMessage{msg}, nil
}
