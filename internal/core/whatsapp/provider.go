package whatsapp

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// MessageType classifies a normalized inbound message.
type MessageType string

const (
	TypeText        MessageType = "text"
	TypeImage       MessageType = "image"
	TypeAudio       MessageType = "audio"
	TypeLocation    MessageType = "location"
	TypeInteractive MessageType = "interactive"
	TypeUnsupported MessageType = "unsupported"
)

// IncomingMessage is the provider-agnostic shape of an inbound WhatsApp
// message. From and To are plain E.164-ish numbers without transport
// prefixes.
type IncomingMessage struct {
	ProviderMessageID string
	From              string
	To                string
	Type              MessageType
	Text              string
	Caption           string
	Latitude          float64
	Longitude         float64
	InteractiveTitle  string
	Timestamp         time.Time
}

// ContentText renders the message as the text that gets persisted and fed to
// the model. Non-text payloads collapse to placeholders.
func (m IncomingMessage) ContentText() string {
	switch m.Type {
	case TypeText:
		return m.Text
	case TypeImage:
		return "[Imagen]"
	case TypeAudio:
		return "[Audio]"
	case TypeLocation:
		return fmt.Sprintf("[Ubicación: %s, %s]",
			strconv.FormatFloat(m.Latitude, 'f', -1, 64),
			strconv.FormatFloat(m.Longitude, 'f', -1, 64))
	case TypeInteractive:
		if m.InteractiveTitle != "" {
			return m.InteractiveTitle
		}
		return "[Mensaje no soportado]"
	default:
		return "[Mensaje no soportado]"
	}
}

// SendResult is the provider acknowledgement for an outbound message.
type SendResult struct {
	MessageID string
}

// Provider is the WhatsApp transport contract: send a text message and parse
// an inbound webhook into normalized messages.
type Provider interface {
	SendMessage(ctx context.Context, to, body string) (*SendResult, error)
	ParseWebhook(contentType string, body []byte) ([]IncomingMessage, error)
	Name() string
}

// ProviderType selects the transport implementation.
type ProviderType string

const (
	ProviderTwilio ProviderType = "twilio"
	ProviderMeta   ProviderType = "meta"
)

// ProviderConfig holds per-provider credentials.
type ProviderConfig struct {
	Type ProviderType

	// Twilio
	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioWhatsAppFrom string

	// Meta Cloud API
	MetaPhoneID     string
	MetaAccessToken string
	MetaAPIVersion  string
}

// NewProvider builds the configured transport.
func NewProvider(cfg *ProviderConfig) (Provider, error) {
	switch cfg.Type {
	case ProviderTwilio:
		if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioWhatsAppFrom == "" {
			return nil, fmt.Errorf("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_WHATSAPP_FROM are required")
		}
		return NewTwilioProvider(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppFrom), nil

	case ProviderMeta:
		if cfg.MetaPhoneID == "" || cfg.MetaAccessToken == "" {
			return nil, fmt.Errorf("META_PHONE_NUMBER_ID and META_ACCESS_TOKEN are required")
		}
		return NewMetaProvider(cfg.MetaPhoneID, cfg.MetaAccessToken, cfg.MetaAPIVersion), nil

	default:
		return nil, fmt.Errorf("unknown whatsapp provider type: %s", cfg.Type)
	}
}

// LoadProviderFromEnv reads transport selection from environment variables.
func LoadProviderFromEnv() *ProviderConfig {
	providerType := os.Getenv("WHATSAPP_PROVIDER")
	if providerType == "" {
		providerType = "twilio" // default
	}

	return &ProviderConfig{
		Type: ProviderType(providerType),

		TwilioAccountSID:   os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioWhatsAppFrom: os.Getenv("TWILIO_WHATSAPP_FROM"),

		MetaPhoneID:     os.Getenv("META_PHONE_NUMBER_ID"),
		MetaAccessToken: os.Getenv("META_ACCESS_TOKEN"),
		MetaAPIVersion:  os.Getenv("META_API_VERSION"),
	}
}

// cleanPhoneNumber strips transport prefixes like "whatsapp:" so numbers
// compare equal across providers.
func cleanPhoneNumber(phone string) string {
	return strings.TrimPrefix(phone, "whatsapp:")
}
