package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL     string
	Port            string
	Env             string
	AppURL          string
	DefaultTenantID string

	// LLM
	LLMProvider string
	LLMModel    string
	OpenAIKey   string
	GeminiKey   string
	GroqKey     string

	// WhatsApp transport
	WhatsAppProvider    string
	WhatsAppVerifyToken string
	TwilioAccountSID    string
	TwilioAuthToken     string
	TwilioWhatsAppFrom  string
	MetaPhoneID         string
	MetaAccessToken     string
	MetaAPIVersion      string

	// Payments
	PaymentMode             string
	MercadoPagoClientID     string
	MercadoPagoClientSecret string
	MercadoPagoRedirectURI  string

	// Redis (inbound message dedup)
	RedisURL string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment variables")
	}

	cfg := &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		Port:            os.Getenv("PORT"),
		Env:             os.Getenv("ENV"),
		AppURL:          os.Getenv("APP_URL"),
		DefaultTenantID: os.Getenv("DEFAULT_TENANT_ID"),

		LLMProvider: os.Getenv("LLM_PROVIDER"),
		LLMModel:    os.Getenv("LLM_MODEL"),
		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		GeminiKey:   os.Getenv("GEMINI_API_KEY"),
		GroqKey:     os.Getenv("GROQ_API_KEY"),

		WhatsAppProvider:    os.Getenv("WHATSAPP_PROVIDER"),
		WhatsAppVerifyToken: os.Getenv("WHATSAPP_VERIFY_TOKEN"),
		TwilioAccountSID:    os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:     os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioWhatsAppFrom:  os.Getenv("TWILIO_WHATSAPP_FROM"),
		MetaPhoneID:         os.Getenv("META_PHONE_NUMBER_ID"),
		MetaAccessToken:     os.Getenv("META_ACCESS_TOKEN"),
		MetaAPIVersion:      os.Getenv("META_API_VERSION"),

		PaymentMode:             os.Getenv("PAYMENT_MODE"),
		MercadoPagoClientID:     os.Getenv("MERCADOPAGO_CLIENT_ID"),
		MercadoPagoClientSecret: os.Getenv("MERCADOPAGO_CLIENT_SECRET"),
		MercadoPagoRedirectURI:  os.Getenv("MERCADOPAGO_REDIRECT_URI"),

		RedisURL: os.Getenv("REDIS_URL"),
	}

	// Default values
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.AppURL == "" {
		cfg.AppURL = "http://localhost:" + cfg.Port
	}
	if cfg.WhatsAppProvider == "" {
		cfg.WhatsAppProvider = "twilio"
	}
	if cfg.MetaAPIVersion == "" {
		cfg.MetaAPIVersion = "v18.0"
	}
	if cfg.PaymentMode == "" {
		cfg.PaymentMode = "mercadopago"
	}

	return cfg
}
