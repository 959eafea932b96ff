package config

import (
	"encoding/json"
	"fmt"
	"strings"

	pkgconfig "github.com/TuanVuuuu/petcare-api/pkg/config"
)

// Config holds all configuration for the petcare API.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"3000"`

	// Firebase service account. The private key arrives with literal \n
	// sequences when set through a .env file; they are unescaped in
	// ServiceAccountJSON.
	FirebaseProjectID     string `env:"FIREBASE_PROJECT_ID,required,notEmpty"`
	FirebasePrivateKeyID  string `env:"FIREBASE_PRIVATE_KEY_ID,required,notEmpty"`
	FirebasePrivateKey    string `env:"FIREBASE_PRIVATE_KEY,required,notEmpty"`
	FirebaseClientEmail   string `env:"FIREBASE_CLIENT_EMAIL,required,notEmpty"`
	FirebaseClientID      string `env:"FIREBASE_CLIENT_ID,required,notEmpty"`
	FirebaseClientCertURL string `env:"FIREBASE_CLIENT_X509_CERT_URL,required,notEmpty"`
	FirebaseUniverse      string `env:"FIREBASE_UNIVERSE_DOMAIN" envDefault:"googleapis.com"`

	// Web API key for the custom-token exchange endpoint.
	FirebaseAPIKey string `env:"FIREBASE_API_KEY,required,notEmpty"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Tracing
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load petcare config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}
	return cfg, nil
}

// serviceAccount mirrors the JSON key file layout the Firebase Admin SDK
// expects.
type serviceAccount struct {
	Type                string `json:"type"`
	ProjectID           string `json:"project_id"`
	PrivateKeyID        string `json:"private_key_id"`
	PrivateKey          string `json:"private_key"`
	ClientEmail         string `json:"client_email"`
	ClientID            string `json:"client_id"`
	AuthURI             string `json:"auth_uri"`
	TokenURI            string `json:"token_uri"`
	AuthProviderCertURL string `json:"auth_provider_x509_cert_url"`
	ClientCertURL       string `json:"client_x509_cert_url"`
	UniverseDomain      string `json:"universe_domain"`
}

// ServiceAccountJSON assembles a service account key file from the
// individual environment variables, so no key file has to exist on disk.
func (c *Config) ServiceAccountJSON() ([]byte, error) {
	sa := serviceAccount{
		Type:                "service_account",
		ProjectID:           c.FirebaseProjectID,
		PrivateKeyID:        c.FirebasePrivateKeyID,
		PrivateKey:          strings.ReplaceAll(c.FirebasePrivateKey, `\n`, "\n"),
		ClientEmail:         c.FirebaseClientEmail,
		ClientID:            c.FirebaseClientID,
		AuthURI:             "https://accounts.google.com/o/oauth2/auth",
		TokenURI:            "https://oauth2.googleapis.com/token",
		AuthProviderCertURL: "https://www.googleapis.com/oauth2/v1/certs",
		ClientCertURL:       c.FirebaseClientCertURL,
		UniverseDomain:      c.FirebaseUniverse,
	}

	out, err := json.Marshal(sa)
	if err != nil {
		return nil, fmt.Errorf("marshal service account: %w", err)
	}
	return out, nil
}
