package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port int

	RazorpayKeyID     string
	RazorpayKeySecret string

	FirebaseProjectID   string
	FirebaseClientEmail string
	FirebasePrivateKey  string

	RedisAddr      string
	IdempotencyTTL time.Duration

	OTLPEndpoint string
	LogLevel     string
}

// Load reads the process environment once at startup. Required gateway
// and store credentials missing is a startup error, not a runtime one.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", 5000)
	v.SetDefault("IDEMPOTENCY_TTL", "24h")
	v.SetDefault("LOG_LEVEL", "info")

	for _, key := range []string{
		"RAZORPAY_KEY_ID", "RAZORPAY_KEY_SECRET",
		"FIREBASE_PROJECT_ID", "FIREBASE_CLIENT_EMAIL", "FIREBASE_PRIVATE_KEY",
		"REDIS_ADDR", "OTEL_EXPORTER_OTLP_ENDPOINT",
	} {
		_ = v.BindEnv(key)
	}

	cfg := Config{
		Port:                v.GetInt("PORT"),
		RazorpayKeyID:       v.GetString("RAZORPAY_KEY_ID"),
		RazorpayKeySecret:   v.GetString("RAZORPAY_KEY_SECRET"),
		FirebaseProjectID:   v.GetString("FIREBASE_PROJECT_ID"),
		FirebaseClientEmail: v.GetString("FIREBASE_CLIENT_EMAIL"),
		FirebasePrivateKey:  unescapeNewlines(v.GetString("FIREBASE_PRIVATE_KEY")),
		RedisAddr:           v.GetString("REDIS_ADDR"),
		IdempotencyTTL:      v.GetDuration("IDEMPOTENCY_TTL"),
		OTLPEndpoint:        v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		LogLevel:            v.GetString("LOG_LEVEL"),
	}

	var missing []string
	if cfg.RazorpayKeyID == "" {
		missing = append(missing, "RAZORPAY_KEY_ID")
	}
	if cfg.RazorpayKeySecret == "" {
		missing = append(missing, "RAZORPAY_KEY_SECRET")
	}
	if cfg.FirebaseProjectID == "" {
		missing = append(missing, "FIREBASE_PROJECT_ID")
	}
	if cfg.FirebaseClientEmail == "" {
		missing = append(missing, "FIREBASE_CLIENT_EMAIL")
	}
	if cfg.FirebasePrivateKey == "" {
		missing = append(missing, "FIREBASE_PRIVATE_KEY")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required env: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// ServiceAccountJSON assembles the credential document the Firestore
// client expects from the three FIREBASE_* variables.
func (c Config) ServiceAccountJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"type":         "service_account",
		"project_id":   c.FirebaseProjectID,
		"client_email": c.FirebaseClientEmail,
		"private_key":  c.FirebasePrivateKey,
		"token_uri":    "https://oauth2.googleapis.com/token",
	})
}

// Env files and secret managers commonly store the PEM key with literal
// "\n" sequences; the Firestore client needs real newlines.
func unescapeNewlines(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}
