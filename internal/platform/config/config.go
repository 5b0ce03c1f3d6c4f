package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration. FromEnv keeps main lean.
type Server struct {
	Addr          string
	JWTSigningKey string

	// CredentialsPath points at a JSON file holding the organization
	// credential table. Empty means the built-in development fixture.
	CredentialsPath string

	// DefaultMunicipalities backs the reporting form when the registry has
	// no registrations yet.
	DefaultMunicipalities []string

	// StoreBackend selects the subscription store: memory, redis, postgres.
	StoreBackend string
	PostgresURL  string
	Redis        RedisConfig

	// SenderBackend selects the notification sender: log or smtp.
	SenderBackend string
	SMTP          SMTPConfig

	// KafkaBrokers enables the Kafka audit sink when non-empty.
	KafkaBrokers    []string
	KafkaAuditTopic string
}

// RedisConfig holds connection tuning for the optional Redis store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// SMTPConfig holds settings for the SMTP notification sender.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// santurbanMunicipalities is the fallback choice list for the reporting
// surface; the watershed this deployment covers.
var santurbanMunicipalities = []string{
	"Tona", "Vetas", "Suratá", "California", "Matanza", "Charta",
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("AQUALERT_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - must be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	municipalities := splitList(os.Getenv("AQUALERT_MUNICIPALITIES"))
	if len(municipalities) == 0 {
		municipalities = santurbanMunicipalities
	}

	store := os.Getenv("AQUALERT_STORE")
	if store == "" {
		store = "memory"
	}

	sender := os.Getenv("AQUALERT_SENDER")
	if sender == "" {
		sender = "log"
	}

	topic := os.Getenv("KAFKA_AUDIT_TOPIC")
	if topic == "" {
		topic = "aqualert.audit"
	}

	return Server{
		Addr:                  addr,
		JWTSigningKey:         jwtSigningKey,
		CredentialsPath:       os.Getenv("AQUALERT_CREDENTIALS"),
		DefaultMunicipalities: municipalities,
		StoreBackend:          store,
		PostgresURL:           os.Getenv("POSTGRES_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		SenderBackend: sender,
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     envOr("SMTP_PORT", "587"),
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
			From:     os.Getenv("SMTP_FROM"),
		},
		KafkaBrokers:    splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaAuditTopic: topic,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
