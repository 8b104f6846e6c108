package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/fastygo/roast/api/transport"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName     string
	Environment string
	HTTP        HTTPConfig
	Context     ContextConfig
	Logger      LoggerConfig
	Envelope    EnvelopeConfig
}

type HTTPConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

// EnvelopeConfig holds the serializer settings applied to every response.
type EnvelopeConfig struct {
	PrettyPrint    bool
	EscapeHTML     bool
	SubstituteUTF8 bool
	YAMLIndent     int
}

// JSONFlags converts the envelope settings into encoder flags.
func (c EnvelopeConfig) JSONFlags() transport.Flags {
	var flags transport.Flags
	if c.PrettyPrint {
		flags |= transport.FlagPrettyPrint
	}
	if c.EscapeHTML {
		flags |= transport.FlagEscapeHTML
	}
	if c.SubstituteUTF8 {
		flags |= transport.FlagInvalidUTF8Substitute
	}
	return flags
}

// Load reads configuration from environment variables (optionally .env)
// and applies sane defaults so the service can boot in any environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "roast"),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:         getString("SERVER_HOST", "0.0.0.0"),
			Port:         getString("SERVER_PORT", "8080"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 5*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
		Envelope: EnvelopeConfig{
			PrettyPrint:    getBool("ENVELOPE_JSON_PRETTY", false),
			EscapeHTML:     getBool("ENVELOPE_JSON_ESCAPE_HTML", false),
			SubstituteUTF8: getBool("ENVELOPE_JSON_SUBSTITUTE_UTF8", false),
			YAMLIndent:     getInt("ENVELOPE_YAML_INDENT", transport.DefaultYAMLIndent),
		},
	}

	if _, err := transport.NewYAMLSerializer(cfg.Envelope.YAMLIndent); err != nil {
		return nil, fmt.Errorf("ENVELOPE_YAML_INDENT: %w", err)
	}

	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
