package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port        string
	DBDriver    string // "postgres" or "mysql"
	DatabaseURL string

	JWTSecret string
	TokenTTL  time.Duration

	CORSOrigins Origins

	UploadsDir     string
	MaxResumeBytes int64
	PDFLicenseKey  string // unipdf metered key; without it resume text is not extracted

	// Optional integrations; empty disables them.
	GeminiAPIKey string
	GeminiModel  string
	RabbitMQURL  string

	LoginRatePerMin int

	LogLevel  string
	LogFormat string
}

// Load reads .env (if present) and the process environment.
// A missing .env is not an error; the environment may be set by the host.
func Load() (Config, error) {
	err := godotenv.Load()
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		logrus.Debug(".env not found, using process environment")
	default:
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	var errs []string

	ttl, err := time.ParseDuration(getenv("TOKEN_TTL", "24h"))
	if err != nil {
		errs = append(errs, "TOKEN_TTL: "+err.Error())
	}
	maxResume, err := strconv.ParseInt(getenv("MAX_RESUME_BYTES", strconv.Itoa(10<<20)), 10, 64)
	if err != nil {
		errs = append(errs, "MAX_RESUME_BYTES: "+err.Error())
	}
	loginRate, err := strconv.Atoi(getenv("LOGIN_RATE_PER_MIN", "10"))
	if err != nil {
		errs = append(errs, "LOGIN_RATE_PER_MIN: "+err.Error())
	}

	cfg := Config{
		Port:            getenv("PORT", "8080"),
		DBDriver:        strings.ToLower(getenv("DB_DRIVER", "postgres")),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		TokenTTL:        ttl,
		CORSOrigins:     splitList(getenv("CORS_ORIGINS", "*")),
		UploadsDir:      getenv("UPLOADS_DIR", "./uploads"),
		MaxResumeBytes:  maxResume,
		PDFLicenseKey:   os.Getenv("UNIDOC_LICENSE_API_KEY"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     getenv("GEMINI_MODEL", "gemini-2.5-flash"),
		RabbitMQURL:     os.Getenv("RABBITMQ_URL"),
		LoginRatePerMin: loginRate,
		LogLevel:        getenv("LOG_LEVEL", "info"),
		LogFormat:       getenv("LOG_FORMAT", "text"),
	}
	if len(errs) > 0 {
		return cfg, errors.New("config: " + strings.Join(errs, "; "))
	}
	return cfg, cfg.Validate()
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []string
	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}
	if c.DBDriver != "postgres" && c.DBDriver != "mysql" {
		errs = append(errs, fmt.Sprintf("DB_DRIVER must be postgres or mysql, got %q", c.DBDriver))
	}
	if c.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, "TOKEN_TTL must be > 0")
	}
	if c.MaxResumeBytes <= 0 {
		errs = append(errs, "MAX_RESUME_BYTES must be > 0")
	}
	if c.LoginRatePerMin <= 0 {
		errs = append(errs, "LOGIN_RATE_PER_MIN must be > 0")
	}
	if p, err := strconv.Atoi(c.Port); err != nil || p <= 0 || p > 65535 {
		errs = append(errs, "PORT must be 1..65535")
	}
	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}

// Origins lists the browser origins allowed to call the API.
type Origins []string

// AllowAll reports whether every origin is allowed: no list, or just "*".
func (o Origins) AllowAll() bool {
	return len(o) == 0 || (len(o) == 1 && o[0] == "*")
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Client is the tracker CLI configuration.
type Client struct {
	APIURL   string
	LogLevel string
}

// LoadClient reads .env (if present) and GRRT_* variables. Flags override
// the result in the CLI.
func LoadClient() Client {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Warn("ignoring unreadable .env")
	}
	return Client{
		APIURL:   strings.TrimRight(getenv("GRRT_API_URL", "http://localhost:8080/api/v1"), "/"),
		LogLevel: getenv("GRRT_LOG_LEVEL", "warn"),
	}
}
