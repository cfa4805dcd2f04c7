package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
}

// Enabled reports whether enough R2 settings are present to archive pages.
func (r R2) Enabled() bool {
	return r.AccountID != "" && r.AccessKey != "" && r.SecretKey != "" && r.BucketName != ""
}

type LinkedIn struct {
	ClientID        string
	ClientSecret    string
	RedirectURI     string
	OrganizationURN string
	APIVersion      string
	PageSize        int
	AuthURL         string
	TokenURL        string
	APIURL          string
}

type Postgres struct {
	URI                    string
	Host                   string
	Port                   string
	User                   string
	Password               string
	DatabaseName           string
	Encrypt                bool
	TrustServerCertificate bool
	MaxConns               int
}

type Sync struct {
	Schedule        string
	ExchangeTimeout time.Duration
	FetchTimeout    time.Duration
	UpsertTimeout   time.Duration
}

type Config struct {
	Port      string
	LinkedIn  LinkedIn
	Postgres  Postgres
	RedisURI  string
	R2        R2
	Sync      Sync
	SecretKey string
	APIKey    string
}

func LoadConfig() *Config {
	return &Config{
		Port: getEnv("PORT", "3000"),
		LinkedIn: LinkedIn{
			ClientID:        getEnv("LINKEDIN_CLIENT_ID", ""),
			ClientSecret:    getEnv("LINKEDIN_CLIENT_SECRET", ""),
			RedirectURI:     getEnv("LINKEDIN_REDIRECT_URI", "http://localhost:3000/callback"),
			OrganizationURN: getEnv("LINKEDIN_ORGANIZATION_URN", "urn:li:organization:30474"),
			APIVersion:      getEnv("LINKEDIN_API_VERSION", "202507"),
			PageSize:        getEnvInt("LINKEDIN_PAGE_SIZE", 10),
			AuthURL:         getEnv("LINKEDIN_AUTH_URL", "https://www.linkedin.com/oauth/v2/authorization"),
			TokenURL:        getEnv("LINKEDIN_TOKEN_URL", "https://www.linkedin.com/oauth/v2/accessToken"),
			APIURL:          getEnv("LINKEDIN_API_URL", "https://api.linkedin.com"),
		},
		Postgres: Postgres{
			URI:                    getEnv("POSTGRES_URI", ""),
			Host:                   getEnv("POSTGRES_HOST", "localhost"),
			Port:                   getEnv("POSTGRES_PORT", "5432"),
			User:                   getEnv("POSTGRES_USER", ""),
			Password:               getEnv("POSTGRES_PASSWORD", ""),
			DatabaseName:           getEnv("DATABASE_NAME", "linkedin_sync"),
			Encrypt:                getEnvBool("POSTGRES_ENCRYPT", true),
			TrustServerCertificate: getEnvBool("POSTGRES_TRUST_SERVER_CERTIFICATE", false),
			MaxConns:               getEnvInt("POSTGRES_MAX_CONNS", 10),
		},
		RedisURI: getEnv("REDIS_URI", "localhost:6379"),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
		},
		Sync: Sync{
			Schedule:        getEnv("SYNC_SCHEDULE", "@every 1h"),
			ExchangeTimeout: getEnvDuration("SYNC_EXCHANGE_TIMEOUT", 15*time.Second),
			FetchTimeout:    getEnvDuration("SYNC_FETCH_TIMEOUT", 30*time.Second),
			UpsertTimeout:   getEnvDuration("SYNC_UPSERT_TIMEOUT", 5*time.Second),
		},
		SecretKey: getEnv("SECRET_KEY", ""),
		APIKey:    getEnv("SYNC_API_KEY", ""),
	}
}

// PostgresDSN returns POSTGRES_URI when set, otherwise a lib/pq URL built from
// the individual settings. Encrypt maps to sslmode: verify-full unless the
// server certificate is trusted as-is (require), disable when off.
func (c *Config) PostgresDSN() string {
	if c.Postgres.URI != "" {
		return c.Postgres.URI
	}

	sslMode := "disable"
	if c.Postgres.Encrypt {
		sslMode = "verify-full"
		if c.Postgres.TrustServerCertificate {
			sslMode = "require"
		}
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Postgres.User, c.Postgres.Password),
		Host:     fmt.Sprintf("%s:%s", c.Postgres.Host, c.Postgres.Port),
		Path:     "/" + c.Postgres.DatabaseName,
		RawQuery: url.Values{"sslmode": []string{sslMode}}.Encode(),
	}
	return u.String()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil && value > 0 {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil && value > 0 {
		return value
	}
	return defaultValue
}
