package cmd

import (
	"net"
	"net/url"
	"time"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr      string
	StatusCacheTTL time.Duration

	KafkaBrokers            []string
	KafkaNotificationsTopic string
	RelayBatchSize          int

	OtelEndpoint   string
	OtelAuthHeader string
	LogLevel       string

	// CascadePolicy is "mirror" or "strict".
	CascadePolicy string
}

// DSN builds the PostgreSQL connection string.
func (c Config) DSN() string {
	sslMode := c.DBSslMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return u.String()
}
