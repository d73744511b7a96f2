package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"sjsage522/avitoworker/internal/search"
	errs "sjsage522/avitoworker/pkg/errors"
)

// Config contains the application configuration
type Config struct {
	// Redis publisher settings
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache settings
	MemcacheAddr string

	// Scrape target settings
	SearchURL  string
	BaseURL    string
	BlockedURL string
	PageDelay  time.Duration
	BlockTime  time.Duration
	CacheKey   string

	// Search settings shared by every query
	Queries    []string
	Sort       string
	Owner      string
	TitleOnly  bool
	WithImages bool

	// Worker settings
	MaxAdsPerQuery int
	CrawlInterval  time.Duration

	// Environment (development, production)
	Environment string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() Config {
	return Config{
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              getEnvInt("REDIS_DB", 0),
		RedisStream:          getEnv("REDIS_STREAM", "streamAds"),
		RedisStreamCount:     getEnvInt("REDIS_STREAM_COUNT", 1),
		RedisStreamMaxLength: getEnvInt("REDIS_STREAM_MAX_LENGTH", 500),

		MemcacheAddr: getEnv("MEMCACHE_ADDR", "localhost:11211"),

		SearchURL:  getEnv("AVITO_SEARCH_URL", "https://www.avito.ru/moskva"),
		BaseURL:    getEnv("AVITO_BASE_URL", "https://www.avito.ru"),
		BlockedURL: getEnv("AVITO_BLOCKED_URL", "https://www.avito.ru/blocked"),
		PageDelay:  getEnvSeconds("AVITO_PAGE_DELAY_SECONDS", 2),
		BlockTime:  getEnvSeconds("AVITO_BLOCK_SECONDS", 300),
		CacheKey:   getEnv("AVITO_CACHE_KEY", "avito_blocked"),

		Queries:    getEnvSlice("AVITO_QUERIES"),
		Sort:       getEnv("AVITO_SORT", "date"),
		Owner:      getEnv("AVITO_OWNER", "any"),
		TitleOnly:  getEnvBool("AVITO_TITLE_ONLY", false),
		WithImages: getEnvBool("AVITO_WITH_IMAGES", false),

		MaxAdsPerQuery: getEnvInt("AVITO_MAX_ADS_PER_QUERY", 100),
		CrawlInterval:  getEnvSeconds("CRAWL_INTERVAL_SECONDS", 300),

		Environment: getEnv("AVITO_ENVIRONMENT", "development"),
	}
}

// Validate checks that the configuration is usable
func (c Config) Validate() error {
	if len(c.Queries) == 0 {
		return errs.NewConfiguration("AVITO_QUERIES must contain at least one query", nil)
	}
	if c.RedisStreamCount <= 0 {
		return errs.NewConfiguration(fmt.Sprintf("REDIS_STREAM_COUNT must be positive, got %d", c.RedisStreamCount), nil)
	}
	if c.RedisStreamMaxLength <= 0 {
		return errs.NewConfiguration(fmt.Sprintf("REDIS_STREAM_MAX_LENGTH must be positive, got %d", c.RedisStreamMaxLength), nil)
	}
	if c.MaxAdsPerQuery <= 0 {
		return errs.NewConfiguration(fmt.Sprintf("AVITO_MAX_ADS_PER_QUERY must be positive, got %d", c.MaxAdsPerQuery), nil)
	}
	if _, err := c.Requests(); err != nil {
		return err
	}
	return nil
}

// Requests builds one search request per configured query
func (c Config) Requests() ([]search.Request, error) {
	requests := make([]search.Request, 0, len(c.Queries))
	for _, query := range c.Queries {
		req := search.Request{
			Query:      query,
			Sort:       search.Sort(c.Sort),
			Owner:      search.Owner(c.Owner),
			TitleOnly:  c.TitleOnly,
			WithImages: c.WithImages,
		}
		if err := req.Validate(); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an environment variable as an integer or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

// getEnvBool gets an environment variable as a boolean or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolValue
}

// getEnvSeconds gets an environment variable as a number of seconds or returns
// a default value. Fractions are allowed, e.g. "0.5".
func getEnvSeconds(key string, defaultValue float64) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return time.Duration(defaultValue * float64(time.Second))
	}

	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return time.Duration(defaultValue * float64(time.Second))
	}
	return time.Duration(floatValue * float64(time.Second))
}

// getEnvSlice gets an environment variable as a comma separated list.
// Empty entries are dropped.
func getEnvSlice(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
