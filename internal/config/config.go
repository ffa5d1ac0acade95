package config

import (
	"fmt"
	"os"
	"strings"
)

// TelegramConfig returns the bot token and the optional chat id the bot is
// restricted to. An empty allowed chat id means the bot is public.
func TelegramConfig() (string, string) {
	token := GetEnv("BOT_TOKEN", "")
	allowedChat := GetEnv("ALLOWED_CHAT_ID", "")
	return token, allowedChat
}

// TMDBConfig returns api key and watch-provider region.
func TMDBConfig() (string, string) {
	apiKey := GetEnv("TMDB_API_KEY", "")
	region := GetEnv("TMDB_REGION", "US")
	return apiKey, region
}

// NotionConfig returns integration token and database id.
func NotionConfig() (string, string) {
	token := GetEnv("NOTION_TOKEN", "")
	databaseID := GetEnv("NOTION_DB_ID", "")
	return token, databaseID
}

// DatabaseConfig returns host, port, user, password, database name.
func DatabaseConfig() (string, string, string, string, string) {
	host := GetEnv("DB_HOST", "postgres")
	port := GetEnv("DB_PORT", "5432")
	user := GetEnv("DB_USER", "")
	password := GetEnv("DB_PASS", "")
	databaseName := GetEnv("DB_NAME", "")
	return host, port, user, password, databaseName
}

// RedisConfig returns host, port, password
func RedisConfig() (string, string, string) {
	host := GetEnv("R_HOST", "redis")
	port := GetEnv("R_PORT", "6379")
	password := GetEnv("R_PASS", "")
	return host, port, password
}

// Validate checks that every credential the bot cannot run without is set.
// Called once at startup; a failure here is fatal and never retried.
func Validate() error {
	var missing []string
	for _, key := range []string{"BOT_TOKEN", "TMDB_API_KEY", "NOTION_TOKEN", "NOTION_DB_ID"} {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// GetEnv retrieves values from environment files based on the key it matches,
// returns a string (value) if not empty
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
