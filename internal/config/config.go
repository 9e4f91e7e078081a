package config

import "os"

type Config struct {
	Port           string
	Env            string
	StorageBackend string
	SQLitePath     string
	RedisURL       string
	MySQLDSN       string
}

func Load() Config {
	return Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("APP_ENV", "development"),
		StorageBackend: getEnv("STORAGE_BACKEND", "sqlite"),
		SQLitePath:     getEnv("SQLITE_PATH", "event-sales.db"),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379"),
		MySQLDSN:       getEnv("MYSQL_DSN", "root:root@tcp(localhost:3306)/eventsales?parseTime=true"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
