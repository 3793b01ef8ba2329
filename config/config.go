package config

import "os"

type Config struct {
	Addr      string
	DBDriver  string // "mysql" or "sqlite3"
	DSN       string
	JWTSecret string
}

func Load() Config {
	return Config{
		Addr:      getenv("ADDR", ":3002"),
		DBDriver:  getenv("DB_DRIVER", "mysql"),
		DSN:       getenv("DSN", ""),
		JWTSecret: os.Getenv("JWT_SECRET"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
