package config

import "os"

// Config holds process-wide configuration, established once at startup and
// read-only thereafter.
type Config struct {
	Addr      string
	DBPath    string
	JWTSecret string // empty means generate and persist one in the database
	AdminMail string
	AdminPass string

	// Frontend server settings.
	WebAddr string
	APIURL  string
}

// Load reads configuration from environment variables, falling back to
// defaults where sensible. Admin credentials have no default: if either is
// unset, admin login fails closed.
func Load() *Config {
	return &Config{
		Addr:      getEnv("ADDR", ":8080"),
		DBPath:    getEnv("DB_PATH", "lostfound.sqlite3"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		AdminMail: os.Getenv("ADMIN_MAIL"),
		AdminPass: os.Getenv("ADMIN_PASS"),
		WebAddr:   getEnv("WEB_ADDR", ":3000"),
		APIURL:    getEnv("API_URL", "http://localhost:8080"),
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
