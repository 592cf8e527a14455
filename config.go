package main

import "os"

type Config struct {
	DatabaseURL  string
	JWTSecret    string
	CookieName   string
	CookieSecure bool
	CORSOrigin   string
	Port         string
	UploadDir    string
	PublicURL    string

	// DevHeaderAuth accepts the X-PML-User header as an identity when no
	// cookie is present. Local development only; never enable in prod.
	DevHeaderAuth bool
}

func loadConfig() Config {
	return Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		CookieName:   getenv("COOKIE_NAME", "pml_auth"),
		CookieSecure: os.Getenv("COOKIE_SECURE") == "true",
		CORSOrigin:   getenv("CORS_ORIGIN", "http://localhost:5173"),
		Port:         getenv("PORT", "8080"),
		UploadDir:    getenv("UPLOAD_DIR", "uploads"),
		PublicURL:    getenv("PUBLIC_URL", "http://localhost:8080"),

		DevHeaderAuth: os.Getenv("DEV_HEADER_AUTH") == "true",
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
