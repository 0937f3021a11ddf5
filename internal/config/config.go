package config

import (
	"os"
)

// Config holds the application configuration
type Config struct {
	Port          string
	DBPath        string
	JWTSecret     string
	AuthUsername  string
	AuthPassword  string
	MaxUploadSize int64 // maximum accepted flight log upload (bytes)
}

// Load reads configuration from the environment with sensible defaults
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/surveys/surveys.db"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "survey-secret-change-in-production"
	}

	authUsername := os.Getenv("AUTH_USERNAME")
	if authUsername == "" {
		authUsername = "operator"
	}

	authPassword := os.Getenv("AUTH_PASSWORD")
	if authPassword == "" {
		authPassword = "operator"
	}

	return &Config{
		Port:          port,
		DBPath:        dbPath,
		JWTSecret:     jwtSecret,
		AuthUsername:  authUsername,
		AuthPassword:  authPassword,
		MaxUploadSize: 64 << 20, // 64MB per flight log
	}
}
