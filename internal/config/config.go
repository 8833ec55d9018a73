package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI       string
	DBName         string
	Port           string
	Environment    string
	BcryptRounds   int
	JWTSecret      string
	AllowedOrigins []string
}

func Load() (*Config, error) {
	// Load .env file if it exists (useful for local dev)
	_ = godotenv.Load()

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI must be set")
	}

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "InventoryDB"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	rounds := 10
	if v := os.Getenv("BCRYPT_ROUNDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid BCRYPT_ROUNDS %q: %w", v, err)
		}
		rounds = n
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-change-me"
	}

	origins := []string{"*"}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		origins = strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
	}

	return &Config{
		MongoURI:       mongoURI,
		DBName:         dbName,
		Port:           port,
		Environment:    env,
		BcryptRounds:   rounds,
		JWTSecret:      secret,
		AllowedOrigins: origins,
	}, nil
}
