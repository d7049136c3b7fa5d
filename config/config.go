package config

import (
	"context"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Config carries the process settings, all read from the environment.
type Config struct {
	MongoURI   string
	Database   string
	SecretKey  string
	TokenTTL   time.Duration
	Port       string
	CORSOrigin string
}

// Load reads settings from the environment, falling back to local-development
// defaults.
func Load() Config {
	cfg := Config{
		MongoURI:   getenv("MONGO_URI", "mongodb://localhost:27017"),
		Database:   getenv("MONGO_DB", "library"),
		SecretKey:  getenv("SECRET_KEY", "dev-secret-change-me"),
		TokenTTL:   24 * time.Hour,
		Port:       getenv("PORT", "3000"),
		CORSOrigin: getenv("CORS_ORIGIN", "http://localhost:5173"),
	}

	if os.Getenv("RUNNING_IN_DOCKER") == "true" && os.Getenv("MONGO_URI") == "" {
		cfg.MongoURI = "mongodb://host.docker.internal:27017"
	}

	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			cfg.TokenTTL = d
		}
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ConnectDatabase opens the MongoDB client and verifies the connection with
// a bounded ping before handing back the database handle.
func ConnectDatabase(ctx context.Context, cfg Config) (*mongo.Database, error) {
	clientOptions := options.Client().ApplyURI(cfg.MongoURI)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, err
	}

	return client.Database(cfg.Database), nil
}

// EnsureIndexes creates the unique indexes backing the business keys:
// books.isbn and users.username.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	_, err := db.Collection("books").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "isbn", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: unique,
	})
	return err
}
