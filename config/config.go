package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort    string
	DatabaseURL   string
	BaseURL       string
	StorageDir    string
	KafkaBroker   string
	KafkaTopic    string
	KafkaUsername string
	KafkaPassword string
	CloudinaryURL string
}

func LoadConfig() Config {
	if os.Getenv("ENV") != "prod" {
		if err := godotenv.Overload(); err != nil {
			log.Println("Warning: env file not found or could not be loaded:", err)
		}
	}

	cfg := Config{
		ServerPort:    os.Getenv("SERVER_PORT"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		BaseURL:       os.Getenv("BASE_URL"),
		StorageDir:    os.Getenv("STORAGE_DIR"),
		KafkaBroker:   os.Getenv("KAFKA_BROKER"),
		KafkaTopic:    os.Getenv("KAFKA_TOPIC"),
		KafkaUsername: os.Getenv("KAFKA_USERNAME"),
		KafkaPassword: os.Getenv("KAFKA_PASSWORD"),
		CloudinaryURL: os.Getenv("CLOUDINARY_URL"),
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "3000"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:" + cfg.ServerPort
	}
	if cfg.StorageDir == "" {
		cfg.StorageDir = "static"
	}
	return cfg
}
