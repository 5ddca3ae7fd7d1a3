package config

import (
	"log"
	"sync"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env  string `envconfig:"ENV" default:"development"`
	Port int    `envconfig:"PORT" default:"8080"`

	MySQLHost     string `envconfig:"MYSQL_HOST" required:"true"`
	MySQLPort     string `envconfig:"MYSQL_PORT" default:"3306"`
	MySQLUser     string `envconfig:"MYSQL_USER" required:"true"`
	MySQLPassword string `envconfig:"MYSQL_PASSWORD" required:"true"`
	MySQLDatabase string `envconfig:"MYSQL_DATABASE" required:"true"`

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     string `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	KafkaBrokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"groovia-room-events"`

	SpotifyClientID     string `envconfig:"SPOTIFY_CLIENT_ID" default:""`
	SpotifyClientSecret string `envconfig:"SPOTIFY_CLIENT_SECRET" default:""`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	// MaxWorkers sizes the pool used for asynchronous event publishing.
	MaxWorkers int `envconfig:"MAX_WORKERS" default:"16"`
}

var (
	c    Config
	once sync.Once
)

// Get parses the environment once and returns the process configuration.
func Get() *Config {
	once.Do(func() {
		if err := envconfig.Process("", &c); err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	})
	return &c
}
