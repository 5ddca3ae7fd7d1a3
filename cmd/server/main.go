package main

import (
	"fmt"
	"log"

	"github.com/gammazero/workerpool"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/kaushang/Groovia/internal/auth"
	"github.com/kaushang/Groovia/internal/catalog"
	"github.com/kaushang/Groovia/internal/presence"
	"github.com/kaushang/Groovia/internal/relay"
	"github.com/kaushang/Groovia/internal/room"
	"github.com/kaushang/Groovia/internal/ws"
	"github.com/kaushang/Groovia/pkg/config"
	"github.com/kaushang/Groovia/pkg/database"
	"github.com/kaushang/Groovia/pkg/events"
	"github.com/kaushang/Groovia/pkg/redis"
	"github.com/kaushang/Groovia/pkg/token"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := config.Get()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewMySQLDB(cfg.MySQLHost, cfg.MySQLPort, cfg.MySQLUser, cfg.MySQLPassword, cfg.MySQLDatabase)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	redisClient := goredis.NewClient(&goredis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	kafkaClient := events.NewKafkaClient(cfg.KafkaBrokers, cfg.KafkaTopic, "groovia-server")
	defer kafkaClient.Close()

	pool := workerpool.New(cfg.MaxWorkers)
	defer pool.StopWait()

	issuer := token.NewIssuer(cfg.JWTSecret)
	cache := redis.NewCache(redisClient)
	catalogClient := catalog.NewClient(cfg.SpotifyClientID, cfg.SpotifyClientSecret, cache)

	tracker := presence.NewTracker()
	playbackRelay := relay.New()
	hub := ws.NewHub(tracker)

	service := room.NewService(db, cache, kafkaClient, pool, hub)
	service.SetBroadcaster(hub)
	service.SetRoomDeletedHook(playbackRelay.Forget)

	roomHandler := room.NewHandler(service, catalogClient, issuer)
	wsHandler := ws.NewHandler(hub, tracker, playbackRelay, service)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	roomHandler.RegisterPublicRoutes(api)

	protected := api.Group("/")
	protected.Use(auth.Middleware(issuer))
	roomHandler.RegisterProtectedRoutes(protected)

	router.GET("/ws", auth.Middleware(issuer), wsHandler.HandleWebSocket)
	router.GET("/ws/stats", wsHandler.HandleStats)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
