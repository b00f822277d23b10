package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"eventhub/db"
	"eventhub/middlewares"
	"eventhub/models"
	"eventhub/routes"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// Best effort; real deployments set the environment directly.
	_ = godotenv.Load()

	mongoURI := envOr("MONGO_URI", "mongodb://127.0.0.1:27017")
	mongoDB := envOr("MONGO_DB", "eventhub")
	redisAddr := envOr("REDIS_ADDR", "127.0.0.1:6379")
	addr := envOr("ADDR", ":8080")

	client, err := db.Connect(mongoURI)
	if err != nil {
		log.Fatal("mongo connect error:", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	database := client.Database(mongoDB)
	if err := db.EnsureIndexes(database); err != nil {
		log.Fatal("mongo index error:", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})

	server := gin.Default()
	server.Use(middlewares.RequestID)

	routes.RegisterRoutes(server,
		models.NewMongoUserRepository(database.Collection("users")),
		models.NewMongoEventRepository(database.Collection("events")),
		rdb)

	if err := server.Run(addr); err != nil {
		log.Fatal("gin.Run error:", err)
	}
}
