package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/dromic-parser/app/config"
	"github.com/dromic-parser/app/controllers"
	"github.com/dromic-parser/app/services"
	"github.com/dromic-parser/internal/gazetteer"
	"github.com/dromic-parser/internal/resolver"
	"github.com/dromic-parser/routes"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	loadConfig()

	// 2. Initialize logger
	logger := initLogger()
	defer logger.Sync()

	logger.Info("Starting DROMIC Extraction Service")

	// 3. Load the gazetteer. Every downstream stage shares it read-only.
	gazPath := config.C.GazetteerPath
	if gazPath == "" {
		gazPath = viper.GetString("gazetteer.path")
	}
	gaz, err := gazetteer.LoadFile(gazPath, logger)
	if err != nil {
		logger.Fatal("Failed to load gazetteer", zap.Error(err), zap.String("path", gazPath))
	}
	logger.Info("Gazetteer loaded", zap.Int("entries", gaz.Size()))

	// 4. Connect MongoDB for the review store. The store is optional:
	// with no database the service still transforms, it just cannot
	// persist review queue entries.
	mongoDB := initMongoDB(logger)
	if mongoDB != nil {
		defer func() {
			if err := mongoDB.Client().Disconnect(context.Background()); err != nil {
				logger.Error("Error disconnecting MongoDB", zap.Error(err))
			}
		}()
	}

	// 5. Initialize services
	extractionService := services.NewExtractionService(gaz, resolver.Options{
		Threshold: config.C.Matching.FuzzyThreshold,
		CacheSize: getEnvInt("MATCH_CACHE_SIZE", config.C.Matching.CacheSize),
	}, logger)
	reviewService := services.NewReviewService(mongoDB, logger)

	// 6. Initialize controllers
	transformController := controllers.NewTransformController(extractionService, reviewService, logger)

	// 7. Initialize Gin router
	router := gin.New()

	// 8. Set up routes (middleware included)
	routes.SetupAllRoutes(router, transformController)

	// 9. Start server
	port := getEnv("APP_PORT", "8080")
	logger.Info("DROMIC Extraction Service starting", zap.String("port", port))

	if err := router.Run(":" + port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// loadConfig loads configuration from file and env vars.
func loadConfig() {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	// Set defaults
	viper.SetDefault("app.port", "8080")
	viper.SetDefault("app.env", "development")
	viper.SetDefault("gazetteer.path", "data/phl_adminareas.csv")
	viper.SetDefault("mongo.url", "")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Cannot read config file: %v", err)
	}

	if err := config.Load(viper.ConfigFileUsed()); err != nil {
		log.Printf("Warning: Cannot load extraction config: %v", err)
		config.ApplyDefaults()
	}
}

// initLogger initializes the structured logger.
func initLogger() *zap.Logger {
	env := getEnv("APP_ENV", "development")

	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		log.Fatal("Cannot initialize logger:", err)
	}

	return logger
}

// initMongoDB initializes the MongoDB connection. Returns nil when no URL
// is configured or the server is unreachable.
func initMongoDB(logger *zap.Logger) *mongo.Database {
	mongoURL := getEnv("MONGO_URL", viper.GetString("mongo.url"))
	if mongoURL == "" {
		logger.Info("MongoDB not configured, review persistence disabled")
		return nil
	}

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURL))
	if err != nil {
		logger.Warn("Failed to connect to MongoDB, review persistence disabled", zap.Error(err))
		return nil
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx, nil); err != nil {
		logger.Warn("Failed to ping MongoDB, review persistence disabled", zap.Error(err))
		return nil
	}

	db := client.Database("dromic_extraction")
	logger.Info("Connected to MongoDB", zap.String("database", db.Name()))

	return db
}

// getEnv reads an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an environment variable as int with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
