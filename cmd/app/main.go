package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/BloggingApp/blog-service/internal/config"
	"github.com/BloggingApp/blog-service/internal/handler"
	"github.com/BloggingApp/blog-service/internal/rabbitmq"
	"github.com/BloggingApp/blog-service/internal/repository"
	"github.com/BloggingApp/blog-service/internal/repository/memory"
	"github.com/BloggingApp/blog-service/internal/repository/mongodb"
	"github.com/BloggingApp/blog-service/internal/repository/postgres"
	"github.com/BloggingApp/blog-service/internal/repository/redisrepo"
	"github.com/BloggingApp/blog-service/internal/repository/store"
	"github.com/BloggingApp/blog-service/internal/search"
	"github.com/BloggingApp/blog-service/internal/server"
	"github.com/BloggingApp/blog-service/internal/service"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	envErr := loadEnv()

	if err := initConfig(); err != nil {
		panic("failed to initialize yaml config: " + err.Error())
	}

	logger := newLogger()
	defer logger.Sync()

	if envErr != nil {
		logger.Sugar().Infof("no .env file loaded: %s", envErr.Error())
	}

	st, err := openStore(ctx, logger)
	if err != nil {
		logger.Sugar().Panicf("failed to open %s store: %s", viper.GetString("database.driver"), err.Error())
	}

	repos := repository.New(st, openCache(ctx, logger))

	var broker service.Broker
	if url := os.Getenv("RABBITMQ_CONN_STRING"); url != "" {
		mq, err := rabbitmq.New(url)
		if err != nil {
			logger.Sugar().Panicf("failed to connect to rabbitmq: %s", err.Error())
		}
		defer mq.Close()
		broker = mq
		logger.Info("Successfully connected to RabbitMQ")
	}

	var searcher service.Searcher
	if addr := os.Getenv("ELASTICSEARCH_ADDR"); addr != "" && broker != nil {
		es, err := search.New(config.SearchConfig{
			Addresses: strings.Split(addr, ","),
			Index:     viper.GetString("search.index"),
		})
		if err != nil {
			logger.Sugar().Panicf("failed to create elasticsearch client: %s", err.Error())
		}
		if err := es.EnsureIndex(ctx); err != nil {
			logger.Sugar().Panicf("failed to ensure elasticsearch index: %s", err.Error())
		}
		searcher = es
		logger.Info("Successfully connected to Elasticsearch")
	}

	media := service.NewMediaClient(logger, config.MediaConfig{
		Origin:  viper.GetString("cdn.origin"),
		APIKey:  os.Getenv("CDN_API_KEY"),
		Folder:  viper.GetString("cdn.folder"),
		Timeout: viper.GetDuration("cdn.timeout"),
	})

	services := service.New(logger, repos, broker, media, searcher, config.ServiceConfig{
		Auth: config.AuthConfig{
			Secret:   []byte(os.Getenv("JWT_SECRET")),
			TokenTTL: viper.GetDuration("auth.token_ttl"),
		},
		CacheTTL: viper.GetDuration("cache.ttl"),
		MaxLimit: viper.GetInt("pagination.max_limit"),
	})

	handlers := handler.New(services, logger, config.HandlerConfig{
		ClientOrigin: viper.GetString("client.origin"),
		CookieName:   viper.GetString("auth.cookie_name"),
		CookieMaxAge: viper.GetDuration("auth.token_ttl"),
		SecureCookie: viper.GetString("app.env") == "production",
		MaxUpload:    viper.GetInt64("app.max_upload"),
	})

	srv := server.New()
	serverConfig := config.ServerConfig{
		Port:           viper.GetString("app.port"),
		Handler:        handlers.InitRoutes(),
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    time.Second * 10,
		WriteTimeout:   time.Second * 10,
	}
	go func(srv *server.Server, cfg config.ServerConfig) {
		if err := srv.Run(cfg); err != nil {
			logger.Sugar().Panicf("failed to run http server: %s", err.Error())
		}
	}(srv, serverConfig)

	go services.StartConsumeAll(ctx)

	logger.Info("Server started", zap.String("port", serverConfig.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Server shutting down")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("failed to shut down http server: %s", err.Error())
	}
	if err := st.Close(shutdownCtx); err != nil {
		logger.Sugar().Errorf("failed to close store: %s", err.Error())
	}
}

func newLogger() *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if viper.GetString("app.env") == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	return logger
}

func openStore(ctx context.Context, logger *zap.Logger) (*store.Store, error) {
	switch driver := viper.GetString("database.driver"); driver {
	case "mongodb":
		db, err := mongodb.Connect(ctx, config.MongoConfig{
			URI:      os.Getenv("MONGO_URI"),
			Database: viper.GetString("mongo.database"),
		})
		if err != nil {
			return nil, err
		}
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			return nil, err
		}
		logger.Info("Successfully connected to MongoDB")
		return mongodb.New(db, logger), nil
	case "memory":
		logger.Warn("Using the in-memory store, data is lost on restart")
		return memory.New(), nil
	default:
		dbConfig := config.DBConfig{
			Username: os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     os.Getenv("POSTGRES_PORT"),
			DBName:   os.Getenv("POSTGRES_DATABASE"),
			SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
		}
		db, err := postgres.DB(ctx, dbConfig)
		if err != nil {
			return nil, err
		}
		if err := db.Ping(ctx); err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			return nil, err
		}
		logger.Info("Successfully connected to PostgreSQL")
		return postgres.New(db, logger), nil
	}
}

func openCache(ctx context.Context, logger *zap.Logger) *redisrepo.RedisRepository {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		logger.Warn("REDIS_ADDR is not set, caching in process memory")
		return redisrepo.NewLocal()
	}

	rdb := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    strings.Split(addr, ","),
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	pong, err := rdb.Ping(ctx).Result()
	if err != nil {
		logger.Sugar().Panicf("failed to ping redis: %s", err.Error())
	}
	logger.Sugar().Infof("Successfully connected to Redis: %s", pong)

	return redisrepo.New(rdb, viper.GetString("cache.prefix"))
}

func loadEnv() error {
	return godotenv.Load()
}

func initConfig() error {
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")
	viper.SetConfigName("app")

	viper.SetDefault("app.port", "8080")
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.max_upload", 4<<20)
	viper.SetDefault("database.driver", "postgres")
	viper.SetDefault("mongo.database", "blog")
	viper.SetDefault("auth.cookie_name", "token")
	viper.SetDefault("auth.token_ttl", "168h")
	viper.SetDefault("cache.ttl", "1h")
	viper.SetDefault("cache.prefix", "blog")
	viper.SetDefault("cdn.folder", "profile-pictures")
	viper.SetDefault("cdn.timeout", "15s")
	viper.SetDefault("pagination.max_limit", 100)
	viper.SetDefault("search.index", "posts")

	return viper.ReadInConfig()
}
