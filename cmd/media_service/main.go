package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "media_upload_service/docs" // 引入生成的 Swagger 文档
	"media_upload_service/internal/media/api/handlers"
	"media_upload_service/internal/media/api/router"
	"media_upload_service/internal/media/app"
	"media_upload_service/internal/media/domain"
	"media_upload_service/internal/media/repository"
	"media_upload_service/internal/media/transformer"
	"media_upload_service/internal/session"
	"media_upload_service/pkg/config"
	"media_upload_service/pkg/database"
	"media_upload_service/pkg/logger"
	"media_upload_service/pkg/middlewares"
	testtool "media_upload_service/pkg/test_tool"
	"media_upload_service/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

const (
	eventsRabbitMQ = "rabbitmq"
	eventsKafka    = "kafka"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.MediaService, config.EnvConfig.MediaServiceLogPath)
	defer logger.Log.Sync()

	cfg := config.LoadConfig[config.MediaService](config.EnvConfig.MediaService, config.EnvConfig.MediaServiceYAMLPath)
	cfg.SetDefaults()
	token.SetJWTSecret(cfg.Auth.JWTSecret)
	token.SetIssuer(cfg.Auth.Issuer)

	var cleanups []func()
	defer func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}()

	// 1. 連線 PostgreSQL
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		cfg.PostgreSQL.Host, cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Database, cfg.PostgreSQL.Port)
	db, err := database.NewPGConnection(database.Connection{
		ConnectStr:    dsn,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
		MaxOpenConns:  cfg.PostgreSQL.MaxOpenConns,
	})
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to postgreSQL database after retries",
			zap.String("address", fmt.Sprintf("[%s:%d]", cfg.PostgreSQL.Host, cfg.PostgreSQL.Port)),
			zap.Error(err),
		)
	}
	cleanups = append(cleanups, func() { _ = database.ClosePG(db) })

	// 自動遷移影片資料表
	videoRepo := repository.NewVideoRepo(db)
	if err := videoRepo.AutoMigrate(); err != nil {
		logger.Log.Fatal("資料表遷移失敗", zap.Error(err))
	}

	// 2. 轉換服務
	var minioRepo database.MinIOClientRepo
	if cfg.Transformer.Driver == config.DriverMinIO {
		m := cfg.Transformer.MinIO
		minioClient, err := database.NewMinIOConnection(database.MinIOConnection{
			Endpoint:      fmt.Sprintf("%s:%d", m.Host, m.Port),
			User:          m.User,
			Password:      m.Password,
			BucketName:    m.BucketName,
			UseSSL:        m.UseSSL,
			RetryCount:    m.RetryCount,
			RetryInterval: m.RetryInterval,
		})
		if err != nil {
			logger.Log.Fatal("Unable to connect to minio after retries", zap.Error(err))
		}
		minioRepo = minioClient
	}
	mediaTransformer, err := transformer.New(cfg.Transformer, minioRepo)
	if err != nil {
		logger.Log.Fatal("create transformer failed", zap.Error(err))
	}
	hasCredentials := cfg.Transformer.Driver == config.DriverMinIO || cfg.Transformer.HasCredentials()
	if !hasCredentials {
		logger.Log.Warn("Missing Cloudinary credentials, uploads will be refused")
	}

	// 3. 事件發布
	publisher, closePublisher := newPublisher(cfg.Events)
	cleanups = append(cleanups, closePublisher)

	// 4. session 檢查
	var sessions middlewares.SessionChecker
	if cfg.Auth.SessionCheck && cfg.Redis.Enabled {
		masterName, sentinelAddrs := config.GetRedisSetting()
		rdb, err := database.NewRedisClient(context.Background(), database.RedisOptions{
			Addr:          cfg.Redis.Addr,
			Password:      cfg.Redis.Password,
			DB:            cfg.Redis.RedisDB,
			MasterName:    masterName,
			SentinelAddrs: sentinelAddrs,
		})
		if err != nil {
			logger.Log.Fatal("Unable to connect to redis", zap.Error(err))
		}
		cleanups = append(cleanups, func() { _ = rdb.Close() })
		sessions = session.NewStore(database.NewRedisRepository[session.State](rdb))
	}

	usecase := app.NewMediaUseCase(mediaTransformer, videoRepo, publisher, app.Folders{
		Image: cfg.Transformer.ImageFolder,
		Video: cfg.Transformer.VideoFolder,
	})
	mediaHandler := handlers.NewMediaHandler(usecase, hasCredentials)

	// 5. 建立 Fiber 應用
	r := fiber.New(fiber.Config{
		BodyLimit: cfg.Upload.BodyLimit,
	})

	// 添加日志中间件
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.MediaServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	cleanups = append(cleanups, func() { file.Close() })

	r.Use(recover.New())
	r.Use(requestid.New())
	r.Use(fiber_log.New(fiber_log.Config{
		Output: file, // 将日志输出到文件
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	r.Use(cors.New())

	router.RegisterRoutes(r, mediaHandler, sessions)

	testtool.StartPprof("")

	go func() {
		logger.Log.Info(fmt.Sprintf("MediaService listening on : %s", cfg.Port))
		if err := r.Listen(cfg.IP + ":" + cfg.Port); err != nil {
			logger.Log.Error("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := r.ShutdownWithContext(ctx); err != nil {
		logger.Log.Error("Server shutdown failed", zap.Error(err))
	}
}

// newPublisher build the events publisher selected by cfg.Driver, failures fall back to no events
func newPublisher(cfg config.EventsConfig) (app.EventPublisher, func()) {
	switch cfg.Driver {
	case eventsRabbitMQ:
		rc := cfg.RabbitMQ
		rabbitURL := fmt.Sprintf("amqp://%s:%s@%s:%s/", rc.User, rc.Password, rc.IP, rc.Port)
		conn, err := database.ConnectRabbitMQWithRetry(database.Connection{
			ConnectStr:    rabbitURL,
			RetryCount:    rc.RetryCount,
			RetryInterval: rc.RetryInterval,
		})
		if err != nil {
			logger.Log.Error("RabbitMQ 連線失敗, events disabled", zap.Error(err))
			return app.NopPublisher{}, func() {}
		}

		ch, err := database.GetRabbitMQChannelWithRetry(conn, rc.RetryCount, rc.RetryInterval)
		if err != nil {
			conn.Close()
			logger.Log.Error("取得 RabbitMQ Channel 失敗, events disabled", zap.Error(err))
			return app.NopPublisher{}, func() {}
		}

		queue := rc.Queue
		if queue == "" {
			queue = domain.QueueName
		}
		if _, err := ch.QueueDeclare(
			queue, // queue name
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,   // arguments
		); err != nil {
			ch.Close()
			conn.Close()
			logger.Log.Error("Queue Declare failed, events disabled", zap.Error(err))
			return app.NopPublisher{}, func() {}
		}

		return app.NewRabbitPublisher(database.NewRabbitRepository(ch), queue), func() {
			ch.Close()
			conn.Close()
		}

	case eventsKafka:
		kc := cfg.Kafka
		topic := kc.Topic
		if topic == "" {
			topic = domain.QueueName
		}
		writer, err := database.NewKafkaWriterWithRetry(database.KafkaConnection{
			Brokers:       kc.Brokers,
			Topic:         topic,
			RetryCount:    kc.RetryCount,
			RetryInterval: kc.RetryInterval,
		})
		if err != nil {
			logger.Log.Error("Kafka Writer 建立失敗, events disabled", zap.Error(err))
			return app.NopPublisher{}, func() {}
		}
		return app.NewKafkaPublisher(writer), func() { writer.Close() }

	default:
		return app.NopPublisher{}, func() {}
	}
}
