package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"cms-backend/internal/config"
	"cms-backend/internal/infrastructure/cache"
	"cms-backend/internal/infrastructure/database"
	"cms-backend/internal/infrastructure/queue"
	"cms-backend/internal/infrastructure/storage"
	"cms-backend/internal/pipeline"
	"cms-backend/internal/pipeline/handler"
	"cms-backend/pkg/jwt"

	articleModel "cms-backend/internal/domains/article/model"
	articleRepo "cms-backend/internal/domains/article/repository"
	candidateModel "cms-backend/internal/domains/candidate/model"
	candidateRepo "cms-backend/internal/domains/candidate/repository"
	documentModel "cms-backend/internal/domains/document/model"
	documentRepo "cms-backend/internal/domains/document/repository"
	memberModel "cms-backend/internal/domains/member/model"
	memberRepo "cms-backend/internal/domains/member/repository"
	reviewModel "cms-backend/internal/domains/review/model"
	reviewRepo "cms-backend/internal/domains/review/repository"
	sessionModel "cms-backend/internal/domains/session/model"
	sessionRepo "cms-backend/internal/domains/session/repository"
	"cms-backend/internal/domains/topic"
	topicHandler "cms-backend/internal/domains/topic/handler"
	topicRepo "cms-backend/internal/domains/topic/repository"
	topicService "cms-backend/internal/domains/topic/service"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton for the lifetime of the process.
type Container struct {
	// Infrastructure
	Config      *config.Config
	DB          *database.PostgresDB
	Redis       *cache.RedisClient
	Storage     *storage.MinIOStorage
	AsynqClient *asynq.Client
	JWTManager  *jwt.Manager

	Assets   *pipeline.Assets
	Notifier *queue.Notifier

	// Pipelines, one per kind
	Sessions   *pipeline.Orchestrator[*sessionModel.Session]
	Candidates *pipeline.Orchestrator[*candidateModel.Candidate]
	Members    *pipeline.Orchestrator[*memberModel.Member]
	Reviews    *pipeline.Orchestrator[*reviewModel.Review]
	Articles   *pipeline.Orchestrator[*articleModel.Article]
	Documents  *pipeline.Orchestrator[*documentModel.Document]

	// Handlers keyed by kind, mounted by the router
	Handlers map[pipeline.Kind]handler.Routes

	TopicService topic.TopicService
	TopicHandler *topicHandler.TopicHandler
}

func NewContainer() (*Container, error) {
	log.Println("Initializing DI Container...")

	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("Config loaded (Environment: %s, asset namespace: %s)", cfg.App.Environment, cfg.Assets.Namespace)

	if err := c.initInfrastructure(); err != nil {
		c.Cleanup()
		return nil, err
	}

	c.initPipelines()
	c.initHandlers()

	log.Println("DI Container initialized successfully")
	return c, nil
}

func (c *Container) initInfrastructure() error {
	cfg := c.Config

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Println("Connecting to PostgreSQL...")
	dbConfig, err := config.LoadDatabaseConfig(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}
	db := database.NewPostgresDB(dbConfig)
	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	// Redis only carries the notification queue, so a failed ping is logged
	// and the API still starts.
	log.Println("Connecting to Redis...")
	c.Redis = cache.NewRedisClient(cfg.Redis)
	if err := c.Redis.Connect(ctx); err != nil {
		log.Printf("Redis connection failed (non-critical): %v", err)
	}
	c.AsynqClient = asynq.NewClient(cache.AsynqOpt(cfg.Redis))
	c.Notifier = queue.NewNotifier(c.AsynqClient)

	log.Println("Connecting to MinIO...")
	processor := storage.NewImageProcessor(cfg.Assets.MaxBytes, cfg.Assets.MaxDimension)
	store, err := storage.NewMinIOStorage(ctx, cfg.MinIO, processor)
	if err != nil {
		return fmt.Errorf("failed to init object storage: %w", err)
	}
	c.Storage = store
	c.Assets = pipeline.NewAssets(store, cfg.Assets.Namespace)

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	return nil
}

func (c *Container) initPipelines() {
	pool := c.DB.Pool

	c.Sessions = pipeline.NewOrchestrator(
		sessionModel.NewDescriptor(sessionRepo.NewPostgresSessionRepository(pool)),
		c.Assets, pipeline.WithNotifier[*sessionModel.Session](c.Notifier))
	c.Candidates = pipeline.NewOrchestrator(
		candidateModel.NewDescriptor(candidateRepo.NewPostgresCandidateRepository(pool)),
		c.Assets, pipeline.WithNotifier[*candidateModel.Candidate](c.Notifier))
	c.Members = pipeline.NewOrchestrator(
		memberModel.NewDescriptor(memberRepo.NewPostgresMemberRepository(pool)),
		c.Assets, pipeline.WithNotifier[*memberModel.Member](c.Notifier))
	c.Reviews = pipeline.NewOrchestrator(
		reviewModel.NewDescriptor(reviewRepo.NewPostgresReviewRepository(pool)),
		c.Assets, pipeline.WithNotifier[*reviewModel.Review](c.Notifier))
	c.Articles = pipeline.NewOrchestrator(
		articleModel.NewDescriptor(articleRepo.NewPostgresArticleRepository(pool)),
		c.Assets, pipeline.WithNotifier[*articleModel.Article](c.Notifier))
	c.Documents = pipeline.NewOrchestrator(
		documentModel.NewDescriptor(documentRepo.NewPostgresDocumentRepository(pool)),
		c.Assets, pipeline.WithNotifier[*documentModel.Document](c.Notifier))

	c.TopicService = topicService.NewTopicService(topicRepo.NewPostgresRepository(pool))
}

func (c *Container) initHandlers() {
	c.Handlers = map[pipeline.Kind]handler.Routes{
		pipeline.KindSession:   handler.New(c.Sessions),
		pipeline.KindCandidate: handler.New(c.Candidates),
		pipeline.KindMember:    handler.New(c.Members),
		pipeline.KindReview:    handler.New(c.Reviews),
		pipeline.KindArticle:   handler.New(c.Articles),
		pipeline.KindDocument:  handler.New(c.Documents),
	}
	c.TopicHandler = topicHandler.NewTopicHandler(c.TopicService)
}

func (c *Container) Cleanup() {
	log.Println("Cleaning up container resources...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("Failed to close asynq client: %v", err)
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Printf("Failed to close Redis: %v", err)
		}
	}

	if c.DB != nil {
		c.DB.Close()
	}

	log.Println("Container cleanup completed")
}
