// Package main - punto de entrada del motor de progreso y gamificación
// de Aula Digital. El motor mantiene las rachas semanales, el puntaje
// acumulado y el ranking entre amigos de cada perfil de aprendizaje.
//
// Arquitectura según Clean Architecture y DDD:
// - Domain: lógica de negocio pura, sin dependencias externas
// - Application: orquestación de casos de uso (Commands/Queries)
// - Infrastructure: repositorios PostgreSQL, cachés Redis, bus de eventos
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sebasbersa/aula-digital-sub000/config"
	"github.com/sebasbersa/aula-digital-sub000/internal/application/command"
	"github.com/sebasbersa/aula-digital-sub000/internal/application/eventhandler"
	"github.com/sebasbersa/aula-digital-sub000/internal/application/query"
	"github.com/sebasbersa/aula-digital-sub000/internal/domain/social"
	"github.com/sebasbersa/aula-digital-sub000/internal/infrastructure/messaging"
	"github.com/sebasbersa/aula-digital-sub000/internal/infrastructure/persistence/postgres"
	"github.com/sebasbersa/aula-digital-sub000/internal/infrastructure/persistence/redis"
	"github.com/sebasbersa/aula-digital-sub000/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "engine: %v\n", err)
		os.Exit(1)
	}
}

// Engine agrupa el wiring completo de la aplicación.
type Engine struct {
	Config *config.Config
	Log    *logger.Logger

	DB    *postgres.Connection
	Cache *redis.Cache
	Bus   *messaging.InMemoryEventBus

	Commands Commands
	Queries  Queries
}

// Commands expone los casos de uso de escritura.
type Commands struct {
	CreateLearner      *command.CreateLearnerHandler
	RecordTutoring     *command.RecordTutoringTouchHandler
	RecordGuide        *command.RecordGuideAttemptHandler
	RefreshScore       *command.RefreshScoreHandler
	AddFriend          *command.AddFriendHandler
	RemoveFriend       *command.RemoveFriendHandler
	GenerateFriendCode *command.GenerateFriendCodeHandler
}

// Queries expone los casos de uso de lectura.
type Queries struct {
	GetStreak        *query.GetStreakHandler
	GetOverview      *query.GetProgressOverviewHandler
	BuildLeaderboard *query.BuildLeaderboardHandler
	FindByFriendCode *query.FindByFriendCodeHandler
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(os.Stdout, logger.ParseLevel(cfg.Observability.LogLevel))
	log.Info("starting engine",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.String("timezone", cfg.App.Timezone),
	)

	engine, err := buildEngine(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer engine.shutdown()

	log.Info("engine ready")

	// El motor corre hasta recibir una señal de término. Las operaciones
	// llegan por los handlers expuestos a la capa de interfaz.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", logger.String("signal", sig.String()))
	case <-ctx.Done():
	}

	return nil
}

// buildEngine conecta la infraestructura con los casos de uso.
func buildEngine(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Engine, error) {
	// PostgreSQL: sistema de registro
	dbCfg := postgres.DefaultConfig()
	dbCfg.Host = cfg.Database.Host
	dbCfg.Port = cfg.Database.Port
	dbCfg.Database = cfg.Database.Name
	dbCfg.User = cfg.Database.User
	dbCfg.Password = cfg.Database.Password
	dbCfg.SSLMode = cfg.Database.SSLMode
	dbCfg.MaxConns = int32(cfg.Database.MaxConns)
	dbCfg.MinConns = int32(cfg.Database.MinConns)
	dbCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	dbCfg.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime
	dbCfg.ConnectTimeout = cfg.Database.ConnectTimeout

	db, err := postgres.NewConnection(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := postgres.NewMigrator(db).Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	log.Info("migrations applied")

	// Redis: cachés de lectura (opcional)
	var cache *redis.Cache
	if cfg.Redis.Enabled {
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize

		cache, err = redis.NewCache(redisCfg)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		log.Info("redis connected")
	}

	// Bus de eventos en memoria, inyectado en cada componente
	bus := messaging.NewInMemoryEventBus(messaging.InMemoryEventBusConfig{
		AsyncMode:      cfg.Engine.AsyncEvents,
		WorkerPoolSize: cfg.Engine.EventWorkers,
		Logger:         log,
	})

	// Repositorios
	learnerRepo := postgres.NewLearnerRepository(db)
	activityRepo := postgres.NewActivityRepository(db, cfg.App.Location)

	// Cachés de snapshots y suscriptores
	var (
		boardCache    query.BoardCache
		overviewCache query.OverviewCache
	)
	if cache != nil {
		snapshots := redis.NewSnapshots(cache)
		boardCache = snapshots.Boards
		overviewCache = snapshots.Overviews

		onScoreChanged := eventhandler.NewOnScoreChanged(snapshots, log)
		if err := onScoreChanged.Register(bus); err != nil {
			db.Close()
			cache.Close()
			return nil, fmt.Errorf("register score subscriber: %w", err)
		}
	}

	// Generador de códigos de amigo
	codeGen := social.NewGenerator(learnerRepo, rand.New(rand.NewSource(time.Now().UnixNano())))

	refreshScore := command.NewRefreshScoreHandler(learnerRepo, activityRepo, bus, log)

	engine := &Engine{
		Config: cfg,
		Log:    log,
		DB:     db,
		Cache:  cache,
		Bus:    bus,
		Commands: Commands{
			CreateLearner:      command.NewCreateLearnerHandler(learnerRepo, bus, log),
			RecordTutoring:     command.NewRecordTutoringTouchHandler(learnerRepo, activityRepo, bus, log),
			RecordGuide:        command.NewRecordGuideAttemptHandler(learnerRepo, activityRepo, refreshScore, bus, log),
			RefreshScore:       refreshScore,
			AddFriend:          command.NewAddFriendHandler(learnerRepo, bus, log),
			RemoveFriend:       command.NewRemoveFriendHandler(learnerRepo, bus, log),
			GenerateFriendCode: command.NewGenerateFriendCodeHandler(learnerRepo, codeGen, bus, log),
		},
		Queries: Queries{
			GetStreak:        query.NewGetStreakHandler(learnerRepo, activityRepo, cfg.App.Location),
			GetOverview:      query.NewGetProgressOverviewHandler(learnerRepo, activityRepo, overviewCache, cfg.App.Location, log),
			BuildLeaderboard: query.NewBuildLeaderboardHandler(learnerRepo, boardCache, log),
			FindByFriendCode: query.NewFindByFriendCodeHandler(learnerRepo),
		},
	}

	return engine, nil
}

// shutdown cierra los recursos en orden inverso al arranque. El bus
// drena sus handlers pendientes con un límite de tiempo; pasado el
// límite las invalidaciones restantes quedan en manos de los TTL.
func (e *Engine) shutdown() {
	busDone := make(chan error, 1)
	go func() { busDone <- e.Bus.Close() }()

	select {
	case err := <-busDone:
		if err != nil {
			e.Log.Warn("event bus close", logger.Err(err))
		}
	case <-time.After(e.Config.App.ShutdownTimeout):
		e.Log.Warn("event bus drain timed out")
	}
	if e.Cache != nil {
		if err := e.Cache.Close(); err != nil {
			e.Log.Warn("redis close", logger.Err(err))
		}
	}
	e.DB.Close()

	e.Log.Info("engine stopped")
}
