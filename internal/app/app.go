package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"membership-admin/internal/config"
	"membership-admin/internal/db"
	memberdomain "membership-admin/internal/domain/member"
	"membership-admin/internal/metrics"
	"membership-admin/internal/repository/inmemory"
	postgresmember "membership-admin/internal/repository/postgres/member"
	restmember "membership-admin/internal/repository/rest/member"
	"membership-admin/internal/transport/httpserver"
	"membership-admin/internal/transport/httpserver/handler"
	"membership-admin/internal/ui"
	"membership-admin/pkg/logger"
)

const startupLoadTimeout = 15 * time.Second

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	redis      *redis.Client
	log        logger.Logger
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, log: log}

	log.Info("app: initializing gateway", "backend", cfg.Backend, "schema", cfg.Schema)
	gateway, configured, err := a.newGateway()
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	m := metrics.New()
	members := memberdomain.NewService(m.Gateway(gateway), log)

	log.Info("app: initializing panel")
	notifier := ui.NewNotifier(a.newMessageSlot(), cfg.Messages.TTL, log)
	notifier.OnShow(func(kind ui.Kind) { m.MessageShown(string(kind)) })

	options := ui.Options{
		MembershipTypes: cfg.Options.MembershipTypes,
		Statuses:        cfg.Options.MembershipStatuses,
		Genders:         cfg.Options.Genders,
		TrainingLevels:  cfg.Options.TrainingLevels,
	}
	panel := ui.NewPanel(members, notifier, ui.PanelConfig{
		Options:    options,
		Configured: configured,
		DeleteTTL:  cfg.Messages.DeleteTTL,
	}, log)

	initCtx, cancel := context.WithTimeout(context.Background(), startupLoadTimeout)
	panel.Init(initCtx)
	cancel()

	log.Info("app: initializing router")
	handlers := handler.New(members, panel, options, log)
	router := httpserver.NewRouter(cfg, handlers, m, log)

	log.Info("app: initializing http server")
	a.httpServer = httpserver.New(cfg, router)
	return a, nil
}

// newGateway builds the configured backend. configured is false when the REST
// backend still carries placeholder credentials.
func (a *App) newGateway() (memberdomain.Gateway, bool, error) {
	schema, err := memberdomain.SchemaByName(a.cfg.Schema)
	if err != nil {
		return nil, false, err
	}

	switch a.cfg.Backend {
	case config.BackendMemory:
		a.log.Warn("app: using in-memory backend, data is lost on restart")
		return inmemory.NewMemberStore(), true, nil

	case config.BackendPostgres:
		if schema.Name != memberdomain.CanonicalSchema.Name {
			return nil, false, fmt.Errorf("MEMBER_SCHEMA=%s is only supported by the rest backend", schema.Name)
		}
		dbConn, err := db.NewPostgres(a.cfg.DB, a.log)
		if err != nil {
			return nil, false, err
		}
		a.db = dbConn
		if err := db.Migrate(dbConn, a.log); err != nil {
			return nil, false, fmt.Errorf("migrate: %w", err)
		}
		return postgresmember.NewPostgres(dbConn, a.cfg.DB.Table), true, nil

	default:
		configured := a.cfg.Supabase.Configured()
		if configured {
			a.inspectKey()
		}
		return restmember.NewClient(a.cfg.Supabase, schema), configured, nil
	}
}

func (a *App) inspectKey() {
	info, err := config.InspectKey(a.cfg.Supabase.AnonKey)
	if errors.Is(err, config.ErrKeyNotJWT) {
		a.log.Debug("app: backend key is not a JWT, skipping inspection")
		return
	}
	if err != nil {
		a.log.Warn("app: backend key could not be inspected", "err", err)
		return
	}

	a.log.Info("app: backend key", "role", info.Role, "ref", info.Ref)
	if info.Expired(time.Now()) {
		a.log.Warn("app: backend key has expired", "expires_at", info.ExpiresAt)
	}
}

// newMessageSlot shares notices through Redis when configured, falling back to process memory.
func (a *App) newMessageSlot() ui.Slot {
	if a.cfg.Redis.Addr == "" {
		return ui.NewMemorySlot()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		a.log.Warn("app: redis unavailable, keeping messages in memory", "addr", a.cfg.Redis.Addr, "err", err)
		_ = client.Close()
		return ui.NewMemorySlot()
	}

	a.log.Info("app: redis connected", "addr", a.cfg.Redis.Addr)
	a.redis = client
	return ui.NewRedisSlot(client, a.cfg.Redis.MessageKey)
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if err := db.Close(a.db); err != nil {
		errs = append(errs, fmt.Errorf("close db: %w", err))
	}
	return errors.Join(errs...)
}
