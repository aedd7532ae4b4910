// Package app wires the intake workflow into the Telegram runtime.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/clanintake/core/bootstrap"
	"github.com/m3rciful/clanintake/core/cmd"
	"github.com/m3rciful/clanintake/core/health"
	"github.com/m3rciful/clanintake/core/logger"
	"github.com/m3rciful/clanintake/core/metrics"
	coretelegram "github.com/m3rciful/clanintake/core/telegram"
	"github.com/m3rciful/clanintake/core/telegram/middleware"
	"github.com/m3rciful/clanintake/core/telegram/router"
	"github.com/m3rciful/clanintake/core/telegram/state"
	"github.com/m3rciful/clanintake/intake/archive"
	"github.com/m3rciful/clanintake/intake/form"
	"github.com/m3rciful/clanintake/intake/gateway"
	"github.com/m3rciful/clanintake/intake/review"

	tele "gopkg.in/telebot.v4"
)

const startDescription = "Оставить заявку"

// App holds the configuration and infrastructure of a running bot.
type App struct {
	cfg     *Config
	db      *sqlx.DB
	metrics *metrics.Metrics
	loc     *time.Location

	newBot func(cfg *Config) (*tele.Bot, error)
}

// New builds an App; db may be nil when the archive is disabled.
func New(cfg *Config, db *sqlx.DB) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	return &App{
		cfg:     cfg,
		db:      db,
		metrics: metrics.New(),
		loc:     loc,
		newBot: func(cfg *Config) (*tele.Bot, error) {
			return coretelegram.NewBot(&cfg.Config)
		},
	}, nil
}

// Load is the cmd.Options.LoadConfig adapter.
func Load(path string) (cmd.ConfigCarrier, error) {
	return LoadConfig(path)
}

// Bootstrap initializes logging and the optional archive database.
func Bootstrap(ctx context.Context, carrier cmd.ConfigCarrier) (cmd.TelegramApp, error) {
	cfg, ok := carrier.(*Config)
	if !ok {
		return nil, fmt.Errorf("app: unexpected config type %T", carrier)
	}
	res, err := bootstrap.Run(ctx, bootstrap.Options{
		Config:        &cfg.Config,
		Database:      cfg.Database,
		Migrations:    archive.Migrations,
		MigrationsDir: archive.MigrationsDir,
	})
	if err != nil {
		return nil, err
	}
	if !cfg.ReviewerConfigured() {
		logger.Warn(ctx, "app", "reviewer.missing",
			slog.String("status", "skip"),
			slog.String("reason", "ADMIN_ID not set; submissions are accepted but not routed"))
	}
	return New(cfg, res.DB)
}

// TelegramRunOptions implements cmd.TelegramApp.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	bot, err := a.newBot(a.cfg)
	if err != nil {
		return coretelegram.RunOptions{}, err
	}
	return a.runOptions(bot)
}

func (a *App) runOptions(bot *tele.Bot) (coretelegram.RunOptions, error) {
	gw := gateway.New(bot, a.metrics)

	store := state.NewMemoryStore()
	a.metrics.ObserveSessions(store.Active)

	pending := review.NewPending()
	var arch review.Archive
	if a.db != nil {
		arch = archive.New(a.db)
	}

	submissions := review.NewRouter(review.RouterOptions{
		Gateway:    gw,
		Pending:    pending,
		ReviewerID: a.cfg.Telegram.AdminID,
		Location:   a.loc,
		Archive:    arch,
		Metrics:    a.metrics,
	})
	h := &handlers{
		machine: form.New(form.Options{
			Store:        store,
			Gateway:      gw,
			Submitter:    submissions,
			ExampleImage: a.cfg.Form.ExampleImage,
			Metrics:      a.metrics,
		}),
		resolver: review.NewResolver(review.ResolverOptions{
			Gateway: gw,
			Pending: pending,
			Archive: arch,
			Metrics: a.metrics,
		}),
	}

	reg, err := a.registry(h)
	if err != nil {
		return coretelegram.RunOptions{}, err
	}

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{AdminID: a.cfg.Telegram.AdminID})
	routes = append(routes, router.CallbackRoute(reg))
	routes = append(routes, router.MessageRoutes(router.MessageOptions{
		Text:  h.onText,
		Photo: h.onPhoto,
		Other: h.onOther,
	})...)

	servers := a.servers()
	return coretelegram.RunOptions{
		Config:      &a.cfg.Config,
		Bot:         bot,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.metrics),
		Routes:      routes,
		OnStart: func(context.Context, coretelegram.Runtime) error {
			for i, s := range servers {
				if err := s.Start(); err != nil {
					shutdownAll(context.Background(), servers[:i])
					return err
				}
			}
			return nil
		},
		OnStop: func(ctx context.Context, _ coretelegram.Runtime) error {
			err := shutdownAll(ctx, servers)
			if a.db != nil {
				err = errors.Join(err, a.db.Close())
			}
			return err
		},
	}, nil
}

func (a *App) registry(h *handlers) (*coretelegram.Registry, error) {
	reg := coretelegram.NewRegistry()
	if err := reg.RegisterCommand("/start", coretelegram.Command{
		Handler:     h.onStart,
		Description: startDescription,
	}); err != nil {
		return nil, err
	}

	reviewerOnly := middleware.AdminOnlyMiddleware(middleware.AdminOptions{
		AdminID:  a.cfg.Telegram.AdminID,
		OnReject: onForeignDecision,
	})
	for _, key := range []string{string(review.ActionApprove), string(review.ActionReject)} {
		if err := reg.RegisterCallback(key, reviewerOnly(h.onDecision)); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func (a *App) servers() []*health.Server {
	addr := net.JoinHostPort(a.cfg.Health.Host, strconv.Itoa(a.cfg.Health.Port))
	servers := []*health.Server{health.NewServer("health", addr, health.Handler())}
	if a.cfg.Metrics.Listen != "" {
		servers = append(servers, health.NewServer("metrics", a.cfg.Metrics.Listen, a.metrics.Handler()))
	}
	return servers
}

func shutdownAll(ctx context.Context, servers []*health.Server) error {
	var errs []error
	for _, s := range servers {
		if err := s.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
