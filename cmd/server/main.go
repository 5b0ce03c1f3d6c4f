package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"aqualert/internal/audit"
	"aqualert/internal/dispatch"
	smtpsender "aqualert/internal/dispatch/smtp"
	jwttoken "aqualert/internal/jwt_token"
	"aqualert/internal/organization"
	"aqualert/internal/platform/config"
	"aqualert/internal/platform/httpserver"
	"aqualert/internal/platform/logger"
	"aqualert/internal/platform/metrics"
	platformpg "aqualert/internal/platform/postgres"
	platformredis "aqualert/internal/platform/redis"
	reporthandler "aqualert/internal/report/handler"
	reportservice "aqualert/internal/report/service"
	subhandler "aqualert/internal/subscription/handler"
	subservice "aqualert/internal/subscription/service"
	substore "aqualert/internal/subscription/store"
	httptransport "aqualert/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	credentials, err := organization.LoadCredentials(cfg.CredentialsPath)
	if err != nil {
		log.Error("invalid organization credential table", "error", err.Error())
		os.Exit(1)
	}
	authenticator := organization.NewAuthenticator(credentials)

	citizens, cleanup, err := newCitizenStore(ctx, cfg)
	if err != nil {
		log.Error("failed to initialize subscription store", "error", err.Error())
		os.Exit(1)
	}
	defer cleanup()

	auditStore, auditCleanup, err := newAuditStore(ctx, cfg)
	if err != nil {
		log.Error("failed to initialize audit sink", "error", err.Error())
		os.Exit(1)
	}
	defer auditCleanup()
	auditInbox := make(chan audit.Event, 256)
	auditPublisher := audit.NewPublisher(audit.NewChannelStore(auditInbox))
	auditWorker := audit.NewWorker(auditStore, auditInbox, audit.WithWorkerLogger(log))

	m := metrics.New()

	sender := newSender(cfg, log)
	dispatcher := dispatch.New(sender,
		dispatch.WithLogger(log),
		dispatch.WithMetrics(m),
	)

	subscriptions := subservice.New(citizens,
		subservice.WithLogger(log),
		subservice.WithAuditPublisher(auditPublisher),
		subservice.WithMetrics(m),
		subservice.WithFallbackMunicipalities(cfg.DefaultMunicipalities),
	)
	reports := reportservice.New(citizens, authenticator, dispatcher,
		reportservice.WithLogger(log),
		reportservice.WithAuditPublisher(auditPublisher),
		reportservice.WithMetrics(m),
	)

	tokens := jwttoken.NewJWTService(cfg.JWTSigningKey, "aqualert")
	router := httptransport.NewRouter(log,
		subhandler.New(subscriptions, tokens, log),
		reporthandler.New(reports, log),
	)

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting aqualert", "addr", cfg.Addr, "store", cfg.StoreBackend, "sender", cfg.SenderBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := auditWorker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return httpserver.Shutdown(srv)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err.Error())
		os.Exit(1)
	}
}

func newCitizenStore(ctx context.Context, cfg config.Server) (substore.Store, func(), error) {
	switch cfg.StoreBackend {
	case "postgres":
		pool, err := platformpg.Connect(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		store := substore.NewPostgres(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil
	case "redis":
		client, err := platformredis.New(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return substore.NewRedis(client.Client), func() { _ = client.Close() }, nil
	default:
		return substore.NewInMemory(), func() {}, nil
	}
}

func newAuditStore(ctx context.Context, cfg config.Server) (audit.Store, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		return audit.NewInMemoryStore(), func() {}, nil
	}
	store, err := audit.NewKafkaStore(ctx, cfg.KafkaBrokers, cfg.KafkaAuditTopic)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

func newSender(cfg config.Server, log *slog.Logger) dispatch.Sender {
	if cfg.SenderBackend == "smtp" {
		return smtpsender.New(cfg.SMTP)
	}
	return dispatch.NewLogSender(log)
}
