package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/brewbuddy/gateway"
	"github.com/example/brewbuddy/pkg/actors"
	"github.com/example/brewbuddy/pkg/catalog"
	"github.com/example/brewbuddy/pkg/config"
	"github.com/example/brewbuddy/pkg/discovery"
	storefront "github.com/example/brewbuddy/pkg/grpc"
	"github.com/example/brewbuddy/pkg/logging"
	"github.com/example/brewbuddy/pkg/metrics"
	"github.com/example/brewbuddy/pkg/orders"
	"github.com/example/brewbuddy/pkg/repository"
	"github.com/example/brewbuddy/pkg/session"
	"github.com/example/brewbuddy/pkg/storage"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the storefront HTTP gateway and gRPC service",
		Long: `Start the storefront. Depending on the config this runs:
- the HTTP gateway with the order websocket feed and /metrics
- the gRPC storefront service, registered in etcd when endpoints are set
- order sinks for the mongo audit log, the mysql archive and the redis cache`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return err
			}

			logger, err := logging.New(&cfg.Log)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := newServer(cfg, logger)
			if err != nil {
				return err
			}
			runErr := srv.run(ctx)
			return multierr.Append(runErr, srv.close())
		},
	}
}

// server owns every long-lived component started by serve.
type server struct {
	cfg       *config.Config
	logger    *zap.Logger
	registry  *actors.Registry
	gateway   *gateway.Gateway
	grpc      *storefront.StorefrontServer
	discovery *discovery.ServiceDiscovery
	instance  *discovery.ServiceInstance
	closers   []func() error
}

func newServer(cfg *config.Config, logger *zap.Logger) (*server, error) {
	s := &server{cfg: cfg, logger: logger}

	kv, closeKV, err := repository.NewKV(cfg)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, closeKV)
	logger.Info("Storage backend ready", zap.String("backend", cfg.Storage.Backend))

	m := metrics.New()
	hub := gateway.NewHub(logger)
	sinks, err := s.openSinks(m, hub)
	if err != nil {
		return nil, multierr.Append(err, s.close())
	}

	cat := catalog.Default()
	deps := session.Deps{
		Store:   storage.New(kv, cfg.Storage.Namespace, logger.Named("storage")),
		Catalog: cat,
		Options: orders.OptionsFromConfig(&cfg.Checkout),
		Sinks:   sinks,
	}
	s.registry, err = actors.NewRegistry(actor.NewActorSystem(), deps, cfg.Checkout.RequestTimeout, logger)
	if err != nil {
		return nil, multierr.Append(err, s.close())
	}
	m.TrackSessions(s.registry.Sessions)

	s.gateway = gateway.NewGateway(&cfg.Gateway, s.registry, cat, m, hub, logger.Named("gateway"))
	if cfg.Server.Enabled {
		s.grpc = storefront.NewStorefrontServer(s.registry, logger)
	}
	return s, nil
}

// openSinks connects the optional order side-effect stores.
func (s *server) openSinks(m *metrics.Metrics, hub *gateway.Hub) ([]orders.Sink, error) {
	sinks := []orders.Sink{m, hub}

	if s.cfg.MongoDB.Enabled {
		repo, err := repository.NewMongoRepository(&s.cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return repo.Close(ctx)
		})
		sinks = append(sinks, repo)
		s.logger.Info("Order audit log enabled", zap.String("database", s.cfg.MongoDB.Database))
	}

	if s.cfg.MySQL.Enabled {
		archive, err := repository.NewOrderArchive(&s.cfg.MySQL)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, archive.Close)
		sinks = append(sinks, archive)
		s.logger.Info("Order archive enabled", zap.String("database", s.cfg.MySQL.Database))
	}

	if s.cfg.Redis.OrderCache {
		repo := repository.NewRedisRepository(&s.cfg.Redis)
		s.closers = append(s.closers, repo.Close)
		sinks = append(sinks, repository.NewOrderCache(repo))
		s.logger.Info("Order cache enabled", zap.String("addr", s.cfg.Redis.Addr))
	}

	return sinks, nil
}

func (s *server) run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(s.gateway.Start)
	if s.grpc != nil {
		g.Go(func() error {
			return s.grpc.Start(s.cfg.Server.Addr())
		})
		s.register(ctx)
	}

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("Shutting down")
		return s.shutdown()
	})

	return g.Wait()
}

// register announces the gRPC service in etcd. Failure is not fatal.
func (s *server) register(ctx context.Context) {
	if len(s.cfg.Etcd.Endpoints) == 0 {
		return
	}

	sd, err := discovery.NewServiceDiscovery(&s.cfg.Etcd, s.logger)
	if err != nil {
		s.logger.Warn("Failed to connect to etcd, continuing without service discovery", zap.Error(err))
		return
	}

	instance := &discovery.ServiceInstance{
		Name: s.cfg.Server.Name,
		Host: advertisedHost(s.cfg.Server.Host),
		Port: s.cfg.Server.Port,
	}
	if err := sd.Register(ctx, instance); err != nil {
		s.logger.Warn("Failed to register service", zap.Error(err))
		_ = sd.Close()
		return
	}

	s.discovery = sd
	s.instance = instance
	s.logger.Info("Service registered", zap.String("name", instance.Name), zap.String("address", instance.Addr()))
}

func advertisedHost(host string) string {
	if host != "" && host != "0.0.0.0" && host != "::" {
		return host
	}
	if name, err := os.Hostname(); err == nil {
		return name
	}
	return "localhost"
}

func (s *server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var err error
	if s.discovery != nil {
		err = multierr.Append(err, s.discovery.Deregister(ctx, s.instance))
		err = multierr.Append(err, s.discovery.Close())
	}
	if s.grpc != nil {
		s.grpc.Stop()
	}
	if err2 := s.gateway.Shutdown(ctx); err2 != nil {
		err = multierr.Append(err, fmt.Errorf("failed to stop gateway: %w", err2))
	}
	return err
}

// close stops the session actors and releases backends in reverse order.
func (s *server) close() error {
	if s.registry != nil {
		s.registry.Close()
	}

	var err error
	for i := len(s.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, s.closers[i]())
	}
	return err
}
