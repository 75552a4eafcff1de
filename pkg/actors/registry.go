package actors

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"sync"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/brewbuddy/pkg/session"
	"github.com/example/brewbuddy/pkg/storage"
	"go.uber.org/zap"
)

var ErrInvalidSession = errors.New("invalid session id")

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidSessionID reports whether id can name a session.
func ValidSessionID(id string) bool {
	return sessionIDPattern.MatchString(id)
}

// Registry spawns one SessionActor per session id on first use.
type Registry struct {
	system   *actor.ActorSystem
	deps     session.Deps
	timeout  time.Duration
	logger   *zap.Logger
	notifier *actor.PID

	mu       sync.Mutex
	sessions map[string]*actor.PID
	closed   bool
}

// NewRegistry starts the notification actor and registers it as an order sink
// for every session.
func NewRegistry(system *actor.ActorSystem, deps session.Deps, timeout time.Duration, logger *zap.Logger) (*Registry, error) {
	notificationProps := actor.PropsFromProducer(func() actor.Actor {
		return &NotificationActor{logger: logger.Named("notification-actor")}
	})
	notifier, err := system.Root.SpawnNamed(notificationProps, "notification-actor")
	if err != nil {
		return nil, fmt.Errorf("failed to spawn notification actor: %w", err)
	}

	deps.Logger = logger
	deps.Sinks = append(slices.Clip(deps.Sinks), &Notifier{root: system.Root, pid: notifier})

	return &Registry{
		system:   system,
		deps:     deps,
		timeout:  timeout,
		logger:   logger.Named("registry"),
		notifier: notifier,
		sessions: make(map[string]*actor.PID),
	}, nil
}

func (r *Registry) pid(sessionID string) (*actor.PID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, fmt.Errorf("registry is closed")
	}
	if pid, ok := r.sessions[sessionID]; ok {
		return pid, nil
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return &SessionActor{
			id:      sessionID,
			deps:    r.deps,
			timeout: r.timeout,
			logger:  r.logger.Named("session-actor").With(zap.String("session", sessionID)),
		}
	})
	pid, err := r.system.Root.SpawnNamed(props, "session-"+sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to spawn session actor: %w", err)
	}

	r.sessions[sessionID] = pid
	r.logger.Info("Session actor spawned", zap.String("session", sessionID), zap.String("pid", pid.Id))
	return pid, nil
}

// Request sends msg to the session's actor and waits for its Reply. The wait
// is bounded by the context deadline or the registry timeout.
func (r *Registry) Request(ctx context.Context, sessionID string, msg interface{}) (interface{}, error) {
	if sessionID == "" {
		sessionID = storage.DefaultSession
	}
	if !ValidSessionID(sessionID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSession, sessionID)
	}
	pid, err := r.pid(sessionID)
	if err != nil {
		return nil, err
	}

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}

	result, err := r.system.Root.RequestFuture(pid, msg, timeout).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get response: %w", err)
	}

	reply, ok := result.(*Reply)
	if !ok {
		return nil, fmt.Errorf("unexpected response %T", result)
	}
	return reply.Value, reply.Err
}

// Ask is Request with the reply value asserted to T.
func Ask[T any](ctx context.Context, r *Registry, sessionID string, msg interface{}) (T, error) {
	var zero T

	value, err := r.Request(ctx, sessionID, msg)
	if err != nil {
		return zero, err
	}
	out, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected reply value %T", value)
	}
	return out, nil
}

func (r *Registry) Sessions() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close stops every session actor and the notification actor.
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	pids := make([]*actor.PID, 0, len(r.sessions)+1)
	for _, pid := range r.sessions {
		pids = append(pids, pid)
	}
	pids = append(pids, r.notifier)
	r.sessions = map[string]*actor.PID{}
	r.mu.Unlock()

	for _, pid := range pids {
		if err := r.system.Root.StopFuture(pid).Wait(); err != nil {
			r.logger.Warn("Failed to stop actor", zap.String("pid", pid.Id), zap.Error(err))
		}
	}
	r.logger.Info("Session actors stopped", zap.Int("count", len(pids)-1))
}
