package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/target/marketnest/config"
	redisadapter "github.com/target/marketnest/internal/adapters/redis"
	"github.com/target/marketnest/internal/bootstrap"
	domainauth "github.com/target/marketnest/internal/domain/auth"
	apperrors "github.com/target/marketnest/internal/errors"
	"github.com/target/marketnest/internal/ports"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Out    io.Writer
	// connect is replaced in tests.
	connect func(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (redis.UniversalClient, error)
}

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(os.Stderr); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	cmdCtx := &commandContext{
		Ctx:     context.Background(),
		Logger:  logger,
		Config:  cfg,
		Out:     os.Stdout,
		connect: bootstrap.ConnectRedis,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"config": {
			name:        "config",
			description: "Print the effective configuration with secrets redacted",
			run:         runPrintConfig,
		},
		"session-show": {
			name:        "session-show",
			description: "Show a stored session by id",
			run:         runSessionShow,
		},
		"session-revoke": {
			name:        "session-revoke",
			description: "Delete a session and sign out the browser's open headers",
			run:         runSessionRevoke,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: marketnest-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	names := make([]string, 0, len(commands()))
	for name := range commands() {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writef(w, "  %-16s %s\n", name, commands()[name].description); err != nil {
			return err
		}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

const redacted = "[redacted]"

func runPrintConfig(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg := ctx.Config
	if cfg.Auth.OAuth.ClientSecret != "" {
		cfg.Auth.OAuth.ClientSecret = redacted
	}
	if cfg.Redis.Password != "" {
		cfg.Redis.Password = redacted
	}
	if cfg.Redis.SentinelPassword != "" {
		cfg.Redis.SentinelPassword = redacted
	}
	enc := json.NewEncoder(ctx.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}

var errSessionBackend = errors.New("session commands need SESSION_BACKEND=redis; memory sessions live inside the server process")

type sessionOptions struct {
	ID       string
	ClientID string
}

func parseSessionFlags(name string, args []string) (sessionOptions, error) {
	var opts sessionOptions
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&opts.ID, "id", "", "session id (the session_id cookie value)")
	fs.StringVar(&opts.ClientID, "client", "", "browser client id (the mn_client cookie value)")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.ID == "" {
		return opts, errors.New("-id is required")
	}
	return opts, nil
}

//nolint:ireturn // returning redis.UniversalClient keeps sentinel/cluster support flexible.
func redisFor(ctx *commandContext) (redis.UniversalClient, error) {
	if ctx.Config.Session.Backend != config.SessionBackendRedis {
		return nil, errSessionBackend
	}
	return ctx.connect(ctx.Ctx, ctx.Config.Redis, ctx.Logger)
}

func closeClient(ctx *commandContext, client redis.UniversalClient) {
	if err := client.Close(); err != nil {
		ctx.Logger.Warn("close redis failed", "error", err)
	}
}

func runSessionShow(ctx *commandContext, args []string) error {
	opts, err := parseSessionFlags("session-show", args)
	if err != nil {
		return err
	}
	client, err := redisFor(ctx)
	if err != nil {
		return err
	}
	defer closeClient(ctx, client)

	store := redisadapter.NewSessionStore(client, redisadapter.WithSessionPrefix(ctx.Config.Redis.SessionPrefix))
	sess, err := store.Get(ctx.Ctx, opts.ID)
	if apperrors.IsNotFound(err) {
		return writef(ctx.Out, "session %s not found or expired\n", opts.ID)
	}
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	return printSession(ctx.Out, sess, time.Now())
}

func printSession(w io.Writer, sess domainauth.Session, now time.Time) error {
	state := domainauth.StateFromSession(&sess)
	return writef(w, "ID:       %s\nUser:     %s\nName:     %s\nEmail:    %s\nRole:     %s\nExpires:  %s (in %s)\n",
		sess.ID, sess.UserID, state.Label(), sess.Email, sess.Role,
		sess.ExpiresAt.UTC().Format(time.RFC3339), sess.ExpiresAt.Sub(now).Round(time.Second))
}

func runSessionRevoke(ctx *commandContext, args []string) error {
	opts, err := parseSessionFlags("session-revoke", args)
	if err != nil {
		return err
	}
	client, err := redisFor(ctx)
	if err != nil {
		return err
	}
	defer closeClient(ctx, client)

	store := redisadapter.NewSessionStore(client, redisadapter.WithSessionPrefix(ctx.Config.Redis.SessionPrefix))
	if err := store.Delete(ctx.Ctx, opts.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if opts.ClientID != "" {
		events := redisadapter.NewSessionEvents(client, redisadapter.SessionEventsOptions{
			Prefix: ctx.Config.Redis.ChannelPrefix,
			Logger: ctx.Logger,
		})
		if err := events.Publish(ctx.Ctx, ports.SessionEvent{
			ClientID: opts.ClientID,
			Kind:     domainauth.StateUnauthenticated,
			At:       time.Now().UTC(),
		}); err != nil {
			return fmt.Errorf("publish sign-out: %w", err)
		}
	}
	return writef(ctx.Out, "revoked session %s\n", opts.ID)
}
