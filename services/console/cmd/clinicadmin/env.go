package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/md-rashed-zaman/clinicadmin/libs/config"
	"github.com/md-rashed-zaman/clinicadmin/libs/kafkax"
	otelx "github.com/md-rashed-zaman/clinicadmin/libs/otel"
	"github.com/md-rashed-zaman/clinicadmin/libs/runtime"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/activity"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/api"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/media"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/screens"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/session"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/shell"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const serviceName = "clinicadmin"

var errNotSignedIn = errors.New("not signed in; run `clinicadmin login` first")

// env is the per-invocation wiring shared by every command.
type env struct {
	logger  *slog.Logger
	out     io.Writer
	in      *bufio.Reader
	format  string
	yes     bool
	client  *api.Client
	session *session.Session
	rdb     *redis.Client
	brokers string
	topic   string
	app     *shell.App
	closers []func(context.Context)
}

func (e *env) setup(cmd *cobra.Command) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	if err := config.Load(path); err != nil {
		return err
	}
	for flag, key := range map[string]string{"api-url": "CLINIC_API_URL", "session-file": "SESSION_FILE"} {
		if flags.Changed(flag) {
			v, _ := flags.GetString(flag)
			config.Set(key, v)
		}
	}

	e.format, _ = flags.GetString("output")
	if e.format != "table" && e.format != "json" {
		return fmt.Errorf("unknown output format %q (want table or json)", e.format)
	}
	e.yes, _ = flags.GetBool("yes")
	e.out = cmd.OutOrStdout()
	e.in = bufio.NewReader(cmd.InOrStdin())
	e.logger = runtime.NewLoggerTo(cmd.ErrOrStderr(), serviceName, config.String("LOG_LEVEL", "warn"))

	shutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(serviceName, false))
	if err != nil {
		e.logger.Warn("tracing disabled", "err", err)
	} else {
		e.closers = append(e.closers, func(ctx context.Context) { _ = shutdown(ctx) })
	}

	store, err := e.sessionStore()
	if err != nil {
		return err
	}
	e.session = session.New(store, nil)
	if err := e.session.Load(ctx); err != nil {
		return err
	}

	e.client = api.NewClient(api.Options{
		BaseURL: config.String("CLINIC_API_URL", "http://localhost:3000"),
		Timeout: config.Seconds("HTTP_TIMEOUT_SECONDS", 10*time.Second),
		Tokens:  e.session,
		Logger:  e.logger,
	})

	e.brokers = config.String("KAFKA_BROKERS", "")
	e.topic = config.String("ACTIVITY_TOPIC", activity.DefaultTopic)
	publisher := activity.NewKafkaPublisher(activity.KafkaConfig{Brokers: e.brokers, Topic: e.topic}, e.logger)
	e.closers = append(e.closers, func(context.Context) { _ = publisher.Close() })

	uploader, err := e.uploader(ctx)
	if err != nil {
		return err
	}

	e.app = shell.NewApp(ctx, screens.Deps{
		Departments: api.NewDepartments(e.client),
		Doctors:     api.NewDoctors(e.client),
		Tests:       api.NewTests(e.client),
		Feedback:    api.NewFeedback(e.client),
		Credentials: api.NewCredentials(e.client),
		Admins:      api.NewAdmins(e.client),
		Session:     e.session,
		Activity:    publisher,
		Media:       uploader,
		Logger:      e.logger,
	})
	e.closers = append(e.closers, func(context.Context) { e.app.Close() })
	return nil
}

func (e *env) sessionStore() (session.Store, error) {
	switch kind := strings.ToLower(config.String("SESSION_STORE", "file")); kind {
	case "file":
		return session.NewFileStore(config.String("SESSION_FILE", session.DefaultFilePath())), nil
	case "redis":
		e.rdb = redis.NewClient(&redis.Options{
			Addr:     config.String("REDIS_ADDR", "localhost:6379"),
			Password: config.String("REDIS_PASSWORD", ""),
			DB:       config.Int("REDIS_DB", 0, 0),
		})
		e.closers = append(e.closers, func(context.Context) { _ = e.rdb.Close() })
		ttl := time.Duration(config.Int("SESSION_TTL_HOURS", 12, 0)) * time.Hour
		return session.NewRedisStore(e.rdb, config.String("SESSION_PROFILE", "default"), ttl), nil
	default:
		return nil, fmt.Errorf("unknown SESSION_STORE %q (want file or redis)", kind)
	}
}

func (e *env) uploader(ctx context.Context) (media.Uploader, error) {
	bucket := config.String("MEDIA_S3_BUCKET", "")
	if bucket == "" {
		return media.InlineUploader{}, nil
	}
	return media.NewS3Uploader(ctx, media.S3Config{
		Bucket:        bucket,
		Prefix:        config.String("MEDIA_S3_PREFIX", ""),
		PublicBaseURL: config.String("MEDIA_PUBLIC_BASE_URL", ""),
	})
}

func (e *env) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i](ctx)
	}
	e.closers = nil
}

// readyChecks backs `clinicadmin status`.
func (e *env) readyChecks() []runtime.ReadyCheck {
	checks := []runtime.ReadyCheck{{Name: "api " + e.client.BaseURL(), Check: e.client.Ping}}
	if e.rdb != nil {
		checks = append(checks, runtime.ReadyCheck{Name: "redis session store", Check: func(ctx context.Context) error {
			return e.rdb.Ping(ctx).Err()
		}})
	}
	if e.brokers != "" {
		checks = append(checks, runtime.ReadyCheck{Name: "kafka " + e.brokers, Check: kafkax.ReadyCheck(e.brokers, e.topic)})
	}
	return checks
}

// open navigates to path and returns the screen, mapping a bounce to the
// login page and a failed load to the screen's message.
func open[T screens.Screen](e *env, path string) (T, error) {
	scr, err := shell.Open[T](e.app, path)
	if path != screens.PathLogin && e.app.Path() == screens.PathLogin {
		var zero T
		return zero, errNotSignedIn
	}
	if err != nil {
		if cur, ok := e.app.Current().(interface{ Err() string }); ok && cur.Err() != "" {
			return scr, fmt.Errorf("%s: %w", cur.Err(), err)
		}
		return scr, err
	}
	return scr, nil
}
