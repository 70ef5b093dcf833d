// Package main - точка входа демонстрационного сценария University Records.
//
// Сценарий фиксирован: два студента, два курса, зачисление, оценки,
// посещаемость и сводный отчёт в stdout. Логи пишутся в stderr, чтобы
// stdout содержал только отчёт.
//
// Архитектура:
// - Domain: сущности Student, Course и снимок отчёта
// - Application: EnrollmentService (command), PerformanceService (query)
// - Infrastructure: in-memory репозитории, архив в PostgreSQL, кеш в Redis
// - Interface: консольный ReportService
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alem-hub/university-records/config"
	"github.com/alem-hub/university-records/internal/application/command"
	"github.com/alem-hub/university-records/internal/application/query"
	"github.com/alem-hub/university-records/internal/domain/course"
	"github.com/alem-hub/university-records/internal/domain/report"
	"github.com/alem-hub/university-records/internal/domain/student"
	"github.com/alem-hub/university-records/internal/infrastructure/persistence/memory"
	"github.com/alem-hub/university-records/internal/infrastructure/persistence/postgres"
	"github.com/alem-hub/university-records/internal/infrastructure/persistence/redis"
	"github.com/alem-hub/university-records/internal/interface/console"
	"github.com/alem-hub/university-records/pkg/logger"
	"github.com/alem-hub/university-records/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout, stderr io.Writer) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg, stderr)
	ctx = logger.WithContext(ctx, log)
	log.Info("starting University Records",
		"env", cfg.App.Environment,
		"version", cfg.App.Version,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. СЦЕНАРИЙ
	// ─────────────────────────────────────────────────────────────────────────
	studentRepo := memory.NewStudentRepository()
	courseRepo := memory.NewCourseRepository()
	enrollment := command.NewEnrollmentService(studentRepo, courseRepo, log)

	seedScenario(studentRepo, courseRepo, enrollment, log)

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ОТЧЁТ
	// ─────────────────────────────────────────────────────────────────────────
	reports := console.NewReportService(
		console.WithWriter(stdout),
		console.WithPerformance(query.NewPerformanceService(query.DefaultGradeScale())),
		console.WithLogger(log),
	)
	snapshot := reports.FullReport(studentRepo, courseRepo)

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ПЕРЕДАЧА СНИМКА В АРХИВ И КЕШ (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	sinks, closeSinks := openSinks(ctx, cfg, log)
	defer closeSinks()

	publishSnapshot(ctx, cfg, snapshot, sinks)

	log.Info("report completed", logger.RunID(snapshot.RunID))
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SCENARIO
// ══════════════════════════════════════════════════════════════════════════════

// seedScenario creates the fixed demonstration data.
// Enrollment targets course "101", which matches neither stored course,
// so both enrollments are rejected and the course lines show zero students.
func seedScenario(
	students student.Repository,
	courses course.Repository,
	enrollment *command.EnrollmentService,
	log *slog.Logger,
) {
	alice := student.NewStudent("1", "Alice", "alice@uni.com")
	bob := student.NewStudent("2", "Bob", "bob@uni.com")

	students.Add(alice)
	students.Add(bob)

	courses.Add(course.NewCourse("CS101", "Intro to Programming", "3"))
	courses.Add(course.NewCourse("CS201", "Data Structures", "21"))

	enrollment.EnrollStudent("1", "101")
	enrollment.EnrollStudent("2", "101")

	log.Debug("scenario seeded", "students", students.Len(), "courses", courses.Len())

	alice.RecordGrade("101", "C")
	alice.RecordAttendance("105", []bool{true, true, false, true})

	bob.RecordGrade("101", "B")
	bob.RecordAttendance("102", []bool{true, false, true})
}

// ══════════════════════════════════════════════════════════════════════════════
// SINKS
// ══════════════════════════════════════════════════════════════════════════════

type namedSink struct {
	name string
	sink report.Sink
}

// openSinks connects the configured report sinks. A sink that cannot connect
// is skipped with a warning; the report itself has already been printed.
func openSinks(ctx context.Context, cfg *config.Config, log *slog.Logger) ([]namedSink, func()) {
	var (
		sinks   []namedSink
		closers []func()
	)

	if cfg.Database.Enabled {
		db, err := postgres.Open(ctx, cfg.Database.URL, postgres.Settings{
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.ConnMaxLifetime,
			QueryTimeout:    cfg.Database.QueryTimeout,
		})
		if err != nil {
			log.Warn("report archive disabled", logger.Err(err))
		} else {
			closers = append(closers, db.Close)
			applied, err := postgres.NewMigrator(db).Migrate(ctx)
			if err != nil {
				log.Warn("report archive disabled: migrations failed", logger.Err(err))
			} else {
				log.Info("report archive ready", "migrations_applied", applied)
				sinks = append(sinks, namedSink{name: "postgres", sink: postgres.NewReportArchive(db)})
			}
		}
	}

	if cfg.Redis.Enabled {
		client, err := redis.Dial(ctx, redis.Options{
			Addr:         fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			log.Warn("report cache disabled", logger.Err(err))
		} else {
			closers = append(closers, func() { _ = client.Close() })
			sinks = append(sinks, namedSink{name: "redis", sink: redis.NewReportCache(client, cfg.Redis.ReportTTL)})
		}
	}

	return sinks, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
}

// publishSnapshot hands the snapshot to every sink; failures are only logged.
func publishSnapshot(
	ctx context.Context,
	cfg *config.Config,
	snapshot *report.Snapshot,
	sinks []namedSink,
) {
	log := logger.FromContext(ctx)
	policy := sinkRetryPolicy(cfg)

	for _, s := range sinks {
		sinkLog := log.With(logger.Sink(s.name), logger.RunID(snapshot.RunID))
		sinkCtx, cancel := context.WithTimeout(ctx, cfg.Report.SinkTimeout)
		err := retry.Run(sinkCtx, policy, func(ctx context.Context) error {
			return s.sink.Save(ctx, snapshot)
		}, func(attempt int, err error, wait time.Duration) {
			sinkLog.Warn("report sink failed, retrying",
				"attempt", attempt,
				"delay", wait,
				logger.Err(err),
			)
		})
		cancel()

		if err != nil {
			sinkLog.Error("failed to save report snapshot", logger.Err(err))
			continue
		}
		sinkLog.Info("report snapshot saved")
	}
}

// sinkRetryPolicy applies the configured attempt count and first delay.
// Which failures are retried is decided by the sinks themselves.
func sinkRetryPolicy(cfg *config.Config) retry.Policy {
	p := retry.DefaultPolicy()
	p.MaxAttempts = cfg.Report.SinkMaxAttempts
	p.InitialDelay = cfg.Report.SinkRetryDelay
	return p
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger настраивает структурированное логирование.
// JSON формат для production (лучше для агрегаторов логов),
// текстовый для development (лучше читается).
func setupLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := logger.Options{
		Output: w,
		Level:  logger.ParseLevel(cfg.Observability.LogLevel),
		Format: logger.ParseFormat(cfg.Observability.LogFormat),
	}

	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}
	if cfg.IsProduction() {
		opts.Format = logger.FormatJSON
	}

	log := logger.New(opts)
	slog.SetDefault(log)

	return log
}
