package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/curbspot/curbspot/internal/availability/application"
	"github.com/curbspot/curbspot/internal/availability/domain"
	rediscache "github.com/curbspot/curbspot/internal/availability/infrastructure/cache"
	"github.com/curbspot/curbspot/internal/availability/infrastructure/persistence"
	"github.com/curbspot/curbspot/internal/shared/infrastructure/eventbus"
	"github.com/curbspot/curbspot/pkg/config"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var (
	checkResources []string
	checkFrom      string
	checkTo        string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check availability of parking spaces for a time window",
	Example: `  curbspot check \
    --resource 7d9f8c1e-0000-4000-8000-000000000001 \
    --resource 7d9f8c1e-0000-4000-8000-000000000002 \
    --from 2026-09-07T10:00:00Z --to 2026-09-07T12:00:00Z`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringArrayVar(&checkResources, "resource", nil, "resource ID to check (repeatable)")
	checkCmd.Flags().StringVar(&checkFrom, "from", "", "window start (RFC3339)")
	checkCmd.Flags().StringVar(&checkTo, "to", "", "window end (RFC3339)")
	_ = checkCmd.MarkFlagRequired("resource")
	_ = checkCmd.MarkFlagRequired("from")
	_ = checkCmd.MarkFlagRequired("to")
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	interval, err := parseWindow(checkFrom, checkTo)
	if err != nil {
		return err
	}

	resourceIDs := make([]uuid.UUID, 0, len(checkResources))
	for _, raw := range checkResources {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid resource id %q: %w", raw, err)
		}
		resourceIDs = append(resourceIDs, id)
	}

	schedules, reservations, cleanup, err := openProviders(cmd, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	resultCache, err := openCache(cfg)
	if err != nil {
		return err
	}

	var publisher eventbus.Publisher
	if cfg.RabbitMQURL != "" {
		publisher, err = eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			logger.Warn("event publishing disabled", "error", err)
			publisher = nil
		} else {
			defer func() { _ = publisher.Close() }()
		}
	}

	checkerCfg := application.DefaultCheckerConfig()
	checkerCfg.CacheTTL = cfg.CacheTTL
	checker := application.NewAvailabilityChecker(schedules, reservations, resultCache, checkerCfg, logger).
		WithPublisher(publisher)

	coordinator := application.NewBatchAvailabilityCoordinator(checker, application.CoordinatorConfig{
		Concurrency: cfg.BatchConcurrency,
		Timeout:     cfg.BatchTimeout,
	}, logger).
		WithPublisher(publisher).
		WithProgress(func(done, total int) {
			logger.Debug("checking", "done", done, "total", total)
		})

	results, summary := coordinator.CheckAllWithSummary(ctx, resourceIDs, interval)

	printResults(cmd, results, summary)
	return nil
}

func parseWindow(from, to string) (domain.Interval, error) {
	start, err := time.Parse(time.RFC3339, from)
	if err != nil {
		return domain.Interval{}, fmt.Errorf("invalid --from: %w", err)
	}
	end, err := time.Parse(time.RFC3339, to)
	if err != nil {
		return domain.Interval{}, fmt.Errorf("invalid --to: %w", err)
	}
	return domain.NewInterval(start, end)
}

func openProviders(cmd *cobra.Command, cfg *config.Config) (domain.ScheduleProvider, domain.ReservationProvider, func(), error) {
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(cmd.Context(), cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return persistence.NewPostgresScheduleProvider(pool),
			persistence.NewPostgresReservationProvider(pool),
			pool.Close,
			nil
	}

	db, err := persistence.OpenSQLite(cfg.SQLitePath)
	if err != nil {
		return nil, nil, nil, err
	}
	return persistence.NewSQLiteScheduleProvider(db),
		persistence.NewSQLiteReservationProvider(db),
		func() { _ = db.Close() },
		nil
}

func openCache(cfg *config.Config) (application.ResultCache, error) {
	if cfg.RedisURL == "" {
		return application.NewInMemoryResultCache(), nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return rediscache.NewRedisResultCache(redis.NewClient(opts), logger), nil
}

func printResults(cmd *cobra.Command, results map[uuid.UUID]domain.AvailabilityResult, summary domain.Summary) {
	ids := make([]uuid.UUID, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return strings.Compare(ids[i].String(), ids[j].String()) < 0 })

	out := cmd.OutOrStdout()
	for _, id := range ids {
		r := results[id]
		line := fmt.Sprintf("%s  %s", id, r.Verdict)
		if r.Reason != "" {
			line += fmt.Sprintf("  (%s)", r.Reason)
		}
		if r.Conflict != nil {
			line += fmt.Sprintf("  conflicts with %s %s", r.Conflict.ID, r.Conflict.Interval)
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "\n%d available, %d unavailable, %d unknown\n",
		summary.Available, summary.Unavailable, summary.Unknown)
}
