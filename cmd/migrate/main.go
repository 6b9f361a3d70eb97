package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instance "cloud.google.com/go/spanner/admin/instance/apiv1"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/light-bringer/procat-admin/internal/pkg/logging"
)

type options struct {
	backend    string
	projectID  string
	instanceID string
	databaseID string
	dsn        string
	migrateDir string
	down       bool
}

func main() {
	opts := options{}
	pflag.StringVar(&opts.backend, "backend", getEnvOrDefault("PROCAT_STORE_BACKEND", "spanner"), "spanner or postgres")
	pflag.StringVar(&opts.projectID, "project", getEnvOrDefault("SPANNER_PROJECT_ID", "test-project"), "GCP project ID")
	pflag.StringVar(&opts.instanceID, "instance", getEnvOrDefault("SPANNER_INSTANCE_ID", "dev-instance"), "Spanner instance ID")
	pflag.StringVar(&opts.databaseID, "database", getEnvOrDefault("SPANNER_DATABASE_ID", "catalog-db"), "Spanner database ID")
	pflag.StringVar(&opts.dsn, "dsn", os.Getenv("PROCAT_STORE_POSTGRES_DSN"), "Postgres DSN")
	pflag.StringVar(&opts.migrateDir, "migrations", "migrations", "Directory containing the spanner/ and postgres/ migration folders")
	pflag.BoolVar(&opts.down, "down", false, "Roll back every Postgres migration")
	pflag.Parse()

	logger, err := logging.New(logging.Config{Level: "info", Encoding: "console"})
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	switch opts.backend {
	case "spanner":
		if host := os.Getenv("SPANNER_EMULATOR_HOST"); host != "" {
			logger.Info("using Spanner emulator", zap.String("host", host))
		}
		err = runSpanner(ctx, logger, opts)
	case "postgres":
		err = runPostgres(logger, opts)
	default:
		err = fmt.Errorf("unsupported backend %q", opts.backend)
	}
	if err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	logger.Info("migrations completed successfully")
}

func runPostgres(logger *zap.Logger, opts options) error {
	if opts.dsn == "" {
		return errors.New("--dsn is required for postgres")
	}
	m, err := migrate.New(
		"file://"+filepath.Join(opts.migrateDir, "postgres"),
		pgxURL(opts.dsn),
	)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()
	m.Log = logging.NewPrintfAdapter(logger.Named("migrate"), true)

	if opts.down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		m.Log.Printf("no migrations to apply")
		return nil
	}
	return err
}

// pgxURL rewrites a postgres:// DSN for the pgx/v5 migrate driver.
func pgxURL(dsn string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, scheme) {
			return "pgx5://" + strings.TrimPrefix(dsn, scheme)
		}
	}
	return dsn
}

func runSpanner(ctx context.Context, logger *zap.Logger, opts options) error {
	// Ensure instance exists
	if err := ensureInstance(ctx, logger, opts); err != nil {
		return fmt.Errorf("failed to ensure instance: %w", err)
	}

	if err := ensureDatabase(ctx, logger, opts); err != nil {
		return fmt.Errorf("failed to ensure database: %w", err)
	}

	// Apply migrations
	if err := applySpannerMigrations(ctx, logger, opts); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

func ensureInstance(ctx context.Context, logger *zap.Logger, opts options) error {
	instanceAdmin, err := instance.NewInstanceAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create instance admin client: %w", err)
	}
	defer instanceAdmin.Close()

	instanceName := fmt.Sprintf("projects/%s/instances/%s", opts.projectID, opts.instanceID)
	_, err = instanceAdmin.GetInstance(ctx, &instancepb.GetInstanceRequest{Name: instanceName})
	if err == nil {
		logger.Info("instance already exists", zap.String("instance", instanceName))
		return nil
	}
	if status.Code(err) != codes.NotFound {
		logger.Warn("unexpected error checking instance", zap.Error(err))
		return nil
	}

	logger.Info("creating instance", zap.String("instance", instanceName))
	op, err := instanceAdmin.CreateInstance(ctx, &instancepb.CreateInstanceRequest{
		Parent:     fmt.Sprintf("projects/%s", opts.projectID),
		InstanceId: opts.instanceID,
		Instance: &instancepb.Instance{
			Config:      fmt.Sprintf("projects/%s/instanceConfigs/emulator-config", opts.projectID),
			DisplayName: "Development Instance",
			NodeCount:   1,
		},
	})
	if err != nil {
		if status.Code(err) != codes.AlreadyExists {
			return fmt.Errorf("failed to create instance: %w", err)
		}
		return nil
	}
	if _, err := op.Wait(ctx); err != nil && status.Code(err) != codes.AlreadyExists {
		logger.Warn("instance creation did not report completion", zap.Error(err))
	}
	return nil
}

func ensureDatabase(ctx context.Context, logger *zap.Logger, opts options) error {
	adminClient, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer adminClient.Close()

	dbPath := spannerDatabasePath(opts)
	_, err = adminClient.GetDatabase(ctx, &databasepb.GetDatabaseRequest{Name: dbPath})
	if err == nil {
		logger.Info("database already exists", zap.String("database", dbPath))
		return nil
	}
	if status.Code(err) != codes.NotFound {
		if os.Getenv("SPANNER_EMULATOR_HOST") != "" {
			logger.Warn("proceeding with database in emulator mode", zap.Error(err))
			return nil
		}
		return fmt.Errorf("failed to check database: %w", err)
	}

	logger.Info("creating database", zap.String("database", dbPath))
	op, err := adminClient.CreateDatabase(ctx, &databasepb.CreateDatabaseRequest{
		Parent:          fmt.Sprintf("projects/%s/instances/%s", opts.projectID, opts.instanceID),
		CreateStatement: fmt.Sprintf("CREATE DATABASE `%s`", opts.databaseID),
	})
	if err != nil {
		if status.Code(err) != codes.AlreadyExists {
			return fmt.Errorf("failed to create database: %w", err)
		}
		return nil
	}
	if _, err := op.Wait(ctx); err != nil {
		return fmt.Errorf("failed to wait for database creation: %w", err)
	}
	return nil
}

func applySpannerMigrations(ctx context.Context, logger *zap.Logger, opts options) error {
	adminClient, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer adminClient.Close()

	files, err := filepath.Glob(filepath.Join(opts.migrateDir, "spanner", "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to list migration files: %w", err)
	}
	sort.Strings(files)
	if len(files) == 0 {
		logger.Info("no migration files found")
		return nil
	}

	dbPath := spannerDatabasePath(opts)
	for _, file := range files {
		name := filepath.Base(file)
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		op, err := adminClient.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
			Database:   dbPath,
			Statements: splitDDLStatements(string(content)),
		})
		if err != nil {
			return fmt.Errorf("failed to start DDL update for %s: %w", name, err)
		}
		if err := op.Wait(ctx); err != nil {
			return fmt.Errorf("failed to apply DDL for %s: %w", name, err)
		}
		logger.Info("applied migration", zap.String("file", name))
	}
	return nil
}

func spannerDatabasePath(opts options) string {
	return fmt.Sprintf("projects/%s/instances/%s/databases/%s", opts.projectID, opts.instanceID, opts.databaseID)
}

// splitDDLStatements drops comment lines and splits on semicolons.
func splitDDLStatements(content string) []string {
	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		cleaned = append(cleaned, line)
	}

	var result []string
	for _, stmt := range strings.Split(strings.Join(cleaned, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			result = append(result, stmt)
		}
	}
	return result
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
