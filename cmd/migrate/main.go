package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	communityapp "github.com/Robi000/CMS/internal/application/community"
	financeapp "github.com/Robi000/CMS/internal/application/finance"
	identityapp "github.com/Robi000/CMS/internal/application/identity"
	"github.com/Robi000/CMS/internal/domain/identity"
	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/Robi000/CMS/internal/infrastructure/config"
	"github.com/Robi000/CMS/internal/infrastructure/logger"
	"github.com/Robi000/CMS/internal/infrastructure/migration"
	"github.com/Robi000/CMS/internal/infrastructure/persistence"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

func main() {
	var (
		migrationsPath string
		logLevel       string
	)

	flag.StringVar(&migrationsPath, "path", "", "Path to migrations directory (default: ./migrations)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:  logLevel,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	migrationsPath = resolveMigrationsPath(migrationsPath)
	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		log.Fatal("Failed to get absolute path", zap.Error(err))
	}
	migrationsPath = absPath

	log.Info("Migration CLI started",
		zap.String("command", command),
		zap.String("migrations_path", migrationsPath),
	)

	// create and list work without a database connection
	switch command {
	case "create":
		if len(args) < 2 {
			log.Fatal("Migration name required. Usage: migrate create <name> [description]")
		}
		name := args[1]
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		mf, err := migration.CreateMigration(migrationsPath, name, description)
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Migration created",
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return

	case "list":
		migrations, err := migration.ListMigrations(migrationsPath)
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		if len(migrations) == 0 {
			log.Info("No migrations found")
			return
		}
		log.Info("Available migrations", zap.Int("count", len(migrations)))
		for _, m := range migrations {
			fmt.Println("  -", m)
		}
		return

	case "seed":
		runSeed(cfg, log, args[1:])
		return
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	m, err := migration.New(db, migrationsPath, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	switch command {
	case "up":
		if err := m.Up(); err != nil {
			log.Fatal("Migration up failed", zap.Error(err))
		}

	case "down":
		if err := m.Down(); err != nil {
			log.Fatal("Migration down failed", zap.Error(err))
		}

	case "step":
		if len(args) < 2 {
			log.Fatal("Step count required. Usage: migrate step <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("Invalid step count", zap.String("value", args[1]))
		}
		if err := m.Steps(n); err != nil {
			log.Fatal("Migration step failed", zap.Error(err))
		}

	case "goto":
		if len(args) < 2 {
			log.Fatal("Version required. Usage: migrate goto <version>")
		}
		version, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			log.Fatal("Invalid version number", zap.String("value", args[1]))
		}
		if err := m.GoTo(uint(version)); err != nil {
			log.Fatal("Migration goto failed", zap.Error(err))
		}

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal("Failed to get version", zap.Error(err))
		}
		if version == 0 {
			log.Info("No migrations applied")
		} else {
			log.Info("Current migration version",
				zap.Uint("version", version),
				zap.Bool("dirty", dirty),
			)
		}

	case "force":
		if len(args) < 2 {
			log.Fatal("Version required. Usage: migrate force <version>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("Invalid version number", zap.String("value", args[1]))
		}
		log.Warn("Forcing migration version - use with caution!")
		if err := m.Force(version); err != nil {
			log.Fatal("Force version failed", zap.Error(err))
		}

	case "drop":
		confirm := false
		for _, arg := range args[1:] {
			if arg == "-confirm" || arg == "--confirm" {
				confirm = true
				break
			}
		}
		if !confirm {
			log.Fatal("Drop cancelled. Use 'migrate drop -confirm' to confirm.")
		}
		if err := m.Drop(); err != nil {
			log.Fatal("Drop failed", zap.Error(err))
		}

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

// runSeed bootstraps a fresh deployment: the association, its ledger
// account, and the first admin login. All regular endpoints require a
// token, so the first operator has to come from here.
func runSeed(cfg *config.Config, log *zap.Logger, args []string) {
	if len(args) < 5 {
		log.Fatal("Usage: migrate seed <place> <building-start> <building-end> <admin-username> <admin-password>")
	}
	place := args[0]
	buildingStart, err := strconv.Atoi(args[1])
	if err != nil {
		log.Fatal("Invalid building start", zap.String("value", args[1]))
	}
	buildingEnd, err := strconv.Atoi(args[2])
	if err != nil {
		log.Fatal("Invalid building end", zap.String("value", args[2]))
	}
	adminUsername := args[3]
	adminPassword := args[4]

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	clock := shared.SystemClock{}
	txManager := persistence.NewGormTransactionManager(db.DB)
	associationRepo := persistence.NewGormAssociationRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerAccountRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	financialTxRepo := persistence.NewGormFinancialTransactionRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	ledgerService := financeapp.NewLedgerService(ledgerRepo, invoiceRepo, financialTxRepo, clock)
	associationService := communityapp.NewAssociationService(associationRepo, ledgerService, txManager, log)
	userService := identityapp.NewUserService(userRepo, log)

	ctx := context.Background()

	association, err := associationService.Create(ctx, communityapp.CreateAssociationRequest{
		Place:               place,
		BuildingNumberStart: buildingStart,
		BuildingNumberEnd:   buildingEnd,
	})
	if err != nil {
		log.Fatal("Failed to create association", zap.Error(err))
	}
	log.Info("Association created",
		zap.String("id", association.ID.String()),
		zap.String("place", association.Place),
	)

	admin, err := userService.Register(ctx, identityapp.RegisterUserInput{
		AssociationID: association.ID,
		Username:      adminUsername,
		Password:      adminPassword,
		Role:          identity.UserRoleAdmin,
		CreatedBy:     "seed",
	})
	if err != nil {
		log.Fatal("Failed to create admin user", zap.Error(err))
	}
	log.Info("Admin user created",
		zap.String("id", admin.ID.String()),
		zap.String("username", admin.Username),
	)
}

func resolveMigrationsPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if _, err := os.Stat(defaultMigrationsPath); err == nil {
		return defaultMigrationsPath
	}
	if execPath, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(execPath), "..", "..", defaultMigrationsPath)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return defaultMigrationsPath
}

func printUsage() {
	fmt.Println(`CMS Database Migration Tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (positive=up, negative=down)
  goto <version>        Migrate to a specific version
  version               Show current migration version
  force <version>       Force set migration version (use with caution)
  drop -confirm         Drop all database objects (DANGEROUS)
  create <name> [desc]  Create a new migration file pair
  list                  List available migrations
  seed <place> <building-start> <building-end> <admin-username> <admin-password>
                        Create the association and its first admin user

Flags:
  -path string          Path to migrations directory (default: ./migrations)
  -log-level string     Log level: debug, info, warn, error (default: info)

Environment Variables:
  DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME, DB_SSL_MODE

Examples:
  # Apply all pending migrations
  migrate up

  # Roll back the last migration
  migrate step -1

  # Bootstrap a fresh deployment
  migrate seed "Ayat Zone 3" 1 12 admin "change-me-now"

  # Check current version
  migrate version`)
}
