package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	"library-catalog/internal/config"
	"library-catalog/internal/domains/book/importer"
	"library-catalog/internal/domains/book/model"
	"library-catalog/internal/infrastructure/database"
	"library-catalog/internal/infrastructure/sqlite"
	"library-catalog/pkg/container"

	userRepo "library-catalog/internal/domains/user/repository"
	userService "library-catalog/internal/domains/user/service"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "catalogctl",
		Usage:   "Library catalog maintenance: imports, migrations, seed accounts",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "TOML file overlaid on the environment",
			},
		},
		Commands: []*cli.Command{
			importCommand(),
			migrateCommand(),
			seedCommand(),
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import books from a CSV or XLSX file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Path to the .csv or .xlsx file",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "sqlite",
				Usage: "Import into this SQLite file instead of PostgreSQL",
			},
			&cli.BoolFlag{
				Name:  "preview",
				Usage: "Parse and report without writing",
			},
		},
		Action: runImport,
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending PostgreSQL migrations",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			db, err := openPostgres(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := db.Migrate(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.Root().Writer, "applied %d migration(s)\n", len(applied))
			for _, name := range applied {
				fmt.Fprintf(cmd.Root().Writer, "  %s\n", filepath.Base(name))
			}
			return nil
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Create the default admin and user accounts when absent",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			db, err := openPostgres(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			// tokens are not issued while seeding
			svc := userService.NewUserService(userRepo.NewPostgresRepository(db.Pool), nil)
			created, err := svc.SeedDefaults(ctx, container.SeedAccounts(cfg.Seed))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.Root().Writer, "seeded %d account(s)\n", created)
			return nil
		},
	}
}

func runImport(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("file")
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if dbPath := cmd.String("sqlite"); dbPath != "" {
		return importSQLite(ctx, cmd, dbPath, path, f)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	c, err := container.NewContainer(cfg)
	if err != nil {
		return err
	}
	defer c.Cleanup()

	if cmd.Bool("preview") {
		preview, err := c.BulkImportService.PreviewFile(ctx, path, f)
		if err != nil {
			return err
		}
		printPreview(cmd.Root().Writer, preview)
		return nil
	}

	start := time.Now()
	result, err := c.BulkImportService.ImportFile(ctx, path, f)
	if err != nil {
		return err
	}
	printResult(cmd.Root().Writer, result, time.Since(start))
	return nil
}

func importSQLite(ctx context.Context, cmd *cli.Command, dbPath, fileName string, r io.Reader) error {
	db, err := sqlite.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	src, err := importer.OpenSource(fileName, r)
	if err != nil {
		return err
	}
	defer importer.CloseSource(src)

	store := db.NewImportStore()
	out := cmd.Root().Writer

	if cmd.Bool("preview") {
		preview, err := importer.Preview(ctx, src, store)
		if err != nil {
			return err
		}
		printPreview(out, preview)
		return nil
	}

	start := time.Now()
	result, err := importer.New(store).Run(ctx, src)
	if err != nil {
		return err
	}
	printResult(out, result, time.Since(start))

	authors, books, err := db.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "catalog now holds %d author(s) and %d book(s)\n", authors, books)
	return nil
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	if path := cmd.Root().String("config"); path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func openPostgres(ctx context.Context, cfg *config.Config) (*database.PostgresDB, error) {
	dbConfig, err := cfg.LoadDatabaseConfig()
	if err != nil {
		return nil, err
	}
	db := database.NewPostgresDB(dbConfig)
	if err := db.Connect(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

func printResult(w io.Writer, result *model.ImportResult, took time.Duration) {
	fmt.Fprintf(w, "authors added: %d\nbooks added:   %d\ntook:          %s\n",
		result.AuthorsAdded, result.BooksAdded, took.Round(time.Millisecond))
}

func printPreview(w io.Writer, p *model.ImportPreview) {
	fmt.Fprintf(w, "rows:             %d\ncandidates:       %d\ndistinct authors: %d\nnew authors:      %d\n",
		p.TotalRows, p.Candidates, p.DistinctAuthors, len(p.NewAuthors))
	for reason, n := range p.Skipped {
		fmt.Fprintf(w, "skipped (%s): %d\n", reason, n)
	}
}
