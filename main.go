package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	"github.com/mailsift/mailsift/config"
	"github.com/mailsift/mailsift/dto"
	"github.com/mailsift/mailsift/internal/database"
	"github.com/mailsift/mailsift/internal/logger"
	"github.com/mailsift/mailsift/internal/repository"
	"github.com/mailsift/mailsift/server"
	"github.com/mailsift/mailsift/services"
)

func main() {
	app := &cli.App{
		Name:  "mailsift",
		Usage: "mailbox ingestion and classification service",
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the application server",
				Action: func(c *cli.Context) error {
					return runServer()
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(c *cli.Context) error {
					return runMigrations()
				},
			},
			{
				Name:  "ingest",
				Usage: "Run a single ingestion pass and exit",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "category",
						Usage: "mailbox category to process (repeatable)",
					},
					&cli.IntFlag{
						Name:  "max-emails",
						Usage: "maximum messages per category",
						Value: 10,
					},
					&cli.StringFlag{
						Name:  "start-date",
						Usage: "only messages on or after this date (YYYY-MM-DD)",
					},
					&cli.StringFlag{
						Name:  "end-date",
						Usage: "only messages before this date (YYYY-MM-DD)",
					},
				},
				Action: func(c *cli.Context) error {
					return runIngestion(c)
				},
			},
			{
				Name:  "seed",
				Usage: "Insert sample records",
				Action: func(c *cli.Context) error {
					return runSeed()
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setup() (*config.Config, *gorm.DB, error) {
	cfg, err := config.InitConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("config initialization failed: %w", err)
	}

	db, err := database.NewConnection(cfg.DatabaseConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("database initialization failed: %w", err)
	}

	return cfg, db, nil
}

func runServer() error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}

	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("MailSift starting up...")

	srv, err := server.NewServer(cfg, db)
	if err != nil {
		return fmt.Errorf("server setup failed: %w", err)
	}

	return srv.Run()
}

func runMigrations() error {
	_, db, err := setup()
	if err != nil {
		return err
	}

	if err := repository.MigrateDB(db); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}

	log.Println("Database migration completed successfully")
	return nil
}

func initServices(cfg *config.Config, db *gorm.DB) (*services.Services, error) {
	appLogger := logger.NewAppLogger(cfg.Logger)
	appLogger.InitLogger()

	repos := repository.InitRepositories(db)
	return services.InitServices(cfg, appLogger, repos)
}

func runIngestion(c *cli.Context) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}

	svcs, err := initServices(cfg, db)
	if err != nil {
		return err
	}

	request := dto.IngestionRequest{
		Categories: c.StringSlice("category"),
		MaxEmails:  c.Int("max-emails"),
		StartDate:  c.String("start-date"),
		EndDate:    c.String("end-date"),
	}

	report := svcs.IngestionService.ProcessRequest(context.Background(), request)
	if !report.Success {
		return fmt.Errorf("ingestion failed: %s", report.Message)
	}

	for category, processed := range report.Results {
		log.Printf("Processed %d messages in %s", processed, category)
	}
	return nil
}

func runSeed() error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}

	svcs, err := initServices(cfg, db)
	if err != nil {
		return err
	}

	added, err := svcs.SeedService.AddSampleData(context.Background())
	if err != nil {
		return err
	}

	log.Printf("Added %d sample emails", added)
	return nil
}
