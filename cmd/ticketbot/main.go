package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/m3rciful/ticketbot/core/bootstrap"
	"github.com/m3rciful/ticketbot/core/buildinfo"
	corecmd "github.com/m3rciful/ticketbot/core/cmd"
	"github.com/m3rciful/ticketbot/internal/app"
	"github.com/m3rciful/ticketbot/internal/booking"
	"github.com/m3rciful/ticketbot/internal/bot"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Printf("ticketbot: %v", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("ticketbot", pflag.ContinueOnError)
	configPath := flags.StringP("config", "c", "", "path to the YAML config (default: $CONFIG_PATH or config.yaml)")
	envFile := flags.String("env-file", ".env", "dotenv file loaded before the config; missing files are ignored")
	showVersion := flags.Bool("version", false, "print the build version and exit")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if *showVersion {
		fmt.Println("ticketbot", buildinfo.String())
		return nil
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", *envFile, err)
	}

	var db *sqlx.DB
	defer func() {
		if db != nil {
			_ = db.Close()
		}
	}()

	return corecmd.Run(corecmd.Options{
		ConfigPath:        *configPath,
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return app.Load(path)
		},
		Bootstrap: func(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			cfg, ok := carrier.(*app.Config)
			if !ok {
				return nil, fmt.Errorf("unexpected config type %T", carrier)
			}
			res, err := bootstrap.Run(bootstrap.Options{
				Config:      cfg.CoreConfig(),
				Database:    cfg.Database,
				UseDatabase: cfg.UsesDatabase(),
			})
			if err != nil {
				return nil, err
			}
			db = res.DB
			return bot.NewApp(cfg, newStore(cfg, db)), nil
		},
	})
}

func newStore(cfg *app.Config, db *sqlx.DB) booking.Store {
	if cfg.UsesDatabase() && db != nil {
		return booking.NewPGStore(db)
	}
	return booking.NewFileStore(cfg.Storage.Path)
}
