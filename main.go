package main

import (
	"context"
	"log"
	"os"

	"github.com/AleksKostadinov/todo-app/config"
	"github.com/AleksKostadinov/todo-app/modules/activity"
	"github.com/AleksKostadinov/todo-app/modules/auth"
	"github.com/AleksKostadinov/todo-app/modules/database"
	"github.com/AleksKostadinov/todo-app/modules/ratelimit"
	"github.com/AleksKostadinov/todo-app/modules/task"
	"github.com/AleksKostadinov/todo-app/modules/web"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	log.Println("=== Todo App ===")

	configFile := os.Getenv("TODO_CONFIG")
	if configFile == "" {
		configFile = config.DefaultConfigFile
	}
	cfg, err := config.Load(configFile, config.DefaultEnvFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	logger := app.Logger()

	// Plugins are started before any module that uses them
	if err := app.RegisterPlugin(database.NewPluginModule(cfg.Database, logger), "database"); err != nil {
		log.Fatalf("Failed to register database plugin: %v", err)
	}
	if err := app.RegisterPlugin(ratelimit.NewPluginModule(cfg.RateLimit, logger), "ratelimit"); err != nil {
		log.Fatalf("Failed to register ratelimit plugin: %v", err)
	}

	jwtConfig := auth.JWTConfig{
		SecretKey:     cfg.Auth.SecretKey,
		TokenDuration: cfg.Auth.TokenTTL,
		Issuer:        cfg.Auth.Issuer,
	}

	// Order: independent modules first, then dependent modules
	app.Register(activity.NewModule(cfg.Activity.FeedSize, logger)) // Consumes task events
	app.Register(auth.NewModule(jwtConfig, cfg.Auth.BcryptCost, logger))
	app.Register(task.NewModule(logger))
	app.Register(web.NewModule(web.Options{
		Addr:         cfg.HTTP.Addr,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		SessionTTL:   cfg.Auth.TokenTTL,
		CookieSecure: cfg.Session.CookieSecure,
	}, cfg.Session.RedisAddr, logger)) // Depends on auth, task and activity

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(cfg *config.Config) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Printf("  Database: %s", cfg.Database.Driver)
	log.Printf("  Listening on %s", cfg.HTTP.Addr)
	log.Println("")
	log.Println("Pages:")
	log.Println("  GET/POST /register          - Create an account (logs you in)")
	log.Println("  GET/POST /login             - Log in")
	log.Println("  GET/POST /logout            - Log out")
	log.Println("  GET      /                  - Your tasks")
	log.Println("  POST     /create/           - Add a task")
	log.Println("  GET      /detail/{id}/      - Task details")
	log.Println("  GET/POST /update/{id}/      - Edit a task")
	log.Println("  GET/POST /delete/{id}/      - Delete a task")
	log.Println("  POST     /delete_completed/ - Delete all completed tasks")
	log.Println("  GET      /health            - Health check")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
