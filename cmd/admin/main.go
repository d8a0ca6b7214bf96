// Command admin grants or revokes the admin flag by email. It is the only
// way to create the first administrator.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	_ "go.uber.org/automaxprocs"

	"go.uber.org/zap"

	"doggy-rescue/internal/app"
	"doggy-rescue/internal/core/auth"
	"doggy-rescue/internal/core/config"
	"doggy-rescue/internal/core/logger"
)

func main() {
	email := flag.String("email", "", "email of the account to change")
	revoke := flag.Bool("revoke", false, "remove the admin flag instead of granting it")
	cfgPath := flag.String("config", os.Getenv("CONFIG_PATH"), "config file")
	flag.Parse()
	if *email == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load(*cfgPath)
	if cfg.DB.Driver == "memory" {
		fmt.Fprintln(os.Stderr, "admin: the memory driver keeps no state between processes")
		os.Exit(2)
	}
	log, cleanup := logger.FromConfig(cfg.Log)
	defer cleanup()

	a, err := app.New(cfg, log)
	if err != nil {
		log.Fatal("startup failed", zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	defer a.Close(ctx)

	u, err := a.Users.FindByEmail(ctx, *email)
	if err != nil {
		log.Fatal("lookup user", zap.String("email", *email), zap.Error(err))
	}
	u, err = a.Identity.SetRole(ctx, auth.System(), u.ID, !*revoke)
	if err != nil {
		log.Fatal("set role", zap.String("email", *email), zap.Error(err))
	}
	log.Info("role updated", zap.String("email", u.Email), zap.Bool("isAdmin", u.IsAdmin))
}
