package app

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/openrace/corrida-api/internal/api"
	"github.com/openrace/corrida-api/internal/config"
	"github.com/openrace/corrida-api/internal/db"
	"github.com/openrace/corrida-api/internal/logger"
	"github.com/openrace/corrida-api/internal/repository"
	"github.com/openrace/corrida-api/internal/repository/dao"
	"github.com/openrace/corrida-api/internal/service"
)

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	// The reaper is owned here, not by a package-level singleton, so the
	// process can stop it cleanly and tests can drive sweeps synchronously.
	orderDAO := dao.NewOrderDAO(postgresDB)
	orderRepo := repository.NewOrderRepository(orderDAO)
	reaper := service.NewExpirationReaper(orderRepo, conf.Reaper.Interval())
	reaper.Start()
	defer reaper.Stop()

	s := api.NewServer(conf, postgresDB, reaper)

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}
