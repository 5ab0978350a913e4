package main

import (
	"github.com/devlink/devlink/config"
	"github.com/devlink/devlink/models"
	"github.com/devlink/devlink/routes"
	"github.com/devlink/devlink/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Profile{},
		&models.Experience{},
		&models.Education{},
		&models.Post{},
		&models.Like{},
		&models.Comment{},
	)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
