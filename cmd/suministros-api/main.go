package main

import (
	"fmt"
	"os"

	"github.com/Nephast0/web-de-administracion-de-suministros/config"
	"github.com/Nephast0/web-de-administracion-de-suministros/models"
	"github.com/Nephast0/web-de-administracion-de-suministros/routes"
	"github.com/Nephast0/web-de-administracion-de-suministros/services"
)

func main() {
	if err := config.InitializeConfig(); err != nil {
		fmt.Println(err.Error())
		return
	}

	if os.Getenv("DATABASE_MIGRATE") == "true" {
		if err := models.Migrate(config.DataBase); err != nil {
			config.Logger.Fatalf("migration failed: %v", err)
		}
	}

	if err := services.NewChartService(config.DataBase).Bootstrap(); err != nil {
		config.Logger.Fatalf("chart bootstrap failed: %v", err)
	}

	r := routes.SetupRouter(config.DataBase)
	r.Listen(":" + config.App.Port)
}
