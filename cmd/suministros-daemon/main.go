package main

import (
	"fmt"
	"os"

	"github.com/Nephast0/web-de-administracion-de-suministros/config"
	"github.com/Nephast0/web-de-administracion-de-suministros/workers/daemons"
)

func CreateWorker(id string) daemons.Worker {
	switch id {
	case "cron_job":
		return daemons.NewCronJob()
	default:
		return nil
	}
}

func main() {
	if err := config.InitializeConfig(); err != nil {
		fmt.Println(err.Error())
		return
	}

	ARVG := os.Args[1:]

	for _, id := range ARVG {
		fmt.Println("Start suministros-daemon: " + id)
		worker := CreateWorker(id)
		if worker == nil {
			fmt.Println("Unknown worker: " + id)
			continue
		}

		worker.Start()
	}
}
