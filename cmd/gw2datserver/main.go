package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ptolstoi/gw2datserver/internal/gw2datserver"
)

var (
	_version   string = "UNSET"
	_buildTime string = "UNSET"
)

func main() {
	fmt.Printf("\n\n\n\n\n\nStarting GW2DatServer\n=====================\n")

	listenOn := gw2datserver.DefaultAddress

	if len(os.Args) > 1 {
		listenOn = os.Args[1]
	}

	config := gw2datserver.ConfigFromEnv(listenOn)
	config.Version = _version
	config.BuildTime = _buildTime

	app, err := gw2datserver.NewApp(config)
	if err != nil {
		log.Fatalf("couldn't create app: %v", err)
	}

	if err := app.RunUntilSignal(); err != nil {
		log.Fatalf("error: %v", err)
	}
}
