// cmd/timetable/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"OxTimetable/pkg/log"
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var CLI struct {
	Globals

	Export ExportCmd `cmd:"" help:"Fetch the timetable and write the calendar files." default:"1"`
	Serve  ServeCmd  `cmd:"" help:"Serve freshly exported calendar files over HTTP."`
}

func main() {
	// .env is optional; real environment variables win.
	envError := godotenv.Load()

	rootContext, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	kongContext := kong.Parse(&CLI,
		kong.Name("timetable"),
		kong.Description("Export a lecture timetable web page as a calendar schedule"),
		kong.UsageOnError(),
		kong.BindTo(rootContext, (*context.Context)(nil)),
		kong.Vars{
			"termStart": defaultTermStart,
			"sourceURL": defaultSourceURL,
			"baseURL":   defaultBaseURL,
		},
	)

	if initError := log.Init(CLI.Prod); initError != nil {
		panic(initError)
	}
	if envError != nil && !os.IsNotExist(envError) {
		log.L().Warn("dotenv_load", zap.Error(envError))
	}

	runError := kongContext.Run(&CLI.Globals)
	stop()
	log.Sync()
	if runError != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runError)
		os.Exit(1)
	}
}
