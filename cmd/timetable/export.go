package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"OxTimetable/pkg/export"
	"OxTimetable/pkg/log"
	"OxTimetable/pkg/timetable"
	"go.uber.org/zap"
)

const sourceUnreachableMessage = "Couldn't get lecture page, are you connected to the university network?"

type ExportCmd struct {
	Out string `short:"o" env:"TIMETABLE_OUT" default:"out.csv" help:"CSV file to overwrite."`
	ICS string `env:"TIMETABLE_ICS" help:"Also write an iCalendar file to this path."`
}

// Run exports the whole term. Nothing is written unless every page parsed.
func (c *ExportCmd) Run(ctx context.Context, globals *Globals) error {
	fetcher, release, fetcherError := globals.fetcher(ctx)
	if fetcherError != nil {
		return fetcherError
	}
	defer release()

	config, configError := globals.runConfig(fetcher)
	if configError != nil {
		return configError
	}

	days, exportError := timetable.Export(ctx, config)
	if exportError != nil {
		if errors.Is(exportError, timetable.ErrSourceUnreachable) {
			fmt.Fprintln(os.Stderr, sourceUnreachableMessage)
		}
		return exportError
	}

	if writeError := export.WriteFile(c.Out, days); writeError != nil {
		return fmt.Errorf("writing %s: %w", c.Out, writeError)
	}
	log.L().Info("csv_written", zap.String("path", c.Out))

	if c.ICS != "" {
		if writeError := export.WriteICSFile(c.ICS, days, time.Now()); writeError != nil {
			return fmt.Errorf("writing %s: %w", c.ICS, writeError)
		}
		log.L().Info("ics_written", zap.String("path", c.ICS))
	}
	return nil
}
