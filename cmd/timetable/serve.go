// cmd/timetable/serve.go
package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"OxTimetable/pkg/export"
	"OxTimetable/pkg/log"
	"OxTimetable/pkg/timetable"
	"go.uber.org/zap"
)

const (
	csvContentType      = "text/csv; charset=utf-8"
	icsContentType      = "text/calendar; charset=utf-8"
	shutdownGracePeriod = 5 * time.Second
)

type ServeCmd struct {
	Addr string `env:"TIMETABLE_ADDR" default:":8080" help:"Listen address."`
}

// Run serves /schedule.csv and /schedule.ics. Every request runs a complete
// export with its own detail cache.
func (c *ServeCmd) Run(ctx context.Context, globals *Globals) error {
	fetcher, release, fetcherError := globals.fetcher(ctx)
	if fetcherError != nil {
		return fetcherError
	}
	defer release()

	config, configError := globals.runConfig(fetcher)
	if configError != nil {
		return configError
	}

	server := &http.Server{Addr: c.Addr, Handler: newScheduleMux(config)}
	go func() {
		<-ctx.Done()
		shutdownContext, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer cancel()
		_ = server.Shutdown(shutdownContext)
	}()

	log.L().Info("server_start", zap.String("addr", c.Addr))
	if serveError := server.ListenAndServe(); serveError != nil && !errors.Is(serveError, http.ErrServerClosed) {
		return serveError
	}
	return nil
}

func newScheduleMux(config timetable.RunConfig) *http.ServeMux {
	httpMux := http.NewServeMux()
	httpMux.HandleFunc("GET /schedule.csv", func(writer http.ResponseWriter, request *http.Request) {
		days, ok := exportForRequest(writer, request, config)
		if !ok {
			return
		}
		writer.Header().Set("Content-Type", csvContentType)
		if writeError := export.WriteCSV(writer, days); writeError != nil {
			log.L().Warn("response_write", zap.String("path", request.URL.Path), zap.Error(writeError))
		}
	})
	httpMux.HandleFunc("GET /schedule.ics", func(writer http.ResponseWriter, request *http.Request) {
		days, ok := exportForRequest(writer, request, config)
		if !ok {
			return
		}
		writer.Header().Set("Content-Type", icsContentType)
		if _, writeError := writer.Write([]byte(export.ICS(days, time.Now()))); writeError != nil {
			log.L().Warn("response_write", zap.String("path", request.URL.Path), zap.Error(writeError))
		}
	})
	return httpMux
}

func exportForRequest(writer http.ResponseWriter, request *http.Request, config timetable.RunConfig) ([]timetable.Day, bool) {
	days, exportError := timetable.Export(request.Context(), config)
	if exportError == nil {
		return days, true
	}
	log.L().Warn("export_error", zap.String("path", request.URL.Path), zap.Error(exportError))
	if errors.Is(exportError, timetable.ErrSourceUnreachable) {
		http.Error(writer, sourceUnreachableMessage, http.StatusBadGateway)
	} else {
		http.Error(writer, "timetable could not be parsed", http.StatusInternalServerError)
	}
	return nil, false
}
