package main

import (
	"log"
	"os"

	"go.uber.org/zap"
)

// structured logging for the request/job paths.  startup code logs through
// the standard logger before zap is available.
func initializeLogger() *zap.SugaredLogger {
	var logger *zap.Logger
	var err error

	if os.Getenv("SHOWROOM_ACTIVITIES_WS_DEV_MODE") != "" {
		logger, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.DisableCaller = true
		logger, err = cfg.Build()
	}

	if err != nil {
		log.Printf("[MAIN] ERROR: failed to initialize logger: %s", err.Error())
		os.Exit(1)
	}

	return logger.Sugar()
}
