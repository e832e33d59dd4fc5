/*
Package app signal handling implementation provides graceful shutdown and
cleanup functionality for the pgbar command. It handles system signals like
SIGINT and SIGTERM, ensuring the bar's render goroutine is released and the
worker pool drained before exit.
*/
package app

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/TheSohrabX/pgbar/pkg/logger"
)

// signalState tracks the state of signal handling
type signalState struct {
	shutdownInitiated atomic.Bool
}

// setupSignalHandling initializes signal handling for graceful shutdown
func (a *App) setupSignalHandling() {
	state := &signalState{}

	a.log.Debug("Initializing signal handlers")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan,
		syscall.SIGINT,
		syscall.SIGTERM,
	)

	go a.handleSignals(sigChan, state)
}

// handleSignals processes incoming system signals
func (a *App) handleSignals(sigChan chan os.Signal, state *signalState) {
	for sig := range sigChan {
		a.log.WithFields(logger.Fields{
			"signal": sig.String(),
		}).Debug("Received system signal")

		if state.shutdownInitiated.Load() {
			a.handleForcedShutdown()
			return
		}

		if !state.shutdownInitiated.CompareAndSwap(false, true) {
			continue
		}

		go a.handleGracefulShutdown()
	}
}

// handleGracefulShutdown performs a graceful shutdown of the application
func (a *App) handleGracefulShutdown() {
	a.log.Info("Interrupted, initiating graceful shutdown")

	if err := a.Shutdown(); err != nil {
		a.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Shutdown encountered errors")
	}

	os.Exit(130)
}

// handleForcedShutdown performs an immediate shutdown
func (a *App) handleForcedShutdown() {
	a.log.Warn("Received second interrupt, forcing shutdown")

	a.cancel()

	a.mu.RLock()
	if a.bar != nil {
		a.bar.Close()
	}
	a.mu.RUnlock()

	os.Exit(1)
}
