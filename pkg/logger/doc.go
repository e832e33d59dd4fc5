/*
Package logger provides a structured logging solution for the pgbar
module. It wraps uber-go/zap to provide a simpler interface with support
for different verbosity levels and structured logging.

Basic Usage:

	logger := logger.NewLogger(logger.Config{
	    Verbosity: 0,  // Default level (INFO)
	})

	// Simple logging
	logger.Info("Run started")
	logger.Debug("Activating render strategy") // Only shown with verbosity >= 1
	logger.Trace("Counter advanced")           // Only shown with verbosity >= 2

Verbosity Levels:

	0: Info, Warn, Error (default)
	1: Debug + Level 0
	2: Trace + Level 1

Structured Logging:

	logger.WithFields(logger.Fields{
	    "component": "pgbar",
	    "total":     100,
	    "mode":      "threaded",
	}).Info("Progress bar created")

Output Example (JSON):

	{
	    "level": "info",
	    "ts": "2024-01-20T15:04:05.000Z",
	    "message": "Progress bar created",
	    "component": "pgbar",
	    "total": 100,
	    "mode": "threaded"
	}

Environment Integration:

	verbosity := 0
	if verbose := os.Getenv("PGBAR_VERBOSE"); verbose != "" {
	    verbosity = len(verbose)  // Each 'v' increases verbosity
	}

	logger := logger.NewLogger(logger.Config{
	    Verbosity: verbosity,
	})

Thread Safety:

The logger is safe for concurrent use by multiple goroutines. All
logging methods can be called concurrently.

Silencing:

Use Nop() for a logger that discards everything; the progress bar falls
back to it when constructed without a logger. Logs default to stderr,
the same stream the bar draws on by default, so callers that enable
verbose logging should direct one of the two elsewhere.
*/
package logger
