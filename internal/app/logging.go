package app

import (
	"github.com/dshills/promptline/internal/config"
	"github.com/dshills/promptline/internal/logging"
)

// NewLogger builds the logger the config describes. Without a log file
// everything is discarded, since the terminal belongs to the prompt.
// The returned function closes the log file.
func NewLogger(cfg *config.Config) (*logging.Logger, func() error, error) {
	lc := cfg.LoggingConfig()
	if cfg.Log.File == "" {
		return logging.New(lc), func() error { return nil }, nil
	}
	f, err := logging.OpenFile(cfg.Log.File)
	if err != nil {
		return nil, nil, NewOperationError("open log", cfg.Log.File, err)
	}
	lc.Output = f
	return logging.New(lc), f.Close, nil
}
