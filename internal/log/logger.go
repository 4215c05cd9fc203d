package log

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
)

// Init builds the process logger. Production uses JSON output at info level,
// development a console encoder at debug level.
func Init(production bool) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if production {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	mu.Lock()
	logger = l
	mu.Unlock()
	zap.ReplaceGlobals(l)
	return l, nil
}

// L returns the process logger; a no-op logger until Init is called.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}
