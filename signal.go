package adaptivepool

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// NotifyShutdown installs a signal handler that drains the pool when one of
// the given signals arrives (SIGINT and SIGTERM when none are named). The
// shutdown is non-blocking, so in-flight tasks finish in the background
// while the handler returns immediately. The returned func uninstalls the
// handler.
func NotifyShutdown(pool *Pool, signals ...os.Signal) (stop func()) {
	if len(signals) == 0 {
		signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, signals...)
	done := make(chan struct{})

	go func() {
		select {
		case <-ch:
			pool.Shutdown(false)
		case <-done:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(ch)
			close(done)
		})
	}
}
