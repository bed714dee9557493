//go:build !windows

package main

import (
	"os"
	"syscall"
)

// stopSignals end a render or a watch session. SIGHUP is included so a
// watcher started from a closed terminal shuts down and flushes its logs.
var stopSignals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP}
