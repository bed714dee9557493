//go:build windows

package main

import "os"

// stopSignals end a render or a watch session. Windows delivers only
// os.Interrupt through os/signal.
var stopSignals = []os.Signal{os.Interrupt}
