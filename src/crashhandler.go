package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
)

// installCrashHandler sets up signal handlers for fatal signals (SIGSEGV, SIGABRT, SIGBUS).
// The stack of every goroutine goes to the log file, then the signal is
// re-raised with the default handler to get normal crash behavior.
func (app *PartialFace) installCrashHandler() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGSEGV, syscall.SIGABRT, syscall.SIGBUS)

	go func() {
		sig := <-sigChan
		app.logCrash(fmt.Sprintf("Fatal signal: %v", sig))

		signal.Reset(sig.(syscall.Signal))
		syscall.Kill(syscall.Getpid(), sig.(syscall.Signal))
	}()
}

// logCrash writes the message and all goroutine stacks, then syncs the file
func (app *PartialFace) logCrash(msg string) {
	buf := make([]byte, 16384)
	n := runtime.Stack(buf, true) // true = all goroutines

	app.Log.Error().Str("stack", string(buf[:n])).Msg("FATAL: " + msg)
	if app.logFile != nil {
		app.logFile.Sync()
	}
}
