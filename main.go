package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"golang.org/x/term"

	"keynotes/beep"
	"keynotes/clipboard"
	"keynotes/doctor"
	"keynotes/instance"
	"keynotes/keyboard"
	"keynotes/log"
	"keynotes/notes"
	"keynotes/paste"
	"keynotes/server"
	"keynotes/shutdown"
)

var version = "dev"

func run() int {
	addrFlag := flag.String("addr", "", "HTTP listen address (default "+server.DefaultAddr+", or KEYNOTES_ADDR)")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	tuiFlag := flag.Bool("tui", true, "Run with terminal UI")
	copyFlag := flag.Bool("copy", false, "Copy each committed note to the clipboard")
	pasteFlag := flag.Bool("paste", false, "Paste each committed note into the focused window (implies -copy)")
	beepFlag := flag.Bool("beep", true, "Play a sound when recording starts, commits or cancels")
	doctorFlag := flag.Bool("doctor", false, "Run system diagnostics and exit")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	testFlag := flag.Bool("test", false, "Test mode (headless, key names read from stdin)")
	profileFlag := flag.String("profile", "", "Enable pprof profiling server (e.g., :6060 or localhost:6060)")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("keynotes %s\n", version)
		return 0
	}

	addr := server.ResolveAddr(*addrFlag)

	if *doctorFlag {
		return doctor.Run(addr)
	}

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		return 1
	}
	log.SetDir(logPath)
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	if crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	if *profileFlag != "" {
		go func() {
			fmt.Fprintf(os.Stderr, "pprof server listening on http://%s/debug/pprof/\n", *profileFlag)
			if err := http.ListenAndServe(*profileFlag, nil); err != nil {
				fmt.Fprintf(os.Stderr, "pprof server error: %v\n", err)
			}
		}()
	}

	if !*beepFlag || *testFlag {
		beep.Disable()
	}
	if *pasteFlag {
		*copyFlag = true
	}
	if *copyFlag && !clipboard.Available() {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", clipboard.ErrUnsupported)
		log.Warn("clipboard unavailable, -copy has no effect")
	}

	if !*testFlag {
		lock, err := instance.Acquire(log.Dir())
		switch {
		case errors.Is(err, instance.ErrRunning):
			log.Errorf("instance lock: %v", err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		case err != nil:
			log.Warnf("instance lock: %v", err)
		default:
			defer lock.Release()
		}
	}

	cell := notes.New()
	sink := &feedback{copyNotes: *copyFlag, pasteNotes: *pasteFlag && !*testFlag}

	srv := server.New(cell)
	if err := srv.Listen(addr); err != nil {
		log.Errorf("http listen error: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	sigCtx, stopSignals := shutdown.Context(context.Background())
	defer stopSignals()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	log.SessionStart(version, srv.Addr())
	defer func() {
		if snap, err := cell.Snapshot(); err == nil {
			log.SessionEnd(len(snap.Notes))
		}
	}()

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ctx) }()

	if *testFlag {
		err := runScript(ctx, os.Stdin, os.Stdout, cell, sink)
		cancel()
		<-serveErr
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	src := keyboard.New()
	if err := src.Register(); err != nil {
		log.Errorf("keyboard register error: %v", err)
		fmt.Fprintf(os.Stderr, "Error registering keyboard: %v\n", err)
		cancel()
		<-serveErr
		return 1
	}
	defer src.Unregister()

	if sink.pasteNotes {
		if err := paste.Init(); err != nil {
			log.Warnf("paste init: %v", err)
			fmt.Fprintf(os.Stderr, "Warning: paste unavailable, falling back to -copy: %v\n", err)
			sink.pasteNotes = false
		}
	}

	tuiDone := make(chan struct{})
	if *tuiFlag && term.IsTerminal(int(os.Stdout.Fd())) {
		p := NewTUIProgram(srv.Addr(), cell.Snapshot)
		tuiMu.Lock()
		tuiProgram = p
		tuiMu.Unlock()

		go func() {
			defer close(tuiDone)
			if _, err := p.Run(); err != nil {
				log.Errorf("TUI error: %v", err)
			}
			cancel()
		}()
	} else {
		close(tuiDone)
		fmt.Printf("Listening on http://%s\n", srv.Addr())
	}

	ingestErr := make(chan error, 1)
	go func() { ingestErr <- ingest(ctx, src.Keys(), cell, sink) }()

	code := 0
	select {
	case <-ctx.Done():
	case err := <-ingestErr:
		if err != nil {
			log.Errorf("ingest error: %v", err)
			code = 1
		}
	case err := <-serveErr:
		serveErr <- err
		if err != nil {
			log.Errorf("http server error: %v", err)
			code = 1
		}
	}

	cancel()
	tuiMu.Lock()
	if tuiProgram != nil {
		tuiProgram.Quit()
	}
	tuiMu.Unlock()
	<-tuiDone
	if err := <-serveErr; err != nil && code == 0 {
		log.Errorf("http shutdown error: %v", err)
	}

	if code != 0 {
		fmt.Fprintln(os.Stderr, "keynotes stopped on an error, see", filepath.Join(log.Dir(), "diagnostics_log.txt"))
	}
	return code
}
