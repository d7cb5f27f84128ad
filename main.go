// ABOUTME: Entry point for the fortune audio player
// ABOUTME: Parses CLI flags, loads config and runs the gate, narration and control server
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/lotsdraw/fortune-audio/internal/app"
	"github.com/lotsdraw/fortune-audio/internal/config"
	"github.com/lotsdraw/fortune-audio/internal/version"
)

var (
	configFile  = flag.String("config", "", "YAML config file (optional)")
	backend     = flag.String("backend", "", "Output backends to try, comma separated (oto, null)")
	port        = flag.Int("port", 0, "Control server port (overrides config)")
	name        = flag.String("name", "", "Control server name (default: hostname-fortune-audio)")
	logFile     = flag.String("log-file", "fortune-audio.log", "Log file path")
	noTUI       = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	noMDNS      = flag.Bool("no-mdns", false, "Disable mDNS advertisement")
	noControl   = flag.Bool("no-control", false, "Disable the remote control server")
	text        = flag.String("text", "", "Reading to narrate with n (or a file path prefixed with @)")
	downloadDir = flag.String("download-dir", "", "Directory for saved narrations (default: current directory)")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", version.Product, version.Version)
		return
	}

	useTUI := !*noTUI

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	settings := config.Default()
	if *configFile != "" {
		settings, err = config.Load(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	} else {
		settings.ApplyEnv()
	}
	applyFlags(settings)

	reading, err := loadText(*text)
	if err != nil {
		log.Fatalf("Failed to read narration text: %v", err)
	}

	log.Printf("Starting %s %s", version.Product, version.Version)
	if !useTUI {
		log.Printf("TUI disabled - use the control server to send gestures")
	}

	a, err := app.New(app.Config{
		Settings:    settings,
		Text:        reading,
		DownloadDir: *downloadDir,
		TUI:         useTUI,
	})
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		log.Fatalf("Fortune audio stopped with error: %v", err)
	}
	log.Printf("Fortune audio stopped")
}

// applyFlags lets command line flags override the config file
func applyFlags(settings *config.Config) {
	if *backend != "" {
		settings.Output.Backends = strings.Split(*backend, ",")
	}
	if *port != 0 {
		settings.Control.Port = *port
	}
	if *noMDNS {
		settings.Control.MDNS = false
	}
	if *noControl {
		settings.Control.Enabled = false
	}

	switch {
	case *name != "":
		settings.Control.Name = *name
	case settings.Control.Name == config.Default().Control.Name:
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		settings.Control.Name = fmt.Sprintf("%s-fortune-audio", hostname)
	}
}

// loadText returns s, or the contents of the file when s starts with @
func loadText(s string) (string, error) {
	path, ok := strings.CutPrefix(s, "@")
	if !ok {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
