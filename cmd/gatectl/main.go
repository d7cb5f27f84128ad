// ABOUTME: Remote control for a running fortune audio player
// ABOUTME: Sends gestures, sound effects and narration requests over the control WebSocket
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/lotsdraw/fortune-audio/internal/control"
	"github.com/lotsdraw/fortune-audio/internal/discovery"
)

var (
	serverAddr = flag.String("server", "", "Player address host:port (default: discover via mDNS)")
	name       = flag.String("name", "gatectl", "Controller name")
	timeout    = flag.Duration("timeout", 60*time.Second, "Request timeout")
	discover   = flag.Duration("discover", 3*time.Second, "mDNS discovery time")
	volume     = flag.Float64("volume", -1, "Sound effect volume (default: player default)")
	verbose    = flag.Bool("v", false, "Log connection details")
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: gatectl [flags] <command> [args]

Commands:
  status              show the player's audio state
  gesture [kind]      send a gesture (click, touchend, keydown; default click)
  sfx <url>           play a sound effect
  narrate <text...>   narrate text
  discover            list players on the local network

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if !*verbose {
		log.SetOutput(io.Discard)
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()

	if args[0] == "discover" {
		servers, err := discovery.Discover(ctx, *discover)
		if err != nil {
			fail(err)
		}
		if len(servers) == 0 {
			fmt.Println("No players found")
			return
		}
		for _, s := range servers {
			fmt.Printf("%s\t%s%s\n", s.Name, s.Addr(), s.Path)
		}
		return
	}

	client, err := connect(ctx)
	if err != nil {
		fail(err)
	}
	defer client.Close()

	switch args[0] {
	case "status":
		st, err := client.Status()
		if err != nil {
			fail(err)
		}
		printStatus(st)

	case "gesture":
		kind := "click"
		if len(args) > 1 {
			kind = args[1]
		}
		st, err := client.Gesture(kind)
		if err != nil {
			fail(err)
		}
		printStatus(st)

	case "sfx":
		if len(args) < 2 {
			fail(fmt.Errorf("sfx needs a URL"))
		}
		res, err := client.PlaySFX(args[1], *volume)
		if err != nil {
			fail(err)
		}
		if res.Played {
			fmt.Printf("Played %s\n", res.URL)
		} else {
			fmt.Printf("Queued %s (audio locked or playback failed)\n", res.URL)
		}

	case "narrate":
		if len(args) < 2 {
			fail(fmt.Errorf("narrate needs text"))
		}
		res, err := client.Narrate(strings.Join(args[1:], " "))
		if err != nil {
			fail(err)
		}
		if !res.Available {
			fmt.Println("No audio returned")
			return
		}
		fmt.Printf("Narration %s: %dms, %d bytes, playing=%v\n", res.ID, res.DurationMs, res.Bytes, res.Playing)
		if res.Download != "" {
			fmt.Printf("Download: http://%s%s\n", client.Addr(), res.Download)
		}

	default:
		usage()
		os.Exit(2)
	}
}

// connect dials the configured server or the first discovered one
func connect(ctx context.Context) (*control.Client, error) {
	addr, path := *serverAddr, ""
	if addr == "" {
		servers, err := discovery.Discover(ctx, *discover)
		if err != nil {
			return nil, err
		}
		if len(servers) == 0 {
			return nil, fmt.Errorf("no players found; use -server")
		}
		addr, path = servers[0].Addr(), servers[0].Path
	}

	return control.Dial(ctx, control.ClientConfig{
		ServerAddr: addr,
		Path:       path,
		Name:       *name,
		Timeout:    *timeout,
	})
}

func printStatus(st *control.Status) {
	fmt.Printf("unlocked=%v state=%s pending=%d narrating=%v\n", st.Unlocked, st.State, st.Pending, st.Narrating)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "gatectl: %v\n", err)
	os.Exit(1)
}
