// Command econavload drives scripted conversation turns against a running
// service over websocket and reports per-turn latency.
package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Ashwinrajen/Team-6-AAS-EcoNav-SG/internal/protocol"
)

type options struct {
	baseURL        string
	turns          int
	interTurnDelay time.Duration
	turnTimeout    time.Duration
	texts          []string
	verbose        bool
}

var defaultScript = []string{
	"Hello! How are you today?",
	"I want to plan an eco-friendly trip to Singapore",
	"We are a couple traveling from 2026-03-01 to 2026-03-05, so 5 days",
	"Our budget is 2000 SGD and we prefer a relaxed pace",
	"We love nature and street food, and we'd like to stay near Chinatown",
}

func main() {
	opts := parseFlags()

	wsURL, err := websocketURL(opts.baseURL)
	if err != nil {
		fatalf("invalid base url: %v", err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		fatalf("dial %s: %v", wsURL, err)
	}
	defer conn.Close()

	var (
		sessionID string
		latencies []time.Duration
		blocked   int
	)
	for i := 0; i < opts.turns; i++ {
		text := opts.texts[i%len(opts.texts)]

		start := time.Now()
		if err := conn.WriteJSON(protocol.ClientTurn{
			Type:      protocol.TypeClientTurn,
			SessionID: sessionID,
			UserInput: text,
			TSMs:      start.UnixMilli(),
		}); err != nil {
			fatalf("turn %d write: %v", i+1, err)
		}

		_ = conn.SetReadDeadline(time.Now().Add(opts.turnTimeout))
		var reply protocol.AssistantReply
		if err := conn.ReadJSON(&reply); err != nil {
			fatalf("turn %d read: %v", i+1, err)
		}
		elapsed := time.Since(start)
		latencies = append(latencies, elapsed)
		sessionID = reply.SessionID
		if !reply.Success {
			blocked++
		}

		if opts.verbose {
			fmt.Printf("turn %d  %7.1fms  intent=%-8s state=%-24s trust=%.2f\n",
				i+1, float64(elapsed.Microseconds())/1000, reply.Intent, reply.ConversationState, reply.TrustScore)
		}
		if opts.interTurnDelay > 0 && i < opts.turns-1 {
			time.Sleep(opts.interTurnDelay)
		}
	}

	printSummary(sessionID, latencies, blocked)
}

func parseFlags() options {
	var opts options
	var script string
	flag.StringVar(&opts.baseURL, "url", "http://127.0.0.1:8080", "service base url")
	flag.IntVar(&opts.turns, "turns", len(defaultScript), "number of turns to send")
	flag.DurationVar(&opts.interTurnDelay, "delay", 0, "pause between turns")
	flag.DurationVar(&opts.turnTimeout, "timeout", 30*time.Second, "per-turn reply timeout")
	flag.StringVar(&script, "script", "", "pipe-separated turn texts (defaults to a built-in itinerary)")
	flag.BoolVar(&opts.verbose, "v", false, "print each turn")
	flag.Parse()

	opts.texts = defaultScript
	if strings.TrimSpace(script) != "" {
		var texts []string
		for _, part := range strings.Split(script, "|") {
			if t := strings.TrimSpace(part); t != "" {
				texts = append(texts, t)
			}
		}
		if len(texts) > 0 {
			opts.texts = texts
		}
	}
	if opts.turns <= 0 {
		opts.turns = len(opts.texts)
	}
	return opts
}

func websocketURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = "/v1/travel/ws"
	return u.String(), nil
}

func printSummary(sessionID string, latencies []time.Duration, blocked int) {
	if len(latencies) == 0 {
		fmt.Println("no turns completed")
		return
	}
	sorted := make([]time.Duration, len(latencies))
	copy(sorted, latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum time.Duration
	for _, d := range sorted {
		sum += d
	}
	pick := func(q float64) time.Duration {
		idx := int(q * float64(len(sorted)-1))
		return sorted[idx]
	}

	fmt.Printf("session %s\n", sessionID)
	fmt.Printf("turns   %d (%d blocked)\n", len(latencies), blocked)
	fmt.Printf("avg     %7.1fms\n", float64(sum.Microseconds())/float64(len(sorted))/1000)
	fmt.Printf("p50     %7.1fms\n", float64(pick(0.50).Microseconds())/1000)
	fmt.Printf("p95     %7.1fms\n", float64(pick(0.95).Microseconds())/1000)
	fmt.Printf("max     %7.1fms\n", float64(sorted[len(sorted)-1].Microseconds())/1000)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
