// Package main provides a CLI for wallet timeline lookups. One-shot
// mode looks up a single address and prints the result as JSON; watch
// mode reads addresses from stdin and debounces them the way the
// dashboard search box does.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"staking-lens/internal/logger"
	"staking-lens/internal/lookup"
	"staking-lens/internal/stakerlog"
)

func main() {
	godotenv.Load()

	logURL := flag.String("log-url", os.Getenv("STAKER_LOG_URL"), "Staker event log URL (gzipped JSON)")
	wallet := flag.String("wallet", "", "Wallet address to look up (one-shot mode)")
	watch := flag.Bool("watch", false, "Read addresses from stdin with debouncing")
	debounce := flag.Duration("debounce", lookup.DefaultDebounceDelay, "Debounce window in watch mode")
	timeout := flag.Duration("timeout", 60*time.Second, "Lookup timeout in one-shot mode")
	logLevel := flag.String("log-level", "warn", "Log level")

	flag.Parse()

	log := logger.New(*logLevel)

	if *logURL == "" {
		fmt.Fprintln(os.Stderr, "--log-url or STAKER_LOG_URL is required")
		os.Exit(1)
	}
	if !*watch && *wallet == "" {
		fmt.Fprintln(os.Stderr, "--wallet is required (or use --watch)")
		os.Exit(1)
	}

	loader := stakerlog.NewLoader(*logURL, stakerlog.WithLogger(log))
	service := lookup.NewService(lookup.Options{Loader: loader, Logger: log})

	if *watch {
		runWatch(service, *debounce)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := service.Lookup(ctx, *wallet)
	if err != nil {
		exitCode := 1
		var sizeErr *stakerlog.SizeLimitError
		if errors.As(err, &sizeErr) || errors.Is(err, stakerlog.ErrDecompression) {
			exitCode = 2
		}
		fmt.Fprintf(os.Stderr, "lookup failed: %v\n", err)
		os.Exit(exitCode)
	}

	printJSON(result)
}

// runWatch feeds stdin lines through the debouncer and prints each
// outcome. Typing a new address cancels the previous in-flight lookup.
func runWatch(service *lookup.Service, delay time.Duration) {
	debouncer := lookup.NewDebouncer(service.Lookup, delay)
	defer debouncer.Close()

	go func() {
		for out := range debouncer.Results() {
			if out.Err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", out.Wallet, out.Err)
				continue
			}
			printJSON(out.Result)
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		debouncer.Submit(line)
	}

	// Give the last submitted lookup a chance to complete.
	time.Sleep(delay + time.Second)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
