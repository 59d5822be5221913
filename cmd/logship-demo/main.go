// Copyright (c) 2026 Develeap
// SPDX-License-Identifier: MPL-2.0

// Command logship-demo is a small example program exercising the logship
// client against a caller-supplied endpoint. It is not part of the core
// library: it exists to show the client's shape and to smoke-test a real
// endpoint manually.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	survey "github.com/AlecAivazis/survey/v2"
	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/develeap/logship"
)

const sampleBurstSize = 25

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "logship-demo:", err)
		os.Exit(1)
	}
}

func run() error {
	endpoint, apiKey, err := promptForCredentials()
	if err != nil {
		return err
	}

	client, err := logship.New(endpoint, apiKey,
		logship.WithBatchSize(10),
		logship.WithFlushInterval(2*time.Second),
		logship.WithDebug(true),
	)
	if err != nil {
		return fmt.Errorf("constructing client: %w", err)
	}
	defer client.Close(context.Background())

	replayBurst(client)

	fmt.Println()
	fmt.Println("waiting for background flushes to settle...")
	waitWithSpinner(1500 * time.Millisecond)

	snap := client.Metrics()
	fmt.Printf("logs_sent=%d logs_dropped=%d errors=%d retries=%d breaker_trips=%d avg_latency_ms=%.2f\n",
		snap.LogsSent, snap.LogsDropped, snap.Errors, snap.Retries, snap.BreakerTrips, snap.AvgLatencyMs)
	return nil
}

// promptForCredentials asks for the ingestion endpoint and API key
// interactively when stdin is a TTY, falling back to environment variables
// otherwise (so the demo also runs unattended in CI or piped output).
func promptForCredentials() (endpoint, apiKey string, err error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		endpoint = os.Getenv("LOGSHIP_DEMO_ENDPOINT")
		apiKey = os.Getenv("LOGSHIP_DEMO_API_KEY")
		if endpoint == "" || apiKey == "" {
			return "", "", fmt.Errorf("non-interactive run requires LOGSHIP_DEMO_ENDPOINT and LOGSHIP_DEMO_API_KEY")
		}
		return endpoint, apiKey, nil
	}

	questions := []*survey.Question{
		{
			Name:     "endpoint",
			Prompt:   &survey.Input{Message: "Ingestion endpoint URL:"},
			Validate: survey.Required,
		},
		{
			Name:     "apiKey",
			Prompt:   &survey.Password{Message: "API key:"},
			Validate: survey.Required,
		},
	}

	answers := struct {
		Endpoint string
		APIKey   string
	}{}
	if err := survey.Ask(questions, &answers); err != nil {
		return "", "", err
	}
	return answers.Endpoint, answers.APIKey, nil
}

// replayBurst logs a fixed burst of sample records, showing a progress bar
// on a TTY and plain line-by-line output otherwise.
func replayBurst(client *logship.Client) {
	interactive := isatty.IsTerminal(os.Stdout.Fd())

	var bar *progressbar.ProgressBar
	if interactive {
		bar = progressbar.NewOptions(sampleBurstSize,
			progressbar.OptionSetDescription("replaying sample logs"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
		)
	}

	for i := 0; i < sampleBurstSize; i++ {
		err := client.Info("logship-demo", "sample log record", map[string]interface{}{"seq": i})
		if err != nil {
			fmt.Fprintf(os.Stderr, "log %d dropped: %v\n", i, err)
		}
		if interactive {
			_ = bar.Add(1)
		} else {
			fmt.Printf("sent record %d/%d\n", i+1, sampleBurstSize)
		}
	}
	if interactive {
		_ = bar.Finish()
	}
}

// waitWithSpinner blocks for d, showing a spinner on a TTY.
func waitWithSpinner(d time.Duration) {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		time.Sleep(d)
		return
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " flushing"
	s.Start()
	time.Sleep(d)
	s.Stop()
}
