package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/keva-agency/keva-site/internal/submitclient"
	"github.com/keva-agency/keva-site/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("contact-submit", flag.ContinueOnError)
	fs.SetOutput(stderr)

	endpoint := fs.String("endpoint", envOr("CONTACT_ENDPOINT", "http://localhost:8080/api/contact"), "contact API URL")
	firstName := fs.String("first-name", "", "first name (required)")
	lastName := fs.String("last-name", "", "last name")
	email := fs.String("email", "", "email address (required)")
	message := fs.String("message", "", "message, or - to read stdin (required)")
	baseDelay := fs.Duration("retry-delay", time.Second, "linear backoff unit between attempts")
	timeout := fs.Duration("timeout", 30*time.Second, "per-request timeout")
	logLevel := fs.String("log-level", envOr("LOG_LEVEL", "error"), "log level")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	msg := *message
	if msg == "-" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(stderr, "read stdin: %v\n", err)
			return 1
		}
		msg = string(raw)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := submitclient.NewClient(*endpoint,
		submitclient.WithNotifier(&printNotifier{out: stdout, errOut: stderr}),
		submitclient.WithLogger(logging.NewWithWriter(*logLevel, stderr)),
		submitclient.WithBaseDelay(*baseDelay),
		submitclient.WithHTTPClient(&http.Client{Timeout: *timeout}),
	)

	out := client.Submit(ctx, &submitclient.Form{
		FirstName: *firstName,
		LastName:  *lastName,
		Email:     *email,
		Message:   msg,
	})
	if !out.Success {
		return 1
	}
	if out.ID != "" {
		fmt.Fprintf(stdout, "id: %s\n", out.ID)
	}
	return 0
}

type printNotifier struct {
	out    io.Writer
	errOut io.Writer
}

func (p *printNotifier) Success(msg string) { fmt.Fprintln(p.out, "✓ "+msg) }
func (p *printNotifier) Warning(msg string) { fmt.Fprintln(p.errOut, "! "+msg) }
func (p *printNotifier) Error(msg string)   { fmt.Fprintln(p.errOut, "✗ "+msg) }
func (p *printNotifier) Loading(on bool) {
	if on {
		fmt.Fprintln(p.errOut, "sending...")
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
