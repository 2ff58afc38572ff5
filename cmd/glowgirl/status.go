package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/glowgirl/glowgirl/internal/config"
	"github.com/glowgirl/glowgirl/internal/observability"
)

// ServerStatus holds the probe results for a running server.
type ServerStatus struct {
	Addr    string `json:"addr"`
	Running bool   `json:"running"`
	Ready   bool   `json:"ready"`
	Error   string `json:"error,omitempty"`
}

// statusConfig holds configuration for the status command.
type statusConfig struct {
	addr       string
	jsonOutput bool
	timeout    time.Duration
}

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show status of a running glowgirl server",
		Long: `Show the health of a running glowgirl server by querying its
observability endpoint: running means the liveness probe answered,
ready means the server can reach its database.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.addr, "addr", "", "observability address (default: metrics.addr from config)")
	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", 2*time.Second, "probe timeout")

	return cmd
}

// runStatus executes the status command.
func runStatus(cmd *cobra.Command, cfg *statusConfig) error {
	addr := cfg.addr
	if addr == "" {
		path, err := resolveConfigFile()
		if err != nil {
			return oops.With("operation", "locate configuration").Wrap(err)
		}
		loaded, err := config.Load(path, nil)
		if err != nil {
			return oops.With("operation", "load configuration").Wrap(err)
		}
		addr = loaded.Metrics.Addr
	}
	if addr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("no observability address: metrics.addr is empty and --addr not given")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	status := queryServerStatus(ctx, &http.Client{Timeout: cfg.timeout}, addr)

	if cfg.jsonOutput {
		output, err := formatStatusJSON(status)
		if err != nil {
			return err
		}
		cmd.Println(output)
		return nil
	}
	cmd.Print(formatStatusTable(status))
	return nil
}

// queryServerStatus probes liveness, then readiness.
func queryServerStatus(ctx context.Context, client *http.Client, addr string) ServerStatus {
	status := ServerStatus{Addr: addr}
	base := addr
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}

	code, err := probe(ctx, client, base+observability.LivenessPath)
	if err != nil {
		status.Error = fmt.Sprintf("failed to connect: %v", err)
		return status
	}
	if code != http.StatusOK {
		status.Error = fmt.Sprintf("liveness returned %d", code)
		return status
	}
	status.Running = true

	code, err = probe(ctx, client, base+observability.ReadinessPath)
	switch {
	case err != nil:
		status.Error = fmt.Sprintf("readiness probe failed: %v", err)
	case code == http.StatusOK:
		status.Ready = true
	default:
		status.Error = "database unreachable"
	}
	return status
}

func probe(ctx context.Context, client *http.Client, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, oops.Wrap(err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, oops.Wrap(err)
	}
	_ = resp.Body.Close()
	return resp.StatusCode, nil
}

// formatStatusTable formats the status as a human-readable table.
func formatStatusTable(status ServerStatus) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "ADDR\tSTATUS\tREADY\tDETAIL")
	_, _ = fmt.Fprintln(w, "----\t------\t-----\t------")

	state := "stopped"
	if status.Running {
		state = "running"
	}
	ready := "no"
	if status.Ready {
		ready = "yes"
	}
	detail := "-"
	if status.Error != "" {
		detail = status.Error
	}
	_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", status.Addr, state, ready, detail)

	_ = w.Flush()
	return b.String()
}

// formatStatusJSON formats the status as JSON.
func formatStatusJSON(status ServerStatus) (string, error) {
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return "", oops.Code("STATUS_FORMAT_FAILED").Wrap(err)
	}
	return string(data), nil
}
