package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/theirongolddev/cloud9/internal/cli"
	"github.com/theirongolddev/cloud9/internal/config"
	"github.com/theirongolddev/cloud9/internal/popup"

	"github.com/spf13/cobra"
)

type popupRuntimeState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	BaseURL   string    `json:"base_url"`
}

var (
	flagPopupAddr    string
	flagPopupDetach  bool
	flagPopupPIDFile string
	flagPopupLogFile string
	flagPopupChild   bool
)

var popupCmd = &cobra.Command{
	Use:   "popup",
	Short: "Print the compact alert summary once",
	RunE:  runPopup,
}

var popupServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the alert summary over local HTTP for the browser extension",
	RunE:  runPopupServe,
}

var popupStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show popup service process and API status",
	RunE:  runPopupStatus,
}

var popupStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running popup service",
	RunE:  runPopupStop,
}

func init() {
	defaultPID := filepath.Join(config.DataDir(), "cloud9-popup.pid")
	defaultLog := filepath.Join(config.DataDir(), "cloud9-popup.log")

	popupCmd.PersistentFlags().StringVar(&flagPopupAddr, "addr", popup.DefaultAddr, "HTTP listen address")
	popupCmd.PersistentFlags().StringVar(&flagPopupPIDFile, "pid-file", defaultPID, "PID file path")
	popupCmd.PersistentFlags().StringVar(&flagPopupLogFile, "log-file", defaultLog, "Log file path for detached mode")

	popupServeCmd.Flags().BoolVar(&flagPopupDetach, "detach", false, "Run the service as a background process")
	popupServeCmd.Flags().BoolVar(&flagPopupChild, "child", false, "Internal: mark detached child process")
	_ = popupServeCmd.Flags().MarkHidden("child")

	popupCmd.AddCommand(popupServeCmd)
	popupCmd.AddCommand(popupStatusCmd)
	popupCmd.AddCommand(popupStopCmd)
	rootCmd.AddCommand(popupCmd)
}

func runPopup(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	ctx, cancel := commandContext(cmd.Context(), consoleLogger(cfg))
	defer cancel()

	sum := popup.Build(ctx, newClient(cfg), cfg.MonthlyLimit())
	writePopupSummary(os.Stdout, sum, cfg.Currency())
	return nil
}

// writePopupSummary prints the four popup rows. Failed sections print their message.
func writePopupSummary(w io.Writer, sum popup.Summary, currency string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.RenderTitle("Cloud9 Alerts"))
	fmt.Fprintln(w)

	row := func(label, value string) {
		fmt.Fprintf(w, "  %-20s %s\n", label, value)
	}
	failed := func(key string) string {
		return cli.RenderStatus(sum.Errors[key], false)
	}

	if b := sum.Budget; b != nil {
		row("Budget Status", cli.RenderStatus(b.Label, !b.OverBudget)+"  "+
			cli.FormatMoney(b.TotalSpend, currency)+" / "+cli.FormatMoney(b.Limit, currency))
		row("Idle Resources", sum.IdleLabel())
		row("Predicted Savings", cli.FormatMoney(*sum.PredictedSavings, currency))
	} else {
		row("Budget Status", failed("metrics"))
		row("Idle Resources", failed("metrics"))
		row("Predicted Savings", failed("metrics"))
	}

	if sum.SecurityIssues != nil {
		row("Security Issues", cli.RenderStatus(sum.SecurityLabel(), *sum.SecurityIssues == 0))
	} else {
		row("Security Issues", failed("security"))
	}
	fmt.Fprintln(w)
}

func runPopupServe(cmd *cobra.Command, _ []string) error {
	if flagPopupDetach && flagPopupChild {
		return errors.New("invalid popup launch mode")
	}

	if flagPopupDetach {
		return startPopupDetached()
	}

	return runPopupForeground(cmd.Context())
}

func startPopupDetached() error {
	if err := ensurePopupNotRunning(flagPopupPIDFile); err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	args := filterDetachArg(os.Args[1:])
	args = append(args, "--child")

	if err := os.MkdirAll(filepath.Dir(flagPopupPIDFile), 0o750); err != nil {
		return fmt.Errorf("create popup directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(flagPopupLogFile), 0o750); err != nil {
		return fmt.Errorf("create popup log directory: %w", err)
	}

	//nolint:gosec // log path is configured by the local user
	logf, err := os.OpenFile(flagPopupLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open popup log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	child := exec.Command(exe, args...) //nolint:gosec // exe/args come from current process invocation
	child.Stdout = logf
	child.Stderr = logf
	child.Stdin = nil
	child.Env = os.Environ()

	if err := child.Start(); err != nil {
		return fmt.Errorf("start detached popup service: %w", err)
	}

	fmt.Printf("  Started popup service (pid %d)\n", child.Process.Pid)
	fmt.Printf("  PID file: %s\n", flagPopupPIDFile)
	fmt.Printf("  API: http://%s/v1/popup\n", flagPopupAddr)
	fmt.Printf("  Log: %s\n", flagPopupLogFile)
	return nil
}

func runPopupForeground(parent context.Context) error {
	if err := ensurePopupNotRunning(flagPopupPIDFile); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(flagPopupPIDFile), 0o750); err != nil {
		return fmt.Errorf("create popup directory: %w", err)
	}

	pid := os.Getpid()
	if err := writePID(flagPopupPIDFile, pid); err != nil {
		return err
	}
	defer func() { _ = os.Remove(flagPopupPIDFile) }()

	cfg := loadConfig()
	client := newClient(cfg)

	state := popupRuntimeState{
		PID:       pid,
		Addr:      flagPopupAddr,
		StartedAt: time.Now(),
		BaseURL:   client.BaseURL(),
	}
	_ = writeState(statePath(flagPopupPIDFile), state)
	defer func() { _ = os.Remove(statePath(flagPopupPIDFile)) }()

	logger := consoleLogger(cfg)
	if flagPopupChild {
		logger = newLogger(os.Stderr, cfg)
	}
	svc := popup.New(popup.Config{Addr: flagPopupAddr, Limit: cfg.MonthlyLimit()}, client, logger)

	fmt.Printf("  cloud9 popup service listening on http://%s\n", flagPopupAddr)
	fmt.Printf("  Reading from %s\n", client.BaseURL())
	fmt.Printf("  Stop with: cloud9 popup stop --pid-file %s\n", flagPopupPIDFile)

	ctx, cancel := commandContext(parent, logger)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runPopupStatus(_ *cobra.Command, _ []string) error {
	pid, err := readPID(flagPopupPIDFile)
	if err != nil {
		fmt.Printf("  Popup service: not running (pid file not found)\n")
		return nil
	}

	if !processAlive(pid) {
		fmt.Printf("  Popup service: stale pid file (pid %d not alive)\n", pid)
		return nil
	}

	addr := flagPopupAddr
	if st, err := readState(statePath(flagPopupPIDFile)); err == nil && st.Addr != "" {
		addr = st.Addr
	}

	fmt.Printf("  Popup PID: %d\n", pid)
	fmt.Printf("  Address: http://%s\n", addr)

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status") //nolint:noctx // short status probe
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  API status: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var st popup.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  API status: malformed response (%v)\n", err)
		return nil
	}

	fmt.Printf("  Started: %s\n", st.StartedAt.Local().Format(time.RFC3339))
	if st.LastServedAt.IsZero() {
		fmt.Printf("  Last served: never\n")
	} else {
		fmt.Printf("  Last served: %s\n", st.LastServedAt.Local().Format(time.RFC3339))
	}
	fmt.Printf("  Requests: %d\n", st.Requests)
	if st.LastErrors > 0 {
		fmt.Printf("  Failed sections in last summary: %d\n", st.LastErrors)
	}
	return nil
}

func runPopupStop(_ *cobra.Command, _ []string) error {
	pid, err := readPID(flagPopupPIDFile)
	if err != nil {
		return errors.New("popup service is not running")
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find popup process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal popup process: %w", err)
	}

	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			_ = os.Remove(flagPopupPIDFile)
			_ = os.Remove(statePath(flagPopupPIDFile))
			fmt.Printf("  Stopped popup service (pid %d)\n", pid)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}

	return fmt.Errorf("popup service (pid %d) did not exit in time", pid)
}

func filterDetachArg(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") {
			continue
		}
		out = append(out, a)
	}
	return out
}

func ensurePopupNotRunning(pidFile string) error {
	pid, err := readPID(pidFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if processAlive(pid) {
		return fmt.Errorf("popup service already running (pid %d)", pid)
	}
	_ = os.Remove(pidFile)
	_ = os.Remove(statePath(pidFile))
	return nil
}

func writePID(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0o600)
}

func readPID(path string) (int, error) {
	//nolint:gosec // pid path is configured by the local user
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in %s", path)
	}
	return pid, nil
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

func statePath(pidFile string) string {
	return pidFile + ".json"
}

func writeState(path string, st popupRuntimeState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func readState(path string) (popupRuntimeState, error) {
	var st popupRuntimeState
	//nolint:gosec // state path is configured by the local user
	data, err := os.ReadFile(path)
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, err
	}
	return st, nil
}
