package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/govassess/internal/backend"
	"github.com/danielpatrickdp/govassess/internal/catalog"
	"github.com/danielpatrickdp/govassess/internal/config"
	"github.com/danielpatrickdp/govassess/internal/session"
	"github.com/danielpatrickdp/govassess/internal/wizard"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

func main() {
	var cfgPath string
	var offline bool

	root := &cobra.Command{
		Use:     "assess",
		Short:   "EU AI Act governance self-assessment",
		Long:    "Interactive maturity assessment across the six governance dimensions of the EU AI Act, with gap analysis and trend history.",
		Version: version,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "assess.yaml", "Path to the YAML config file")
	root.PersistentFlags().BoolVar(&offline, "offline", false, "Skip the service catalog fetch and use the embedded catalog")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start or resume an assessment session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssessment(cfgPath, offline)
		},
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List submitted assessments, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cfgPath)
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Check the assessment service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cfgPath)
		},
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard the current session (history survives)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(cfgPath)
		},
	}

	root.AddCommand(runCmd, historyCmd, statusCmd, resetCmd)

	if err := root.Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "Error:", ee.msg)
			os.Exit(ee.code)
		}
		// cobra already printed the error
		os.Exit(1)
	}
}

func openStore(cfgPath string) (config.Config, *session.Store, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, nil, codeError(3, "loading config: %s", err)
	}
	store, err := session.NewStore(cfg.DBPath)
	if err != nil {
		return config.Config{}, nil, codeError(3, "opening store %s: %s", cfg.DBPath, err)
	}
	return cfg, store, nil
}

// loadCatalog fetches the dimension catalog from the service, falling
// back to the embedded one when the service is unreachable or offline
// mode is on.
func loadCatalog(ctx context.Context, cfg config.Config, client *backend.Client, offline bool) *catalog.Catalog {
	if offline || cfg.Offline {
		return catalog.Default()
	}
	dims, err := client.Dimensions(ctx)
	if err != nil {
		log.Printf("[ASSESS] %v, using embedded catalog", err)
		return catalog.Default()
	}
	cat, err := catalog.New(dims)
	if err != nil {
		log.Printf("[ASSESS] service catalog rejected: %v, using embedded catalog", err)
		return catalog.Default()
	}
	return cat
}

func runAssessment(cfgPath string, offline bool) error {
	cfg, store, err := openStore(cfgPath)
	if err != nil {
		return err
	}
	defer store.Close()

	client := backend.NewClient(cfg.BackendURL, cfg.RequestTimeout())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout())
	cat := loadCatalog(ctx, cfg, client, offline)
	cancel()

	w, err := wizard.New(cat, store, client)
	if err != nil {
		return codeError(3, "starting session: %s", err)
	}

	fmt.Printf("Governance Assessment ready (v%s).\n", version)
	fmt.Printf("  DB: %s | Service: %s\n", cfg.DBPath, cfg.BackendURL)
	return repl(w, client, cfg)
}

func runHistory(cfgPath string) error {
	_, store, err := openStore(cfgPath)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.History(session.HistoryCapacity)
	if err != nil {
		return codeError(3, "reading history: %s", err)
	}
	if len(entries) == 0 {
		fmt.Println("No submitted assessments yet.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%-32s %-24s overall=%.2f %s\n", e.Key, e.SystemName, e.OverallScore, e.MaturityLabel)
	}
	return nil
}

func runStatus(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return codeError(3, "loading config: %s", err)
	}
	client := backend.NewClient(cfg.BackendURL, cfg.RequestTimeout())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout())
	defer cancel()

	st, err := client.Status(ctx)
	if err != nil {
		return codeError(4, "service unreachable at %s: %s", cfg.BackendURL, err)
	}
	fmt.Printf("available=%v provider=%s model=%s embeddings_ready=%v\n",
		st.Available, st.Provider, st.Model, st.EmbeddingsReady)
	return nil
}

func runReset(cfgPath string) error {
	_, store, err := openStore(cfgPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Reset(); err != nil {
		return codeError(3, "reset: %s", err)
	}
	fmt.Println("Session discarded. History kept.")
	return nil
}
