package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/danielpatrickdp/govassess/internal/backend"
	"github.com/danielpatrickdp/govassess/internal/config"
	"github.com/danielpatrickdp/govassess/internal/gate"
	"github.com/danielpatrickdp/govassess/internal/session"
	"github.com/danielpatrickdp/govassess/internal/submit"
	"github.com/danielpatrickdp/govassess/internal/wizard"
)

// #region repl
func repl(w *wizard.Wizard, client *backend.Client, cfg config.Config) error {
	poller := backend.NewReadinessPoller(client)
	stop := make(chan struct{})
	defer close(stop)
	go pollReadiness(poller, cfg, stop)

	fmt.Println("Type 'help' for commands, 'quit' to exit.")
	printPosition(w)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "quit", "exit":
			return nil
		case "help":
			printHelp()
		case "show":
			printPosition(w)
		case "name":
			sc := w.Scoping()
			sc.SystemName = strings.Join(args, " ")
			report(w.SetScoping(sc))
		case "risk":
			if len(args) != 1 {
				fmt.Println("usage: risk <high-risk|limited-risk|minimal-risk>")
				continue
			}
			sc := w.Scoping()
			sc.RiskCategory = args[0]
			report(w.SetScoping(sc))
		case "score":
			if len(args) != 2 {
				fmt.Println("usage: score <criterion> <1-5>")
				continue
			}
			n, err := strconv.Atoi(args[1])
			if err != nil {
				fmt.Println("score must be a number 1-5")
				continue
			}
			report(w.SetScore(args[0], n))
		case "na":
			if len(args) < 1 {
				fmt.Println("usage: na <criterion> [reason]")
				continue
			}
			if err := w.SetNotApplicable(args[0]); err != nil {
				report(err)
				continue
			}
			if len(args) > 1 {
				report(w.SetNAReason(args[0], strings.Join(args[1:], " ")))
			}
		case "weight":
			if len(args) != 2 {
				fmt.Println("usage: weight <dimension> <0.5-2.0>")
				continue
			}
			f, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				fmt.Println("weight must be a number")
				continue
			}
			report(w.SetWeight(args[0], f))
		case "next":
			decide(w.Next())
			printPosition(w)
		case "back":
			decide(w.Back())
			printPosition(w)
		case "goto":
			if len(args) != 1 {
				fmt.Println("usage: goto <scoping|D1..D6|summary>")
				continue
			}
			target, ok := parseTarget(w, args[0])
			if !ok {
				fmt.Printf("unknown section %q\n", args[0])
				continue
			}
			decide(w.Jump(target))
			printPosition(w)
		case "summary":
			printAnalytics(w)
		case "status":
			ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout())
			st, err := poller.Check(ctx)
			cancel()
			if err != nil {
				fmt.Println("service unreachable:", err)
				continue
			}
			fmt.Printf("available=%v provider=%s model=%s\n", st.Available, st.Provider, st.Model)
		case "benchmarks":
			industry := w.Scoping().Industry
			if len(args) > 0 {
				industry = args[0]
			}
			printBenchmarks(client, cfg, industry)
		case "submit":
			runSubmit(w, cfg)
		case "history":
			printHistory(w)
		default:
			fmt.Printf("unknown command %q, try 'help'\n", cmd)
		}
	}
	return nil
}
// #endregion repl

// pollReadiness keeps the poller's view of the service fresh in the
// background until stop closes. Results of superseded checks are
// dropped by the poller itself.
func pollReadiness(p *backend.ReadinessPoller, cfg config.Config, stop <-chan struct{}) {
	ticker := time.NewTicker(cfg.PollInterval())
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout())
			p.Check(ctx)
			cancel()
		}
	}
}

// #region commands

func report(err error) {
	if err != nil {
		fmt.Println("error:", err)
	}
}

func decide(d gate.Decision, err error) {
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if !d.Allowed {
		fmt.Println("blocked:", d.Reason)
	}
}

func parseTarget(w *wizard.Wizard, s string) (gate.Position, bool) {
	switch strings.ToLower(s) {
	case "scoping":
		return gate.Scoping(), true
	case "summary":
		return gate.Summary(), true
	}
	if i, ok := w.Catalog().DimensionIndex(strings.ToUpper(s)); ok {
		return gate.Dimension(i), true
	}
	return gate.Position{}, false
}

func runSubmit(w *wizard.Wizard, cfg config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout())
	defer cancel()

	result, err := w.Submit(ctx)
	switch {
	case errors.Is(err, submit.ErrIncomplete):
		fmt.Println("not yet:", err)
		return
	case errors.Is(err, backend.ErrSubmissionFailed):
		fmt.Println("submission failed, your answers are safe; retry with 'submit':", err)
		return
	case err != nil:
		fmt.Println("error:", err)
		return
	}

	fmt.Printf("\nSubmitted. Overall %.2f (%s)\n", result.OverallScore, result.MaturityLabel)
	for _, g := range result.Gaps {
		fmt.Printf("  %d. %s %s (score %.2f, %s)\n", g.PriorityRank, g.DimensionID, g.DimensionName, g.DimScore, g.GapSeverity)
		if g.Recommendation != "" {
			fmt.Printf("     %s\n", g.Recommendation)
		}
	}
}

func printBenchmarks(client *backend.Client, cfg config.Config, industry string) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout())
	defer cancel()

	b, err := client.Benchmarks(ctx, industry)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	label := industry
	if label == "" {
		label = "default"
	}
	fmt.Printf("Industry benchmark (%s):\n", label)
	for _, key := range []string{"D1", "D2", "D3", "D4", "D5", "D6", "overall"} {
		if v, ok := b.Benchmark[key].(float64); ok {
			fmt.Printf("  %-7s %.2f\n", key, v)
		}
	}
	if lbl, ok := b.Benchmark["label"].(string); ok {
		fmt.Printf("  maturity %s\n", lbl)
	}
	fmt.Printf("  industries: %s\n", strings.Join(b.AvailableIndustries, ", "))
}

// #endregion commands

// #region render

func printHelp() {
	fmt.Println(`Commands:
  show                     current section
  name <system name>       set the AI system name
  risk <category>          set risk category (high-risk, limited-risk, minimal-risk)
  score <criterion> <1-5>  rate a criterion, e.g. 'score D1.1 3'
  na <criterion> [reason]  mark a criterion not applicable
  weight <dim> <0.5-2.0>   weight a dimension in the overall score
  next / back              move through the wizard
  goto <section>           jump to scoping, D1..D6, or summary
  summary                  current scores, maturity and gaps
  status                   check the assessment service
  benchmarks [industry]    industry reference scores
  submit                   send the finished assessment
  history                  past submitted assessments
  quit`)
}

func printPosition(w *wizard.Wizard) {
	pos := w.Position()
	switch pos.Kind {
	case gate.KindScoping:
		sc := w.Scoping()
		fmt.Println("\n-- Scoping --")
		fmt.Printf("  system: %q  risk: %s\n", sc.SystemName, orDash(sc.RiskCategory))
	case gate.KindDimension:
		dim, ok := w.Catalog().DimensionAt(pos.Dimension)
		if !ok {
			return
		}
		fmt.Printf("\n-- %s %s (%s) --\n", dim.ID, dim.Name, dim.Article)
		for _, cr := range dim.Criteria {
			mark := "     "
			if e, ok := w.Answers().Get(cr.ID); ok {
				if e.NA {
					mark = "[N/A]"
				} else {
					mark = fmt.Sprintf("[ %d ]", e.Score)
				}
			}
			fmt.Printf("  %s %s %s\n", mark, cr.ID, cr.Name)
		}
	default:
		fmt.Println("\n-- Summary --")
		printAnalytics(w)
	}
}

func printAnalytics(w *wizard.Wizard) {
	snap := w.Analytics()
	for _, cell := range snap.Heatmap {
		if cell.Score == nil {
			fmt.Printf("  %-3s     -   %s\n", cell.DimensionID, cell.Status)
			continue
		}
		fmt.Printf("  %-3s  %.2f   %s\n", cell.DimensionID, *cell.Score, cell.Status)
	}
	fmt.Printf("  overall %.2f, maturity %d %s\n", snap.OverallScore, snap.MaturityLevel, snap.MaturityLabel)
	for _, g := range snap.Gaps {
		fmt.Printf("  gap %d: %s %s (%.2f, %s)\n", g.PriorityRank, g.DimensionID, g.DimensionName, g.Score, g.Severity)
	}
	for _, v := range snap.Variance {
		fmt.Printf("  uneven answers in %s (min %d, max %d)\n", v.DimensionID, v.Min, v.Max)
	}
	for _, d := range snap.Dependencies {
		fmt.Printf("  %s depends on weak %s\n", d.Dependent, d.Prerequisite)
	}
}

func printHistory(w *wizard.Wizard) {
	entries, err := w.History(session.HistoryCapacity)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if len(entries) == 0 {
		fmt.Println("no submitted assessments yet")
		return
	}
	for _, e := range entries {
		fmt.Printf("  %-32s %-24s overall=%.2f %s\n", e.Key, e.SystemName, e.OverallScore, e.MaturityLabel)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// #endregion render
