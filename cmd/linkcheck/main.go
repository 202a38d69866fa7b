// Command linkcheck verifies that every concept in the documentation URL
// table points at a reachable page. It exits 1 when any concept has none.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/code-explainer-backend/internal/app"
	"github.com/yungbote/code-explainer-backend/internal/data/db"
	"github.com/yungbote/code-explainer-backend/internal/data/repos/concepts"
	"github.com/yungbote/code-explainer-backend/internal/modules/explain/conceptlinks"
	"github.com/yungbote/code-explainer-backend/internal/platform/docsearch"
	"github.com/yungbote/code-explainer-backend/internal/platform/linkcheck"
	"github.com/yungbote/code-explainer-backend/internal/platform/logger"
)

type report struct {
	Concept    string             `json:"concept"`
	Current    string             `json:"current"`
	Reachable  string             `json:"reachable,omitempty"`
	Suggestion string             `json:"suggestion,omitempty"`
	Applied    bool               `json:"applied,omitempty"`
	Checks     []linkcheck.Result `json:"checks"`
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout))
}

// execute runs the check and returns the process exit code so deferred
// cleanup happens before os.Exit.
func execute(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("linkcheck", flag.ContinueOnError)
	var (
		concurrency = fs.Int("concurrency", linkcheck.DefaultConcurrency, "parallel HEAD requests")
		timeout     = fs.Duration("timeout", linkcheck.DefaultTimeout, "per-request timeout")
		language    = fs.String("language", docsearch.DefaultLanguage, "language used in doc search queries")
		search      = fs.Bool("search", true, "ask doc search for concepts with no reachable URL (needs BING_SEARCH_API_KEY)")
		apply       = fs.Bool("apply", false, "persist the first reachable candidate when the current URL is down (needs DB_DRIVER)")
		asJSON      = fs.Bool("json", false, "print a JSON report")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	_ = godotenv.Load()

	log, err := logger.New(envOr("LOG_MODE", "development"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		return 2
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, seed, closeDB, err := loadTable(ctx, log, *apply)
	if err != nil {
		log.Error("load concept table", "error", err)
		return 2
	}
	defer closeDB()

	checker := linkcheck.New(log, linkcheck.Options{Timeout: *timeout, Concurrency: *concurrency})
	var finder *docsearch.Client
	if *search {
		finder = docsearch.New(docsearch.ConfigFromEnv(log), log)
	}

	reports, failed := run(ctx, svc, seed, checker, finder, *language, *apply)

	printReports(stdout, reports, *asJSON)
	if failed > 0 {
		log.Warn("concepts without a reachable URL", "count", failed)
		return 1
	}
	return 0
}

func printReports(w io.Writer, reports []report, asJSON bool) {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		_ = enc.Encode(reports)
		return
	}
	for _, r := range reports {
		switch {
		case r.Reachable == "":
			line := fmt.Sprintf("FAIL %-24s %s", r.Concept, r.Current)
			if r.Suggestion != "" {
				line += " (suggest " + r.Suggestion + ")"
			}
			fmt.Fprintln(w, line)
		case r.Reachable != r.Current:
			fmt.Fprintf(w, "WARN %-24s %s down, use %s%s\n", r.Concept, r.Current, r.Reachable, appliedSuffix(r.Applied))
		default:
			fmt.Fprintf(w, "OK   %-24s %s\n", r.Concept, r.Current)
		}
	}
}

func run(ctx context.Context, svc *conceptlinks.Service, seed *conceptlinks.Seed, checker *linkcheck.Checker, finder *docsearch.Client, language string, apply bool) ([]report, int) {
	entries := svc.List()
	all := make([]string, 0, len(entries)*2)
	candidates := make(map[string][]string, len(entries))
	for _, e := range entries {
		c := dedupe(append([]string{e.URL}, seed.Candidates(e.Concept)...))
		candidates[e.Concept] = c
		all = append(all, c...)
	}
	results, _ := checker.CheckAll(ctx, all)

	failed := 0
	reports := make([]report, 0, len(entries))
	for _, e := range entries {
		r := report{Concept: e.Concept, Current: e.URL}
		for _, u := range candidates[e.Concept] {
			res := results[u]
			r.Checks = append(r.Checks, res)
			if res.OK && r.Reachable == "" {
				r.Reachable = u
			}
		}
		if r.Reachable == "" && finder.Configured() {
			if u, ok, err := finder.Search(ctx, e.Concept, language); err == nil && ok && checker.Check(ctx, u).OK {
				r.Suggestion = u
			}
		}
		if apply && r.Reachable != "" && r.Reachable != r.Current {
			if _, err := svc.Upsert(ctx, e.Concept, r.Reachable, "linkcheck"); err == nil {
				r.Applied = true
			}
		}
		if r.Reachable == "" {
			failed++
		}
		reports = append(reports, r)
	}
	return reports, failed
}

func loadTable(ctx context.Context, log *logger.Logger, needDB bool) (*conceptlinks.Service, *conceptlinks.Seed, func(), error) {
	noop := func() {}
	seed, err := conceptlinks.LoadSeed(log)
	if err != nil {
		return nil, nil, noop, err
	}
	cfg := app.LoadConfig(log)
	var repo concepts.ConceptURLRepo
	closeDB := noop
	if cfg.DB.Enabled() {
		gdb, err := db.Open(cfg.DB, log)
		if err != nil {
			return nil, nil, noop, err
		}
		closeDB = func() {
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		repo = concepts.NewConceptURLRepo(gdb, log)
	} else if needDB {
		return nil, nil, noop, fmt.Errorf("-apply needs DB_DRIVER")
	}
	svc := conceptlinks.NewService(log, seed, repo, nil)
	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := svc.Load(loadCtx); err != nil {
		closeDB()
		return nil, nil, noop, err
	}
	return svc, seed, closeDB, nil
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func appliedSuffix(applied bool) string {
	if applied {
		return " (applied)"
	}
	return ""
}

func envOr(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}
