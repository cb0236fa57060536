// Command assemblertest runs every discoverable merge scenario
// through both the scan engine and the preprocess engine and reports
// where their outputs diverge. It doubles as a benchmarking tool via
// -bench and a structure inspector via -dump.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/go-cmp/cmp"
	flag "github.com/spf13/pflag"

	"github.com/Guerrilla-Interactive/site-assembler/app/scenario"
	"github.com/Guerrilla-Interactive/site-assembler/app/templateengine"
	"github.com/Guerrilla-Interactive/site-assembler/app/templateloader"
)

func main() {
	rootDir := flag.String("root", ".", "AppSites root directory")
	site := flag.String("site", "", "restrict to a single site")
	bench := flag.Int("bench", 0, "repeat every scenario N times and report timing instead of diffing")
	dump := flag.String("dump", "", "dump the preprocessed template structures for the given site as JSON and exit")
	tree := flag.String("tree", "", "print the fragment file tree for the given site and exit")
	verbose := flag.BoolP("verbose", "v", false, "print a diff for every failing scenario")
	flag.Parse()

	if *dump != "" {
		runDump(*rootDir, *dump)
		return
	}

	if *tree != "" {
		runTree(*rootDir, *tree)
		return
	}

	scenarios := scenario.Discover(*rootDir)
	if *site != "" {
		filtered := scenarios[:0]
		for _, s := range scenarios {
			if s.Site == *site {
				filtered = append(filtered, s)
			}
		}
		scenarios = filtered
	}
	if len(scenarios) == 0 {
		fmt.Fprintln(os.Stderr, "no scenarios discovered under", *rootDir)
		os.Exit(1)
	}

	if *bench > 0 {
		runBenchmark(*rootDir, scenarios, *bench)
		return
	}

	runComparison(*rootDir, scenarios, *verbose)
}

type row struct {
	scenario scenario.Scenario
	match    bool
	diff     string
}

func runComparison(rootDir string, scenarios []scenario.Scenario, verbose bool) {
	rows := make([]row, 0, len(scenarios))
	failures := 0
	for _, s := range scenarios {
		normalOut := mergeWith(rootDir, s, "Normal")
		preprocessOut := mergeWith(rootDir, s, "PreProcess")
		match := normalOut == preprocessOut
		r := row{scenario: s, match: match}
		if !match {
			failures++
			r.diff = cmp.Diff(normalOut, preprocessOut)
		}
		rows = append(rows, r)
	}

	printSummaryTable(rows)
	if verbose {
		for _, r := range rows {
			if !r.match {
				fmt.Printf("\n--- %s/%s (view=%q) ---\n%s\n", r.scenario.Site, r.scenario.File, r.scenario.View, r.diff)
			}
		}
	}
	if failures > 0 {
		os.Exit(1)
	}
}

func printSummaryTable(rows []row) {
	headerStyle := lipgloss.NewStyle().Bold(true)
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)

	fmt.Println(headerStyle.Render(fmt.Sprintf("%-20s %-24s %-14s %s", "SITE", "FILE", "VIEW", "RESULT")))
	passCount := 0
	for _, r := range rows {
		status := okStyle.Render("PASS")
		if !r.match {
			status = failStyle.Render("FAIL")
		} else {
			passCount++
		}
		view := r.scenario.View
		if view == "" {
			view = "-"
		}
		fmt.Printf("%-20s %-24s %-14s %s\n", r.scenario.Site, r.scenario.File, view, status)
	}
	fmt.Printf("\n%d/%d scenarios matched\n", passCount, len(rows))
}

func runBenchmark(rootDir string, scenarios []scenario.Scenario, n int) {
	for _, s := range scenarios {
		for _, engineType := range []string{"Normal", "PreProcess"} {
			var total time.Duration
			var min, max time.Duration
			for i := 0; i < n; i++ {
				start := time.Now()
				mergeWith(rootDir, s, engineType)
				elapsed := time.Since(start)
				total += elapsed
				if i == 0 || elapsed < min {
					min = elapsed
				}
				if elapsed > max {
					max = elapsed
				}
			}
			mean := total / time.Duration(n)
			fmt.Printf("%-10s %s/%s view=%q min=%s mean=%s max=%s\n",
				engineType, s.Site, s.File, s.View, min, mean, max)
		}
	}
}

func mergeWith(rootDir string, s scenario.Scenario, engineType string) string {
	if engineType == "PreProcess" {
		site := templateloader.LoadPreprocessedTemplates(rootDir, s.Site)
		engine := &templateengine.EnginePreProcess{ViewPrefix: s.ViewPrefix}
		return engine.MergeTemplates(s.Site, s.File, s.View, site, true)
	}
	templates := templateloader.LoadRawTemplates(rootDir, s.Site)
	engine := &templateengine.EngineNormal{ViewPrefix: s.ViewPrefix}
	return engine.MergeTemplates(s.Site, s.File, s.View, templates, true)
}

func runTree(rootDir, site string) {
	raw := templateloader.LoadRawTemplates(rootDir, site)
	paths := make([]string, 0, len(raw))
	for key := range raw {
		paths = append(paths, key+".html")
	}
	root := scenario.BuildFragmentTree(paths)
	fmt.Print(scenario.RenderFragmentTree(root, "", true, true))
}

func runDump(rootDir, site string) {
	preprocessed := templateloader.LoadPreprocessedTemplates(rootDir, site)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(preprocessed); err != nil {
		fmt.Fprintln(os.Stderr, "failed to dump structures:", err)
		os.Exit(1)
	}
}
