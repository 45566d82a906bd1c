package main

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/artigo/artigo/pkg/library"
	"github.com/spf13/cobra"
)

var libraryTestCmd = cobra.Command{
	Use:   "test [name ...]",
	Short: "Run the example tests stored in named templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		engine := newEngine(cfg)

		selected := filterTemplateNames(library.Names(), args)
		if len(selected) == 0 {
			return fmt.Errorf("no templates matched the provided selectors")
		}

		testNames, _ := cmd.Flags().GetStringSlice("tests")
		filters := normaliseTestFilters(testNames)

		var failed, missing []string
		passed := 0
		for _, name := range selected {
			tpl, err := library.Get(name)
			if err != nil {
				return err
			}
			tests, notFound := selectTests(tpl, filters)
			missing = append(missing, notFound...)
			for _, tc := range tests {
				id := name + "/" + tc.Name
				if err := tc.Run(tpl, engine); err != nil {
					slog.Error("test failed", "test", id, "error", err)
					failed = append(failed, id)
					continue
				}
				slog.Debug("test passed", "test", id)
				fmt.Fprintf(cmd.OutOrStdout(), "ok   %s\n", id)
				passed++
			}
		}

		// a filter counts as missing only if no template had the test
		missing = stillMissing(missing, len(selected))
		if len(missing) > 0 {
			return fmt.Errorf("unknown tests requested: %s", strings.Join(missing, ", "))
		}
		if len(failed) > 0 {
			return fmt.Errorf("%d of %d tests failed: %s", len(failed), len(failed)+passed, strings.Join(failed, ", "))
		}
		return nil
	},
}

func filterTemplateNames(names []string, selectors []string) []string {
	set := map[string]struct{}{}
	for _, s := range selectors {
		s = strings.TrimSpace(s)
		if s != "" {
			set[strings.ToLower(s)] = struct{}{}
		}
	}
	if len(set) == 0 {
		return names
	}
	var filtered []string
	for _, name := range names {
		if _, ok := set[strings.ToLower(name)]; ok {
			filtered = append(filtered, name)
		}
	}
	return filtered
}

func normaliseTestFilters(filters []string) map[string]struct{} {
	if len(filters) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(filters))
	for _, f := range filters {
		for _, part := range strings.Split(f, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			out[strings.ToLower(part)] = struct{}{}
		}
	}
	return out
}

// selectTests returns the tests of tpl matching filters, by bare name or
// template/name, and the filters tpl did not satisfy.
func selectTests(tpl library.Template, filters map[string]struct{}) ([]library.TestCase, []string) {
	if len(filters) == 0 {
		return append([]library.TestCase(nil), tpl.Tests...), nil
	}

	selected := []library.TestCase{}
	remaining := map[string]struct{}{}
	for k := range filters {
		remaining[k] = struct{}{}
	}
	for _, tc := range tpl.Tests {
		key := strings.ToLower(tc.Name)
		full := strings.ToLower(tpl.Name + "/" + tc.Name)
		_, byName := filters[key]
		_, byFull := filters[full]
		if byName || byFull {
			selected = append(selected, tc)
			delete(remaining, key)
			delete(remaining, full)
		}
	}

	missing := make([]string, 0, len(remaining))
	for k := range remaining {
		missing = append(missing, k)
	}
	return selected, missing
}

func stillMissing(values []string, templates int) []string {
	counts := map[string]int{}
	for _, v := range values {
		counts[v]++
	}
	var out []string
	for v, n := range counts {
		if n == templates {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func init() {
	libraryTestCmd.Flags().StringSlice("tests", []string{}, "Only run these tests (name or template/name); may be comma separated")
	libraryCmd.AddCommand(&libraryTestCmd)
}
