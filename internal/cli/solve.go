package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/strut/pkg/cache"
	"github.com/matzehuels/strut/pkg/errors"
	"github.com/matzehuels/strut/pkg/layout"
	"github.com/matzehuels/strut/pkg/observability"
)

// newSolveCmd creates the solve command.
func newSolveCmd() *cobra.Command {
	var (
		total    int
		spacing  int
		flexName string
		specPath string
		noCache  bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "solve [rule]...",
		Short: "Apportion an extent among sizing rules",
		Long: `Apportion a one-dimensional extent (columns or rows) among sizing rules.

Each argument is one rule: length(N), percent(N), ratio(N/M), fill(W),
min(N), or max(N), optionally bounded with trailing min(N)/max(N). The
result is one integer size per rule; when the request is satisfiable the
sizes plus spacing sum exactly to the total.

Requests can also be read from a TOML file via --spec. Results are cached
locally, keyed by the full request.`,
		Example: `  strut solve "length(20)" "fill(1)" "percent(25)" --total 100
  strut solve "ratio(1/3)" "ratio(2/3)" --total 100
  strut solve --spec layout.toml --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := solveRequest{
				ruleSpecs: args,
				total:     total,
				spacing:   spacing,
				flexName:  flexName,
			}
			if specPath != "" {
				spec, err := loadSpec(specPath)
				if err != nil {
					return err
				}
				req.applySpec(cmd, spec)
			}
			return runSolve(cmd.Context(), req, noCache, asJSON)
		},
	}

	cmd.Flags().IntVarP(&total, "total", "t", 100, "total extent in cells")
	cmd.Flags().IntVarP(&spacing, "spacing", "s", 0, "cells between consecutive items")
	cmd.Flags().StringVarP(&flexName, "flex", "f", "stretch", "leftover placement: stretch, start, end, center, space-between, space-around")
	cmd.Flags().StringVar(&specPath, "spec", "", "read the request from a TOML file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result caching")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print sizes as JSON")

	return cmd
}

// solveRequest is a fully resolved solve invocation.
type solveRequest struct {
	ruleSpecs []string
	total     int
	spacing   int
	flexName  string
}

// applySpec folds a TOML spec file into the request. Command-line arguments
// and explicitly set flags win over the file.
func (r *solveRequest) applySpec(cmd *cobra.Command, spec *layoutSpec) {
	if len(r.ruleSpecs) == 0 {
		r.ruleSpecs = spec.Rules
	}
	if !cmd.Flags().Changed("total") {
		r.total = spec.Total
	}
	if !cmd.Flags().Changed("spacing") {
		r.spacing = spec.Spacing
	}
	if !cmd.Flags().Changed("flex") && spec.Flex != "" {
		r.flexName = spec.Flex
	}
}

func runSolve(ctx context.Context, req solveRequest, noCache, asJSON bool) error {
	logger := loggerFromContext(ctx)

	if err := errors.ValidateRuleCount(len(req.ruleSpecs)); err != nil {
		return err
	}
	if err := errors.ValidateTotal(req.total); err != nil {
		return err
	}
	if err := errors.ValidateSpacing(req.spacing); err != nil {
		return err
	}
	flex, err := layout.ParseFlex(req.flexName)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFlex, err, "parse flex")
	}
	rules, err := parseRules(req.ruleSpecs)
	if err != nil {
		return err
	}

	store, err := openCache(noCache, "solve")
	if err != nil {
		return err
	}
	defer store.Close()

	keyer := cache.NewDefaultKeyer()
	key := keyer.SolveKey(ruleStrings(rules), cache.SolveKeyOpts{
		Total:   req.total,
		Spacing: req.spacing,
		Flex:    flex.String(),
	})

	var sizes []int
	cached := false
	if data, hit, err := store.Get(ctx, key); err != nil {
		logger.Warn("cache read failed", "err", err)
	} else if hit {
		if err := json.Unmarshal(data, &sizes); err == nil {
			cached = true
			observability.Cache().OnCacheHit(ctx, "solve")
		}
	}

	if !cached {
		observability.Cache().OnCacheMiss(ctx, "solve")
		prog := newProgress(logger)
		sizes, err = layout.Solve(rules, req.total, req.spacing, flex)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "solve %d rules", len(rules))
		}
		prog.done(fmt.Sprintf("Solved %d rules", len(rules)))

		if data, err := json.Marshal(sizes); err == nil {
			if err := store.Set(ctx, key, data, 0); err != nil {
				logger.Warn("cache write failed", "err", err)
			} else {
				observability.Cache().OnCacheSet(ctx, "solve", len(data))
			}
		}
	}

	if asJSON {
		out, err := json.Marshal(sizes)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	for i, r := range rules {
		printKeyValue(r.String(), strconv.Itoa(sizes[i]))
	}
	printSolveStats(len(rules), req.total, cached)
	return nil
}

// openCache opens the file-backed result cache under the given namespace,
// or a null cache when caching is disabled.
func openCache(noCache bool, namespace string) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return nil, fmt.Errorf("resolve cache dir: %w", err)
	}
	store, err := cache.NewFileCache(filepath.Join(dir, namespace))
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return store, nil
}
