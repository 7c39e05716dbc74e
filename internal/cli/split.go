package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/strut/pkg/cache"
	"github.com/matzehuels/strut/pkg/errors"
	"github.com/matzehuels/strut/pkg/layout"
	"github.com/matzehuels/strut/pkg/observability"
)

// newSplitCmd creates the split command.
func newSplitCmd() *cobra.Command {
	var (
		width    int
		height   int
		dirName  string
		spacing  int
		flexName string
		specPath string
		noCache  bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "split [rule]...",
		Short: "Slice a rectangle into sub-rectangles",
		Long: `Slice a rectangle along an axis into one sub-rectangle per rule.

The rule grammar matches the solve command. Horizontal splits apportion
width into columns, vertical splits apportion height into rows; the
cross-axis dimension is carried through unchanged.`,
		Example: `  strut split "length(30)" "fill(1)" --width 120 --height 40
  strut split "percent(50)" "percent(50)" -d vertical --width 80 --height 24`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := splitRequest{
				ruleSpecs: args,
				area:      layout.Rect{Width: width, Height: height},
				dirName:   dirName,
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
			return runSplit(cmd.Context(), req, noCache, asJSON)
		},
	}

	cmd.Flags().IntVar(&width, "width", 80, "area width in cells")
	cmd.Flags().IntVar(&height, "height", 24, "area height in cells")
	cmd.Flags().StringVarP(&dirName, "direction", "d", "horizontal", "split axis: horizontal, vertical")
	cmd.Flags().IntVarP(&spacing, "spacing", "s", 0, "cells between consecutive items")
	cmd.Flags().StringVarP(&flexName, "flex", "f", "stretch", "leftover placement: stretch, start, end, center, space-between, space-around")
	cmd.Flags().StringVar(&specPath, "spec", "", "read the request from a TOML file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result caching")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print rectangles as JSON")

	return cmd
}

// splitRequest is a fully resolved split invocation.
type splitRequest struct {
	ruleSpecs []string
	area      layout.Rect
	dirName   string
	spacing   int
	flexName  string
}

// applySpec folds a TOML spec file into the request.
func (r *splitRequest) applySpec(cmd *cobra.Command, spec *layoutSpec) {
	if len(r.ruleSpecs) == 0 {
		r.ruleSpecs = spec.Rules
	}
	if !cmd.Flags().Changed("width") && spec.Area.Width > 0 {
		r.area.X = spec.Area.X
		r.area.Width = spec.Area.Width
	}
	if !cmd.Flags().Changed("height") && spec.Area.Height > 0 {
		r.area.Y = spec.Area.Y
		r.area.Height = spec.Area.Height
	}
	if !cmd.Flags().Changed("direction") && spec.Direction != "" {
		r.dirName = spec.Direction
	}
	if !cmd.Flags().Changed("spacing") {
		r.spacing = spec.Spacing
	}
	if !cmd.Flags().Changed("flex") && spec.Flex != "" {
		r.flexName = spec.Flex
	}
}

func runSplit(ctx context.Context, req splitRequest, noCache, asJSON bool) error {
	logger := loggerFromContext(ctx)

	if err := errors.ValidateRuleCount(len(req.ruleSpecs)); err != nil {
		return err
	}
	if err := errors.ValidateTotal(req.area.Width); err != nil {
		return err
	}
	if err := errors.ValidateTotal(req.area.Height); err != nil {
		return err
	}
	if err := errors.ValidateSpacing(req.spacing); err != nil {
		return err
	}
	dir, err := layout.ParseDirection(req.dirName)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDirection, err, "parse direction")
	}
	flex, err := layout.ParseFlex(req.flexName)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFlex, err, "parse flex")
	}
	rules, err := parseRules(req.ruleSpecs)
	if err != nil {
		return err
	}

	store, err := openCache(noCache, "split")
	if err != nil {
		return err
	}
	defer store.Close()

	keyer := cache.NewDefaultKeyer()
	key := keyer.SplitKey(req.area.String(), dir.String(), ruleStrings(rules), cache.SolveKeyOpts{
		Spacing: req.spacing,
		Flex:    flex.String(),
	})

	var rects []layout.Rect
	cached := false
	if data, hit, err := store.Get(ctx, key); err != nil {
		logger.Warn("cache read failed", "err", err)
	} else if hit {
		if err := json.Unmarshal(data, &rects); err == nil {
			cached = true
			observability.Cache().OnCacheHit(ctx, "split")
		}
	}

	if !cached {
		observability.Cache().OnCacheMiss(ctx, "split")
		prog := newProgress(logger)
		rects, err = layout.Split(req.area, dir, rules, req.spacing, flex)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "split %s", req.area)
		}
		prog.done(fmt.Sprintf("Split %s into %d rects", req.area, len(rects)))

		if data, err := json.Marshal(rects); err == nil {
			if err := store.Set(ctx, key, data, 0); err != nil {
				logger.Warn("cache write failed", "err", err)
			} else {
				observability.Cache().OnCacheSet(ctx, "split", len(data))
			}
		}
	}

	if asJSON {
		out, err := json.Marshal(rects)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	for i, r := range rules {
		printKeyValue(r.String(), rects[i].String())
	}
	extent := req.area.Width
	if dir == layout.Vertical {
		extent = req.area.Height
	}
	printSolveStats(len(rules), extent, cached)
	return nil
}
