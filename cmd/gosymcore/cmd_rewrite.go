package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	sym "github.com/njchilds90/gosymcore"
	"github.com/njchilds90/gosymcore/internal/batch"
)

var (
	diffVar   string
	diffOrder int
	subsSet   []string
)

var expandCmd = &cobra.Command{
	Use:   "expand <expr>...",
	Short: "Distribute products and expand integer powers of sums",
	Long: `Expand each expression. Several expressions are expanded concurrently
using the configured number of workers; results print in argument order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExpand,
}

var diffCmd = &cobra.Command{
	Use:   "diff --var x <expr>",
	Short: "Differentiate with respect to a symbol",
	Args:  cobra.ExactArgs(1),
	RunE:  runDiff,
}

var subsCmd = &cobra.Command{
	Use:   "subs --set x=<expr> <expr>",
	Short: "Substitute expressions for symbols",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubs,
}

var evalCmd = &cobra.Command{
	Use:   "eval <expr>",
	Short: "Evaluate a symbol-free expression to a float",
	Args:  cobra.ExactArgs(1),
	RunE:  runEval,
}

func init() {
	diffCmd.Flags().StringVar(&diffVar, "var", "x",
		"Symbol to differentiate by")
	diffCmd.Flags().IntVarP(&diffOrder, "order", "n", 1,
		"Derivative order")
	subsCmd.Flags().StringArrayVar(&subsSet, "set", nil,
		"Replacement name=<expression json>; repeatable")
}

func runExpand(cmd *cobra.Command, args []string) error {
	exprs := make([]sym.Basic, len(args))
	for i, a := range args {
		e, err := readExpr(cmd, a)
		if err != nil {
			return errors.Wrapf(err, "argument %d", i+1)
		}
		exprs[i] = e
	}
	runner := &batch.Runner{
		Workers:     cfg.Workers,
		MaxExponent: cfg.Limits.MaxExponent,
		MaxBatch:    cfg.Limits.MaxBatch,
		Logger:      logger,
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	results, err := runner.Expand(ctx, exprs)
	if err != nil {
		return err
	}
	var firstErr error
	for i, r := range results {
		if r.Err != nil {
			logger.Error("expand failed", "argument", i+1, "error", r.Err)
			if firstErr == nil {
				firstErr = errors.Wrapf(r.Err, "argument %d", i+1)
			}
			continue
		}
		if err := printExpr(cmd, r.Value); err != nil {
			return err
		}
	}
	return firstErr
}

func runDiff(cmd *cobra.Command, args []string) error {
	if diffVar == "" {
		return errors.New("--var must not be empty")
	}
	if diffOrder < 0 {
		return errors.Errorf("--order must be >= 0, got %d", diffOrder)
	}
	e, err := readExpr(cmd, args[0])
	if err != nil {
		return err
	}
	d, err := sym.DiffN(e, sym.S(diffVar), diffOrder)
	if err != nil {
		return err
	}
	return printExpr(cmd, d)
}

func runSubs(cmd *cobra.Command, args []string) error {
	e, err := readExpr(cmd, args[0])
	if err != nil {
		return err
	}
	m := sym.NewDict[sym.Basic](len(subsSet))
	for _, s := range subsSet {
		name, value, err := parseAssignment(s)
		if err != nil {
			return err
		}
		m.Set(name, value)
	}
	r, err := sym.SubsDict(e, m)
	if err != nil {
		return err
	}
	return printExpr(cmd, r)
}

func runEval(cmd *cobra.Command, args []string) error {
	e, err := readExpr(cmd, args[0])
	if err != nil {
		return err
	}
	f, err := sym.EvalFloat(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(f, 'g', -1, 64))
	return err
}
