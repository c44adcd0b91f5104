// gosymcore is the command-line front end to the expression core.
//
// Expressions are read as JSON objects (see internal/exprjson) from the
// arguments, or from stdin when the argument is "-".
//
//	gosymcore expand '{"type":"pow","base":{"type":"add","terms":[{"type":"sym","name":"x"},{"type":"num","value":"1"}]},"exp":{"type":"num","value":"2"}}'
//	gosymcore diff --var x '{"type":"func","name":"sin","arg":{"type":"sym","name":"x"}}'
//	gosymcore serve --config gosymcore.yaml
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	sym "github.com/njchilds90/gosymcore"
	"github.com/njchilds90/gosymcore/internal/config"
	"github.com/njchilds90/gosymcore/internal/exprjson"
	"github.com/njchilds90/gosymcore/internal/logging"
)

var (
	configPath string
	logLevel   string
	jsonOutput bool

	// set by loadConfig before any subcommand runs
	cfg    config.Config
	logger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "gosymcore",
	Short: "Canonical symbolic expressions: expand, differentiate, substitute",
	Long: `gosymcore builds canonical symbolic expression trees and rewrites them.

Every command reads expressions in the JSON object form:

  {"type":"sym","name":"x"}
  {"type":"num","value":"1/2"}
  {"type":"add","terms":[...]}   {"type":"mul","factors":[...]}
  {"type":"pow","base":{...},"exp":{...}}
  {"type":"func","name":"sin","arg":{...}}

Use "-" to read a single expression from stdin.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Print results as JSON instead of text")

	rootCmd.AddCommand(expandCmd, diffCmd, subsCmd, evalCmd, serveCmd, versionCmd)
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.Log.Level = logLevel
		if err := c.Validate(); err != nil {
			return err
		}
	}
	cfg = c
	lc := cfg.LoggingConfig("gosymcore")
	lc.Output = cmd.ErrOrStderr()
	logger = logging.New(lc)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// readExpr decodes one argument, or stdin when arg is "-".
func readExpr(cmd *cobra.Command, arg string) (sym.Basic, error) {
	data := []byte(arg)
	if arg == "-" {
		var err error
		data, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, errors.Wrap(err, "reading stdin")
		}
	}
	return exprjson.Unmarshal(data)
}

// printExpr writes e as text or, with --json, as its object form.
func printExpr(cmd *cobra.Command, e sym.Basic) error {
	out := cmd.OutOrStdout()
	if !jsonOutput {
		_, err := fmt.Fprintln(out, e.String())
		return err
	}
	data, err := exprjson.Marshal(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// parseAssignment splits "name=<json>" for --set.
func parseAssignment(s string) (*sym.Symbol, sym.Basic, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return nil, nil, errors.Errorf("--set %q: want name=<expression json>", s)
	}
	e, err := exprjson.Unmarshal([]byte(value))
	if err != nil {
		return nil, nil, errors.Wrapf(err, "--set %s", name)
	}
	return sym.S(name), e, nil
}
