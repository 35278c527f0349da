// Command tpeg parses input with one of the sample grammars and prints
// the result, or a formatted diagnostic on failure.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tliron/commonlog"

	tpeg "github.com/SuzumiyaAoba/tpeg-sub002"
	"github.com/SuzumiyaAoba/tpeg-sub002/arith"
	"github.com/SuzumiyaAoba/tpeg-sub002/csv"
	jsongrammar "github.com/SuzumiyaAoba/tpeg-sub002/json"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("tpeg")

func formatOptions() *tpeg.FormatOptions {
	o := tpeg.DefaultFormatOptions()
	o.Colorize = viper.GetBool("color")
	o.Locale = viper.GetString("locale")
	o.ContextLines = viper.GetInt("context-lines")
	return &o
}

// readInput takes the single argument, or stdin when none is given.
func readInput(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

func run(args []string, parse func(string) (any, error)) error {
	input, err := readInput(args)
	if err != nil {
		return err
	}
	log.Debugf("parsing %d bytes", len(input))

	val, err := parse(input)
	if err != nil {
		if perr, ok := err.(*tpeg.ParseError); ok {
			out, ferr := tpeg.FormatParseError(perr, input, formatOptions())
			if ferr == nil {
				fmt.Fprint(os.Stderr, out)
				return fmt.Errorf("parse failed")
			}
		}
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(val)
}

func main() {
	root := &cobra.Command{
		Use:   "tpeg",
		Short: "Parse input with one of the tpeg sample grammars",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SilenceUsage = true
			verbosity := viper.GetInt("verbose")
			commonlog.Configure(verbosity, nil)
		},
	}

	flags := root.PersistentFlags()
	flags.Bool("color", true, "colorize diagnostics")
	flags.String("locale", "en", "diagnostic locale (en, ja)")
	flags.Int("context-lines", 2, "source lines shown around an error")
	flags.CountP("verbose", "v", "increase log verbosity")
	bindFlags(flags)

	root.AddCommand(
		&cobra.Command{
			Use:   "arith [expr]",
			Short: "Evaluate an arithmetic expression",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(args, func(in string) (any, error) { return arith.Eval(in) })
			},
		},
		&cobra.Command{
			Use:   "csv [input]",
			Short: "Parse CSV into records",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(args, func(in string) (any, error) { return csv.Parse(in) })
			},
		},
		&cobra.Command{
			Use:   "json [input]",
			Short: "Parse and re-encode a JSON document",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(args, jsongrammar.Parse)
			},
		},
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func bindFlags(flags *pflag.FlagSet) {
	viper.SetEnvPrefix("TPEG")
	viper.AutomaticEnv()
	for _, name := range []string{"color", "locale", "context-lines", "verbose"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			log.Errorf("binding flag %s: %s", name, err)
		}
	}
}
