/*
Copyright © 2019 the InMAP authors.
This file is part of chemdiag.

chemdiag is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

chemdiag is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with chemdiag.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package chemdiagutil contains the command-line interface for chemdiag.
package chemdiagutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/chemdiag"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to chemdiag.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel specifies the minimum level of log messages to
              print: one of panic, fatal, error, warn, info, or debug.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "MolarMassFile",
			usage: `
              MolarMassFile specifies the path to an optional TOML file
              of additional molar masses [g/mol], one 'species = mass' pair
              per line. Values in the file take precedence over the
              built-in table.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "dataset",
			usage: `
              dataset specifies the path to the netcdf file holding the
              reaction rate variables. Each rate variable must have a
              'title' attribute of the form 'a + b -> c + 2*d'.`,
			shorthand:  "d",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{termsCmd.Flags(), budgetCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "tracer",
			usage: `
              tracer specifies the name of the chemical species of interest,
              for example 'co2' or 'ch3c(o)oo'.`,
			shorthand:  "t",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{termsCmd.Flags(), budgetCmd.Flags(), plotCmd.Flags(), numdensCmd.Flags()},
		},
		{
			name: "output",
			usage: `
              output specifies the path to the output file.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{budgetCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "OutputVariables",
			usage: `
              OutputVariables specifies additional fields to calculate and
              save in the budget file, as a map of names to expressions.
              Expressions can use the fields production, loss and net,
              the names of the rate variables in the budget, and the
              functions exp(x) and abs(x). For example:
              {"o2frac": "k_ch3_o2 / loss"}`,
			defaultVal: map[string]string{},
			flagsets:   []*pflag.FlagSet{budgetCmd.Flags()},
		},
		{
			name: "species",
			usage: `
              species specifies that the arguments are species names
              rather than reaction titles.`,
			shorthand:  "s",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{latexCmd.Flags()},
		},
		{
			name: "pressure",
			usage: `
              pressure specifies the air pressure [Pa].`,
			defaultVal: 101325.0,
			flagsets:   []*pflag.FlagSet{numdensCmd.Flags()},
		},
		{
			name: "temperature",
			usage: `
              temperature specifies the air temperature [K].`,
			defaultVal: 273.15,
			flagsets:   []*pflag.FlagSet{numdensCmd.Flags()},
		},
		{
			name: "mmr",
			usage: `
              mmr specifies the tracer mass mixing ratio [kg/kg].`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{numdensCmd.Flags()},
		},
		{
			name: "meanmass",
			usage: `
              meanmass specifies the mean molar mass of air [g/mol].`,
			defaultVal: 28.97,
			flagsets:   []*pflag.FlagSet{numdensCmd.Flags()},
		},
		{
			name: "Plot.Width",
			usage: `
              Plot.Width specifies the figure width [cm].`,
			defaultVal: 16.0,
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "Plot.Height",
			usage: `
              Plot.Height specifies the figure height [cm].`,
			defaultVal: 10.0,
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("CHEMDIAG")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				s := string(b.Bytes())
				if option.shorthand == "" {
					set.String(option.name, s, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, s, option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(termsCmd)
	Root.AddCommand(latexCmd)
	Root.AddCommand(numdensCmd)
	Root.AddCommand(budgetCmd)
	Root.AddCommand(plotCmd)
}

// logger is set up by Root before any subcommand runs.
var logger = logrus.New()

// Root is the main command.
var Root = &cobra.Command{
	Use:   "chemdiag",
	Short: "Chemical budget diagnostics for atmospheric model output.",
	Long: `chemdiag post-processes atmospheric chemistry model output. It
converts tracer mixing ratios to number densities, finds the reaction rate
variables that produce or destroy a tracer, sums them into a chemical budget,
and renders species names and reactions as LaTeX-style labels.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'CHEMDIAG_var' where 'var' is the
name of the variable to be set. File paths are allowed to contain environment
variables within them.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setConfig(); err != nil {
			return err
		}
		l, err := newLogger(Cfg.GetString("LogLevel"), os.Stderr)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of chemdiag.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "chemdiag v%s\n", chemdiag.Version)
	},
	DisableAutoGenTag: true,
}

var termsCmd = &cobra.Command{
	Use:   "terms",
	Short: "List the production and loss terms of a tracer",
	Long: `terms lists the reaction rate variables in the dataset that produce
or destroy the tracer. Each line holds the term type (production or loss),
the variable name, the stoichiometric factor, and the reaction in LaTeX form.
A loss variable is listed once for each time the tracer appears as a reactant.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dataset, err := checkInputFile("dataset", Cfg.GetString("dataset"))
		if err != nil {
			return err
		}
		tracer, err := checkTracer(Cfg.GetString("tracer"))
		if err != nil {
			return err
		}
		return Terms(cmd.OutOrStdout(), dataset, tracer)
	},
	DisableAutoGenTag: true,
}

var latexCmd = &cobra.Command{
	Use:   "latex [titles or species...]",
	Short: "Render reactions or species names as LaTeX",
	Long: `latex prints the LaTeX form of each argument, one per line.
Arguments are treated as reaction titles unless --species is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		species, err := cast.ToBoolE(Cfg.Get("species"))
		if err != nil {
			return fmt.Errorf("chemdiag: reading 'species': %v", err)
		}
		return Latex(cmd.OutOrStdout(), args, species)
	},
	DisableAutoGenTag: true,
}

var numdensCmd = &cobra.Command{
	Use:   "numdens",
	Short: "Calculate air and tracer number densities",
	Long: `numdens calculates the number density of air at the given pressure
and temperature. If a tracer is given, numdens also converts its mass
mixing ratio to a volume mixing ratio and a number density.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mm, err := molarMasses(Cfg)
		if err != nil {
			return err
		}
		return NumDens(cmd.OutOrStdout(), mm,
			Cfg.GetFloat64("pressure"),
			Cfg.GetFloat64("temperature"),
			Cfg.GetString("tracer"),
			Cfg.GetFloat64("mmr"),
			Cfg.GetFloat64("meanmass"),
		)
	},
	DisableAutoGenTag: true,
}

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Calculate the chemical budget of a tracer",
	Long: `budget sums the production and loss terms of the tracer and writes
the production, loss, and net chemical rates to a netcdf file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dataset, err := checkInputFile("dataset", Cfg.GetString("dataset"))
		if err != nil {
			return err
		}
		tracer, err := checkTracer(Cfg.GetString("tracer"))
		if err != nil {
			return err
		}
		output, err := checkOutputFile(Cfg.GetString("output"))
		if err != nil {
			return err
		}
		outputVars, err := getStringMapString("OutputVariables", Cfg)
		if err != nil {
			return err
		}
		return Budget(dataset, tracer, output, outputVars)
	},
	DisableAutoGenTag: true,
}

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Plot the chemical budget terms of a tracer",
	Long: `plot draws a bar chart of the domain-total contribution of each
production and loss term of the tracer. The image format is chosen
from the output file extension (for example .png, .svg, or .pdf).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dataset, err := checkInputFile("dataset", Cfg.GetString("dataset"))
		if err != nil {
			return err
		}
		tracer, err := checkTracer(Cfg.GetString("tracer"))
		if err != nil {
			return err
		}
		output, err := checkOutputFile(Cfg.GetString("output"))
		if err != nil {
			return err
		}
		return Plot(dataset, tracer, output, Cfg.GetFloat64("Plot.Width"), Cfg.GetFloat64("Plot.Height"))
	},
	DisableAutoGenTag: true,
}
