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

package chemdiagutil

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/chemdiag"
	"github.com/spf13/cast"
)

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("chemdiag: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// newLogger returns a logger writing to w at the given level.
func newLogger(level string, w io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("chemdiag: invalid LogLevel: %v", err)
	}
	l := logrus.New()
	l.Out = w
	l.Level = lvl
	l.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	}
	return l, nil
}

// molarMasses returns the default molar mass table merged with the
// contents of the MolarMassFile configuration variable, if it is set.
func molarMasses(cfg *viper.Viper) (chemdiag.MolarMasses, error) {
	mm := chemdiag.MolarMass()
	path := os.ExpandEnv(cfg.GetString("MolarMassFile"))
	if path == "" {
		return mm, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("chemdiag: opening MolarMassFile: %v", err)
	}
	defer f.Close()
	extra, err := chemdiag.ReadMolarMasses(f)
	if err != nil {
		return nil, fmt.Errorf("chemdiag: reading MolarMassFile %s: %v", path, err)
	}
	logger.WithFields(logrus.Fields{
		"file":    path,
		"species": len(extra),
	}).Debug("read molar masses")
	return mm.Merge(extra), nil
}

// checkInputFile makes sure that the input file named by option is
// specified and exists, and expands any environment variables.
func checkInputFile(option, f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf("you need to specify the '%s' configuration variable", option)
	}
	f = os.ExpandEnv(f)
	if _, err := os.Stat(f); err != nil {
		return f, fmt.Errorf("chemdiag: the %s file doesn't exist: %v", option, err)
	}
	return f, nil
}

// checkTracer makes sure a tracer is specified.
func checkTracer(tracer string) (string, error) {
	tracer = strings.TrimSpace(tracer)
	if tracer == "" {
		return "", fmt.Errorf("you need to specify the 'tracer' configuration variable (for example: --tracer=co2)")
	}
	return tracer, nil
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expands any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify an output file configuration variable (for example: --output="budget.nc")`)
	}
	f = os.ExpandEnv(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("chemdiag: the output directory doesn't exist: %v", err)
	}
	return f, nil
}

// getStringMapString returns a map[string]string from a viper configuration,
// accounting for the fact that it might be a json object if it was set
// from a command line argument.
func getStringMapString(varName string, cfg *viper.Viper) (map[string]string, error) {
	i := cfg.Get(varName)
	switch v := i.(type) {
	case nil:
		return nil, nil
	case map[string]string:
		return v, nil
	case map[string]interface{}:
		return cast.ToStringMapStringE(v)
	case string:
		o := make(map[string]string)
		if v == "" {
			return o, nil
		}
		if err := json.Unmarshal([]byte(v), &o); err != nil {
			return nil, fmt.Errorf("chemdiag: reading '%s': %v", varName, err)
		}
		return o, nil
	default:
		return nil, fmt.Errorf("chemdiag: invalid type for %s: %#v", varName, i)
	}
}
