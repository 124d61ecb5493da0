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
	"fmt"
	"io"
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/unit"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/chemdiag"
)

// openDataset opens the netcdf file at path. The caller is responsible
// for closing the returned *os.File.
func openDataset(path string) (*os.File, *cdf.File, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("chemdiag: opening dataset: %v", err)
	}
	f, err := cdf.Open(r)
	if err != nil {
		r.Close()
		return nil, nil, fmt.Errorf("chemdiag: reading dataset %s: %v", path, err)
	}
	return r, f, nil
}

// Terms writes the production and loss terms of tracer in the netcdf
// file dataset to w, one tab-separated term per line.
func Terms(w io.Writer, dataset, tracer string) error {
	r, f, err := openDataset(dataset)
	if err != nil {
		return err
	}
	defer r.Close()

	production, loss := chemdiag.RateTerms(f.Header, tracer)
	for _, v := range f.Header.Variables() {
		factor, ok := production[v]
		if !ok {
			continue
		}
		title, _ := chemdiag.Title(f.Header, v)
		if _, err := fmt.Fprintf(w, "production\t%s\t%g\t%s\n", v, factor, chemdiag.LatexTitle(title)); err != nil {
			return err
		}
	}
	for _, v := range loss {
		title, _ := chemdiag.Title(f.Header, v)
		if _, err := fmt.Fprintf(w, "loss\t%s\t1\t%s\n", v, chemdiag.LatexTitle(title)); err != nil {
			return err
		}
	}
	logger.WithFields(logrus.Fields{
		"tracer":     tracer,
		"production": len(production),
		"loss":       len(loss),
	}).Info("found rate terms")
	return nil
}

// Latex writes the LaTeX form of each of args to w, one per line.
// If species is true, args are species names; otherwise they are
// reaction titles.
func Latex(w io.Writer, args []string, species bool) error {
	for _, a := range args {
		var s string
		if species {
			s = chemdiag.LatexName(a)
		} else {
			s = chemdiag.LatexTitle(a)
		}
		if _, err := fmt.Fprintln(w, s); err != nil {
			return err
		}
	}
	return nil
}

// NumDens writes the number density of air at pressure p [Pa] and
// temperature t [K] to w. If tracer is not empty, it also writes the
// volume mixing ratio and number density of tracer given its mass
// mixing ratio mmr [kg/kg] and the mean molar mass of air [g/mol].
func NumDens(w io.Writer, mm chemdiag.MolarMasses, p, t float64, tracer string, mmr, meanMass float64) error {
	nd, err := chemdiag.NumberDensityUnit(unit.New(p, unit.Pascal), unit.New(t, unit.Kelvin))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "air number density: %g molec/cm3 (%v)\n", chemdiag.NumberDensity(p, t), nd)
	if tracer == "" {
		return nil
	}
	vmr, err := mm.VolumeMixingRatio(tracer, mmr, meanMass)
	if err != nil {
		return err
	}
	tnd, err := mm.TracerNumberDensity(tracer, chemdiag.NumberDensity(p, t), mmr, meanMass)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s volume mixing ratio: %g mol/mol\n", tracer, vmr)
	_, err = fmt.Fprintf(w, "%s number density: %g molec/cm3\n", tracer, tnd)
	return err
}
