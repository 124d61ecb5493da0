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
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/chemdiag"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Budget calculates the chemical budget of tracer from the rate
// variables in dataset and writes it to the netcdf file output,
// along with the fields defined by outputVariables.
func Budget(dataset, tracer, output string, outputVariables map[string]string) error {
	r, f, err := openDataset(dataset)
	if err != nil {
		return err
	}
	defer r.Close()

	b, err := chemdiag.NewBudget(f, tracer)
	if err != nil {
		return err
	}
	if err := b.AddOutputs(outputVariables); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"tracer":     tracer,
		"production": len(b.Production),
		"loss":       len(b.Loss),
		"shape":      b.ProductionRate.Shape,
		"outputs":    len(outputVariables),
	}).Info("calculated budget")

	w, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("chemdiag: creating budget file: %v", err)
	}
	if err := b.Write(w); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("chemdiag: closing budget file: %v", err)
	}
	logger.WithField("file", output).Info("wrote budget")
	return nil
}

// Plot draws a bar chart of the domain-total contribution of each
// budget term of tracer in dataset and saves it to output. The
// figure is width by height centimeters.
func Plot(dataset, tracer, output string, width, height float64) error {
	r, f, err := openDataset(dataset)
	if err != nil {
		return err
	}
	defer r.Close()

	b, err := chemdiag.NewBudget(f, tracer)
	if err != nil {
		return err
	}
	names, values := sortedTotals(b.Totals())

	p, err := plot.New()
	if err != nil {
		return fmt.Errorf("chemdiag: creating plot: %v", err)
	}
	p.Title.Text = chemdiag.LatexName(tracer) + " budget terms"
	if b.Units != "" {
		p.Y.Label.Text = "Domain total (" + b.Units + ")"
	} else {
		p.Y.Label.Text = "Domain total"
	}
	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return fmt.Errorf("chemdiag: creating bar chart: %v", err)
	}
	p.Add(bars)
	p.NominalX(names...)
	if err := p.Save(vg.Length(width)*vg.Centimeter, vg.Length(height)*vg.Centimeter, output); err != nil {
		return fmt.Errorf("chemdiag: saving plot: %v", err)
	}
	logger.WithFields(logrus.Fields{
		"file":  output,
		"terms": len(names),
	}).Info("wrote plot")
	return nil
}

// sortedTotals returns the term names and totals ordered from the
// largest production to the largest loss.
func sortedTotals(totals map[string]float64) ([]string, plotter.Values) {
	names := make([]string, 0, len(totals))
	for n := range totals {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		if totals[names[i]] != totals[names[j]] {
			return totals[names[i]] > totals[names[j]]
		}
		return names[i] < names[j]
	})
	values := make(plotter.Values, len(names))
	for i, n := range names {
		values[i] = totals[n]
	}
	return names, values
}
