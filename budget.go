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

package chemdiag

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/Knetic/govaluate"
	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"github.com/gonum/floats"
)

// ReadField reads the whole of variable name from f. A leading record
// dimension with no length is dropped.
func ReadField(f *cdf.File, name string) (*sparse.DenseArray, error) {
	dims := f.Header.Lengths(name)
	if len(dims) == 0 {
		return nil, fmt.Errorf("chemdiag: read netcdf: variable %v not in file", name)
	} else if dims[0] == 0 {
		dims = dims[1:]
	}
	r := f.Reader(name, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("chemdiag: read netcdf variable %s: %v", name, err)
	}
	data := sparse.ZerosDense(dims...)
	switch b := buf.(type) {
	case []float32:
		if len(b) != len(data.Elements) {
			return nil, fmt.Errorf("chemdiag: netcdf variable %s: dims are %v but array length is %d", name, dims, len(b))
		}
		for i, val := range b {
			data.Elements[i] = float64(val)
		}
	case []float64:
		if len(b) != len(data.Elements) {
			return nil, fmt.Errorf("chemdiag: netcdf variable %s: dims are %v but array length is %d", name, dims, len(b))
		}
		copy(data.Elements, b)
	default:
		return nil, fmt.Errorf("chemdiag: netcdf variable %s has unsupported type %T", name, buf)
	}
	return data, nil
}

// TracerBudget holds the chemical production and loss rates of a tracer
// summed over the reaction rate variables of a dataset.
type TracerBudget struct {
	// Tracer is the species name.
	Tracer string

	// Production and Loss are the terms returned by RateTerms.
	Production map[string]float64
	Loss       []string

	// Dims are the dimension names of the rate variables.
	Dims []string

	// Units are the units of the first rate variable that has them.
	Units string

	// ProductionRate is the sum of the production variables, each
	// multiplied by its stoichiometric factor.
	ProductionRate *sparse.DenseArray

	// LossRate is the sum of the loss variables. A variable
	// listed twice in Loss is added twice.
	LossRate *sparse.DenseArray

	terms   map[string]*sparse.DenseArray
	outputs []derivedField
}

// derivedField is a field saved by Write. expr is its description.
type derivedField struct {
	name, expr string
	data       *sparse.DenseArray
}

// NewBudget finds the production and loss terms of tracer in f and
// reads and sums the corresponding variables. All of the variables must
// have the same shape.
func NewBudget(f *cdf.File, tracer string) (*TracerBudget, error) {
	b := &TracerBudget{
		Tracer: tracer,
		terms:  make(map[string]*sparse.DenseArray),
	}
	b.Production, b.Loss = RateTerms(f.Header, tracer)
	if len(b.Production) == 0 && len(b.Loss) == 0 {
		return nil, fmt.Errorf("chemdiag: no production or loss terms for %s", tracer)
	}

	// Read in header order so Dims and Units do not depend on map order.
	for _, v := range f.Header.Variables() {
		_, isProd := b.Production[v]
		if !isProd && !contains(b.Loss, v) {
			continue
		}
		data, err := ReadField(f, v)
		if err != nil {
			return nil, err
		}
		if b.ProductionRate == nil {
			b.ProductionRate = sparse.ZerosDense(data.Shape...)
			b.LossRate = sparse.ZerosDense(data.Shape...)
			b.Dims = f.Header.Dimensions(v)
			if len(b.Dims) > len(data.Shape) {
				b.Dims = b.Dims[len(b.Dims)-len(data.Shape):]
			}
		} else if err := sameShape(b.ProductionRate, data); err != nil {
			return nil, fmt.Errorf("chemdiag: rate variable %s: %v", v, err)
		}
		if u, ok := f.Header.GetAttribute(v, "units").(string); ok && b.Units == "" {
			b.Units = u
		}
		b.terms[v] = data
	}
	for v, factor := range b.Production {
		floats.AddScaled(b.ProductionRate.Elements, factor, b.terms[v].Elements)
	}
	for _, v := range b.Loss {
		floats.Add(b.LossRate.Elements, b.terms[v].Elements)
	}
	return b, nil
}

func contains(s []string, v string) bool {
	for _, ss := range s {
		if ss == v {
			return true
		}
	}
	return false
}

// Net returns production minus loss.
func (b *TracerBudget) Net() *sparse.DenseArray {
	out := sparse.ZerosDense(b.ProductionRate.Shape...)
	floats.SubTo(out.Elements, b.ProductionRate.Elements, b.LossRate.Elements)
	return out
}

// Totals returns the domain sum of each term's contribution to the
// tracer. Production terms are multiplied by their factors; loss terms
// are negative and multiplied by the number of times they are listed.
func (b *TracerBudget) Totals() map[string]float64 {
	o := make(map[string]float64)
	for v, factor := range b.Production {
		o[v] += factor * floats.Sum(b.terms[v].Elements)
	}
	for _, v := range b.Loss {
		o[v] -= floats.Sum(b.terms[v].Elements)
	}
	return o
}

// budgetFunctions are the functions available to Evaluate.
var budgetFunctions = map[string]govaluate.ExpressionFunction{
	"exp": func(arg ...interface{}) (interface{}, error) {
		if len(arg) != 1 {
			return nil, fmt.Errorf("chemdiag: got %d arguments for function 'exp', but needs 1", len(arg))
		}
		x, ok := arg[0].(float64)
		if !ok {
			return nil, fmt.Errorf("chemdiag: function 'exp' needs a number, got %T", arg[0])
		}
		return math.Exp(x), nil
	},
	"abs": func(arg ...interface{}) (interface{}, error) {
		if len(arg) != 1 {
			return nil, fmt.Errorf("chemdiag: got %d arguments for function 'abs', but needs 1", len(arg))
		}
		x, ok := arg[0].(float64)
		if !ok {
			return nil, fmt.Errorf("chemdiag: function 'abs' needs a number, got %T", arg[0])
		}
		return math.Abs(x), nil
	},
}

// Evaluate calculates expr in each grid cell. The expression can refer
// to the fields production, loss and net, to any of the budget's rate
// variables by name, and to the functions exp(x) and abs(x). For
// example, "k_ch3_o2 / loss" is the fraction of the loss rate due
// to variable k_ch3_o2.
func (b *TracerBudget) Evaluate(expr string) (*sparse.DenseArray, error) {
	expression, err := govaluate.NewEvaluableExpressionWithFunctions(expr, budgetFunctions)
	if err != nil {
		return nil, fmt.Errorf("chemdiag: parsing expression %q: %v", expr, err)
	}
	fields := map[string]*sparse.DenseArray{
		"production": b.ProductionRate,
		"loss":       b.LossRate,
		"net":        b.Net(),
	}
	for v, data := range b.terms {
		if _, ok := fields[v]; !ok {
			fields[v] = data
		}
	}
	vars := expression.Vars()
	for _, v := range vars {
		if _, ok := fields[v]; !ok {
			return nil, fmt.Errorf("chemdiag: expression %q: undefined variable name '%s'", expr, v)
		}
	}

	out := sparse.ZerosDense(b.ProductionRate.Shape...)
	params := make(map[string]interface{}, len(vars))
	for i := range out.Elements {
		for _, v := range vars {
			params[v] = fields[v].Elements[i]
		}
		result, err := expression.Evaluate(params)
		if err != nil {
			return nil, fmt.Errorf("chemdiag: evaluating %q: %v", expr, err)
		}
		val, ok := result.(float64)
		if !ok {
			return nil, fmt.Errorf("chemdiag: expression %q gives %T, not a number", expr, result)
		}
		out.Elements[i] = val
	}
	return out, nil
}

// AddOutputs evaluates each of the expressions in outputVariables and
// adds the results to the fields saved by Write, keyed by their names
// in outputVariables. Names must not clash with the standard fields.
func (b *TracerBudget) AddOutputs(outputVariables map[string]string) error {
	names := make([]string, 0, len(outputVariables))
	for name := range outputVariables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		switch name {
		case "production", "loss", "net":
			return fmt.Errorf("chemdiag: output variable name '%s' is reserved", name)
		}
		data, err := b.Evaluate(outputVariables[name])
		if err != nil {
			return err
		}
		b.outputs = append(b.outputs, derivedField{name: name, expr: outputVariables[name], data: data})
	}
	return nil
}

// Write writes the production, loss, and net rates, followed by any
// fields added by AddOutputs, to netcdf file w.
func (b *TracerBudget) Write(w *os.File) error {
	h := cdf.NewHeader(b.Dims, b.ProductionRate.Shape)
	h.AddAttribute("", "comment", "chemdiag chemical budget")
	h.AddAttribute("", "tracer", b.Tracer)

	rates := []derivedField{
		{"production", "chemical production rate of " + b.Tracer, b.ProductionRate},
		{"loss", "chemical loss rate of " + b.Tracer, b.LossRate},
		{"net", "net chemical production rate of " + b.Tracer, b.Net()},
	}
	fields := append(rates, b.outputs...)
	for i, fld := range fields {
		h.AddVariable(fld.name, b.Dims, []float32{0})
		h.AddAttribute(fld.name, "description", fld.expr)
		// Derived fields have no known units.
		if b.Units != "" && i < len(rates) {
			h.AddAttribute(fld.name, "units", b.Units)
		}
		h.AddAttribute(fld.name, TitleAttribute, LatexName(b.Tracer)+" "+fld.name)
	}
	h.Define()
	if errs := h.Check(); len(errs) != 0 {
		return fmt.Errorf("chemdiag: writing budget: %v", errs)
	}

	f, err := cdf.Create(w, h) // writes the header to w
	if err != nil {
		return fmt.Errorf("chemdiag: writing budget: %v", err)
	}
	for _, fld := range fields {
		if err := writeField(f, fld.name, fld.data); err != nil {
			return fmt.Errorf("chemdiag: writing variable %s to netcdf file: %v", fld.name, err)
		}
	}
	return cdf.UpdateNumRecs(w)
}

func writeField(f *cdf.File, name string, data *sparse.DenseArray) error {
	data32 := make([]float32, len(data.Elements))
	for i, e := range data.Elements {
		data32[i] = float32(e)
	}
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	w := f.Writer(name, start, end)
	_, err := w.Write(data32)
	return err
}
