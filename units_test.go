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
	"math"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/ctessum/unit"
)

const tolerance = 1.e-10

func different(a, b, tolerance float64) bool {
	if a == b {
		return false
	}
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func TestNumberDensity(t *testing.T) {
	// Loschmidt constant
	nd := NumberDensity(101325, 273.15)
	if different(nd, 2.6867811e19, 1.e-6) {
		t.Errorf("have %g, want 2.6867811e19", nd)
	}
	if nd := NumberDensity(610, 0); !math.IsInf(nd, 1) {
		t.Errorf("zero temperature should give +Inf but gives %g", nd)
	}
}

func TestVolumeMixingRatio(t *testing.T) {
	vmr, err := VolumeMixingRatio("ch3c(o)oo", 1, 75)
	if err != nil {
		t.Fatal(err)
	}
	if vmr != 1 {
		t.Errorf("have %g, want 1", vmr)
	}
	vmr, err = VolumeMixingRatio("co2", 1.5e-3, 43.34)
	if err != nil {
		t.Fatal(err)
	}
	if different(vmr, 1.5e-3*43.34/44, tolerance) {
		t.Errorf("have %g", vmr)
	}
	if _, err := VolumeMixingRatio("xyz", 1, 1); err == nil {
		t.Error("unknown species should be an error")
	}
}

func TestTracerNumberDensity(t *testing.T) {
	nd := NumberDensity(610, 210)
	tnd, err := TracerNumberDensity("co", nd, 1.e-3, 43.34)
	if err != nil {
		t.Fatal(err)
	}
	if different(tnd, 1.e-3*43.34/28*nd, tolerance) {
		t.Errorf("have %g", tnd)
	}
	if _, err := TracerNumberDensity("xyz", nd, 1, 1); err == nil {
		t.Error("unknown species should be an error")
	}
}

func TestNumberDensityUnit(t *testing.T) {
	nd, err := NumberDensityUnit(unit.New(101325, unit.Pascal), unit.New(273.15, unit.Kelvin))
	if err != nil {
		t.Fatal(err)
	}
	if err := nd.Check(unit.Dimensions{unit.LengthDim: -3}); err != nil {
		t.Error(err)
	}
	if different(nd.Value(), NumberDensity(101325, 273.15)*1.e6, tolerance) {
		t.Errorf("have %g", nd.Value())
	}
	if _, err := NumberDensityUnit(unit.New(273.15, unit.Kelvin), unit.New(101325, unit.Pascal)); err == nil {
		t.Error("swapped arguments should be an error")
	}
}

func TestFieldConversions(t *testing.T) {
	p := sparse.ZerosDense(2, 2)
	temp := sparse.ZerosDense(2, 2)
	mmr := sparse.ZerosDense(2, 2)
	mean := sparse.ZerosDense(2, 2)
	for i := range p.Elements {
		p.Elements[i] = 600 + 10*float64(i)
		temp.Elements[i] = 200 + float64(i)
		mmr.Elements[i] = 1.e-4 * float64(i+1)
		mean.Elements[i] = 43.34
	}
	nd, err := NumberDensityField(p, temp)
	if err != nil {
		t.Fatal(err)
	}
	tnd, err := TracerNumberDensityField("o3", nd, mmr, mean)
	if err != nil {
		t.Fatal(err)
	}
	for i := range p.Elements {
		want := NumberDensity(p.Elements[i], temp.Elements[i])
		if different(nd.Elements[i], want, tolerance) {
			t.Errorf("number density %d: have %g, want %g", i, nd.Elements[i], want)
		}
		wantT, _ := TracerNumberDensity("o3", want, mmr.Elements[i], mean.Elements[i])
		if different(tnd.Elements[i], wantT, tolerance) {
			t.Errorf("tracer number density %d: have %g, want %g", i, tnd.Elements[i], wantT)
		}
	}

	if _, err := NumberDensityField(p, sparse.ZerosDense(4)); err == nil {
		t.Error("shape mismatch should be an error")
	}
	if _, err := TracerNumberDensityField("xyz", nd, mmr, mean); err == nil {
		t.Error("unknown species should be an error")
	}
}
