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

	"github.com/ctessum/sparse"
	"github.com/ctessum/unit"
	"github.com/gonum/floats"
)

const (
	// Boltzmann is the Boltzmann constant [J/K].
	Boltzmann = 1.38064852e-23

	m3ToCm3 = 1.e6 // cm3 per m3
)

// NumberDensity returns the number density of air [molecules/cm3] given
// pressure p [Pa] and temperature t [K]. t is not checked; a zero
// temperature gives an infinite or NaN result.
func NumberDensity(p, t float64) float64 {
	return p / (Boltzmann * t * m3ToCm3)
}

// VolumeMixingRatio converts the mass mixing ratio mmr of the given
// species to a volume mixing ratio, where meanMass is the mean molar
// mass of air [g/mol]. The species molar mass comes from the default
// table.
func VolumeMixingRatio(species string, mmr, meanMass float64) (float64, error) {
	return molarMass.VolumeMixingRatio(species, mmr, meanMass)
}

// TracerNumberDensity returns the number density of a tracer given the
// number density of air, the tracer mass mixing ratio mmr, and the
// mean molar mass of air [g/mol]. The result has the units of density.
func TracerNumberDensity(species string, density, mmr, meanMass float64) (float64, error) {
	return molarMass.TracerNumberDensity(species, density, mmr, meanMass)
}

// VolumeMixingRatio is like the package-level VolumeMixingRatio, but
// looks up species in m.
func (m MolarMasses) VolumeMixingRatio(species string, mmr, meanMass float64) (float64, error) {
	mw, err := m.Of(species)
	if err != nil {
		return 0, err
	}
	return mmr * meanMass / mw, nil
}

// TracerNumberDensity is like the package-level TracerNumberDensity, but
// looks up species in m.
func (m MolarMasses) TracerNumberDensity(species string, density, mmr, meanMass float64) (float64, error) {
	vmr, err := m.VolumeMixingRatio(species, mmr, meanMass)
	if err != nil {
		return 0, err
	}
	return vmr * density, nil
}

// NumberDensityUnit returns the number density of air [molecules/m3]
// given pressure p [Pa] and temperature t [K]. It returns an error if
// p or t have the wrong dimensions.
func NumberDensityUnit(p, t *unit.Unit) (*unit.Unit, error) {
	if err := p.Check(unit.Pascal); err != nil {
		return nil, fmt.Errorf("chemdiag: pressure: %v", err)
	}
	if err := t.Check(unit.Kelvin); err != nil {
		return nil, fmt.Errorf("chemdiag: temperature: %v", err)
	}
	nd := p.Value() / (Boltzmann * t.Value())
	return unit.New(nd, unit.Dimensions{unit.LengthDim: -3}), nil
}

// NumberDensityField calculates NumberDensity for each element of
// pressure p [Pa] and temperature t [K].
func NumberDensityField(p, t *sparse.DenseArray) (*sparse.DenseArray, error) {
	if err := sameShape(p, t); err != nil {
		return nil, fmt.Errorf("chemdiag: number density: %v", err)
	}
	out := sparse.ZerosDense(p.Shape...)
	copy(out.Elements, t.Elements)
	floats.Scale(Boltzmann*m3ToCm3, out.Elements)
	floats.DivTo(out.Elements, p.Elements, out.Elements)
	return out, nil
}

// TracerNumberDensityField calculates TracerNumberDensity for each
// element of the air number density, tracer mass mixing ratio mmr,
// and mean molar mass of air [g/mol] fields, looking the species up in m.
func (m MolarMasses) TracerNumberDensityField(species string, density, mmr, meanMass *sparse.DenseArray) (*sparse.DenseArray, error) {
	mw, err := m.Of(species)
	if err != nil {
		return nil, err
	}
	if err := sameShape(density, mmr, meanMass); err != nil {
		return nil, fmt.Errorf("chemdiag: %s number density: %v", species, err)
	}
	out := sparse.ZerosDense(density.Shape...)
	floats.MulTo(out.Elements, mmr.Elements, meanMass.Elements)
	floats.Mul(out.Elements, density.Elements)
	floats.Scale(1/mw, out.Elements)
	return out, nil
}

// TracerNumberDensityField is TracerNumberDensityField using the
// default molar mass table.
func TracerNumberDensityField(species string, density, mmr, meanMass *sparse.DenseArray) (*sparse.DenseArray, error) {
	return molarMass.TracerNumberDensityField(species, density, mmr, meanMass)
}

// sameShape returns an error if the arrays do not all have the
// same shape.
func sameShape(arrays ...*sparse.DenseArray) error {
	for _, a := range arrays[1:] {
		if len(a.Shape) != len(arrays[0].Shape) {
			return fmt.Errorf("shape %v does not match %v", a.Shape, arrays[0].Shape)
		}
		for i, n := range a.Shape {
			if n != arrays[0].Shape[i] {
				return fmt.Errorf("shape %v does not match %v", a.Shape, arrays[0].Shape)
			}
		}
	}
	return nil
}
