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

// Package chemdiag contains tools for post-processing atmospheric chemistry
// model output: molar mass lookups and unit conversions for tracers,
// classification of reaction-rate variables into production and loss terms,
// and LaTeX-style rendering of species names and reaction titles.
package chemdiag

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// MolarMasses maps species names to molar masses [g/mol].
type MolarMasses map[string]float64

// organicMolarMass holds the organic species of the mechanism [g/mol].
var organicMolarMass = MolarMasses{
	"ch4": 16., "ch3": 15., "ch3o2": 47.,
	"ch3ooh": 48., "ch3oh": 32., "ch3o": 31.,
	"hcho": 30., "hcooh": 46., "hoch2o2": 63.,
	"hoch2oh": 48., "hoch2ooh": 64., "hco": 29.,
	"c2h6": 30., "c2h5": 29., "c2h5o2": 61.,
	"c2h5ooh": 62., "c2h5oh": 46., "hoch2ch2o2": 77.,
	"hoch2ch2o": 61., "ethgly": 62., "hyetho2h": 78.,
	"ch3cho": 44., "ch2choh": 44., "ch3choho2": 77.,
	"ch3cooh": 60., "ch3chohooh": 78., "ch3c(o)": 43.,
	"ch3c(o)oo": 75., "ch3c(o)ooh": 76., "hcoch2o2": 75.,
	"glyox": 58., "hcoco": 57., "hooch2cho": 76.,
	"hoch2cho": 60., "hochcho": 59., "hoch2co": 59.,
	"hoch2co3": 91., "hoch2co2h": 76., "hcoco2h": 74.,
	"hcoco3h": 90., "hcoco3": 89., "hoch2co3h": 92.,
}

// inorganicMolarMass holds the oxygen and hydrogen species [g/mol].
var inorganicMolarMass = MolarMasses{
	"co2": 44., "co": 28., "o": 16., "o1d": 16.,
	"o2": 32., "o3": 48., "h": 1., "h2": 2., "oh": 17.,
	"ho2": 33., "h2o2": 34.,
	"h2o_vap": 18., "h2o_ice": 18.,
}

// otherMolarMass holds the species that belong to neither view:
// background gases and the chlorine family.
var otherMolarMass = MolarMasses{
	"n2": 28., "ar": 40.,
	"cl": 35., "cl2": 37., "hcl": 36., "hocl": 52.,
	"clo": 51., "cloo": 67., "oclo": 67., "cl2o2": 103.,
	"ch3ocl": 63., "clco": 63., "clo3": 83.5, "hclo4": 100.45,
	"clo4": 99.45,
}

// molarMass is the full table; it is the union of the views above.
var molarMass = organicMolarMass.Merge(inorganicMolarMass).Merge(otherMolarMass)

// ro2Species are the organic peroxy radicals of the mechanism.
var ro2Species = []string{"c2h5o2", "ch3o2", "hoch2o2", "hoch2ch2o2", "ch3choho2",
	"ch3c(o)oo", "hcoch2o2", "hcoco3", "hoch2co3"}

// radicalSpecies are the short-lived organic radicals of the mechanism.
var radicalSpecies = []string{"ch3", "ch3o", "hco", "c2h5", "hoch2ch2o",
	"ch3co", "hcoco", "hochcho", "hoch2co"}

// MolarMass returns a copy of the full molar mass table.
func MolarMass() MolarMasses { return molarMass.Merge(nil) }

// OrganicMolarMass returns a copy of the organic subset of the molar mass table.
func OrganicMolarMass() MolarMasses { return organicMolarMass.Merge(nil) }

// InorganicMolarMass returns a copy of the inorganic subset of the molar mass
// table. Chlorine species and background gases are only in MolarMass.
func InorganicMolarMass() MolarMasses { return inorganicMolarMass.Merge(nil) }

// RO2Species returns the names of the organic peroxy radicals.
func RO2Species() []string { return append([]string(nil), ro2Species...) }

// RadicalSpecies returns the names of the organic radicals.
func RadicalSpecies() []string { return append([]string(nil), radicalSpecies...) }

// UnknownSpeciesError is returned when a species is not in a molar mass table.
type UnknownSpeciesError struct {
	Species string
}

func (e *UnknownSpeciesError) Error() string {
	return fmt.Sprintf("chemdiag: no molar mass for species %q", e.Species)
}

// stripParens removes the parentheses that some species names use
// for notation, e.g. "ch3c(o)oo".
func stripParens(species string) string {
	return strings.NewReplacer("(", "", ")", "").Replace(species)
}

// MassOf returns the molar mass [g/mol] of the given species from the
// default table. See MolarMasses.Of.
func MassOf(species string) (float64, error) {
	return molarMass.Of(species)
}

// Of returns the molar mass [g/mol] of the given species. If the name is not
// in the table as given, it is looked up again with parentheses removed
// from both the name and the table keys, so "ch3cooo" finds "ch3c(o)oo".
// Where two keys only differ in parentheses, the key without
// parentheses wins.
func (m MolarMasses) Of(species string) (float64, error) {
	if mw, ok := m[species]; ok {
		return mw, nil
	}
	s := stripParens(species)
	if mw, ok := m[s]; ok {
		return mw, nil
	}
	// Sorted so that the result does not depend on map order.
	keys := make([]string, 0, len(m))
	for k := range m {
		if strings.ContainsAny(k, "()") && stripParens(k) == s {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return 0, &UnknownSpeciesError{Species: species}
	}
	sort.Strings(keys)
	return m[keys[0]], nil
}

// Merge returns a new table holding the contents of m overlaid
// with the contents of o. Neither m nor o is modified.
func (m MolarMasses) Merge(o MolarMasses) MolarMasses {
	out := make(MolarMasses, len(m)+len(o))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Species returns the sorted species names in m.
func (m MolarMasses) Species() []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ReadMolarMasses reads a molar mass table in TOML format, where each key
// is a species name and each value is its molar mass in g/mol, e.g.:
//
//	no = 30.0
//	"ch3c(o)o2no2" = 121.0
func ReadMolarMasses(r io.Reader) (MolarMasses, error) {
	m := make(MolarMasses)
	if _, err := toml.DecodeReader(r, &m); err != nil {
		return nil, fmt.Errorf("chemdiag: reading molar masses: %v", err)
	}
	for k, v := range m {
		if v <= 0 {
			return nil, fmt.Errorf("chemdiag: molar mass of %s is %g but must be positive", k, v)
		}
	}
	return m, nil
}
