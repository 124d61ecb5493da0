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
	"reflect"
	"testing"
)

// testHeader is an in-memory Header. Variables with an empty title
// have no title attribute.
type testHeader []struct {
	name  string
	title interface{}
}

func (h testHeader) Variables() []string {
	var o []string
	for _, v := range h {
		o = append(o, v.name)
	}
	return o
}

func (h testHeader) Attributes(v string) []string {
	for _, vv := range h {
		if vv.name == v && vv.title != nil {
			return []string{"units", TitleAttribute}
		}
	}
	return []string{"units"}
}

func (h testHeader) GetAttribute(v, a string) interface{} {
	for _, vv := range h {
		if vv.name == v {
			switch a {
			case TitleAttribute:
				return vv.title
			case "units":
				return "molec/cm3/s"
			}
		}
	}
	return nil
}

func TestParseReaction(t *testing.T) {
	r, ok := ParseReaction("co + oh -> 2*co2 -> h")
	if !ok {
		t.Fatal("should be a reaction")
	}
	want := Reaction{
		Reactants: []string{"co", "+", "oh"},
		Products:  []string{"2*co2", "->", "h"},
	}
	if !reflect.DeepEqual(r, want) {
		t.Errorf("have %#v, want %#v", r, want)
	}
	if _, ok := ParseReaction("Carbon monoxide mass mixing ratio"); ok {
		t.Error("title without arrow should not be a reaction")
	}
}

func TestRateTerms(t *testing.T) {
	tests := []struct {
		name       string
		h          testHeader
		tracer     string
		production map[string]float64
		loss       []string
	}{
		{
			name: "loss only",
			h: testHeader{
				{name: "k1", title: "ch3 + o2 -> ch3o2"},
			},
			tracer:     "ch3",
			production: map[string]float64{},
			loss:       []string{"k1"},
		},
		{
			name: "product, not reactant",
			h: testHeader{
				{name: "k2", title: "ch3oh + oh -> ch3 + h2o"},
			},
			tracer:     "ch3",
			production: map[string]float64{"k2": 1},
		},
		{
			name: "factor",
			h: testHeader{
				{name: "k3", title: "co + oh -> 2*co2"},
			},
			tracer:     "co2",
			production: map[string]float64{"k3": 2},
		},
		{
			name: "fractional factor",
			h: testHeader{
				{name: "k4", title: "ch3c(o)oo + no -> 0.5*ch3o2 + no2"},
			},
			tracer:     "ch3o2",
			production: map[string]float64{"k4": 0.5},
		},
		{
			name: "photolysis",
			h: testHeader{
				{name: "j1", title: "o3 + hv -> o2 + o"},
				{name: "j2", title: "o3 + hv -> o2 + o(1d)"},
			},
			tracer:     "o",
			production: map[string]float64{"j1": 1},
		},
		{
			name: "not a reaction",
			h: testHeader{
				{name: "co2", title: "co2 mass mixing ratio"},
				{name: "temp"},
				{name: "p", title: 101325.},
			},
			tracer:     "co2",
			production: map[string]float64{},
		},
		{
			name: "duplicate reactant",
			h: testHeader{
				{name: "k5", title: "ch3 + ch3 -> c2h6"},
				{name: "k6", title: "ch3 + h -> ch4"},
			},
			tracer:     "ch3",
			production: map[string]float64{},
			loss:       []string{"k5", "k5", "k6"},
		},
		{
			name: "production and loss",
			h: testHeader{
				{name: "k7", title: "o + o2 + m -> o3 + m"},
			},
			tracer:     "m",
			production: map[string]float64{"k7": 1},
			loss:       []string{"k7"},
		},
		{
			name: "bad factor",
			h: testHeader{
				{name: "k8", title: "co + oh -> x*co2 + h"},
				{name: "k9", title: "co + oh -> *co2 + h"},
			},
			tracer:     "co2",
			production: map[string]float64{},
		},
		{
			name: "substring",
			h: testHeader{
				{name: "k10", title: "ch3o2 + ho2 -> ch3ooh + o2"},
			},
			tracer:     "ch3",
			production: map[string]float64{},
		},
		{
			name: "factor token containing tracer",
			h: testHeader{
				{name: "k12", title: "x -> 2*ch3o2 + 3*ch3"},
			},
			tracer:     "ch3",
			production: map[string]float64{"k12": 3},
		},
		{
			name: "factor-prefixed reactant",
			h: testHeader{
				{name: "k11", title: "2*ho2 -> h2o2 + o2"},
			},
			tracer:     "ho2",
			production: map[string]float64{},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			production, loss := RateTerms(test.h, test.tracer)
			if !reflect.DeepEqual(production, test.production) {
				t.Errorf("production: have %v, want %v", production, test.production)
			}
			if !reflect.DeepEqual(loss, test.loss) {
				t.Errorf("loss: have %v, want %v", loss, test.loss)
			}
		})
	}
}

func TestRateTermsOrder(t *testing.T) {
	h := testHeader{
		{name: "k3", title: "oh + h2 -> h2o + h"},
		{name: "k1", title: "oh + co -> co2 + h"},
		{name: "k2", title: "oh + ch4 -> ch3 + h2o"},
	}
	_, loss := RateTerms(h, "oh")
	want := []string{"k3", "k1", "k2"}
	if !reflect.DeepEqual(loss, want) {
		t.Errorf("have %v, want %v", loss, want)
	}
}

func TestReactionYield(t *testing.T) {
	r, _ := ParseReaction("hcoco3 + no -> hco + co2 + no2 + 2*co2")
	f, ok := r.Yield("co2")
	if !ok || f != 1 {
		t.Errorf("bare product should take precedence: have %g, %v", f, ok)
	}
	if _, ok := r.Yield("co"); ok {
		t.Error("co is not a product")
	}
	if n := r.Consumed("no"); n != 1 {
		t.Errorf("consumed: have %d, want 1", n)
	}
}
