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
	"strconv"
	"strings"
)

const (
	// TitleAttribute is the name of the variable attribute that holds
	// the reaction description.
	TitleAttribute = "title"

	arrow = "->"
)

// Header is the read-only view of a dataset that is needed to find
// reaction rate variables. *cdf.Header satisfies it.
type Header interface {
	// Variables returns the variable names in the dataset.
	Variables() []string
	// Attributes returns the attribute names of variable v.
	Attributes(v string) []string
	// GetAttribute returns the value of attribute a of variable v.
	GetAttribute(v, a string) interface{}
}

// Reaction is a reaction parsed from a variable title such as
// "co + oh -> co2 + h". Reactants and Products hold the
// whitespace-separated tokens on each side of the arrow, including
// "+" and "hv".
type Reaction struct {
	Reactants, Products []string
}

// ParseReaction splits title at the first "->". It returns false if
// title does not contain an arrow and so does not describe a reaction.
func ParseReaction(title string) (Reaction, bool) {
	i := strings.Index(title, arrow)
	if i < 0 {
		return Reaction{}, false
	}
	return Reaction{
		Reactants: strings.Fields(title[:i]),
		Products:  strings.Fields(title[i+len(arrow):]),
	}, true
}

// Yield returns the number of moles of species produced per reaction
// event. A product token equal to species counts as 1; otherwise the
// first token of the form "<N>*species" gives N. ok is false if species
// is not a product or its factor is not a number.
func (r Reaction) Yield(species string) (factor float64, ok bool) {
	for _, p := range r.Products {
		if p == species {
			return 1, true
		}
	}
	for _, p := range r.Products {
		i := strings.Index(p, "*")
		if i < 0 || p[i+1:] != species {
			continue
		}
		f, err := strconv.ParseFloat(p[:i], 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Consumed returns the number of times species appears as a reactant.
// Factor-prefixed reactants are not counted.
func (r Reaction) Consumed(species string) int {
	n := 0
	for _, rr := range r.Reactants {
		if rr == species {
			n++
		}
	}
	return n
}

// Title returns the title of variable v, or false if it has none.
func Title(h Header, v string) (string, bool) {
	for _, a := range h.Attributes(v) {
		if a != TitleAttribute {
			continue
		}
		title, ok := h.GetAttribute(v, a).(string)
		return title, ok
	}
	return "", false
}

// RateTerms scans the titles of the variables in h and returns the
// variables that produce and destroy tracer.
//
// production maps the name of each variable whose reaction yields tracer
// to the number of moles of tracer produced per reaction.
// loss lists, in header order, the variables whose reaction has tracer
// as a reactant. A variable is listed once for each time tracer
// appears among its reactants, so "ch3 + ch3 -> c2h6" is listed twice
// for "ch3". Variables without a title, or whose title has no "->", are
// ignored.
func RateTerms(h Header, tracer string) (production map[string]float64, loss []string) {
	production = make(map[string]float64)
	for _, v := range h.Variables() {
		title, ok := Title(h, v)
		if !ok {
			continue
		}
		r, ok := ParseReaction(title)
		if !ok {
			continue
		}
		if f, ok := r.Yield(tracer); ok {
			production[v] = f
		}
		for i := 0; i < r.Consumed(tracer); i++ {
			loss = append(loss, v)
		}
	}
	return production, loss
}
