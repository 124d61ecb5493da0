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
	"strings"
	"unicode"
)

// latexTitles are complete titles with hand-written markup.
var latexTitles = map[string]string{
	"o1d":     "O($^1$D)",
	"h2o_vap": "H$_2$O Vapour",
	"hoch2ooh + o2 + hv -> hcooh + ho2 + oh": `HOCH$_2$OOH + h$\nu$ (+ O$_2$) $\longrightarrow$ HCOOH + HO$_2$ + OH`,
}

// latexTokens are the reaction title tokens that are not plain formulas.
var latexTokens = map[string]string{
	"->":    `$\longrightarrow$`,
	"+":     "+",
	"hv":    `h$\nu$`,
	"o(1d)": "O($^1$D)",
	"3ch2":  "$^3$CH$_2$",
	"1ch2":  "$^1$CH$_2$",
}

// LatexName returns the chemical formula for a species name in LaTeX
// notation, e.g. "ch4" becomes "CH$_4$". Letters are upper-cased,
// digits become subscripts and other characters are dropped.
func LatexName(species string) string {
	var b strings.Builder
	for _, c := range species {
		switch {
		case unicode.IsLetter(c):
			b.WriteRune(unicode.ToUpper(c))
		case unicode.IsDigit(c):
			b.WriteString("$_" + string(c) + "$")
		}
	}
	return b.String()
}

// LatexTitle returns a reaction title, e.g. "co + oh -> 2*co2", in
// LaTeX notation: "CO + OH $\longrightarrow$ 2*CO$_2$ ".
// Each token of the title is followed by a space. Stoichiometric factors
// are kept as written. Unlike LatexName, characters other than letters
// and digits, such as the parentheses in "ch3c(o)oo", are kept.
func LatexTitle(title string) string {
	if l, ok := latexTitles[title]; ok {
		return l
	}
	var b strings.Builder
	for _, tok := range strings.Fields(title) {
		if l, ok := latexTokens[tok]; ok {
			b.WriteString(l)
		} else {
			b.WriteString(latexFormula(tok))
		}
		b.WriteByte(' ')
	}
	return b.String()
}

// latexFormula renders a possibly factor-prefixed formula token.
func latexFormula(tok string) string {
	var b strings.Builder
	gas := tok
	if i := strings.Index(tok, "*"); i >= 0 {
		b.WriteString(tok[:i+1])
		gas = tok[i+1:]
	}
	for _, c := range gas {
		switch {
		case unicode.IsLetter(c):
			b.WriteRune(unicode.ToUpper(c))
		case unicode.IsDigit(c):
			b.WriteString("$_" + string(c) + "$")
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}
