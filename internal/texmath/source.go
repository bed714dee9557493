package texmath

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// greekBold matches \bm applied to a greek letter or a digit, which the
// renderer only supports as \boldsymbol.
var greekBold = regexp.MustCompile(`\\bm ?\\(0|1|alpha|beta|gamma|delta|epsilon|lambda|mu|nu|sigma|xi|zeta|omega|eta|theta|kappa|omicron|pi|rho|tau|upsilon|phi|psi|chi|Alpha|Beta|Gamma|Delta|Epsilon|Lambda|Mu|Nu|Sigma|Xi|Zeta|Omega|Eta|Theta|Kappa|Omicron|Pi|Rho|Tau|Upsilon|Phi|Psi|Chi)`)

const alignBegin = `\begin{align}`

// Key returns the cache key of an equation.
func Key(source string, inline bool) string {
	sum := sha1.Sum([]byte(normalize(source)))
	key := hex.EncodeToString(sum[:])
	if inline {
		key += "i"
	}
	return key
}

// Prepare rewrites source into the form the renderer expects. Display
// equations without their own align environment are wrapped in one.
func Prepare(source string, inline bool) string {
	s := normalize(source)
	if !inline && !strings.Contains(s, alignBegin) {
		s = `\displaystyle{` + alignBegin + s + `\end{align}}`
	}
	return greekBold.ReplaceAllString(s, `\boldsymbol{\$1}`)
}

func normalize(source string) string {
	return norm.NFC.String(strings.TrimSpace(source))
}
