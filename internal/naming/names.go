// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package naming converts model names into identifiers of the target
// languages.
package naming

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
)

var (
	rules    = inflect.NewDefaultRuleset()
	acronyms = make(map[string]bool)
)

func init() {
	for _, w := range []string{
		"API", "ASCII", "CPU", "CSS", "DNS", "EOF", "HTML", "HTTP", "HTTPS", "ID", "IP",
		"JSON", "LRO", "RPC", "SQL", "TCP", "TLS", "TTL", "UDP", "UI", "URI", "URL",
		"UTF8", "UUID", "XML",
	} {
		acronyms[w] = true
		rules.AddAcronym(w)
	}
}

// Capitalize returns name with the first letter uppercased.
// Returns empty string for empty input.
func Capitalize(name string) string {
	if name == "" {
		return ""
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Decapitalize returns name with the first letter lowercased.
func Decapitalize(name string) string {
	if name == "" {
		return ""
	}
	runes := []rune(name)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// words splits name at separators ("_", "-", " ", ".") and lower-to-upper
// case changes. Runs of capitals stay together: "HTTPCode" yields "HTTP"
// and "Code".
func words(name string) []string {
	var (
		out []string
		cur []rune
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '.':
			flush()
			continue
		case unicode.IsUpper(r) && len(cur) > 0:
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return out
}

// Pascal converts name to PascalCase, spelling known initialisms in
// capitals: "user_id" yields "UserID".
func Pascal(name string) string {
	var b strings.Builder
	for _, w := range words(name) {
		if upper := strings.ToUpper(w); acronyms[upper] {
			b.WriteString(upper)
			continue
		}
		b.WriteString(rules.Capitalize(strings.ToLower(w)))
	}
	return b.String()
}

// Camel converts name to camelCase. A leading initialism is lowered as a
// whole: "URLPath" yields "urlPath".
func Camel(name string) string {
	ws := words(name)
	if len(ws) == 0 {
		return ""
	}
	first := strings.ToLower(ws[0])
	return first + Pascal(strings.Join(ws[1:], "_"))
}

// JavaName converts name to a Java member name: camelCase without
// initialism handling, so "id" stays "id" and accessors read getId.
func JavaName(name string) string {
	ws := words(name)
	if len(ws) == 0 {
		return ""
	}
	var b strings.Builder
	for i, w := range ws {
		if i == 0 {
			b.WriteString(Decapitalize(w))
			continue
		}
		b.WriteString(Capitalize(w))
	}
	return Escape(b.String())
}

// Snake converts name to snake_case.
func Snake(name string) string {
	ws := words(name)
	for i, w := range ws {
		ws[i] = strings.ToLower(w)
	}
	return strings.Join(ws, "_")
}

// ScreamingSnake converts name to SCREAMING_SNAKE_CASE. A name that does
// not start with a letter is prefixed with an underscore.
func ScreamingSnake(name string) string {
	ws := words(name)
	for i, w := range ws {
		ws[i] = strings.ToUpper(sanitize(w))
	}
	s := strings.Join(ws, "_")
	if s == "" || !unicode.IsLetter([]rune(s)[0]) {
		s = "_" + s
	}
	return s
}

// Plural returns the plural form of a word.
func Plural(word string) string {
	return rules.Pluralize(word)
}

// Singular returns the singular form of a word.
func Singular(word string) string {
	return rules.Singularize(word)
}

// sanitize drops characters that cannot appear in an identifier.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return -1
	}, s)
}

var javaKeywords = map[string]bool{
	"abstract": true, "assert": true, "boolean": true, "break": true, "byte": true,
	"case": true, "catch": true, "char": true, "class": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extends": true, "final": true, "finally": true, "float": true,
	"for": true, "goto": true, "if": true, "implements": true, "import": true,
	"instanceof": true, "int": true, "interface": true, "long": true, "native": true,
	"new": true, "package": true, "private": true, "protected": true, "public": true,
	"return": true, "short": true, "static": true, "strictfp": true, "super": true,
	"switch": true, "synchronized": true, "this": true, "throw": true, "throws": true,
	"transient": true, "try": true, "void": true, "volatile": true, "while": true,
	"true": true, "false": true, "null": true, "var": true, "record": true,
}

// Escape appends an underscore to Java keywords.
func Escape(name string) string {
	if javaKeywords[name] {
		return name + "_"
	}
	return name
}
