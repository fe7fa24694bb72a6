// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package emit

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf16"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/sosodev/duration"

	"github.com/albertocavalcante/clientgen/internal/model"
	"github.com/albertocavalcante/clientgen/internal/naming"
)

const (
	javaAssertions = "org.junit.jupiter.api.Assertions"
	javaArrays     = "java.util.Arrays"
	javaList       = "java.util.List"
	javaMap        = "java.util.Map"
)

type javaDialect struct{}

func (javaDialect) Name() string { return "java" }

func (javaDialect) literal(n *model.Literal, a *accumulator) (Expr, error) {
	if n.IsNull() {
		return javaExpr("null"), nil
	}
	switch t := n.Type.(type) {
	case *model.EnumType:
		v, ok := n.Value.(string)
		if !ok {
			return nil, errors.Newf("emit: enum %s holds %T", t.Name, n.Value)
		}
		a.imports.Add(model.QualifiedName(t.Package, t.Name))
		if t.Expandable {
			return javaExpr(t.Name + ".fromString(" + javaQuote(v) + ")"), nil
		}
		ev, ok := t.Lookup(v)
		if !ok {
			return nil, errors.Newf("emit: %q is not a value of enum %s", v, t.Name)
		}
		return javaExpr(t.Name + "." + naming.ScreamingSnake(ev.Name)), nil
	case *model.PrimitiveType:
		text, err := FormatJavaLiteral(t.Kind, n.Value)
		if err != nil {
			return nil, err
		}
		a.imports.Add(javaKindImport(t.Kind))
		if t.Kind == model.KindURL {
			a.features |= FeatureThrows
		}
		return javaExpr(text), nil
	}
	return nil, errors.Newf("emit: no literal form for %s", n.Type)
}

func (javaDialect) object(raw any, a *accumulator) (Expr, error) {
	switch v := raw.(type) {
	case nil:
		return javaExpr("null"), nil
	case int:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return javaExpr(strconv.Itoa(v) + "L"), nil
		}
		return javaExpr(strconv.Itoa(v)), nil
	case int32:
		return javaExpr(strconv.FormatInt(int64(v), 10)), nil
	case int64:
		return javaExpr(strconv.FormatInt(v, 10) + "L"), nil
	case float32:
		return FormatJavaLiteralExpr(model.KindFloat, v)
	case float64:
		return FormatJavaLiteralExpr(model.KindDouble, v)
	case bool:
		return javaExpr(strconv.FormatBool(v)), nil
	case string:
		return javaExpr(javaQuote(v)), nil
	case json.Number:
		return javaExpr(v.String()), nil
	}
	text, err := canonicalJSON(raw)
	if err != nil {
		return nil, err
	}
	a.features |= FeatureReadJSON | FeatureThrows
	return javaExpr("readJson(" + javaQuote(text) + ")"), nil
}

func (javaDialect) null(model.Type, *accumulator) Expr { return javaExpr("null") }

func (javaDialect) list(_ *model.ListType, items []Expr, a *accumulator) Expr {
	a.imports.Add(javaArrays)
	return javaExpr("Arrays.asList(" + joinExprs(items) + ")")
}

func (javaDialect) mapping(_ *model.MapType, keys []string, values []Expr, a *accumulator) Expr {
	a.features |= FeatureMapOf
	parts := make([]string, 0, 2*len(keys))
	for i, k := range keys {
		parts = append(parts, javaQuote(k), values[i].String())
	}
	return javaExpr("mapOf(" + strings.Join(parts, ", ") + ")")
}

func (d javaDialect) construct(t *model.ObjectType, args []Expr, setters []setter, a *accumulator) Expr {
	a.imports.Add(model.QualifiedName(t.Package, t.Name))
	return javaExpr("new " + t.Name + "(" + joinExprs(args) + ")" + javaSetters(setters))
}

func (d javaDialect) build(t *model.ObjectType, setters []setter, a *accumulator) Expr {
	return d.construct(t, nil, setters, a)
}

func javaSetters(setters []setter) string {
	var b strings.Builder
	for _, s := range setters {
		b.WriteString("." + JavaSetter(s.prop) + "(" + s.value.String() + ")")
	}
	return b.String()
}

func (javaDialect) ident(name string) Expr { return javaExpr(name) }

func (javaDialect) assertEqual(expected, actual Expr, t model.Type, a *accumulator) Expr {
	a.imports.Add(javaAssertions)
	if p, ok := t.(*model.PrimitiveType); ok {
		switch p.Kind {
		case model.KindFloat, model.KindDouble:
			return javaExpr(fmt.Sprintf("Assertions.assertEquals(%s, %s, 0.0);", expected, actual))
		case model.KindBytes:
			return javaExpr(fmt.Sprintf("Assertions.assertArrayEquals(%s, %s);", expected, actual))
		}
	}
	return javaExpr(fmt.Sprintf("Assertions.assertEquals(%s, %s);", expected, actual))
}

func (javaDialect) assertNull(actual Expr, _ model.Type, a *accumulator) Expr {
	a.imports.Add(javaAssertions)
	return javaExpr("Assertions.assertNull(" + actual.String() + ");")
}

func (javaDialect) index(acc Expr, i int) Expr {
	return javaExpr(acc.String() + ".get(" + strconv.Itoa(i) + ")")
}

func (javaDialect) key(acc Expr, k string) Expr {
	return javaExpr(acc.String() + ".get(" + javaQuote(k) + ")")
}

func (javaDialect) field(acc Expr, p *model.Property) Expr {
	return javaExpr(acc.String() + "." + JavaGetter(p) + "()")
}

// narrow casts to the concrete subtype when the accessor is typed as an
// ancestor.
func (javaDialect) narrow(acc Expr, declared model.Type, concrete *model.ObjectType, a *accumulator) Expr {
	d, ok := declared.(*model.ObjectType)
	if !ok || d == concrete {
		return acc
	}
	a.imports.Add(model.QualifiedName(concrete.Package, concrete.Name))
	return javaExpr("((" + concrete.Name + ") " + acc.String() + ")")
}

func joinExprs(es []Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

// JavaSetter returns the fluent setter name of p.
func JavaSetter(p *model.Property) string {
	return "with" + naming.Capitalize(naming.JavaName(p.Name))
}

// JavaGetter returns the getter name of p.
func JavaGetter(p *model.Property) string {
	return "get" + naming.Capitalize(naming.JavaName(p.Name))
}

// JavaType returns the Java spelling of t and records the imports it needs.
// Primitives are boxed so that absent values can be null.
func JavaType(t model.Type, imports *ImportSet) string {
	switch t := t.(type) {
	case *model.PrimitiveType:
		imports.Add(javaKindImport(t.Kind))
		return javaKindType[t.Kind]
	case *model.EnumType:
		imports.Add(model.QualifiedName(t.Package, t.Name))
		return t.Name
	case *model.ObjectType:
		imports.Add(model.QualifiedName(t.Package, t.Name))
		return t.Name
	case *model.ListType:
		imports.Add(javaList)
		return "List<" + JavaType(t.Element, imports) + ">"
	case *model.MapType:
		imports.Add(javaMap)
		return "Map<String, " + JavaType(t.Value, imports) + ">"
	}
	return "Object"
}

var javaKindType = map[model.Kind]string{
	model.KindInt:      "Integer",
	model.KindLong:     "Long",
	model.KindFloat:    "Float",
	model.KindDouble:   "Double",
	model.KindBoolean:  "Boolean",
	model.KindString:   "String",
	model.KindDateTime: "OffsetDateTime",
	model.KindDate:     "LocalDate",
	model.KindDuration: "Duration",
	model.KindURL:      "URL",
	model.KindUUID:     "UUID",
	model.KindBytes:    "byte[]",
	model.KindAny:      "Object",
}

func javaKindImport(k model.Kind) string {
	switch k {
	case model.KindDateTime:
		return "java.time.OffsetDateTime"
	case model.KindDate:
		return "java.time.LocalDate"
	case model.KindDuration:
		return "java.time.Duration"
	case model.KindURL:
		return "java.net.URL"
	case model.KindUUID:
		return "java.util.UUID"
	case model.KindBytes:
		return "java.util.Base64"
	}
	return ""
}

// FormatJavaLiteralExpr is FormatJavaLiteral returning an Expr.
func FormatJavaLiteralExpr(k model.Kind, v any) (Expr, error) {
	text, err := FormatJavaLiteral(k, v)
	if err != nil {
		return nil, err
	}
	return javaExpr(text), nil
}

// FormatJavaLiteral renders a scalar of kind k as Java source. v must hold
// the Go form model.ParseScalar produces for k; nil renders null.
func FormatJavaLiteral(k model.Kind, v any) (string, error) {
	if v == nil {
		return "null", nil
	}
	bad := func() (string, error) {
		return "", errors.Newf("emit: %s literal holds %T", k, v)
	}
	switch k {
	case model.KindInt:
		i, ok := v.(int32)
		if !ok {
			return bad()
		}
		return strconv.FormatInt(int64(i), 10), nil
	case model.KindLong:
		i, ok := v.(int64)
		if !ok {
			return bad()
		}
		return strconv.FormatInt(i, 10) + "L", nil
	case model.KindFloat:
		f, ok := v.(float32)
		if !ok {
			return bad()
		}
		if s, ok := javaSpecialFloat("Float", float64(f)); ok {
			return s, nil
		}
		return javaFloatText(float64(f), 32) + "f", nil
	case model.KindDouble:
		f, ok := v.(float64)
		if !ok {
			return bad()
		}
		if s, ok := javaSpecialFloat("Double", f); ok {
			return s, nil
		}
		return javaFloatText(f, 64), nil
	case model.KindBoolean:
		b, ok := v.(bool)
		if !ok {
			return bad()
		}
		return strconv.FormatBool(b), nil
	case model.KindString:
		s, ok := v.(string)
		if !ok {
			return bad()
		}
		return javaQuote(s), nil
	case model.KindDateTime:
		ts, ok := v.(time.Time)
		if !ok {
			return bad()
		}
		return "OffsetDateTime.parse(" + javaQuote(ts.Format(time.RFC3339Nano)) + ")", nil
	case model.KindDate:
		ts, ok := v.(time.Time)
		if !ok {
			return bad()
		}
		return "LocalDate.parse(" + javaQuote(ts.Format(model.DateLayout)) + ")", nil
	case model.KindDuration:
		d, ok := v.(time.Duration)
		if !ok {
			return bad()
		}
		return "Duration.parse(" + javaQuote(isoDuration(d)) + ")", nil
	case model.KindURL:
		s, ok := v.(string)
		if !ok {
			return bad()
		}
		return "new URL(" + javaQuote(s) + ")", nil
	case model.KindUUID:
		id, ok := v.(uuid.UUID)
		if !ok {
			return bad()
		}
		return "UUID.fromString(" + javaQuote(id.String()) + ")", nil
	case model.KindBytes:
		b, ok := v.([]byte)
		if !ok {
			return bad()
		}
		return "Base64.getDecoder().decode(" + javaQuote(base64.StdEncoding.EncodeToString(b)) + ")", nil
	}
	return "", errors.Newf("emit: no literal form for %s", k)
}

// ParseJavaLiteral inverts FormatJavaLiteral.
func ParseJavaLiteral(k model.Kind, text string) (any, error) {
	if text == "null" {
		return nil, nil
	}
	switch k {
	case model.KindInt:
		i, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return nil, errors.Wrap(err, "emit: int literal")
		}
		return int32(i), nil
	case model.KindLong:
		body, ok := strings.CutSuffix(text, "L")
		if !ok {
			return nil, errors.Newf("emit: long literal %q lacks the L suffix", text)
		}
		i, err := strconv.ParseInt(body, 10, 64)
		if err != nil {
			return nil, errors.Wrap(err, "emit: long literal")
		}
		return i, nil
	case model.KindFloat:
		if f, ok := parseJavaSpecialFloat("Float", text); ok {
			return float32(f), nil
		}
		body, ok := strings.CutSuffix(text, "f")
		if !ok {
			return nil, errors.Newf("emit: float literal %q lacks the f suffix", text)
		}
		f, err := strconv.ParseFloat(body, 32)
		if err != nil {
			return nil, errors.Wrap(err, "emit: float literal")
		}
		return float32(f), nil
	case model.KindDouble:
		if f, ok := parseJavaSpecialFloat("Double", text); ok {
			return f, nil
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, errors.Wrap(err, "emit: double literal")
		}
		return f, nil
	case model.KindBoolean:
		switch text {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, errors.Newf("emit: boolean literal %q", text)
	case model.KindString:
		return javaUnquote(text)
	case model.KindDateTime:
		s, err := javaCallArg(text, "OffsetDateTime.parse(")
		if err != nil {
			return nil, err
		}
		ts, err := time.Parse(time.RFC3339Nano, s)
		return ts, errors.Wrap(err, "emit: date-time literal")
	case model.KindDate:
		s, err := javaCallArg(text, "LocalDate.parse(")
		if err != nil {
			return nil, err
		}
		ts, err := time.Parse(model.DateLayout, s)
		return ts, errors.Wrap(err, "emit: date literal")
	case model.KindDuration:
		s, err := javaCallArg(text, "Duration.parse(")
		if err != nil {
			return nil, err
		}
		d, err := duration.Parse(s)
		if err != nil {
			return nil, errors.Wrap(err, "emit: duration literal")
		}
		return d.ToTimeDuration(), nil
	case model.KindURL:
		return javaCallArg(text, "new URL(")
	case model.KindUUID:
		s, err := javaCallArg(text, "UUID.fromString(")
		if err != nil {
			return nil, err
		}
		id, err := uuid.Parse(s)
		return id, errors.Wrap(err, "emit: uuid literal")
	case model.KindBytes:
		s, err := javaCallArg(text, "Base64.getDecoder().decode(")
		if err != nil {
			return nil, err
		}
		b, err := base64.StdEncoding.DecodeString(s)
		return b, errors.Wrap(err, "emit: bytes literal")
	}
	return nil, errors.Newf("emit: no literal form for %s", k)
}

func javaCallArg(text, prefix string) (string, error) {
	inner, ok := strings.CutPrefix(text, prefix)
	if ok {
		inner, ok = strings.CutSuffix(inner, ")")
	}
	if !ok {
		return "", errors.Newf("emit: %q is not a %s...) call", text, prefix)
	}
	return javaUnquote(inner)
}

func javaSpecialFloat(class string, f float64) (string, bool) {
	switch {
	case math.IsNaN(f):
		return class + ".NaN", true
	case math.IsInf(f, 1):
		return class + ".POSITIVE_INFINITY", true
	case math.IsInf(f, -1):
		return class + ".NEGATIVE_INFINITY", true
	}
	return "", false
}

func parseJavaSpecialFloat(class, text string) (float64, bool) {
	switch text {
	case class + ".NaN":
		return math.NaN(), true
	case class + ".POSITIVE_INFINITY":
		return math.Inf(1), true
	case class + ".NEGATIVE_INFINITY":
		return math.Inf(-1), true
	}
	return 0, false
}

// javaFloatText is the shortest decimal that reads back as f, always
// carrying a decimal point or exponent so Java types it as floating point.
func javaFloatText(f float64, bits int) string {
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// isoDuration formats d as an ISO-8601 time-only duration, the form
// java.time.Duration.parse accepts.
func isoDuration(d time.Duration) string {
	if d == 0 {
		return "PT0S"
	}
	var b strings.Builder
	if d < 0 {
		b.WriteByte('-')
		d = -d
	}
	b.WriteString("PT")
	if h := d / time.Hour; h > 0 {
		fmt.Fprintf(&b, "%dH", h)
		d -= h * time.Hour
	}
	if m := d / time.Minute; m > 0 {
		fmt.Fprintf(&b, "%dM", m)
		d -= m * time.Minute
	}
	if d > 0 {
		secs := strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
		b.WriteString(secs + "S")
	}
	return b.String()
}

// javaQuote renders s as a Java string literal. Everything outside
// printable ASCII is escaped, so the output is valid in any source
// encoding.
func javaQuote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			switch {
			case r >= 0x20 && r < 0x7f:
				b.WriteRune(r)
			case r > 0xffff:
				r1, r2 := utf16.EncodeRune(r)
				fmt.Fprintf(&b, `\u%04x\u%04x`, r1, r2)
			default:
				fmt.Fprintf(&b, `\u%04x`, r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

func javaUnquote(text string) (string, error) {
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return "", errors.Newf("emit: %q is not a string literal", text)
	}
	s := text[1 : len(text)-1]
	var b strings.Builder
	for i := 0; i < len(s); {
		c := s[i]
		if c == '"' {
			return "", errors.Newf("emit: unescaped quote in %q", text)
		}
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(s) {
			return "", errors.Newf("emit: dangling escape in %q", text)
		}
		switch e := s[i+1]; e {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case '"', '\'', '\\':
			b.WriteByte(e)
		case 'u':
			r, n, err := javaUnicodeEscape(s[i:])
			if err != nil {
				return "", err
			}
			if utf16.IsSurrogate(r) {
				if r2, n2, err := javaUnicodeEscape(s[i+n:]); err == nil {
					if dec := utf16.DecodeRune(r, r2); dec != unicode.ReplacementChar {
						r = dec
						n += n2
					}
				}
			}
			b.WriteRune(r)
			i += n
			continue
		default:
			if e < '0' || e > '7' {
				return "", errors.Newf("emit: unknown escape \\%c in %q", e, text)
			}
			j, v := i+1, 0
			for j < len(s) && j < i+4 && s[j] >= '0' && s[j] <= '7' && v*8+int(s[j]-'0') <= 0xff {
				v = v*8 + int(s[j]-'0')
				j++
			}
			b.WriteRune(rune(v))
			i = j
			continue
		}
		i += 2
	}
	return b.String(), nil
}

// javaUnicodeEscape decodes a leading \uXXXX (Java permits repeated u).
func javaUnicodeEscape(s string) (rune, int, error) {
	if len(s) < 2 || s[0] != '\\' || s[1] != 'u' {
		return 0, 0, errors.New("emit: not a unicode escape")
	}
	i := 1
	for i < len(s) && s[i] == 'u' {
		i++
	}
	if i+4 > len(s) {
		return 0, 0, errors.Newf("emit: short unicode escape %q", s)
	}
	v, err := strconv.ParseUint(s[i:i+4], 16, 16)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "emit: unicode escape %q", s[:i+4])
	}
	return rune(v), i + 4, nil
}

// canonicalJSON encodes an untyped value with sorted object keys and no
// HTML escaping.
func canonicalJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(jsonable(v)); err != nil {
		return "", errors.Wrap(err, "emit: encode raw value")
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// jsonable rewrites the map[any]any nodes a YAML decoder may yield into
// string-keyed maps encoding/json accepts.
func jsonable(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = jsonable(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[fmt.Sprint(k)] = jsonable(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = jsonable(e)
		}
		return out
	}
	return v
}
