// Package annotate splits product copy into plain text, certification marks
// and SKU-like codes so a renderer can badge each kind differently.
package annotate

import (
	"regexp"
	"strings"
)

// Kind classifies a span of text
type Kind string

const (
	KindPlain         Kind = "plain"
	KindCertification Kind = "certification"
	KindCode          Kind = "code"
)

// Span is a contiguous piece of the input. Text is always the source
// substring; Label is what a renderer should display.
type Span struct {
	Kind  Kind   `json:"kind"`
	Text  string `json:"text"`
	Label string `json:"label"`
}

const (
	// marks followed by a number are uppercase only so prose like
	// "as 2 loops" stays plain
	certificationPattern = `\b(?:(?i:ULC|UL|FM|CE|EN(?:54(?:-\d+)?)?|LPCB|CPD|NFPA(?:\s?\d+)?|CSFM|MEA|ATEX|IECEx|NF|VdS|BSI|CNPP|CCC|GOST)|SIL(?:\s?[1-4])?|ISO\s?\d+(?:-\d+)*|AS\s?\d+(?:\.\d+)?)\b`

	codePattern = `\b(?:\d+[A-Z]+-[A-Z0-9]+(?:-[A-Z0-9]+)*|[A-Z]{2,}(?:-[A-Z0-9]+)+|[A-Z]+\d+[A-Z]*)\b`

	bareEN      = "EN"
	bareENLabel = "EN54"
)

var (
	certificationRe = regexp.MustCompile(`^` + certificationPattern + `$`)
	codeRe          = regexp.MustCompile(`^` + codePattern + `$`)

	// certification alternative first: at equal positions it wins
	scanRe = regexp.MustCompile(certificationPattern + `|` + codePattern)
)

// Annotate scans text left to right and returns its spans in order.
// Joining the Text of every span reproduces the input exactly.
func Annotate(text string) []Span {
	if text == "" {
		return []Span{}
	}

	spans := make([]Span, 0, 4)
	pos := 0
	for _, loc := range scanRe.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		if start > pos {
			spans = append(spans, plain(text[pos:start]))
		}
		spans = append(spans, classified(text[start:end]))
		pos = end
	}
	if pos < len(text) {
		spans = append(spans, plain(text[pos:]))
	}

	return spans
}

// Classify reports the kind of a single token
func Classify(token string) Kind {
	switch {
	case certificationRe.MatchString(token):
		return KindCertification
	case codeRe.MatchString(token):
		return KindCode
	default:
		return KindPlain
	}
}

// Text joins the source text of spans
func Text(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

func plain(s string) Span {
	return Span{Kind: KindPlain, Text: s, Label: s}
}

func classified(match string) Span {
	if certificationRe.MatchString(match) {
		label := match
		if strings.EqualFold(match, bareEN) {
			label = bareENLabel
		}
		return Span{Kind: KindCertification, Text: match, Label: label}
	}
	return Span{Kind: KindCode, Text: match, Label: match}
}
