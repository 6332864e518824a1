// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ootext implements the small markup language the engine emits for
// citation markers and bibliography text. A Text is plain characters mixed
// with a handful of tags that a document host translates into its own
// formatting:
//
//	<p oo:ParaStyleName="Style">...</p>      paragraph
//	<span oo:CharStyleName="Style">...</span> character style
//	<span lang="en-US">...</span>             locale span ("zxx" = none)
//	<b>...</b> <i>...</i>                     bold, italic
//	<oo:referenceToPageNumberOfReferenceMark target="Name">
//
// Text values are immutable strings; every constructor returns a new Text.
package ootext

import (
	"encoding/xml"
	"strings"
)

// Text is marked-up text. The zero value is the empty text.
type Text string

// FromString wraps s without escaping it; s may already contain markup.
func FromString(s string) Text {
	return Text(s)
}

// String returns the raw markup.
func (t Text) String() string {
	return string(t)
}

// IsEmpty reports whether t has no characters.
func (t Text) IsEmpty() bool {
	return t == ""
}

// Concat appends parts without a separator.
func Concat(parts ...Text) Text {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(string(p))
	}
	return Text(b.String())
}

// Join concatenates parts with sep between consecutive elements.
func Join(sep string, parts []Text) Text {
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(string(p))
	}
	return Text(b.String())
}

// Paragraph wraps t in a paragraph with the given paragraph style. An empty
// style produces a plain <p> element.
func Paragraph(t Text, paraStyle string) Text {
	if paraStyle == "" {
		return Text("<p>" + string(t) + "</p>")
	}
	return Text(`<p oo:ParaStyleName="` + escapeAttr(paraStyle) + `">` + string(t) + "</p>")
}

// CharStyle applies a named character style to t. An empty style returns t.
func CharStyle(t Text, style string) Text {
	if style == "" {
		return t
	}
	return Text(`<span oo:CharStyleName="` + escapeAttr(style) + `">` + string(t) + "</span>")
}

// Locale marks t as written in lang (a BCP 47 tag such as "en-US").
func Locale(t Text, lang string) Text {
	return Text(`<span lang="` + escapeAttr(lang) + `">` + string(t) + "</span>")
}

// LocaleNone marks t as having no language, which turns off spell checking
// for citation keys and similar tokens.
func LocaleNone(t Text) Text {
	return Locale(t, "zxx")
}

// Italic wraps t in <i>.
func Italic(t Text) Text {
	return Text("<i>" + string(t) + "</i>")
}

// Bold wraps t in <b>.
func Bold(t Text) Text {
	return Text("<b>" + string(t) + "</b>")
}

// ReferenceToPageNumber produces a cross reference to the page number of the
// named reference mark.
func ReferenceToPageNumber(markName string) Text {
	return Text(`<oo:referenceToPageNumberOfReferenceMark target="` + escapeAttr(markName) + `">`)
}

// Escape returns s with markup characters escaped so it renders literally.
func Escape(s string) Text {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return Text(b.String())
}

func escapeAttr(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
