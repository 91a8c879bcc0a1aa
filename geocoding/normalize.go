// Copyright 2026 The DistCalc Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizeQuery composes the text to NFC and collapses runs of whitespace, so
// that "  서울역 " and "서울역" (typed with decomposed jamo) reach the
// service as the same string. It returns "" for blank input.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(norm.NFC.String(query)), " ")
}

// ParseLanguage validates a language hint and returns its canonical BCP 47
// form. The empty string is returned unchanged.
func ParseLanguage(hint string) (string, error) {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return "", nil
	}

	tag, err := language.Parse(hint)
	if err != nil {
		return "", &GeocodingError{
			Type:    ErrorTypeInvalidArgument,
			Message: fmt.Sprintf("invalid language hint %q", hint),
			Err:     err,
		}
	}

	return tag.String(), nil
}
