// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeAccount folds an account name to its canonical lookup form.
//
// Full-width and compatibility characters are folded with NFKC, then the
// result is case-folded, so "ＡＬＩＣＥ" and "alice" name the same account.
func NormalizeAccount(account string) string {
	folder := transform.Chain(norm.NFKC, cases.Fold())

	normalized, _, err := transform.String(folder, strings.TrimSpace(account))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(account))
	}
	return normalized
}
