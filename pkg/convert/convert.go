// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert parses loosely typed command arguments.

Malformed input becomes the zero value; callers validate the result (a cart
quantity of 0 is rejected by the user service) instead of handling a parse
error separately.
*/
package convert

import (
	"strconv"
	"strings"
)

// ToInt parses s as a base-10 integer. Surrounding spaces and a leading '+'
// are accepted; anything else unparsable yields 0.
func ToInt(s string) int {
	v, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(s), "+"))
	if err != nil {
		return 0
	}
	return v
}
