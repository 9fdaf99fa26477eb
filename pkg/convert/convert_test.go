// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/storefront/pkg/convert"
)

func TestToInt(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"3", 3},
		{"-2", -2},
		{"+5", 5},
		{" 7 ", 7},
		{"", 0},
		{"two", 0},
		{"1.5", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, convert.ToInt(tt.input))
		})
	}
}
