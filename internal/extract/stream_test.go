// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageLines(t *testing.T) {
	tests := []struct {
		name   string
		stream string
		want   []string
	}{
		{
			name: "positioning and escapes",
			stream: "BT\n/F1 12 Tf\n72 720 Td\n(Hello) Tj\n( World) Tj\n0 -14 Td\n" +
				"[(Col) -1500 (Two)] TJ\nT*\n(Esc \\(x\\) \\101) Tj\nET\n",
			want: []string{"Hello World", "Col\tTwo", "Esc (x) A"},
		},
		{
			name:   "hex strings",
			stream: "BT <48656C6C6F> Tj T* <FEFF00480069> Tj ET",
			want:   []string{"Hello", "Hi"},
		},
		{
			name:   "text matrix moves start new lines",
			stream: "BT 1 0 0 1 72 700 Tm (A) Tj 1 0 0 1 140 700 Tm (B) Tj 1 0 0 1 72 680 Tm (C) Tj ET",
			want:   []string{"AB", "C"},
		},
		{
			name:   "kerning gaps",
			stream: "BT [(Hel) -50 (lo) -300 (there)] TJ ET",
			want:   []string{"Hello there"},
		},
		{
			name:   "quote operator starts a line",
			stream: "BT (first) Tj (second) ' ET % trailing comment",
			want:   []string{"first", "second"},
		},
		{
			name:   "no text",
			stream: "q 1 0 0 1 0 0 cm /Im1 Do Q",
			want:   []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pageLines([]byte(tt.stream)))
		})
	}
}

func TestCleanLine(t *testing.T) {
	assert.Equal(t, "a b\tc", cleanLine("  a   b \t c  "))
	assert.Equal(t, "x", cleanLine("\x01x\x02"))
}
