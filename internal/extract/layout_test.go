// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/doc2md/pkg/types"
)

var pageText = []string{
	"Annual Report 2025",
	"This is the first paragraph line that is long enough to be wide",
	"and it ends here.",
	"2 Results",
	"• first point",
	"3) second point",
	"Name\tValue",
	"alpha\t1",
	"beta\t2",
	"E = mc^2 + 4/3",
	"SUMMARY",
	"closing words",
}

func labels(elems []types.DocElement) []string {
	out := make([]string, len(elems))
	for i, e := range elems {
		out[i] = e.Label()
	}
	return out
}

func TestLayoutPage(t *testing.T) {
	elems := layoutPage(pageText, true, true)

	require.Equal(t, []string{
		LabelTitle, LabelText, LabelHeading, LabelListItem, LabelListItem,
		LabelTable, LabelFormula, LabelHeading, LabelText,
	}, labels(elems))

	text, _ := elems[1].Text()
	assert.Equal(t, "This is the first paragraph line that is long enough to be wide and it ends here.", text)

	assert.Equal(t, [][]string{{"Name", "Value"}, {"alpha", "1"}, {"beta", "2"}}, elems[5].TableData())
	text, _ = elems[5].Text()
	assert.Equal(t, "Name Value\nalpha 1\nbeta 2", text)
}

func TestLayoutPageWithoutTables(t *testing.T) {
	elems := layoutPage(pageText, false, false)
	for _, e := range elems {
		assert.NotEqual(t, LabelTable, e.Label())
	}
	assert.Equal(t, LabelText, elems[0].Label(), "no title off the first page")
}

func TestIsHeadingLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"1.2 Methods", true},
		{"II. Background", true},
		{"CONCLUSIONS", true},
		{"1. buy milk", false},
		{"A sentence that ends.", false},
		{"Mixed Case Line", false},
		{"42", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, isHeadingLine(tt.line, false))
		})
	}
}
