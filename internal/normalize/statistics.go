// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/doc2md/pkg/types"
)

var (
	imageRef   = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	inlineCode = regexp.MustCompile("`[^`\n]+`")
)

// ContentStatistics counts the Markdown constructs in content. Fenced
// blocks count as code blocks and nothing inside them is counted further.
func ContentStatistics(content string) types.ContentStatistics {
	st := types.ContentStatistics{
		TotalCharacters: utf8.RuneCountInString(content),
		TotalWords:      len(strings.Fields(content)),
	}
	if content == "" {
		return st
	}

	lines := splitLines(strings.TrimSuffix(content, "\n"))
	st.TotalLines = len(lines)

	var f fence
	for _, line := range lines {
		wasOpen := f.marker != ""
		if f.scan(line) {
			if !wasOpen {
				st.CodeBlocks++
			}
			continue
		}
		if level, _, ok := parseHeading(line); ok {
			countHeading(&st.Headings, level)
			continue
		}
		switch {
		case bulletItem.MatchString(line):
			st.Lists.Unordered++
		case orderedItem.MatchString(line):
			st.Lists.Ordered++
		case strings.HasPrefix(strings.TrimSpace(line), "|"):
			st.TableRows++
		}
		st.Images += len(imageRef.FindAllString(line, -1))
		st.Links += len(inlineLink.FindAllString(imageRef.ReplaceAllString(line, ""), -1))
		st.InlineCode += len(inlineCode.FindAllString(line, -1))
	}
	return st
}

func countHeading(h *types.HeadingLevels, level int) {
	h.Total++
	switch level {
	case 1:
		h.H1++
	case 2:
		h.H2++
	case 3:
		h.H3++
	case 4:
		h.H4++
	case 5:
		h.H5++
	case 6:
		h.H6++
	}
}
