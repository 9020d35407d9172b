package filter

import (
	"strings"
	"unicode/utf8"

	sfuzzy "github.com/sahilm/fuzzy"
)

// Highlights returns the rune indices of text that the active query matched,
// for use with lipgloss.StyleRunes.
func (s State) Highlights(text string) []int {
	if s.query == "" || text == "" {
		return nil
	}
	switch s.mode {
	case Fuzzy:
		matches := sfuzzy.Find(s.query, []string{text})
		if len(matches) == 0 {
			return nil
		}
		return byteOffsetsToRunes(text, matches[0].MatchedIndexes)
	case Regex:
		if s.pattern == nil {
			return nil
		}
		return rangesToRunes(text, s.pattern.FindAllStringIndex(text, -1))
	default:
		var ranges [][]int
		for offset := 0; offset < len(text); {
			idx := strings.Index(text[offset:], s.query)
			if idx < 0 {
				break
			}
			start := offset + idx
			ranges = append(ranges, []int{start, start + len(s.query)})
			offset = start + len(s.query)
		}
		return rangesToRunes(text, ranges)
	}
}

func rangesToRunes(text string, ranges [][]int) []int {
	var bytesIdx []int
	for _, r := range ranges {
		for i := r[0]; i < r[1]; {
			bytesIdx = append(bytesIdx, i)
			_, size := utf8.DecodeRuneInString(text[i:])
			i += max(size, 1)
		}
	}
	return byteOffsetsToRunes(text, bytesIdx)
}

func byteOffsetsToRunes(text string, offsets []int) []int {
	if len(offsets) == 0 {
		return nil
	}
	want := make(map[int]struct{}, len(offsets))
	for _, off := range offsets {
		want[off] = struct{}{}
	}
	out := make([]int, 0, len(offsets))
	runeIdx := 0
	for byteIdx := range text {
		if _, ok := want[byteIdx]; ok {
			out = append(out, runeIdx)
		}
		runeIdx++
	}
	return out
}
