package domain

import "regexp"

// Fragment is a run of text produced by RenderInlineEmphasis.
type Fragment struct {
	Text       string `json:"text"`
	Emphasized bool   `json:"emphasized,omitempty"`
}

var emphasisPattern = regexp.MustCompile(`\*\*(.+?)\*\*`)

// RenderInlineEmphasis splits text on paired "**" delimiters. Text inside a
// pair is emphasized; delimiters are dropped. Text without any pair yields a
// single plain fragment equal to the input. An unpaired "**" is kept literally.
func RenderInlineEmphasis(text string) []Fragment {
	matches := emphasisPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []Fragment{{Text: text}}
	}

	out := make([]Fragment, 0, 2*len(matches)+1)
	last := 0
	for _, m := range matches {
		if m[0] > last {
			out = append(out, Fragment{Text: text[last:m[0]]})
		}
		out = append(out, Fragment{Text: text[m[2]:m[3]], Emphasized: true})
		last = m[1]
	}
	if last < len(text) {
		out = append(out, Fragment{Text: text[last:]})
	}
	return out
}
