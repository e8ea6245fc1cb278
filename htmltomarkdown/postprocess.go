package htmltomarkdown

import (
	"regexp"
	"strings"
)

var (
	urlPattern      = regexp.MustCompile(`https?://\S+`)
	codeSpanPattern = regexp.MustCompile("`[^`]+`")
)

// Postprocess cleans converted Markdown for documentation use:
//
//   - URLs inside fenced code blocks and inline code spans are removed
//     entirely; a link has no business rendering inside code.
//   - Runs of three or more blank lines collapse to one, outside fences.
//     Fenced content is never touched beyond URL removal.
func Postprocess(md string) string {
	lines := strings.Split(md, "\n")
	out := make([]string, 0, len(lines))

	inFence := false
	fenceMarker := ""
	blankRun := 0

	flushBlanks := func() {
		if blankRun == 0 {
			return
		}
		n := blankRun
		if n >= 3 {
			n = 1
		}
		for j := 0; j < n; j++ {
			out = append(out, "")
		}
		blankRun = 0
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if inFence {
			out = append(out, urlPattern.ReplaceAllString(line, ""))
			if strings.HasPrefix(trimmed, fenceMarker) {
				inFence = false
			}
			continue
		}

		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			flushBlanks()
			inFence = true
			fenceMarker = trimmed[:3]
			out = append(out, line)
			continue
		}

		line = codeSpanPattern.ReplaceAllStringFunc(line, func(span string) string {
			return urlPattern.ReplaceAllString(span, "")
		})

		if strings.TrimSpace(line) == "" {
			blankRun++
			continue
		}
		flushBlanks()
		out = append(out, line)
	}
	flushBlanks()

	return strings.Join(out, "\n")
}
