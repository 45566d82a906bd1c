package template

import "strings"

// The segmenter partitions template source into alternating literal and
// code chunks. Both block kinds share the outer delimiter characters; telling
// value blocks from logic blocks apart again happens in the tree builder.

const (
	// OpenDelim and CloseDelim bound every block at the outer level.
	OpenDelim  = "{"
	CloseDelim = "}"
)

// blockMarker is the prefix that turns an open delimiter into a logic block.
const blockMarker = "%"

// Chunk is a contiguous piece of template source.
type Chunk struct {
	Code   bool
	Text   string
	Offset int // byte offset in source
}

// Segment splits text into chunks. The result always alternates by position:
// even indexes are literal chunks and odd indexes are code chunks, so a
// template that opens with a block starts with an empty literal.
//
// A value block is open+open ... close+close and a logic block is
// open+"%" ... "%"+close. A code chunk runs through the first matching
// closing pair and no further, so "{{ a }}}" leaves the last brace as
// literal text. An open delimiter that starts neither kind of block is
// literal text too.
func Segment(text, open, close string) ([]Chunk, error) {
	if open == "" || close == "" {
		return nil, newError(KindSegmentation, -1, "empty block delimiter")
	}
	valueOpen, valueClose := open+open, close+close
	logicOpen, logicClose := open+blockMarker, blockMarker+close

	var chunks []Chunk
	pos, scan := 0, 0
	for scan < len(text) {
		i := strings.Index(text[scan:], open)
		if i < 0 {
			break
		}
		start := scan + i

		var blockOpen, blockClose string
		switch {
		case strings.HasPrefix(text[start:], valueOpen):
			// "{{{ x }}" opens at the last pair.
			for strings.HasPrefix(text[start+len(open):], valueOpen) {
				start += len(open)
			}
			blockOpen, blockClose = valueOpen, valueClose
		case strings.HasPrefix(text[start:], logicOpen):
			blockOpen, blockClose = logicOpen, logicClose
		default:
			scan = start + len(open)
			continue
		}

		body := start + len(blockOpen)
		j := strings.Index(text[body:], blockClose)
		if j < 0 {
			return nil, newError(KindSegmentation, start, "missing closing %q", blockClose).
				withToken(snippet(text[start:]))
		}
		end := body + j + len(blockClose)

		chunks = append(chunks,
			Chunk{Text: text[pos:start], Offset: pos},
			Chunk{Code: true, Text: text[start:end], Offset: start},
		)
		pos, scan = end, end
	}
	if pos < len(text) {
		chunks = append(chunks, Chunk{Text: text[pos:], Offset: pos})
	}
	return chunks, nil
}

// snippet shortens s for use in diagnostics.
func snippet(s string) string {
	const max = 24
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
