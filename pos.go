package duper

import (
	"fmt"
	"sort"
)

// SourcePos is a 1-indexed line/column position within a named source,
// together with its 0-indexed byte offset. Comments are discarded by the
// lexer rather than tracked, so there is no token/comment bookkeeping here.
type SourcePos struct {
	Filename string
	Offset   int
	Line     int
	Col      int
}

func (p SourcePos) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Col)
}

// LineIndex maps byte offsets into a source buffer to 1-indexed line/column
// positions, built incrementally as the lexer scans past newlines.
type LineIndex struct {
	filename string
	lines    []int // byte offset of the start of each line; lines[0] == 0
}

// NewLineIndex creates a LineIndex for a source file named filename.
func NewLineIndex(filename string) *LineIndex {
	return &LineIndex{filename: filename, lines: []int{0}}
}

// AddLine records that a new line begins at offset. Offsets must be added
// in increasing order as the lexer discovers newlines.
func (li *LineIndex) AddLine(offset int) {
	if offset < 0 {
		panic(fmt.Sprintf("duper: invalid line offset %d", offset))
	}
	li.lines = append(li.lines, offset)
}

// Pos computes the SourcePos for a given byte offset.
func (li *LineIndex) Pos(offset int) SourcePos {
	lineNumber := sort.Search(len(li.lines), func(n int) bool {
		return li.lines[n] > offset
	})
	col := offset
	if lineNumber > 0 {
		col -= li.lines[lineNumber-1]
	}
	return SourcePos{
		Filename: li.filename,
		Offset:   offset,
		Line:     lineNumber,
		Col:      col + 1,
	}
}
