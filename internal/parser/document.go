package parser

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
)

// markerRe matches a section marker line: one or more asterisks followed by
// whitespace. Marker lines delimit the header blocks of every section.
var markerRe = regexp.MustCompile(`^\*+\s`)

// rawDocument holds the whole source file: the raw lines and a parallel
// flag per line recording whether it is a section marker. It is immutable
// once loaded and lives only for the duration of one parse call.
type rawDocument struct {
	lines  []string
	marker []bool
}

func loadDocument(r io.Reader) (*rawDocument, error) {
	doc := &rawDocument{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		doc.lines = append(doc.lines, line)
		doc.marker = append(doc.marker, markerRe.MatchString(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}
	return doc, nil
}

// section is a contiguous line range: [begin, mid) holds the marker header
// lines, [mid, end) the body.
type section struct {
	begin, mid, end int
}

// sections derives the section boundaries from the first-difference of the
// marker flags: a non-marker to marker transition begins a header, a marker
// to non-marker transition begins the body. Each section ends where the
// next one begins; the last ends at the end of the document. Transitions
// belonging to the opening banner (before any section begins) are
// discarded. The begin/mid/end counts must agree or the marker stream is
// structurally broken.
func (d *rawDocument) sections() ([]section, error) {
	var begins, mids []int
	for i := 1; i < len(d.marker); i++ {
		switch {
		case d.marker[i] && !d.marker[i-1]:
			begins = append(begins, i)
		case !d.marker[i] && d.marker[i-1]:
			mids = append(mids, i)
		}
	}

	// The file opens with a marker banner whose header/body transition has
	// no matching begin. Drop transitions that precede the first begin.
	if len(begins) > 0 {
		for len(mids) > 0 && mids[0] <= begins[0] {
			mids = mids[1:]
		}
	}

	if len(mids) != len(begins) {
		return nil, &StructuralError{Begins: len(begins), Mids: len(mids), Ends: len(begins)}
	}

	out := make([]section, len(begins))
	for i := range begins {
		end := len(d.lines)
		if i+1 < len(begins) {
			end = begins[i+1]
		}
		out[i] = section{begin: begins[i], mid: mids[i], end: end}
	}
	return out, nil
}

// bannerEnd returns the index of the first line after the opening marker
// banner, which is where the global header begins.
func (d *rawDocument) bannerEnd() int {
	for i, m := range d.marker {
		if !m {
			return i
		}
	}
	return len(d.lines)
}
