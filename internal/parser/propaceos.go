package parser

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// ruleAction selects which extraction routine handles a classified section.
type ruleAction int

const (
	actGridEOS ruleAction = iota
	actGridOpac
	actGroups
	actArray
	actMultigroup
)

// sectionRule pairs a header keyword with the routine that consumes the
// section body. The rules are evaluated in order and the first match wins;
// order matters because some keywords are substrings of others (the
// integrated opacities must be tested before their multigroup
// counterparts).
type sectionRule struct {
	keyword string
	key     string
	action  ruleAction
}

var sectionRules = []sectionRule{
	{"mesh parameters for EoS", "", actGridEOS},
	{"parameters for opacity", "", actGridOpac},
	{"group structure", "groups", actGroups},
	{"Ionization Fractions", "ion_frac", actArray},
	{"Zbar", "zbar", actArray},
	{"Int. Rosseland Mean Opacity", "opr_int", actArray},
	{"Int. emis. Planck Mean Opacity", "emp_int", actArray},
	{"Int. abs. Planck Mean Opacity", "opp_int", actArray},
	{"Eint", "eint", actArray},
	{"Eion", "eion", actArray},
	{"Eele", "eele", actArray},
	{"Pion", "pion", actArray},
	{"Pele", "pele", actArray},
	{"Rosseland Mean Opacity", "opr_mg", actMultigroup},
	{"emission Planck Mean Opacity", "emp_mg", actMultigroup},
	{"absorption Planck Mean Opacity", "opp_mg", actMultigroup},
}

// globalHeaderRules extract the plasma composition from the free-form lines
// between the opening banner and the first section. Lines matching no rule
// are ignored.
var globalHeaderRules = []struct {
	key    string
	re     *regexp.Regexp
	scalar bool
}{
	{"Num_ions", regexp.MustCompile(`^ number of ions:\s+`), true},
	{"Znum", regexp.MustCompile(`^ atomic #s of gases:\s+`), false},
	{"Anum", regexp.MustCompile(`^ atomic weight of gas:\s+`), false},
	{"Xnum", regexp.MustCompile(`^ relative fractions:\s+`), false},
}

// builder accumulates flat arrays and grid metadata while the document is
// scanned. Nothing escapes it until assemble has reshaped and validated
// every field.
type builder struct {
	numIons int
	znum    []float64
	anum    []float64
	xnum    []float64

	nTempEOS, nNionEOS   int
	tempEOS, nionEOS     []float64
	nTempOpac, nNionOpac int
	tempOpac, nionOpac   []float64

	groups []float64

	flat map[string][]float64   // ordinary array sections, by key
	mg   map[string][][]float64 // multigroup sections, one slice per recurrence
}

func newBuilder() *builder {
	b := &builder{
		flat: make(map[string][]float64),
		mg:   make(map[string][][]float64),
	}
	for _, key := range []string{"opr_mg", "emp_mg", "opp_mg"} {
		b.mg[key] = nil
	}
	return b
}

// ParseFile reads and parses a PROPACEOS ASCII file.
func ParseFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PROPACEOS file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse parses a PROPACEOS ASCII stream into an assembled Table. The whole
// stream is read into memory first; parsing is a strict single pass over
// the section list followed by one assembly step. On any error no partial
// table is returned.
func Parse(r io.Reader) (*Table, error) {
	doc, err := loadDocument(r)
	if err != nil {
		return nil, err
	}
	secs, err := doc.sections()
	if err != nil {
		return nil, err
	}

	b := newBuilder()

	var headerEnd int
	if len(secs) > 0 {
		headerEnd = secs[0].begin
	} else {
		headerEnd = len(doc.lines)
	}
	if err := b.parseGlobalHeader(doc.lines[doc.bannerEnd():headerEnd]); err != nil {
		return nil, err
	}

	for _, sec := range secs {
		header := normalizeHeader(doc.lines[sec.begin:sec.mid])
		body := doc.lines[sec.mid:sec.end]
		if err := b.dispatch(header, body); err != nil {
			return nil, err
		}
	}

	return b.assemble()
}

// dispatch classifies a section by its header text and runs the matching
// extraction routine. Sections matching no rule are decorative and are
// skipped; if one of them was actually required, assembly reports the
// missing field.
func (b *builder) dispatch(header string, body []string) error {
	for _, rule := range sectionRules {
		if !strings.Contains(header, rule.keyword) {
			continue
		}
		switch rule.action {
		case actGridEOS:
			return b.parseGrid(body, "eos")
		case actGridOpac:
			return b.parseGrid(body, "opac")
		case actGroups:
			vals, err := parseFloats(body, "group structure")
			if err != nil {
				return err
			}
			b.groups = vals
		case actArray:
			vals, err := parseFloats(body, rule.key)
			if err != nil {
				return err
			}
			b.flat[rule.key] = vals
		case actMultigroup:
			vals, err := parseFloats(body, rule.key)
			if err != nil {
				return err
			}
			b.mg[rule.key] = append(b.mg[rule.key], vals)
		}
		return nil
	}
	return nil
}

// normalizeHeader collapses a section's marker header lines into a single
// string: asterisks removed, whitespace runs reduced to single spaces.
func normalizeHeader(lines []string) string {
	txt := strings.Join(lines, " ")
	txt = strings.ReplaceAll(txt, "*", "")
	return strings.Join(strings.Fields(txt), " ")
}

// parseGlobalHeader extracts Num_ions, Znum, Anum and Xnum from the fixed
// leading block of the file.
func (b *builder) parseGlobalHeader(lines []string) error {
	for _, line := range lines {
		for _, rule := range globalHeaderRules {
			loc := rule.re.FindStringIndex(line)
			if loc == nil {
				continue
			}
			rest := line[loc[1]:]
			if rule.scalar {
				n, err := strconv.Atoi(strings.TrimSpace(rest))
				if err != nil {
					return &ParseError{Section: "global header", Msg: fmt.Sprintf("bad %s value %q", rule.key, strings.TrimSpace(rest)), Err: err}
				}
				b.numIons = n
			} else {
				vals, err := parseFloats([]string{rest}, "global header")
				if err != nil {
					return err
				}
				switch rule.key {
				case "Znum":
					b.znum = vals
				case "Anum":
					b.anum = vals
				case "Xnum":
					b.xnum = vals
				}
			}
		}
	}
	return nil
}

// gridLines returns how many continuation lines a grid of n values
// occupies: values are wrapped at ten per line.
func gridLines(n int) int {
	return (n + 9) / 10
}

// parseGrid parses one of the two mesh-parameters sections. The body
// encodes the temperature count, ceil(N/10) lines of temperatures, then the
// density count and its own wrapped value lines. Blank lines are ignored.
// A wrong count corrupts alignment with everything that follows, so any
// disagreement between the declared count and the parsed values is fatal.
func (b *builder) parseGrid(body []string, tag string) error {
	sect := "mesh parameters (" + tag + ")"
	lines := make([]string, 0, len(body))
	for _, l := range body {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}

	pos := 0
	readBlock := func(what string) (int, []float64, error) {
		if pos >= len(lines) {
			return 0, nil, &ParseError{Section: sect, Msg: what + " count line missing"}
		}
		n, err := strconv.Atoi(strings.TrimSpace(lines[pos]))
		if err != nil {
			return 0, nil, &ParseError{Section: sect, Msg: fmt.Sprintf("bad %s count %q", what, strings.TrimSpace(lines[pos])), Err: err}
		}
		if n <= 0 {
			return 0, nil, &ParseError{Section: sect, Msg: fmt.Sprintf("non-positive %s count %d", what, n)}
		}
		pos++
		skip := gridLines(n)
		if pos+skip > len(lines) {
			return 0, nil, &ParseError{Section: sect, Msg: fmt.Sprintf("%s grid truncated: %d values need %d lines, %d available", what, n, skip, len(lines)-pos)}
		}
		vals, err := parseFloats(lines[pos:pos+skip], sect)
		if err != nil {
			return 0, nil, err
		}
		pos += skip
		if len(vals) != n {
			return 0, nil, &ParseError{Section: sect, Msg: fmt.Sprintf("%s grid declares %d values, found %d", what, n, len(vals))}
		}
		return n, vals, nil
	}

	nTemp, temp, err := readBlock("temperature")
	if err != nil {
		return err
	}
	nNion, nion, err := readBlock("density")
	if err != nil {
		return err
	}

	switch tag {
	case "eos":
		b.nTempEOS, b.tempEOS = nTemp, temp
		b.nNionEOS, b.nionEOS = nNion, nion
	case "opac":
		b.nTempOpac, b.tempOpac = nTemp, temp
		b.nNionOpac, b.nionOpac = nNion, nion
	}
	return nil
}

// parseFloats flattens a block of lines into whitespace-separated floats.
// Blank lines contribute nothing.
func parseFloats(lines []string, sect string) ([]float64, error) {
	var out []float64
	for _, line := range lines {
		for _, tok := range strings.Fields(line) {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, &ParseError{Section: sect, Msg: fmt.Sprintf("non-numeric value %q", tok), Err: err}
			}
			out = append(out, v)
		}
	}
	return out, nil
}
