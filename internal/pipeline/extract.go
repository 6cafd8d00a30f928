package pipeline

import (
	"regexp"
	"strings"

	"medilab-server/internal/report"
)

// Strategy is one extraction approach tried against raw report text.
// Strategies are attempted in order until one yields results, keeping
// the cascade explicit and testable in isolation.
type Strategy interface {
	Name() string
	TryExtract(text string) []report.TestParameter
}

const (
	numericValue     = `[<>]?\d+(?:,\d{3})*(?:\.\d+)?`
	categoricalValue = `\d\+|[A-Za-z]+\+?`
	// tableValue restricts the qualitative vocabulary so that column
	// headers and stray words never read as values in table layouts.
	tableValue = `(?i:negative|neg|trace|positive|pos|present|absent|clear|turbid|cloudy|yellow|amber|straw|pale|dark|normal)|\d\+`
	unitToken  = `[A-Za-z%][A-Za-z0-9^/%.]*(?:/[A-Za-z0-9.^]+)*`
	rangeGroup = `\([ \t]*(\d+(?:\.\d+)?)[ \t]*(?:-|–|to)[ \t]*(\d+(?:\.\d+)?)[ \t]*[^)]*\)`
	// nameSep separates a parameter name from its value. It is kept
	// narrow on purpose: wide multi-space runs belong to the table-row
	// strategy, and it never crosses a line boundary.
	nameSep = `[ \t]{0,3}[:=.\-]?[ \t]{0,3}`
)

// Extractor turns raw report text into test parameters by running the
// per-category cascade, falling back to generic patterns for categories
// without a parameter table.
type Extractor struct {
	byType  map[report.ReportType][]Strategy
	generic []Strategy
}

// NewExtractor compiles all strategy regexes up front.
func NewExtractor() *Extractor {
	e := &Extractor{byType: make(map[report.ReportType][]Strategy)}
	abbrs := abbreviationNames()
	for t, specs := range reportParams {
		e.byType[t] = []Strategy{
			newCombinedStrategy(specs),
			newSimpleStrategy(specs),
			newTableRowStrategy(specs),
			newStructuredTableStrategy(specs, abbrs),
		}
	}
	e.generic = []Strategy{
		newGenericStrategy(),
		newTableRowStrategy(nil),
	}
	return e
}

// Extract runs the cascade for the given category. The first strategy
// producing a non-empty list wins; generic patterns are the last resort
// for every category.
func (e *Extractor) Extract(t report.ReportType, text string) []report.TestParameter {
	for _, s := range append(append([]Strategy{}, e.byType[t]...), e.generic...) {
		if params := s.TryExtract(text); len(params) > 0 {
			return params
		}
	}
	return nil
}

// FillMissing guarantees the output contains every expected parameter of
// the category exactly once. Parameters not found in the text become
// placeholders with an empty value and "not available" status, so
// downstream consumers get a stable, type-complete shape.
func FillMissing(t report.ReportType, params []report.TestParameter) []report.TestParameter {
	specs, ok := reportParams[t]
	if !ok {
		return dedupe(params)
	}

	out := dedupe(params)
	seen := make(map[string]bool, len(out))
	for _, p := range out {
		seen[p.Name] = true
	}
	for _, spec := range specs {
		if seen[spec.Name] {
			continue
		}
		out = append(out, report.TestParameter{
			Name:   spec.Name,
			Value:  "",
			Unit:   spec.Unit,
			Status: report.StatusNotAvailable,
		})
	}
	return out
}

func dedupe(params []report.TestParameter) []report.TestParameter {
	out := make([]report.TestParameter, 0, len(params))
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		out = append(out, p)
	}
	return out
}

// combinedStrategy matches "name value unit (min-max)" in one pass,
// using each spec's name alternation. The parenthesized reference range
// is required; range-less text falls through to the simple strategy.
type combinedStrategy struct {
	specs []paramSpec
	res   []*regexp.Regexp
}

func newCombinedStrategy(specs []paramSpec) *combinedStrategy {
	s := &combinedStrategy{specs: specs}
	for _, spec := range specs {
		val := numericValue
		if spec.Categorical {
			val = numericValue + `|` + categoricalValue
		}
		expr := `(?i)\b(?:` + spec.NamePattern + `)` + nameSep + `(` + val + `)[ \t]*(` + unitToken + `)?[ \t]*` + rangeGroup
		s.res = append(s.res, regexp.MustCompile(expr))
	}
	return s
}

func (s *combinedStrategy) Name() string { return "combined" }

func (s *combinedStrategy) TryExtract(text string) []report.TestParameter {
	var out []report.TestParameter
	for i, re := range s.res {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		out = append(out, buildParameter(s.specs[i], m[1], m[2], m[3], m[4]))
	}
	return out
}

// simpleStrategy is the degraded form: name and value only, no unit or
// range capture. Status cannot be resolved without a range, so numeric
// values read as normal and only categoricals get a real status.
type simpleStrategy struct {
	specs []paramSpec
	res   []*regexp.Regexp
}

func newSimpleStrategy(specs []paramSpec) *simpleStrategy {
	s := &simpleStrategy{specs: specs}
	for _, spec := range specs {
		val := numericValue
		if spec.Categorical {
			val = numericValue + `|` + categoricalValue
		}
		expr := `(?i)\b(?:` + spec.NamePattern + `)` + nameSep + `(` + val + `)`
		s.res = append(s.res, regexp.MustCompile(expr))
	}
	return s
}

func (s *simpleStrategy) Name() string { return "simple" }

func (s *simpleStrategy) TryExtract(text string) []report.TestParameter {
	var out []report.TestParameter
	for i, re := range s.res {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		out = append(out, buildParameter(s.specs[i], m[1], "", "", ""))
	}
	return out
}

// tableRowStrategy handles column layouts delimited by runs of spaces:
//
//	Hemoglobin      10.2    g/dL    13.5-17.5
//
// With a spec table it canonicalizes names and drops unknown rows; with
// a nil spec table it keeps raw names for uncategorized reports.
type tableRowStrategy struct {
	specs    []paramSpec
	nameRes  []*regexp.Regexp
	rowRe    *regexp.Regexp
	skipLine *regexp.Regexp
}

func newTableRowStrategy(specs []paramSpec) *tableRowStrategy {
	s := &tableRowStrategy{
		specs: specs,
		rowRe: regexp.MustCompile(`^[ \t]*([A-Za-z][A-Za-z0-9 /%()^.+\-]*?)[ \t]{2,}(` + numericValue + `|` + tableValue + `)(?:[ \t]{2,}(` + unitToken + `))?(?:[ \t]{2,}(\d+(?:\.\d+)?)[ \t]*(?:-|–|to)[ \t]*(\d+(?:\.\d+)?))?`),
		skipLine: regexp.MustCompile(`(?i)^\s*(test|parameter|name|patient|doctor|date|specimen|reference)\b`),
	}
	for _, spec := range specs {
		s.nameRes = append(s.nameRes, regexp.MustCompile(`(?i)^(?:`+spec.NamePattern+`)$`))
	}
	return s
}

func (s *tableRowStrategy) Name() string { return "table-row" }

func (s *tableRowStrategy) TryExtract(text string) []report.TestParameter {
	var out []report.TestParameter
	for _, line := range strings.Split(text, "\n") {
		if s.skipLine.MatchString(line) {
			continue
		}
		m := s.rowRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if s.specs != nil {
			spec, ok := s.matchSpec(name)
			if !ok {
				continue
			}
			out = append(out, buildParameter(spec, m[2], m[3], m[4], m[5]))
			continue
		}
		ref := parseRange(m[4], m[5])
		out = append(out, report.TestParameter{
			Name:           name,
			Value:          m[2],
			Unit:           m[3],
			Status:         report.ResolveStatus(m[2], ref, 0),
			ReferenceRange: ref,
		})
	}
	return out
}

func (s *tableRowStrategy) matchSpec(name string) (paramSpec, bool) {
	for i, re := range s.nameRes {
		if re.MatchString(name) {
			return s.specs[i], true
		}
	}
	return paramSpec{}, false
}

// structuredTableStrategy handles horizontal layouts where a header line
// lists two or more known parameters and the following lines carry their
// values and ranges positionally:
//
//	WBC     HGB     PLT
//	12.5    10.2    350
//	4-11    13-17   150-400
type structuredTableStrategy struct {
	specs   []paramSpec
	abbrs   map[string]string
	rangeRe *regexp.Regexp
	valRe   *regexp.Regexp
}

func newStructuredTableStrategy(specs []paramSpec, abbrs map[string]string) *structuredTableStrategy {
	return &structuredTableStrategy{
		specs:   specs,
		abbrs:   abbrs,
		rangeRe: regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(?:-|–|to)\s*(\d+(?:\.\d+)?)$`),
		valRe:   regexp.MustCompile(`^(?:` + numericValue + `|` + tableValue + `)$`),
	}
}

func (s *structuredTableStrategy) Name() string { return "structured-table" }

func (s *structuredTableStrategy) TryExtract(text string) []report.TestParameter {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		names := s.headerNames(line)
		if len(names) < 2 {
			continue
		}
		values := s.tokensMatching(lines, i+1, s.valRe)
		if len(values) == 0 {
			continue
		}
		ranges := s.tokensMatching(lines, i+2, s.rangeRe)

		var out []report.TestParameter
		for j, name := range names {
			if j >= len(values) {
				break
			}
			spec, _ := s.specByName(name)
			var ref report.ReferenceRange
			if j < len(ranges) {
				if rm := s.rangeRe.FindStringSubmatch(ranges[j]); rm != nil {
					ref = parseRange(rm[1], rm[2])
				}
			}
			out = append(out, report.TestParameter{
				Name:           name,
				Value:          values[j],
				Unit:           spec.Unit,
				Status:         report.ResolveStatus(values[j], ref, 0),
				ReferenceRange: ref,
			})
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// headerNames resolves the tokens of a candidate header line to
// canonical parameter names via the abbreviation table.
func (s *structuredTableStrategy) headerNames(line string) []string {
	var names []string
	for _, tok := range strings.Fields(line) {
		if full, ok := s.abbrs[strings.ToUpper(strings.Trim(tok, ":"))]; ok {
			names = append(names, full)
		}
	}
	return names
}

func (s *structuredTableStrategy) tokensMatching(lines []string, idx int, re *regexp.Regexp) []string {
	if idx >= len(lines) {
		return nil
	}
	toks := strings.Fields(lines[idx])
	for _, tok := range toks {
		if !re.MatchString(tok) {
			return nil
		}
	}
	return toks
}

func (s *structuredTableStrategy) specByName(name string) (paramSpec, bool) {
	for _, spec := range s.specs {
		if spec.Name == name {
			return spec, true
		}
	}
	return paramSpec{}, false
}

// genericStrategy is the last-resort pattern set for uncategorized
// reports: "name: value unit (min-max)" and "name value unit min-max"
// line forms, with administrative lines filtered out.
type genericStrategy struct {
	colonRe *regexp.Regexp
	bareRe  *regexp.Regexp
	skipRe  *regexp.Regexp
}

func newGenericStrategy() *genericStrategy {
	return &genericStrategy{
		colonRe: regexp.MustCompile(`^\s*([A-Za-z][A-Za-z0-9 /%()^.+\-]{1,40}?)\s*[:=]\s*(` + numericValue + `)\s*(` + unitToken + `)?\s*(?:` + rangeGroup + `)?`),
		bareRe:  regexp.MustCompile(`^\s*([A-Za-z][A-Za-z /%\-]{2,40}?)\s+(` + numericValue + `)\s+(` + unitToken + `)\s+(\d+(?:\.\d+)?)\s*(?:-|–|to)\s*(\d+(?:\.\d+)?)`),
		skipRe:  regexp.MustCompile(`(?i)\b(patient|doctor|physician|name|date|dob|age|gender|sex|id|phone|address|page)\b`),
	}
}

func (s *genericStrategy) Name() string { return "generic" }

func (s *genericStrategy) TryExtract(text string) []report.TestParameter {
	var out []report.TestParameter
	for _, line := range strings.Split(text, "\n") {
		var name, value, unit, min, max string
		if m := s.colonRe.FindStringSubmatch(line); m != nil {
			name, value, unit, min, max = m[1], m[2], m[3], m[4], m[5]
		} else if m := s.bareRe.FindStringSubmatch(line); m != nil {
			name, value, unit, min, max = m[1], m[2], m[3], m[4], m[5]
		} else {
			continue
		}
		name = strings.TrimSpace(name)
		if s.skipRe.MatchString(name) {
			continue
		}
		ref := parseRange(min, max)
		out = append(out, report.TestParameter{
			Name:           name,
			Value:          value,
			Unit:           unit,
			Status:         report.ResolveStatus(value, ref, 0),
			ReferenceRange: ref,
		})
	}
	return out
}

// buildParameter assembles one result from regex captures, defaulting
// the unit from the spec when the text carried none.
func buildParameter(spec paramSpec, value, unit, min, max string) report.TestParameter {
	if unit == "" {
		unit = spec.Unit
	}
	ref := parseRange(min, max)
	return report.TestParameter{
		Name:           spec.Name,
		Value:          strings.TrimSpace(value),
		Unit:           unit,
		Status:         report.ResolveStatus(value, ref, 0),
		ReferenceRange: ref,
	}
}

func parseRange(min, max string) report.ReferenceRange {
	var ref report.ReferenceRange
	if min != "" {
		if v, err := report.ParseValue(min); err == nil {
			ref.Min = report.Float(v)
		}
	}
	if max != "" {
		if v, err := report.ParseValue(max); err == nil {
			ref.Max = report.Float(v)
		}
	}
	return ref
}
