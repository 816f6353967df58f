package definition

import (
	"strings"

	"github.com/rs/zerolog"

	"toolforge/internal/schema"
)

// Line markers of the configuration format.
const (
	MarkerID           = "- ID:"
	MarkerDescription  = "- Description:"
	MarkerInputSchema  = "- Input Schema:"
	MarkerOutputSchema = "- Output Schema:"
	MarkerRequestType  = "- Request Type:"
	MarkerURL          = "- URL:"
)

type recordState int

const (
	awaitingID recordState = iota
	inRecord
)

type section int

const (
	sectionNone section = iota
	sectionInput
	sectionOutput
)

func (s section) String() string {
	switch s {
	case sectionInput:
		return "input"
	case sectionOutput:
		return "output"
	default:
		return "none"
	}
}

// parser holds the state machine for one Parse call.
type parser struct {
	logger  zerolog.Logger
	state   recordState
	section section
	current Definition
	out     []Definition
}

type lineHandler func(p *parser, rest string)

var dispatch = []struct {
	marker string
	handle lineHandler
}{
	{MarkerID, (*parser).startRecord},
	{MarkerDescription, func(p *parser, rest string) { p.current.Description = rest }},
	{MarkerInputSchema, func(p *parser, rest string) { p.openSection(sectionInput, rest) }},
	{MarkerOutputSchema, func(p *parser, rest string) { p.openSection(sectionOutput, rest) }},
	{MarkerRequestType, func(p *parser, rest string) { p.current.Method = Method(strings.ToUpper(rest)) }},
	{MarkerURL, func(p *parser, rest string) { p.current.URL = rest }},
}

// Parse reads configuration text and returns the definitions in the order
// their ids appear. A repeated id yields a second definition; resolving
// duplicates is left to the registry.
func Parse(text string, logger zerolog.Logger) []Definition {
	p := &parser{logger: logger}
	for n, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		p.consume(n+1, line)
	}
	p.finish()
	return p.out
}

func (p *parser) consume(lineNo int, line string) {
	for _, d := range dispatch {
		if strings.HasPrefix(line, d.marker) {
			d.handle(p, strings.TrimSpace(line[len(d.marker):]))
			return
		}
	}

	if strings.HasPrefix(line, "{") && p.section != sectionNone {
		p.assignSchema(line)
		return
	}

	p.logger.Debug().
		Int("line", lineNo).
		Str("section", p.section.String()).
		Msg("Ignoring unattributed line")
}

// startRecord begins a new definition. The open schema section is kept, so a
// continuation line right after an id belongs to the new record.
func (p *parser) startRecord(id string) {
	p.finish()
	p.current.ID = id
	p.state = inRecord
}

// finish pushes the pending definition if it has an id. Fields seen before the
// first id stay pending and carry into the first record.
func (p *parser) finish() {
	if p.state != inRecord || p.current.ID == "" {
		return
	}
	p.out = append(p.out, p.current)
	p.current = Definition{}
	p.state = awaitingID
}

func (p *parser) openSection(s section, rest string) {
	p.section = s
	if rest != "" {
		p.assignSchema(rest)
	}
}

func (p *parser) assignSchema(raw string) {
	s := schema.Infer(raw, p.logger)
	switch p.section {
	case sectionInput:
		p.current.InputSchema = s
	case sectionOutput:
		p.current.OutputSchema = s
	}
}
