// Package binding turns a data source declaration into live field data: a
// Parser extracts fields from response text and a Binding decides when to ask
// for more.
package binding

import (
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"github.com/DiNaSoR/Veil/pkg/clock"
	"github.com/DiNaSoR/Veil/pkg/manifest"
)

// Data is one parsed response: field name to plain string value.
type Data map[string]string

// Float parses a field as a number.
func (d Data) Float(field string) (float64, bool) {
	s, ok := d[field]
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Sender transmits a command and optionally routes its response back.
// *bridge.Bridge satisfies it.
type Sender interface {
	SendCommand(text string, onResponse func(response string))
}

// Parser applies a data source's pattern and mapping to response text and
// caches the latest result.
type Parser struct {
	def    manifest.DataSourceDef
	re     *regexp.Regexp
	sender Sender
	clock  clock.Clock
	logger *slog.Logger

	last       Data
	capturedAt time.Time
	onData     func(Data)
}

// NewParser compiles def.Pattern once. A missing or invalid pattern leaves the
// parser inert: Parse never yields data, but RequestRefresh still sends.
func NewParser(def manifest.DataSourceDef, sender Sender, clk clock.Clock, logger *slog.Logger) *Parser {
	if clk == nil {
		clk = clock.System{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	p := &Parser{def: def, sender: sender, clock: clk, logger: logger}
	if def.Pattern != "" {
		re, err := regexp.Compile(def.Pattern)
		if err != nil {
			logger.Warn("invalid data source pattern; parser disabled", "pattern", def.Pattern, "error", err)
		} else {
			p.re = re
		}
	}
	return p
}

// OnData sets the single subscriber notified after each successful Parse.
func (p *Parser) OnData(fn func(Data)) {
	p.onData = fn
}

// Inert reports whether the parser has no usable pattern.
func (p *Parser) Inert() bool {
	return p.re == nil
}

// Parse extracts fields from response. On a miss it returns false and leaves
// the cached data and timestamp untouched.
func (p *Parser) Parse(response string) (Data, bool) {
	if p.re == nil || response == "" {
		return nil, false
	}
	idx := p.re.FindStringSubmatchIndex(response)
	if idx == nil {
		return nil, false
	}

	groups := make([]string, len(idx)/2)
	for i := range groups {
		if start, end := idx[2*i], idx[2*i+1]; start >= 0 {
			groups[i] = response[start:end]
		}
	}

	data := make(Data)
	if len(p.def.Mapping) > 0 {
		for _, fm := range p.def.Mapping {
			data[fm.Field] = manifest.ExpandTemplate(fm.Template, groups)
		}
	} else {
		for i := 1; i < len(groups); i++ {
			data["group"+strconv.Itoa(i)] = groups[i]
		}
		for i, name := range p.re.SubexpNames() {
			if name != "" && i < len(groups) {
				data[name] = groups[i]
			}
		}
	}

	p.last = data
	p.capturedAt = p.clock.Now()
	if p.onData != nil {
		p.onData(data)
	}
	return data, true
}

// handleResponse adapts Parse to the bridge callback shape.
func (p *Parser) handleResponse(response string) {
	if _, ok := p.Parse(response); !ok && p.re != nil {
		p.logger.Debug("response did not match pattern", "command", p.def.Command, "response", response)
	}
}

// LastData returns the most recent parse result, or nil.
func (p *Parser) LastData() Data {
	return p.last
}

// CapturedAt returns when LastData was produced.
func (p *Parser) CapturedAt() time.Time {
	return p.capturedAt
}

// IsCacheValid reports whether LastData is younger than the cache lifetime.
func (p *Parser) IsCacheValid() bool {
	if p.last == nil {
		return false
	}
	return p.clock.Now().Sub(p.capturedAt) < p.def.EffectiveCacheTime()
}

// RequestRefresh sends the configured command with Parse as its response
// callback. It does nothing without a command or sender.
func (p *Parser) RequestRefresh() {
	if p.def.Command == "" || p.sender == nil {
		return
	}
	p.sender.SendCommand(p.def.Command, p.handleResponse)
}
