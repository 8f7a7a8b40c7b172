// Package channel parses and represents Aeron-style channel URIs:
// "aeron:udp?k=v|k=v", "aeron:ipc?...", and "aeron-spy:<inner-uri>".
//
// The grammar is pipe-delimited key=value pairs after a '?', not a standard
// URL query string, so parsing is hand-rolled rather than built on
// net/url — the same boundary-validate-then-build shape the teacher uses
// for its own name grammar (sim/tokenizedname.go: tokenize, validate every
// token, panic internally and recover into a typed error at the edge).
package channel

import (
	"fmt"
	"strconv"
	"strings"
)

// Media is the transport a channel descriptor addresses.
type Media int

const (
	// MediaUDP is a UDP channel.
	MediaUDP Media = iota
	// MediaIPC is a shared-memory channel.
	MediaIPC
)

// String implements fmt.Stringer.
func (m Media) String() string {
	if m == MediaIPC {
		return "ipc"
	}
	return "udp"
}

// ParseError is returned for any malformed or unrecognized channel URI; the
// command handler maps it to INVALID_CHANNEL.
type ParseError struct {
	URI    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid channel %q: %s", e.URI, e.Reason)
}

// Descriptor is the normalized, parsed form of a channel URI.
type Descriptor struct {
	Media Media

	Endpoint string
	Control  string

	Reliable bool

	MTU        int
	HasMTU     bool
	TermLength int
	HasTerm    bool

	InitTermID int32
	HasInit    bool
	TermID     int32
	HasTermID  bool
	TermOffset int32
	HasOffset  bool

	SessionID int32
	HasSess   bool

	Tags string

	Spy bool

	raw string
}

// Raw returns the original URI string the descriptor was parsed from.
func (d *Descriptor) Raw() string { return d.raw }

// HasReplayParams reports whether init-term-id, term-id, and term-offset
// were all supplied, which the wire grammar (spec.md §6) only permits on
// exclusive publications.
func (d *Descriptor) HasReplayParams() bool {
	return d.HasInit && d.HasTermID && d.HasOffset
}

// InitialPosition computes the producer/consumer start position implied by
// replay params: term-length*(term-id - init-term-id) + term-offset.
func (d *Descriptor) InitialPosition() int64 {
	termLen := int64(d.TermLength)
	return termLen*int64(d.TermID-d.InitTermID) + int64(d.TermOffset)
}

// Equal reports canonical equality: every normalized field matches.
func (d *Descriptor) Equal(o *Descriptor) bool {
	if o == nil {
		return false
	}

	return *withoutRaw(d) == *withoutRaw(o)
}

// comparable snapshot of a Descriptor, excluding the raw string (two URIs
// that differ only in key order are still canonically equal; whitespace
// is not trimmed, so it still makes URIs differ).
type comparable struct {
	Media                                                 Media
	Endpoint, Control                                     string
	Reliable                                              bool
	MTU                                                   int
	HasMTU                                                bool
	TermLength                                            int
	HasTerm                                               bool
	InitTermID, TermID, TermOffset                        int32
	HasInit, HasTermID, HasOffset                         bool
	SessionID                                             int32
	HasSess                                               bool
	Tags                                                  string
	Spy                                                   bool
}

func withoutRaw(d *Descriptor) *comparable {
	return &comparable{
		Media: d.Media, Endpoint: d.Endpoint, Control: d.Control,
		Reliable: d.Reliable, MTU: d.MTU, HasMTU: d.HasMTU,
		TermLength: d.TermLength, HasTerm: d.HasTerm,
		InitTermID: d.InitTermID, TermID: d.TermID, TermOffset: d.TermOffset,
		HasInit: d.HasInit, HasTermID: d.HasTermID, HasOffset: d.HasOffset,
		SessionID: d.SessionID, HasSess: d.HasSess,
		Tags: d.Tags, Spy: d.Spy,
	}
}

// SendKey/ReceiveKey are the canonical keys channel endpoints are keyed by:
// media-specific address normalization, independent of every other field.
func (d *Descriptor) SendKey() string {
	return "send:" + d.Endpoint
}

func (d *Descriptor) ReceiveKey() string {
	return "recv:" + d.Endpoint
}

// Parse parses a channel URI, stripping and flagging an "aeron-spy:" prefix
// before parsing the inner URI.
func Parse(uri string) (*Descriptor, error) {
	raw := uri
	spy := false

	const spyPrefix = "aeron-spy:"
	if strings.HasPrefix(uri, spyPrefix) {
		spy = true
		uri = uri[len(spyPrefix):]
	}

	const schemePrefix = "aeron:"
	if !strings.HasPrefix(uri, schemePrefix) {
		return nil, &ParseError{URI: raw, Reason: "missing aeron: scheme"}
	}
	rest := uri[len(schemePrefix):]

	media, rest, err := splitMedia(rest)
	if err != nil {
		return nil, &ParseError{URI: raw, Reason: err.Error()}
	}

	params, err := parseParams(rest)
	if err != nil {
		return nil, &ParseError{URI: raw, Reason: err.Error()}
	}

	d := &Descriptor{Media: media, Reliable: true, Spy: spy, raw: raw}
	if err := d.applyParams(params); err != nil {
		return nil, &ParseError{URI: raw, Reason: err.Error()}
	}

	if media == MediaUDP && d.Endpoint == "" && !spy {
		return nil, &ParseError{URI: raw, Reason: "udp channel requires endpoint"}
	}

	return d, nil
}

func splitMedia(rest string) (Media, string, error) {
	switch {
	case strings.HasPrefix(rest, "udp"):
		return MediaUDP, strings.TrimPrefix(rest, "udp"), nil
	case strings.HasPrefix(rest, "ipc"):
		return MediaIPC, strings.TrimPrefix(rest, "ipc"), nil
	default:
		return 0, "", fmt.Errorf("unrecognized media in %q", rest)
	}
}

func parseParams(rest string) (map[string]string, error) {
	params := make(map[string]string)
	if rest == "" {
		return params, nil
	}

	if !strings.HasPrefix(rest, "?") {
		return nil, fmt.Errorf("expected '?' before params, got %q", rest)
	}
	rest = rest[1:]

	if rest == "" {
		return params, nil
	}

	for _, pair := range strings.Split(rest, "|") {
		if pair == "" {
			continue
		}

		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 || kv[0] == "" {
			return nil, fmt.Errorf("malformed parameter %q", pair)
		}

		params[kv[0]] = kv[1]
	}

	return params, nil
}

func (d *Descriptor) applyParams(params map[string]string) error {
	for k, v := range params {
		var err error
		switch k {
		case "endpoint":
			d.Endpoint = v
		case "control":
			d.Control = v
		case "reliable":
			d.Reliable, err = parseBool(v)
		case "mtu":
			d.MTU, err = strconv.Atoi(v)
			d.HasMTU = err == nil
		case "term-length":
			d.TermLength, err = strconv.Atoi(v)
			d.HasTerm = err == nil
		case "init-term-id":
			d.InitTermID, err = parseInt32(v)
			d.HasInit = err == nil
		case "term-id":
			d.TermID, err = parseInt32(v)
			d.HasTermID = err == nil
		case "term-offset":
			d.TermOffset, err = parseInt32(v)
			d.HasOffset = err == nil
		case "session-id":
			d.SessionID, err = parseInt32(v)
			d.HasSess = err == nil
		case "tags":
			d.Tags = v
		default:
			// Unknown keys are ignored per spec.md §6.
		}

		if err != nil {
			return fmt.Errorf("invalid value %q for %q: %w", v, k, err)
		}
	}

	return nil
}

func parseBool(v string) (bool, error) {
	switch v {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("expected true|false")
	}
}

func parseInt32(v string) (int32, error) {
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return 0, err
	}

	return int32(n), nil
}
