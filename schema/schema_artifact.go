// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

package schema

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/edk0/earendil/grammar"
	"github.com/edk0/earendil/line"
)

type Format uint8

const (
	FormatJSON Format = iota
	FormatYAML
)

func ParseFormat(name string) (Format, error) {
	switch name {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return FormatJSON, fmt.Errorf("unknown artifact format %q", name)
}

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// Encode serializes d as an IR artifact.
func Encode(d *Description, format Format) ([]byte, error) {
	doc := newDescriptionDoc(d)
	var buf bytes.Buffer
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	default:
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// Decode parses and validates an IR artifact. Unknown keys are rejected.
func Decode(data []byte, format Format) (*Description, error) {
	var doc descriptionDoc
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode IR artifact: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode IR artifact: %w", err)
		}
	}
	return doc.description()
}

func EncodeJSON(d *Description) ([]byte, error)    { return Encode(d, FormatJSON) }
func DecodeJSON(data []byte) (*Description, error) { return Decode(data, FormatJSON) }
func EncodeYAML(d *Description) ([]byte, error)    { return Encode(d, FormatYAML) }
func DecodeYAML(data []byte) (*Description, error) { return Decode(data, FormatYAML) }

// ArtifactError reports a structurally invalid IR artifact.
type ArtifactError struct {
	// Path locates the offending value, such as "messages[3].arguments[0]".
	Path    string
	Message string
}

func (err *ArtifactError) Error() string {
	if err.Path == "" {
		return "invalid IR artifact: " + err.Message
	}
	return fmt.Sprintf("invalid IR artifact: %s: %s", err.Path, err.Message)
}

func artifactErrorf(path, format string, args ...any) error {
	return &ArtifactError{Path: path, Message: fmt.Sprintf(format, args...)}
}

type descriptionDoc struct {
	MajorVersion int           `json:"major-version" yaml:"major-version"`
	MinorVersion int           `json:"minor-version" yaml:"minor-version"`
	Sections     []*sectionDoc `json:"sections" yaml:"sections"`
	Messages     []*messageDoc `json:"messages" yaml:"messages"`
}

type sectionDoc struct {
	Name  string `json:"name" yaml:"name"`
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url,omitempty" yaml:"url,omitempty"`
}

type messageDoc struct {
	Name          string         `json:"name" yaml:"name"`
	Section       string         `json:"section" yaml:"section"`
	Verb          verbDoc        `json:"verb" yaml:"verb"`
	Type          string         `json:"type" yaml:"type"`
	Format        string         `json:"format" yaml:"format"`
	Arguments     []*argumentDoc `json:"arguments" yaml:"arguments"`
	Associativity string         `json:"associativity" yaml:"associativity"`
	Related       []string       `json:"related,omitempty" yaml:"related,omitempty"`
	Documentation string         `json:"documentation,omitempty" yaml:"documentation,omitempty"`
}

type argumentDoc struct {
	Name         string       `json:"name,omitempty" yaml:"name,omitempty"`
	Type         string       `json:"type" yaml:"type"`
	TypeArgument *string      `json:"type-argument,omitempty" yaml:"type-argument,omitempty"`
	Side         string       `json:"side,omitempty" yaml:"side,omitempty"`
	Inner        *argumentDoc `json:"inner,omitempty" yaml:"inner,omitempty"`
}

// verbDoc is a text verb (a string) or a numeric code (an integer).
type verbDoc struct {
	cmd line.Command
	set bool
}

func (v verbDoc) MarshalJSON() ([]byte, error) {
	if v.cmd.IsNumeric() {
		return []byte(strconv.Itoa(v.cmd.Code)), nil
	}
	return json.Marshal(v.cmd.Name)
}

func (v *verbDoc) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*v = verbDoc{cmd: line.Text(name), set: true}
		return nil
	}
	code, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("verb must be a string or an integer, got %s", data)
	}
	*v = verbDoc{cmd: line.Numeric(code), set: true}
	return nil
}

func (v verbDoc) MarshalYAML() (any, error) {
	if v.cmd.IsNumeric() {
		return v.cmd.Code, nil
	}
	return v.cmd.Name, nil
}

func (v *verbDoc) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.New("verb must be a scalar")
	}
	if node.Tag == "!!int" {
		code, err := strconv.Atoi(node.Value)
		if err != nil {
			return fmt.Errorf("invalid numeric verb %q", node.Value)
		}
		*v = verbDoc{cmd: line.Numeric(code), set: true}
		return nil
	}
	*v = verbDoc{cmd: line.Text(node.Value), set: true}
	return nil
}

func newDescriptionDoc(d *Description) *descriptionDoc {
	doc := &descriptionDoc{
		MajorVersion: d.MajorVersion,
		MinorVersion: d.MinorVersion,
		Sections:     make([]*sectionDoc, 0, len(d.Sections)),
		Messages:     make([]*messageDoc, 0, len(d.Messages)),
	}
	for _, s := range d.Sections {
		doc.Sections = append(doc.Sections, &sectionDoc{
			Name:  s.Name,
			Title: s.Title,
			URL:   s.URL,
		})
	}
	for _, m := range d.Messages {
		md := &messageDoc{
			Name:          m.Name,
			Section:       m.Section,
			Verb:          verbDoc{cmd: m.Verb, set: true},
			Type:          m.Kind().String(),
			Format:        m.Format,
			Arguments:     make([]*argumentDoc, 0, len(m.Arguments)),
			Associativity: m.Associativity.String(),
			Related:       m.Related,
			Documentation: m.Documentation,
		}
		for _, arg := range m.Arguments {
			md.Arguments = append(md.Arguments, newArgumentDoc(arg, true))
		}
		doc.Messages = append(doc.Messages, md)
	}
	return doc
}

// newArgumentDoc renders arg. The field name is written on the outermost
// node only.
func newArgumentDoc(arg *grammar.Argument, named bool) *argumentDoc {
	doc := &argumentDoc{}
	if named {
		doc.Name = arg.FieldName()
	}
	switch arg.Kind {
	case grammar.KindLiteral:
		text := arg.Text
		doc.Type = "literal"
		doc.TypeArgument = &text
	case grammar.KindOptional:
		doc.Type = "optional"
		doc.Side = arg.Side.String()
		doc.Inner = newArgumentDoc(arg.Inner, false)
	case grammar.KindList:
		doc.Type = arg.Separator.String() + "-list"
		doc.Inner = newArgumentDoc(arg.Inner, false)
	default:
		doc.Type = arg.Type.String()
		if arg.HasTypeArgument {
			typeArg := arg.TypeArgument
			doc.TypeArgument = &typeArg
		}
	}
	return doc
}

func (doc *descriptionDoc) description() (*Description, error) {
	if doc.MajorVersion < 0 || doc.MinorVersion < 0 {
		return nil, artifactErrorf("", "negative version %d.%d", doc.MajorVersion, doc.MinorVersion)
	}
	d := &Description{
		MajorVersion: doc.MajorVersion,
		MinorVersion: doc.MinorVersion,
	}

	sections := make(map[string]bool, len(doc.Sections))
	for ii, sd := range doc.Sections {
		path := fmt.Sprintf("sections[%d]", ii)
		if sd == nil {
			return nil, artifactErrorf(path, "null section")
		}
		if !grammar.ValidName(sd.Name) {
			return nil, artifactErrorf(path, "invalid section name %q", sd.Name)
		}
		if sections[sd.Name] {
			return nil, artifactErrorf(path, "duplicate section name %q", sd.Name)
		}
		sections[sd.Name] = true
		d.Sections = append(d.Sections, &Section{Name: sd.Name, Title: sd.Title, URL: sd.URL})
	}

	names := make(map[string]bool, len(doc.Messages))
	verbs := make(map[line.Command]bool, len(doc.Messages))
	for ii, md := range doc.Messages {
		path := fmt.Sprintf("messages[%d]", ii)
		m, err := md.message(path)
		if err != nil {
			return nil, err
		}
		if !sections[m.Section] {
			return nil, artifactErrorf(path, "unknown section %q", m.Section)
		}
		if names[m.Name] {
			return nil, artifactErrorf(path, "duplicate message name %q", m.Name)
		}
		if verbs[m.Verb] {
			return nil, artifactErrorf(path, "duplicate verb %s", m.Verb)
		}
		names[m.Name] = true
		verbs[m.Verb] = true
		d.Messages = append(d.Messages, m)
	}

	for ii, m := range d.Messages {
		for _, rel := range m.Related {
			if !names[rel] {
				return nil, artifactErrorf(fmt.Sprintf("messages[%d].related", ii), "unknown message %q", rel)
			}
		}
	}
	return d, nil
}

func (md *messageDoc) message(path string) (*Message, error) {
	if md == nil {
		return nil, artifactErrorf(path, "null message")
	}
	if !grammar.ValidName(md.Name) {
		return nil, artifactErrorf(path, "invalid message name %q", md.Name)
	}
	if !md.Verb.set {
		return nil, artifactErrorf(path, "missing verb")
	}
	verb := md.Verb.cmd
	kind, ok := ParseKind(md.Type)
	if !ok {
		return nil, artifactErrorf(path, "unknown message type %q", md.Type)
	}
	switch {
	case verb.IsNumeric() && (verb.Code < 1 || verb.Code > 999):
		return nil, artifactErrorf(path, "numeric verb %d out of range", verb.Code)
	case !verb.IsNumeric() && !validTextVerb(verb.Name):
		return nil, artifactErrorf(path, "invalid verb %q", verb.Name)
	}
	m := &Message{
		Name:          md.Name,
		Section:       md.Section,
		Verb:          verb,
		Format:        md.Format,
		Related:       md.Related,
		Documentation: md.Documentation,
	}
	if m.Kind() != kind {
		return nil, artifactErrorf(path, "verb %s is not %s", verb, kind)
	}
	side, ok := grammar.ParseSide(md.Associativity)
	if !ok {
		return nil, artifactErrorf(path, "unknown associativity %q", md.Associativity)
	}
	m.Associativity = side

	fields := map[string]bool{}
	for ii, ad := range md.Arguments {
		argPath := fmt.Sprintf("%s.arguments[%d]", path, ii)
		arg, err := ad.argument(argPath, true)
		if err != nil {
			return nil, err
		}
		if name := arg.FieldName(); name != "" {
			if fields[name] {
				return nil, artifactErrorf(argPath, "duplicate argument name %q", name)
			}
			fields[name] = true
		}
		m.Arguments = append(m.Arguments, arg)
	}
	if got, ok := grammar.Associate(m.Arguments); !ok {
		return nil, artifactErrorf(path, "mixed associativities")
	} else if got != side {
		return nil, artifactErrorf(path, "associativity %s does not match arguments (%s)", side, got)
	}
	if ii := grammar.AdjacentLiterals(m.Arguments); ii >= 0 {
		return nil, artifactErrorf(fmt.Sprintf("%s.arguments[%d]", path, ii), "two successive literals")
	}
	return m, nil
}

func validTextVerb(name string) bool {
	if name == "" {
		return false
	}
	digits := true
	for _, c := range name {
		if c >= '0' && c <= '9' {
			continue
		}
		digits = false
		if c <= ' ' || c == ':' || (c >= 'a' && c <= 'z') {
			return false
		}
	}
	return !digits
}

// argument converts an argument node. top is true for a message's direct
// arguments, the only nodes that may carry a name.
func (ad *argumentDoc) argument(path string, top bool) (*grammar.Argument, error) {
	if ad == nil {
		return nil, artifactErrorf(path, "null argument")
	}
	if !top && ad.Name != "" {
		return nil, artifactErrorf(path, "nested argument has a name")
	}
	if ad.Type != "optional" && ad.Side != "" {
		return nil, artifactErrorf(path, "side on %s argument", ad.Type)
	}

	switch {
	case ad.Type == "literal" && top && ad.Name == "":
		if ad.Inner != nil || ad.TypeArgument == nil {
			return nil, artifactErrorf(path, "literal needs exactly a type-argument")
		}
		return grammar.Literal(*ad.TypeArgument), nil

	case ad.Type == "optional":
		if !top {
			return nil, artifactErrorf(path, "nested optional")
		}
		side, ok := grammar.ParseSide(ad.Side)
		if !ok {
			return nil, artifactErrorf(path, "unknown side %q", ad.Side)
		}
		if ad.Inner == nil || ad.TypeArgument != nil {
			return nil, artifactErrorf(path, "optional needs exactly an inner argument")
		}
		inner, err := ad.Inner.argument(path+".inner", false)
		if err != nil {
			return nil, err
		}
		inner.Name = ad.Name
		if err := checkFieldName(path, ad.Name); err != nil {
			return nil, err
		}
		return grammar.Optional(side, inner), nil

	case ad.Type == "comma-list" || ad.Type == "space-list":
		if ad.Inner == nil || ad.TypeArgument != nil {
			return nil, artifactErrorf(path, "list needs exactly an inner argument")
		}
		element, err := ad.Inner.argument(path+".inner", false)
		if err != nil {
			return nil, err
		}
		sep := grammar.Comma
		if ad.Type == "space-list" {
			sep = grammar.Space
		}
		if top {
			if err := checkFieldName(path, ad.Name); err != nil {
				return nil, err
			}
		}
		return grammar.List(ad.Name, sep, element), nil
	}

	t, ok := grammar.ParseLeafType(ad.Type)
	if !ok {
		return nil, artifactErrorf(path, "unknown type %q", ad.Type)
	}
	if ad.Inner != nil {
		return nil, artifactErrorf(path, "%s argument with inner argument", ad.Type)
	}
	leaf := grammar.Leaf(ad.Name, t)
	if ad.TypeArgument != nil {
		if !t.TakesArgument() {
			return nil, artifactErrorf(path, "type does not take argument: %s", ad.Type)
		}
		leaf.TypeArgument = *ad.TypeArgument
		leaf.HasTypeArgument = true
	}
	if top {
		if err := checkFieldName(path, ad.Name); err != nil {
			return nil, err
		}
	}
	return leaf, nil
}

func checkFieldName(path, name string) error {
	if !grammar.ValidName(name) {
		return artifactErrorf(path, "invalid argument name %q", name)
	}
	return nil
}
