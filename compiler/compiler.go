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

// Package compiler validates a parsed protocol description and builds its
// [schema.Description].
//
// Compilation never stops at the first defect. Every error and warning found
// in the file is collected into the [CompileResult]; the description is only
// produced when no diagnostic was recorded, unless [WithWarningsAllowed]
// lets warnings through.
package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/edk0/earendil/grammar"
	"github.com/edk0/earendil/line"
	"github.com/edk0/earendil/schema"
	"github.com/edk0/earendil/syntax"
)

type CompileOption interface {
	apply(*CompileOptions)
}

type compileOption func(*CompileOptions)

func (f compileOption) apply(opts *CompileOptions) { f(opts) }

type CompileOptions struct {
	allowWarnings bool
}

// WithWarningsAllowed produces the description even when warnings were
// recorded. Errors still fail the compilation.
func WithWarningsAllowed() CompileOption {
	return compileOption(func(opts *CompileOptions) {
		opts.allowWarnings = true
	})
}

type CompileResult struct {
	description   *schema.Description
	allowWarnings bool

	Errors   []*Error
	Warnings []*Warning
}

// Description returns the compiled description, or nil if compilation
// failed.
func (r *CompileResult) Description() *schema.Description {
	return r.description
}

// Err returns every error and warning (errors only under
// WithWarningsAllowed) as one error value, or nil.
func (r *CompileResult) Err() error {
	var result *multierror.Error
	for _, err := range r.Errors {
		result = multierror.Append(result, err)
	}
	if !r.allowWarnings {
		for _, w := range r.Warnings {
			result = multierror.Append(result, w)
		}
	}
	if result != nil {
		result.ErrorFormat = formatDiagnostics
	}
	return result.ErrorOrNil()
}

func formatDiagnostics(errs []error) string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "compilation failed with %d diagnostics:", len(errs))
	for _, err := range errs {
		buf.WriteString("\n\t")
		switch err := err.(type) {
		case *Error:
			fmt.Fprintf(&buf, "%d:%d: ", err.span.Line(), err.span.Col())
		case *Warning:
			fmt.Fprintf(&buf, "%d:%d: ", err.span.Line(), err.span.Col())
		}
		buf.WriteString(err.Error())
	}
	return buf.String()
}

func Compile(file *syntax.File, opts ...CompileOption) CompileResult {
	return NewCompileOptions(opts...).Compile(file)
}

func NewCompileOptions(opts ...CompileOption) *CompileOptions {
	compileOptions := &CompileOptions{}
	for _, opt := range opts {
		opt.apply(compileOptions)
	}
	return compileOptions
}

func (opts *CompileOptions) Compile(file *syntax.File) CompileResult {
	c := compiler{
		opts:        opts,
		description: &schema.Description{},
		verbs:       make(map[line.Command]string),
	}
	c.compileFile(file)

	result := CompileResult{
		allowWarnings: opts.allowWarnings,
		Errors:        c.errors,
		Warnings:      c.warnings,
	}
	if len(c.errors) == 0 && (opts.allowWarnings || len(c.warnings) == 0) {
		result.description = c.description
	}
	return result
}

type compiler struct {
	opts        *CompileOptions
	description *schema.Description

	errors   []*Error
	warnings []*Warning

	haveVersion bool
	sections    []*sectionNode
	messages    []*messageNode

	// verbs maps each verb to the name of the first message using it.
	verbs map[line.Command]string
}

type sectionNode struct {
	record   *syntax.Record
	section  *schema.Section
	messages int
}

type messageNode struct {
	record  *syntax.Record
	message *schema.Message
	related []line.Command
}

// errorf records err against the message with the given verb, if any.
func (c *compiler) errorf(err *Error, verb string) {
	err.verb = verb
	c.errors = append(c.errors, err)
}

func (c *compiler) warn(w *Warning, verb string) {
	w.verb = verb
	c.warnings = append(c.warnings, w)
}

func (c *compiler) compileFile(file *syntax.File) {
	for _, err := range file.Errors {
		c.errorf(errSyntax(err), "")
	}

	for _, rec := range file.Records {
		switch rec.Kind {
		case syntax.RecordVersion:
			c.compileVersion(rec)
		case syntax.RecordSection:
			c.compileSection(rec)
		case syntax.RecordMessage:
			c.compileMessage(rec)
		}
	}
	if !c.haveVersion {
		c.errorf(errNoVersion(), "")
	}

	c.resolveRelated()

	for _, s := range c.sections {
		c.description.Sections = append(c.description.Sections, s.section)
		if s.messages == 0 {
			c.warn(warnEmptySection(s.section.Name, s.record.Span), "")
		}
	}
	for _, m := range c.messages {
		c.description.Messages = append(c.description.Messages, m.message)
	}
}

func (c *compiler) compileVersion(rec *syntax.Record) {
	if c.haveVersion {
		c.errorf(errVersionConflict(rec.Span), "")
		return
	}
	c.haveVersion = true

	major, minor, ok := strings.Cut(rec.Title, ".")
	if !ok || !isDigits(major) || !isDigits(minor) {
		c.errorf(errInvalidVersion(rec.Title, rec.TitleSpan), "")
		return
	}
	majorInt, errMajor := strconv.Atoi(major)
	minorInt, errMinor := strconv.Atoi(minor)
	if errMajor != nil || errMinor != nil {
		c.errorf(errInvalidVersion(rec.Title, rec.TitleSpan), "")
		return
	}
	c.description.MajorVersion = majorInt
	c.description.MinorVersion = minorInt
}

func (c *compiler) compileSection(rec *syntax.Record) {
	nameField, ok := rec.Field("name")
	if !ok {
		c.errorf(errRequiredField("name", rec.Span), "")
		return
	}
	name := c.checkName(nameField, "")
	for _, prev := range c.sections {
		if prev.section.Name == name {
			c.errorf(errSectionNameConflict(name, nameField.ValueSpan), "")
			break
		}
	}

	section := &schema.Section{Name: name, Title: rec.Title}
	if url, ok := rec.Field("url"); ok {
		section.URL = url.Value
	}
	c.sections = append(c.sections, &sectionNode{record: rec, section: section})
}

func (c *compiler) checkName(field *syntax.Field, verb string) string {
	name := strings.TrimSpace(field.Value)
	for _, problem := range grammar.CheckName(name) {
		c.errorf(errName(problem, field.ValueSpan), verb)
	}
	return name
}

func (c *compiler) compileMessage(rec *syntax.Record) {
	if len(c.sections) == 0 {
		c.errorf(errMessageNoSection(rec.Span), "")
		return
	}
	section := c.sections[len(c.sections)-1]

	msg := &schema.Message{
		Section: section.section.Name,
		Format:  rec.Title,
	}
	formatOK := c.compileFormat(rec, msg)
	nameField, ok := rec.Field("name")
	if !ok {
		c.errorf(errRequiredField("name", rec.Span), "")
		return
	}
	if !formatOK {
		return
	}
	verb := msg.Verb.String()

	msg.Name = c.checkName(nameField, verb)
	for _, prev := range c.messages {
		if prev.message.Name == msg.Name {
			c.errorf(errMessageNameConflict(msg.Name, nameField.ValueSpan), verb)
			break
		}
	}
	if prev, dup := c.verbs[msg.Verb]; dup {
		c.errorf(errVerbConflict(msg.Verb, prev, rec.TitleSpan), verb)
	} else {
		c.verbs[msg.Verb] = msg.Name
	}

	node := &messageNode{record: rec, message: msg}
	if related, ok := rec.Field("related"); ok {
		for _, rel := range strings.Split(related.Value, ",") {
			rel = strings.TrimSpace(rel)
			node.related = append(node.related, c.checkVerb(rel, related.ValueSpan, verb))
		}
	}
	if doc, ok := rec.Field("documentation"); ok {
		msg.Documentation = doc.Value
	}

	section.messages++
	c.messages = append(c.messages, node)
}

// compileFormat fills in the verb, arguments and associativity of msg from
// its format string. It returns false if the format has no verb.
func (c *compiler) compileFormat(rec *syntax.Record, msg *schema.Message) bool {
	tokens, unclosed := syntax.TokenizeFormat(rec.Title)
	if unclosed != "" {
		c.errorf(errUnbalancedBrackets(unclosed, rec.TitleSpan), "")
	}
	if len(tokens) == 0 {
		c.errorf(errNoVerb(rec.TitleSpan), "")
		return false
	}

	verbToken := tokens[0]
	msg.Verb = c.checkVerb(verbToken.Text, tokenSpan(rec, verbToken), "")
	verb := msg.Verb.String()

	argNames := map[string]bool{}
	for _, token := range tokens[1:] {
		span := tokenSpan(rec, token)
		arg, problems := grammar.ParseArgument(token.Text)
		for _, problem := range problems {
			switch problem.Kind {
			case grammar.ProblemUnknownType, grammar.ProblemTypeArgument:
				c.errorf(errArgument(problem, span), verb)
			case grammar.ProblemFlagValue:
				c.warn(warnFlagWithoutValue(problem.Subject, span), verb)
			default:
				c.errorf(errName(problem, span), verb)
			}
		}
		if name := arg.FieldName(); name != "" {
			if argNames[name] {
				c.errorf(errArgumentNameConflict(name, span), verb)
			}
			argNames[name] = true
		}
		msg.Arguments = append(msg.Arguments, arg)
	}

	side, ok := grammar.Associate(msg.Arguments)
	if !ok {
		c.errorf(errMixedAssociativity(rec.TitleSpan), verb)
	}
	msg.Associativity = side

	if msg.Kind() == schema.KindNumeric && !hasTarget(msg.Arguments) {
		c.errorf(errNumericTarget(rec.TitleSpan), verb)
	}

	if ii := grammar.AdjacentLiterals(msg.Arguments); ii >= 0 {
		c.errorf(errAdjacentLiterals(tokenSpan(rec, tokens[ii+1])), verb)
	}
	return true
}

func hasTarget(args []*grammar.Argument) bool {
	if len(args) == 0 {
		return false
	}
	first := args[0]
	return first.Kind == grammar.KindLeaf &&
		first.Type == grammar.TypeStr &&
		first.Name == "target"
}

func tokenSpan(rec *syntax.Record, token syntax.Token) syntax.Span {
	return rec.TitleSpan.Sub(token.Start, len(token.Text))
}

// checkVerb validates a text or numeric verb. Numeric verbs are exactly
// three digits in 001..999.
func (c *compiler) checkVerb(verb string, span syntax.Span, msgVerb string) line.Command {
	if strings.ToUpper(verb) != verb {
		c.errorf(errVerbCase(verb, span), msgVerb)
	}
	if !isDigits(verb) {
		return line.Text(verb)
	}
	code, err := strconv.Atoi(verb)
	if err != nil {
		c.errorf(errNumericRange(verb, span), msgVerb)
		return line.Numeric(0)
	}
	if fmt.Sprintf("%03d", code) != verb {
		c.errorf(errNumericFormat(verb, span), msgVerb)
	}
	if code <= 0 || code > 999 {
		c.errorf(errNumericRange(verb, span), msgVerb)
	}
	return line.Numeric(code)
}

func (c *compiler) resolveRelated() {
	for _, node := range c.messages {
		msg := node.message
		related, _ := node.record.Field("related")
		for _, rel := range node.related {
			name, ok := c.verbs[rel]
			if !ok {
				c.errorf(errUnknownRelated(rel, related.ValueSpan), msg.Verb.String())
				continue
			}
			if rel == msg.Verb {
				c.warn(warnRelatedToSelf(related.ValueSpan), msg.Verb.String())
			}
			msg.Related = append(msg.Related, name)
		}
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
