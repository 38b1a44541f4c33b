// Package report renders a release plan for people (colored text) and for tools
// (JSON or YAML).
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/wsbump/internal/bump"
	"github.com/ariel-frischer/wsbump/internal/output"
)

// Formats lists the supported output formats.
var Formats = []string{"text", "json", "yaml"}

// Options controls rendering.
type Options struct {
	// Start and Base label the revision range in the header.
	Start string
	Base  string
	// Plain disables colors regardless of terminal detection.
	Plain bool
	// Verbose lists the commits behind every decision.
	Verbose bool
	// Width of separator lines; output.DefaultWidth when zero.
	Width int
}

// Document is the machine-readable form of a plan.
type Document struct {
	Start       string            `json:"start" yaml:"start"`
	Base        string            `json:"base" yaml:"base"`
	Resolutions []Resolution      `json:"resolutions" yaml:"resolutions"`
	Decisions   []Decision        `json:"decisions" yaml:"decisions"`
	Diagnostics []DiagnosticEntry `json:"diagnostics" yaml:"diagnostics"`
	Summary     map[string]int    `json:"summary" yaml:"summary"`
}

// Resolution is one version change.
type Resolution struct {
	Module    string `json:"module" yaml:"module"`
	From      string `json:"from" yaml:"from"`
	To        string `json:"to" yaml:"to"`
	Magnitude string `json:"magnitude" yaml:"magnitude"`
}

// Decision is the aggregated request for one module.
type Decision struct {
	Module   string        `json:"module" yaml:"module"`
	Severity string        `json:"severity" yaml:"severity"`
	Commits  []CommitEntry `json:"commits" yaml:"commits"`
}

// CommitEntry is a commit contributing to a decision.
type CommitEntry struct {
	ID      string `json:"id" yaml:"id"`
	Kind    string `json:"kind" yaml:"kind"`
	Subject string `json:"subject" yaml:"subject"`
}

// DiagnosticEntry is a commit that did not contribute.
type DiagnosticEntry struct {
	Kind    string `json:"kind" yaml:"kind"`
	Commit  string `json:"commit" yaml:"commit"`
	Subject string `json:"subject" yaml:"subject"`
	Reason  string `json:"reason" yaml:"reason"`
}

// NewDocument converts a plan into its machine-readable form.
// Slices are never nil so empty sections encode as [] rather than null.
func NewDocument(plan *bump.Plan, opts Options) Document {
	doc := Document{
		Start:       opts.Start,
		Base:        opts.Base,
		Resolutions: make([]Resolution, 0, len(plan.Resolutions)),
		Decisions:   make([]Decision, 0, len(plan.Decisions)),
		Diagnostics: make([]DiagnosticEntry, 0, len(plan.Diagnostics)),
		Summary:     map[string]int{},
	}

	for _, r := range plan.Resolutions {
		doc.Resolutions = append(doc.Resolutions, Resolution{
			Module:    r.Module,
			From:      r.From,
			To:        r.To,
			Magnitude: r.Magnitude.String(),
		})
		if r.Changed() {
			doc.Summary["changed"]++
		}
	}

	for _, d := range plan.Decisions {
		dec := Decision{
			Module:   d.Module,
			Severity: d.Severity.String(),
			Commits:  make([]CommitEntry, 0, len(d.Commits)),
		}
		for _, ref := range d.Commits {
			dec.Commits = append(dec.Commits, CommitEntry{
				ID:      ref.Commit.ID,
				Kind:    ref.Kind.String(),
				Subject: ref.Commit.Subject,
			})
		}
		doc.Decisions = append(doc.Decisions, dec)
	}

	for _, diag := range plan.Diagnostics {
		doc.Diagnostics = append(doc.Diagnostics, DiagnosticEntry{
			Kind:    string(diag.Kind),
			Commit:  diag.Commit.ID,
			Subject: diag.Commit.Subject,
			Reason:  diag.Reason,
		})
		doc.Summary[string(diag.Kind)]++
	}

	return doc
}

// Write renders plan in the named format.
func Write(w io.Writer, format string, plan *bump.Plan, opts Options) error {
	switch format {
	case "text", "":
		return WriteText(w, plan, opts)
	case "json":
		return WriteJSON(w, plan, opts)
	case "yaml":
		return WriteYAML(w, plan, opts)
	default:
		return fmt.Errorf("unsupported format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// WriteJSON writes the plan as an indented JSON document.
func WriteJSON(w io.Writer, plan *bump.Plan, opts Options) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(plan, opts)); err != nil {
		return fmt.Errorf("encoding plan as JSON: %w", err)
	}
	return nil
}

// WriteYAML writes the plan as a YAML document.
func WriteYAML(w io.Writer, plan *bump.Plan, opts Options) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(plan, opts)); err != nil {
		return fmt.Errorf("encoding plan as YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding plan as YAML: %w", err)
	}
	return nil
}

// painter applies a color unless plain output was requested.
type painter struct {
	plain bool
}

func (p painter) with(attrs ...color.Attribute) func(a ...interface{}) string {
	if p.plain {
		return fmt.Sprint
	}
	return color.New(attrs...).SprintFunc()
}

// WriteText writes a human-readable summary: version changes, then optionally the
// commits per module, then diagnostics grouped by kind.
func WriteText(w io.Writer, plan *bump.Plan, opts Options) error {
	p := painter{plain: opts.Plain}
	bold := p.with(color.Bold)
	cyan := p.with(color.FgCyan)
	green := p.with(color.FgGreen, color.Bold)
	dim := p.with(color.Faint)
	yellow := p.with(color.FgYellow)
	red := p.with(color.FgRed)

	width := opts.Width
	if width <= 0 {
		width = output.DefaultWidth
	}
	section := func(label string) {
		if opts.Plain {
			fmt.Fprintf(w, "\n== %s ==\n", label)
			return
		}
		fmt.Fprintln(w)
		output.PrintSection(w, label, width)
	}

	header := "Release plan"
	if opts.Start != "" || opts.Base != "" {
		start := opts.Start
		if start == "" {
			start = "(root)"
		}
		header = fmt.Sprintf("Release plan %s..%s", start, opts.Base)
	}
	fmt.Fprintln(w, bold(header))

	section("versions")
	if len(plan.Resolutions) == 0 {
		fmt.Fprintln(w, dim("  no version changes"))
	} else {
		writeVersionTable(w, plan.Resolutions, cyan, green, dim)
	}

	if opts.Verbose && len(plan.Decisions) > 0 {
		section("commits")
		for _, d := range plan.Decisions {
			fmt.Fprintf(w, "  %s %s\n", cyan(d.Module), dim("("+d.Severity.String()+")"))
			for _, ref := range d.Commits {
				fmt.Fprintf(w, "    %-11s %s %s\n", ref.Kind, yellow(shortID(ref.Commit.ID)), ref.Commit.Subject)
			}
		}
	}

	if len(plan.Diagnostics) > 0 {
		section("diagnostics")
		grouped := make(map[bump.DiagnosticKind][]bump.Diagnostic)
		for _, d := range plan.Diagnostics {
			grouped[d.Kind] = append(grouped[d.Kind], d)
		}
		kinds := make([]string, 0, len(grouped))
		for k := range grouped {
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)

		for _, k := range kinds {
			diags := grouped[bump.DiagnosticKind(k)]
			label := fmt.Sprintf("%s (%d)", k, len(diags))
			if diags[0].IsError() {
				label = red(label)
			} else {
				label = dim(label)
			}
			fmt.Fprintf(w, "  %s\n", label)
			for _, d := range diags {
				fmt.Fprintf(w, "    %s %s: %s\n", yellow(shortID(d.Commit.ID)), d.Commit.Subject, d.Reason)
			}
		}
	}

	return nil
}

// writeVersionTable pads every cell before coloring it so escape sequences do not
// shift the columns.
func writeVersionTable(w io.Writer, rows []bump.VersionResolution, name, changed, unchanged func(a ...interface{}) string) {
	var nameWidth, fromWidth, toWidth int
	for _, r := range rows {
		nameWidth = max(nameWidth, len(r.Module))
		fromWidth = max(fromWidth, len(r.From))
		toWidth = max(toWidth, len(r.To))
	}

	for _, r := range rows {
		paint := changed
		if !r.Changed() {
			paint = unchanged
		}
		fmt.Fprintf(w, "  %s  %-*s  ->  %s  (%s)\n",
			name(fmt.Sprintf("%-*s", nameWidth, r.Module)),
			fromWidth, r.From,
			paint(fmt.Sprintf("%-*s", toWidth, r.To)),
			r.Magnitude)
	}
}

func shortID(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}
