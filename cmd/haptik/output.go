// =============================================================================
// output.go - Rendering Results as Text, JSON or YAML
// =============================================================================
//
// Every command builds a plain view value (the structs below) and hands it to
// the printer. JSON and YAML encode the view directly; text mode renders it
// as aligned columns with text/tabwriter, with bold headers on terminals.
//
// =============================================================================

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/austinhartzheim/haptik/haproxy"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// printer writes views in the configured format.
type printer struct {
	w      io.Writer
	format string
	styled bool // Apply lipgloss styles (stdout is a terminal)
}

func (p *printer) style(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

// structured encodes v as JSON or YAML. It reports false in text mode.
func (p *printer) structured(v any) (bool, error) {
	switch p.format {
	case outputJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	default:
		return false, nil
	}
}

// table renders a header row and data rows as aligned columns.
func (p *printer) table(header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	for i, h := range header {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, p.style(headerStyle, h))
	}
	fmt.Fprintln(tw)
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cell)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// =============================================================================
// Views
// =============================================================================

// Views hold the typed protocol values; JSON and YAML encode them through
// their MarshalText methods.

type levelView struct {
	Level haproxy.Level `json:"level" yaml:"level"`
}

type socketView struct {
	Address   haproxy.CliSocketAddr      `json:"address" yaml:"address"`
	Level     haproxy.Level              `json:"level" yaml:"level"`
	Processes haproxy.CliSocketProcesses `json:"processes" yaml:"processes"`
	Reachable *bool                      `json:"reachable,omitempty" yaml:"reachable,omitempty"`
}

type errorsView struct {
	Backend string `json:"backend" yaml:"backend"`
	Type    string `json:"type" yaml:"type"`
	Count   uint32 `json:"count" yaml:"count"`
}

type aclView struct {
	ID          int    `json:"id" yaml:"id"`
	Reference   string `json:"reference,omitempty" yaml:"reference,omitempty"`
	Description string `json:"description" yaml:"description"`
}

type entryView struct {
	ID    string `json:"id" yaml:"id"`
	Value string `json:"value" yaml:"value"`
}

type addView struct {
	Acl   string `json:"acl" yaml:"acl"`
	Value string `json:"value" yaml:"value"`
	Added bool   `json:"added" yaml:"added"`
}

func newSocketView(s haproxy.CliSocket) socketView {
	return socketView{Address: s.Address, Level: s.Level, Processes: s.Processes}
}

func newAclView(a haproxy.Acl) aclView {
	return aclView{ID: a.ID, Reference: a.Reference, Description: a.Description}
}

func newEntryView[V any](e haproxy.AclEntry[V]) entryView {
	return entryView{ID: fmt.Sprintf("0x%x", e.ID), Value: fmt.Sprint(e.Value)}
}

// =============================================================================
// Renderers
// =============================================================================

func (p *printer) level(l haproxy.Level) error {
	if ok, err := p.structured(levelView{Level: l}); ok {
		return err
	}
	_, err := fmt.Fprintln(p.w, l)
	return err
}

func (p *printer) sockets(views []socketView) error {
	if ok, err := p.structured(views); ok {
		return err
	}

	probed := len(views) > 0 && views[0].Reachable != nil
	header := []string{"ADDRESS", "LEVEL", "PROCESSES"}
	if probed {
		header = append(header, "REACHABLE")
	}
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		row := []string{v.Address.String(), v.Level.String(), v.Processes.String()}
		if probed {
			row = append(row, reachableText(v.Reachable))
		}
		rows = append(rows, row)
	}
	return p.table(header, rows)
}

func reachableText(r *bool) string {
	switch {
	case r == nil:
		return "-"
	case *r:
		return "yes"
	default:
		return "no"
	}
}

func (p *printer) errorCount(v errorsView) error {
	if ok, err := p.structured(v); ok {
		return err
	}
	_, err := fmt.Fprintln(p.w, v.Count)
	return err
}

func (p *printer) acls(views []aclView) error {
	if ok, err := p.structured(views); ok {
		return err
	}
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		ref := v.Reference
		if ref == "" {
			ref = "-"
		}
		rows = append(rows, []string{fmt.Sprint(v.ID), ref, v.Description})
	}
	return p.table([]string{"ID", "REFERENCE", "DESCRIPTION"}, rows)
}

func (p *printer) entries(views []entryView) error {
	if ok, err := p.structured(views); ok {
		return err
	}
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		rows = append(rows, []string{v.ID, v.Value})
	}
	return p.table([]string{"ID", "VALUE"}, rows)
}

func (p *printer) added(v addView) error {
	if ok, err := p.structured(v); ok {
		return err
	}
	_, err := fmt.Fprintf(p.w, "%s %s to acl %s\n", p.style(okStyle, "added"), v.Value, v.Acl)
	return err
}

func (p *printer) paths(paths []string) error {
	if ok, err := p.structured(paths); ok {
		return err
	}
	for _, path := range paths {
		if _, err := fmt.Fprintln(p.w, path); err != nil {
			return err
		}
	}
	return nil
}
