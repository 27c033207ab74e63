package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dalemusser/strataassign/internal/app/assign/expand"
	"github.com/dalemusser/strataassign/internal/app/assign/hierarchy"
	"github.com/dalemusser/strataassign/internal/app/assign/selection"
	"github.com/dalemusser/strataassign/internal/domain/models"
	"github.com/spf13/cobra"
)

// document is a saved wizard state: what was selected, the draft, and the
// option lists titles and parents are resolved from.
//
//	{
//	  "mode": "per_student",
//	  "selections": {"sections": ["s1"], "classes": ["k1"], "students": ["u1"]},
//	  "options": {"courses": [{"id": "c1", "label": "Algebra"}], ...},
//	  "draft": {"dueDate": "2026-11-02T00:00:00Z", "priority": "HIGH"}
//	}
type document struct {
	Mode       expand.Mode                   `json:"mode"`
	Target     models.TargetKind             `json:"target,omitempty"`
	Anchor     *expand.Anchor                `json:"anchor,omitempty"`
	Draft      models.Draft                  `json:"draft"`
	Selections map[string][]string           `json:"selections"`
	Options    map[string][]hierarchy.Option `json:"options"`
}

func readDocument(r io.Reader) (*document, error) {
	var doc document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode selection document: %w", err)
	}
	return &doc, nil
}

func loadDocument(path string) (*document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readDocument(f)
}

// input converts the document into an expansion input.
func (d *document) input() (expand.Input, error) {
	sel := make(map[selection.Level][]string, len(d.Selections))
	for name, ids := range d.Selections {
		l, err := selection.ParseLevel(name)
		if err != nil {
			return expand.Input{}, fmt.Errorf("selections: %w", err)
		}
		sel[l] = ids
	}
	lookup := make(expand.StaticLookup, len(d.Options))
	for name, opts := range d.Options {
		l, err := selection.ParseLevel(name)
		if err != nil {
			return expand.Input{}, fmt.Errorf("options: %w", err)
		}
		lookup[l] = opts
	}
	return expand.Input{
		Selections: sel,
		Draft:      d.Draft,
		Target:     d.Target,
		Anchor:     d.Anchor,
		Lookup:     lookup,
	}, nil
}

// expansion loads --file, applies --mode/--target overrides and expands.
func expansion(cmd *cobra.Command) (expand.Mode, []models.AssignmentRecord, error) {
	path, _ := cmd.Flags().GetString("file")
	doc, err := loadDocument(path)
	if err != nil {
		return "", nil, err
	}
	if m, _ := cmd.Flags().GetString("mode"); m != "" {
		doc.Mode = expand.Mode(m)
	}
	if t, _ := cmd.Flags().GetString("target"); t != "" {
		doc.Target = models.TargetKind(t)
	}

	mode, err := expand.ParseMode(string(doc.Mode))
	if err != nil {
		return "", nil, err
	}
	ex, err := expand.New(mode)
	if err != nil {
		return "", nil, err
	}
	in, err := doc.input()
	if err != nil {
		return "", nil, err
	}
	records, err := ex.Expand(in)
	if err != nil {
		return "", nil, err
	}
	return mode, records, nil
}

func addExpansionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "Selection document (JSON)")
	cmd.Flags().String("mode", "", "Override the document's mode: per_student or group")
	cmd.Flags().String("target", "", "Override the document's group target: classes, team or student")
	_ = cmd.MarkFlagRequired("file")
}
