package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/strataassign/internal/app/assign/selection"
	"github.com/dalemusser/strataassign/internal/domain/models"
)

func writeDoc(t *testing.T, due time.Time) string {
	t.Helper()
	doc := map[string]any{
		"mode": "per_student",
		"selections": map[string][]string{
			"sections": {"s1"},
			"classes":  {"k1"},
			"students": {"u1", "u2"},
		},
		"options": map[string]any{
			"courses":  []map[string]string{{"id": "c1", "label": "Algebra"}},
			"sections": []map[string]string{{"id": "s1", "label": "Intro", "parentId": "ch1", "courseId": "c1"}},
			"students": []map[string]string{
				{"id": "u1", "label": "Ada Lovelace", "parentId": "k1"},
				{"id": "u2", "label": "Alan Turing", "parentId": "k1"},
			},
		},
		"draft": map[string]any{"dueDate": due.Format(time.RFC3339), "priority": "LOW"},
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "sel.json")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestReadDocument_Input(t *testing.T) {
	doc, err := loadDocument(writeDoc(t, time.Now().AddDate(0, 0, 7)))
	if err != nil {
		t.Fatalf("loadDocument: %v", err)
	}
	in, err := doc.input()
	if err != nil {
		t.Fatalf("input: %v", err)
	}
	if got := in.Selections[selection.Student]; len(got) != 2 {
		t.Errorf("students: got %v", got)
	}
	if o, ok := in.Lookup.Lookup(selection.Course, "c1"); !ok || o.Label != "Algebra" {
		t.Errorf("course lookup: got %+v, %v", o, ok)
	}
}

func TestReadDocument_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown field", `{"mode":"group","extra":1}`},
		{"not json", `mode: group`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := readDocument(strings.NewReader(tt.body)); err == nil {
				t.Error("expected error")
			}
		})
	}

	doc, err := readDocument(strings.NewReader(`{"mode":"per_student","selections":{"lessons":["x"]}}`))
	if err != nil {
		t.Fatalf("readDocument: %v", err)
	}
	if _, err := doc.input(); err == nil {
		t.Error("unknown level: expected error")
	}
}

func TestExpandCommand(t *testing.T) {
	path := writeDoc(t, time.Now().AddDate(0, 0, 7))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"expand", "--file", path})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("expand: %v", err)
	}

	var records []models.AssignmentRecord
	if err := json.Unmarshal(out.Bytes(), &records); err != nil {
		t.Fatalf("decode output %q: %v", out.String(), err)
	}
	if len(records) != 2 {
		t.Fatalf("records: got %d, want 2", len(records))
	}
	r := records[0]
	if r.SectionID != "s1" || r.ClassID != "k1" || r.Title != "Algebra - Intro" || r.Priority != models.PriorityLow {
		t.Errorf("record: %+v", r)
	}
}

func TestExpandCommand_ValidationFailure(t *testing.T) {
	path := writeDoc(t, time.Now().AddDate(0, 0, -3))

	var stderr bytes.Buffer
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"expand", "--file", path})
	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected a validation error for a past due date")
	}
	if !strings.Contains(stderr.String(), "dueDate") {
		t.Errorf("stderr: got %q, want the dueDate field", stderr.String())
	}
}
