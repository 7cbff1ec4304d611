package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestTable(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	Table(&buf, []string{"Skill", "Degree"}, [][]string{
		{"Go", "3"},
		{"Kubernetes", "1"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, separator and 2 rows, got %d lines:\n%s", len(lines), buf.String())
	}
	if lines[0] != "  Skill       Degree" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[3] != "  Kubernetes  1" {
		t.Errorf("unexpected row %q", lines[3])
	}
}

func TestTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, []string{"Skill"}, nil)
	if buf.Len() != 0 {
		t.Errorf("expected no output for empty table, got %q", buf.String())
	}
}
