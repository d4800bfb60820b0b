package export_test

import (
	"testing"

	"github.com/theengineear/upper-doodle-sub000/export"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  export.Format
		ok    bool
	}{
		{input: "turtle", want: export.FormatTurtle, ok: true},
		{input: "ttl", want: export.FormatTurtle, ok: true},
		{input: "Turtle", want: export.FormatTurtle, ok: true},
		{input: "ntriples", want: export.FormatNTriples, ok: true},
		{input: "nt", want: export.FormatNTriples, ok: true},
		{input: "n-triples", want: export.FormatNTriples, ok: true},
		{input: " ttl ", want: export.FormatTurtle, ok: true},
		{input: "jsonld", ok: false},
		{input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := export.ParseFormat(tt.input)
			if tt.ok && err != nil {
				t.Fatalf("ParseFormat(%q) failed: %v", tt.input, err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestGetFormatInfo(t *testing.T) {
	info, ok := export.GetFormatInfo(export.FormatTurtle)
	if !ok {
		t.Fatal("expected turtle format info")
	}
	if info.MIMEType != "text/turtle" {
		t.Errorf("unexpected MIME type: %s", info.MIMEType)
	}
	if info.Extension != ".ttl" {
		t.Errorf("unexpected extension: %s", info.Extension)
	}

	info, ok = export.GetFormatInfo(export.FormatNTriples)
	if !ok {
		t.Fatal("expected ntriples format info")
	}
	if info.MIMEType != "application/n-triples" {
		t.Errorf("unexpected MIME type: %s", info.MIMEType)
	}
	if info.Extension != ".nt" {
		t.Errorf("unexpected extension: %s", info.Extension)
	}

	if _, ok := export.GetFormatInfo(export.Format("jsonld")); ok {
		t.Error("expected no info for unknown format")
	}
}

func TestRenderNTriplesPassThrough(t *testing.T) {
	nt := "<http://ex/a> <http://ex/p> \"v\" .\n"
	got, err := export.Render(export.FormatNTriples, map[string]string{}, nt)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got != nt {
		t.Errorf("ntriples output should pass through unchanged, got:\n%s", got)
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := export.Render(export.Format("jsonld"), map[string]string{}, "")
	if err == nil {
		t.Error("expected error for unknown format")
	}
}
