package export_test

import (
	"strings"
	"testing"

	"github.com/theengineear/upper-doodle-sub000/export"
)

var parserPrefixes = map[string]string{
	"ex":  "http://ex/",
	"xsd": "http://www.w3.org/2001/XMLSchema#",
}

func TestParseNTriplesBasic(t *testing.T) {
	triples, err := export.ParseNTriples(parserPrefixes, "<http://ex/a> <http://ex/p> <http://ex/b> .\n")
	if err != nil {
		t.Fatalf("ParseNTriples failed: %v", err)
	}
	if len(triples) != 1 {
		t.Fatalf("expected 1 triple, got %d", len(triples))
	}

	subject, ok := triples[0].Subject.(export.URINode)
	if !ok {
		t.Fatalf("expected URI subject, got %T", triples[0].Subject)
	}
	if subject.Value != "http://ex/a" {
		t.Errorf("unexpected subject value: %s", subject.Value)
	}
	if subject.Curie != "ex:a" {
		t.Errorf("expected shortened form ex:a, got %q", subject.Curie)
	}
	if triples[0].Predicate.Curie != "ex:p" {
		t.Errorf("expected shortened predicate ex:p, got %q", triples[0].Predicate.Curie)
	}
}

func TestParseNTriplesSkipsBlankAndCommentLines(t *testing.T) {
	text := "\n# comment\n<http://ex/a> <http://ex/p> <http://ex/b> .\n\n"
	triples, err := export.ParseNTriples(parserPrefixes, text)
	if err != nil {
		t.Fatalf("ParseNTriples failed: %v", err)
	}
	if len(triples) != 1 {
		t.Errorf("expected 1 triple, got %d", len(triples))
	}
}

func TestParseNTriplesObjects(t *testing.T) {
	tests := []struct {
		name string
		line string
		want export.Node
	}{
		{
			name: "blank node object",
			line: "<http://ex/a> <http://ex/p> _:b0 .",
			want: export.BlankNode{ID: "b0"},
		},
		{
			name: "plain literal",
			line: `<http://ex/a> <http://ex/p> "hello" .`,
			want: export.LiteralNode{Value: "hello"},
		},
		{
			name: "escaped literal",
			line: `<http://ex/a> <http://ex/p> "say \"hi\"\n" .`,
			want: export.LiteralNode{Value: "say \"hi\"\n"},
		},
		{
			name: "typed literal",
			line: `<http://ex/a> <http://ex/p> "42"^^<http://www.w3.org/2001/XMLSchema#integer> .`,
			want: export.LiteralNode{Value: "42", Datatype: "http://www.w3.org/2001/XMLSchema#integer"},
		},
		{
			name: "tagged literal",
			line: `<http://ex/a> <http://ex/p> "bonjour"@fr .`,
			want: export.LiteralNode{Value: "bonjour", Lang: "fr"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			triples, err := export.ParseNTriples(parserPrefixes, tt.line)
			if err != nil {
				t.Fatalf("ParseNTriples failed: %v", err)
			}
			if len(triples) != 1 {
				t.Fatalf("expected 1 triple, got %d", len(triples))
			}
			if triples[0].Object.Key() != tt.want.Key() {
				t.Errorf("object mismatch: got %s, want %s", triples[0].Object.Key(), tt.want.Key())
			}
		})
	}
}

func TestParseNTriplesBlankSubject(t *testing.T) {
	triples, err := export.ParseNTriples(parserPrefixes, "_:b0 <http://ex/p> <http://ex/b> .")
	if err != nil {
		t.Fatalf("ParseNTriples failed: %v", err)
	}
	if triples[0].Subject.Key() != "_:b0" {
		t.Errorf("unexpected subject key: %s", triples[0].Subject.Key())
	}
}

func TestParseNTriplesErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "literal subject", line: `"a" <http://ex/p> <http://ex/b> .`},
		{name: "blank predicate", line: "<http://ex/a> _:b0 <http://ex/b> ."},
		{name: "missing terminator", line: "<http://ex/a> <http://ex/p> <http://ex/b>"},
		{name: "unterminated uri", line: "<http://ex/a <http://ex/p> <http://ex/b> ."},
		{name: "unterminated literal", line: `<http://ex/a> <http://ex/p> "open .`},
		{name: "trailing content", line: "<http://ex/a> <http://ex/p> <http://ex/b> . extra"},
		{name: "empty language tag", line: `<http://ex/a> <http://ex/p> "v"@ .`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := export.ParseNTriples(parserPrefixes, tt.line)
			if err == nil {
				t.Fatalf("expected error for %q", tt.line)
			}
		})
	}
}

func TestParseNTriplesErrorCarriesLineNumber(t *testing.T) {
	text := "<http://ex/a> <http://ex/p> <http://ex/b> .\nnot a triple\n"
	_, err := export.ParseNTriples(parserPrefixes, text)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected line number in error, got: %v", err)
	}
	if !strings.Contains(err.Error(), "not a triple") {
		t.Errorf("expected offending line in error, got: %v", err)
	}
}

func TestLiteralKeyDistinguishesDatatype(t *testing.T) {
	plain := export.LiteralNode{Value: "42"}
	typed := export.LiteralNode{Value: "42", Datatype: "http://www.w3.org/2001/XMLSchema#integer"}
	tagged := export.LiteralNode{Value: "42", Lang: "en"}

	if plain.Key() == typed.Key() {
		t.Error("plain and typed literal keys should differ")
	}
	if plain.Key() == tagged.Key() {
		t.Error("plain and tagged literal keys should differ")
	}
}

func TestEscapeLiteralRoundTrip(t *testing.T) {
	values := []string{
		`plain`,
		`with "quotes"`,
		"with\nnewline\tand tab",
		`back\slash`,
		`mixed \" sequence`,
	}
	for _, v := range values {
		got := export.UnescapeLiteral(export.EscapeLiteral(v))
		if got != v {
			t.Errorf("round trip mismatch: %q became %q", v, got)
		}
	}
}
