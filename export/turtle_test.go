package export_test

import (
	"strings"
	"testing"

	"github.com/theengineear/upper-doodle-sub000/export"
	"github.com/theengineear/upper-doodle-sub000/vocabulary/w3c"
)

func TestTurtleMinimalDocument(t *testing.T) {
	prefixes := map[string]string{"ex": "http://ex/"}
	nt := "<http://ex/a> <http://ex/p> \"v\" .\n"

	got, err := export.Turtle(prefixes, nt)
	if err != nil {
		t.Fatalf("Turtle failed: %v", err)
	}

	want := "@prefix ex: <http://ex/> .\n" +
		"\n" +
		"ex:a\n" +
		"    ex:p \"v\" ;\n" +
		".\n"
	if got != want {
		t.Errorf("turtle mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestTurtleTypeToken(t *testing.T) {
	prefixes := map[string]string{
		"ex":  "http://ex/",
		"rdf": w3c.RDFNamespace,
	}
	nt := "<http://ex/a> <" + w3c.RDFType + "> <http://ex/T> .\n" +
		"<http://ex/a> <http://ex/p> \"v\" .\n"

	got, err := export.Turtle(prefixes, nt)
	if err != nil {
		t.Fatalf("Turtle failed: %v", err)
	}

	want := "@prefix ex:  <http://ex/> .\n" +
		"@prefix rdf: <" + w3c.RDFNamespace + "> .\n" +
		"\n" +
		"ex:a\n" +
		"    a    ex:T ;\n" +
		"    ex:p \"v\" ;\n" +
		".\n"
	if got != want {
		t.Errorf("turtle mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestTurtleFoldsLists(t *testing.T) {
	prefixes := map[string]string{
		"ex":  "http://ex/",
		"up":  "http://up/",
		"rdf": w3c.RDFNamespace,
	}
	nt := "<http://ex/Genre> <http://up/oneOf> _:b0 .\n" +
		"_:b0 <" + w3c.RDFFirst + "> <http://ex/Comedy> .\n" +
		"_:b0 <" + w3c.RDFRest + "> _:b1 .\n" +
		"_:b1 <" + w3c.RDFFirst + "> <http://ex/Drama> .\n" +
		"_:b1 <" + w3c.RDFRest + "> <" + w3c.RDFNil + "> .\n"

	got, err := export.Turtle(prefixes, nt)
	if err != nil {
		t.Fatalf("Turtle failed: %v", err)
	}

	if !strings.Contains(got, "up:oneOf ( ex:Comedy ex:Drama ) ;") {
		t.Errorf("expected folded list, got:\n%s", got)
	}
	if strings.Contains(got, "_:b0") || strings.Contains(got, "_:b1") {
		t.Errorf("list nodes should not render as blocks, got:\n%s", got)
	}
}

func TestTurtlePredicateOrdering(t *testing.T) {
	prefixes := map[string]string{"ex": "http://ex/"}
	nt := "<http://ex/a> <http://ex/beta> \"3\"@en .\n" +
		"<http://ex/a> <http://ex/alpha> \"2\"@en .\n" +
		"<http://ex/a> <http://ex/name> \"1\"@en .\n"

	got, err := export.Turtle(prefixes, nt)
	if err != nil {
		t.Fatalf("Turtle failed: %v", err)
	}

	name := strings.Index(got, "ex:name")
	alpha := strings.Index(got, "ex:alpha")
	beta := strings.Index(got, "ex:beta")
	if name == -1 || alpha == -1 || beta == -1 {
		t.Fatalf("missing predicates in output:\n%s", got)
	}
	// Known predicates first, unknown ones alphabetically after.
	if !(name < alpha && alpha < beta) {
		t.Errorf("unexpected predicate order:\n%s", got)
	}
}

func TestTurtleSortsSubjectBlocks(t *testing.T) {
	prefixes := map[string]string{"ex": "http://ex/"}
	nt := "<http://ex/b> <http://ex/p> \"2\" .\n" +
		"<http://ex/a> <http://ex/p> \"1\" .\n"

	got, err := export.Turtle(prefixes, nt)
	if err != nil {
		t.Fatalf("Turtle failed: %v", err)
	}

	if strings.Index(got, "ex:a\n") > strings.Index(got, "ex:b\n") {
		t.Errorf("subject blocks out of order:\n%s", got)
	}
}

func TestTurtleBareLiterals(t *testing.T) {
	prefixes := map[string]string{
		"ex":  "http://ex/",
		"xsd": w3c.XSDNamespace,
	}
	nt := "<http://ex/a> <http://ex/count> \"42\"^^<" + w3c.XSDInteger + "> .\n" +
		"<http://ex/a> <http://ex/score> \"3.14\"^^<" + w3c.XSDDecimal + "> .\n" +
		"<http://ex/a> <http://ex/flag> \"true\"^^<" + w3c.XSDBoolean + "> .\n" +
		"<http://ex/a> <http://ex/code> \"abc\"^^<" + w3c.XSDInteger + "> .\n"

	got, err := export.Turtle(prefixes, nt)
	if err != nil {
		t.Fatalf("Turtle failed: %v", err)
	}

	if !strings.Contains(got, "ex:count 42 ;") {
		t.Errorf("integer should render bare:\n%s", got)
	}
	if !strings.Contains(got, "ex:score 3.14 ;") {
		t.Errorf("decimal should render bare:\n%s", got)
	}
	if !strings.Contains(got, "ex:flag  true ;") && !strings.Contains(got, "true ;") {
		t.Errorf("boolean should render bare:\n%s", got)
	}
	// A lexically invalid integer keeps its quoted, typed form.
	if !strings.Contains(got, "\"abc\"^^xsd:integer") {
		t.Errorf("non-numeric value should stay quoted:\n%s", got)
	}
}

func TestTurtleMultiLineLiteralBlock(t *testing.T) {
	prefixes := map[string]string{"ex": "http://ex/"}
	nt := "<http://ex/a> <http://ex/p> \"line one\\nline two\" .\n"

	got, err := export.Turtle(prefixes, nt)
	if err != nil {
		t.Fatalf("Turtle failed: %v", err)
	}

	want := "\"\"\"\n        line one\n        line two\n        \"\"\""
	if !strings.Contains(got, want) {
		t.Errorf("expected triple-quoted block:\n%s", got)
	}
}

func TestTurtleLongLiteralWraps(t *testing.T) {
	prefixes := map[string]string{"ex": "http://ex/"}
	long := strings.TrimSpace(strings.Repeat("verylongword ", 10))
	nt := "<http://ex/a> <http://ex/p> \"" + long + "\" .\n"

	got, err := export.Turtle(prefixes, nt)
	if err != nil {
		t.Fatalf("Turtle failed: %v", err)
	}

	if !strings.Contains(got, "\"\"\"") {
		t.Errorf("long literal should use a block, got:\n%s", got)
	}
	if !strings.Contains(got, "\n        verylongword") {
		t.Errorf("block lines should indent eight spaces, got:\n%s", got)
	}
}

func TestTurtleDeduplicates(t *testing.T) {
	prefixes := map[string]string{"ex": "http://ex/"}
	nt := "<http://ex/a> <http://ex/p> \"v\" .\n" +
		"<http://ex/a> <http://ex/p> \"v\" .\n"

	got, err := export.Turtle(prefixes, nt)
	if err != nil {
		t.Fatalf("Turtle failed: %v", err)
	}

	if n := strings.Count(got, "ex:p \"v\" ;"); n != 1 {
		t.Errorf("expected 1 rendered pair, got %d:\n%s", n, got)
	}
}

func TestTurtleMemoized(t *testing.T) {
	prefixes := map[string]string{"ex": "http://ex/"}
	nt := "<http://ex/memo> <http://ex/p> \"v\" .\n"

	first, err := export.Turtle(prefixes, nt)
	if err != nil {
		t.Fatalf("Turtle failed: %v", err)
	}
	// A fresh map with the same content hits the same cache entry.
	second, err := export.Turtle(map[string]string{"ex": "http://ex/"}, nt)
	if err != nil {
		t.Fatalf("Turtle failed: %v", err)
	}
	if first != second {
		t.Errorf("memoized outputs differ:\n%s\n%s", first, second)
	}
}

func TestTurtleParseError(t *testing.T) {
	_, err := export.Turtle(map[string]string{}, "not a triple\n")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "serialize turtle") {
		t.Errorf("unexpected error: %v", err)
	}
}
