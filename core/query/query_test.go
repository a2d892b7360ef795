package query

import (
	"errors"
	"strings"
	"testing"
)

func fixtureDocs() map[string]Document {
	return map[string]Document{
		"cat-crm": {"_id": "cat-crm", "_type": "category", "key": "crm", "title": "CRM"},
		"feat-sso": {
			"_id": "feat-sso", "_type": "feature", "title": "SSO / MFA",
			"synonyms": []any{"single sign-on", "two factor"},
		},
		"acme": {
			"_id": "acme", "_type": "software", "title": "Acme CRM Suite", "slug": "acme-crm-suite",
			"category": map[string]any{"_ref": "cat-crm"},
			"features": []any{
				map[string]any{"feature": map[string]any{"_ref": "feat-sso"}, "availability": "yes"},
			},
			"badges": []any{},
		},
	}
}

func resolverFor(docs map[string]Document) Resolver {
	return func(id string) (Document, bool) {
		d, ok := docs[id]
		return d, ok
	}
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		in      string
		steps   int
		deref   string
		multi   bool
		wantErr bool
	}{
		{in: "title", steps: 1},
		{in: "pricing.model", steps: 2},
		{in: "category->title", steps: 1, deref: "title"},
		{in: "features[].feature->synonyms", steps: 2, deref: "synonyms", multi: true},
		{in: "", wantErr: true},
		{in: "title->", wantErr: true},
		{in: "bad-field", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := ParsePath(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePath(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePath(%q) error: %v", tt.in, err)
			}
			if len(p.Steps) != tt.steps || p.Deref != tt.deref || p.IsMulti() != tt.multi {
				t.Errorf("ParsePath(%q) = %+v", tt.in, p)
			}
			if p.String() != tt.in {
				t.Errorf("String() = %q, want %q", p.String(), tt.in)
			}
		})
	}
}

func TestValues_DereferencesThroughArrays(t *testing.T) {
	docs := fixtureDocs()
	got := Values(docs["acme"], MustPath("features[].feature->synonyms"), resolverFor(docs))

	if len(got) != 2 || got[0] != "single sign-on" || got[1] != "two factor" {
		t.Errorf("Values = %v, want flattened synonyms", got)
	}
}

func TestValues_MissingReference(t *testing.T) {
	doc := Document{"_id": "x", "category": map[string]any{"_ref": "missing"}}
	got := Values(doc, MustPath("category->title"), resolverFor(fixtureDocs()))

	if len(got) != 0 {
		t.Errorf("Values = %v, want empty for dangling reference", got)
	}
}

func TestProject(t *testing.T) {
	docs := fixtureDocs()
	r := resolverFor(docs)
	acme := docs["acme"]

	if got := Project(acme, MustPath("category->title"), r); got != "CRM" {
		t.Errorf("category->title = %v, want CRM", got)
	}
	if got := Project(acme, MustPath("category._ref"), r); got != "cat-crm" {
		t.Errorf("category._ref = %v, want cat-crm", got)
	}
	if got, ok := Project(acme, MustPath("features"), r).([]any); !ok || len(got) != 1 {
		t.Errorf("features = %v, want raw array", got)
	}
	if got, ok := Project(acme, MustPath("badges[]->title"), r).([]any); !ok || len(got) != 0 {
		t.Errorf("badges[]->title = %#v, want empty list", got)
	}
	if got := Project(acme, MustPath("tagline"), r); got != nil {
		t.Errorf("tagline = %v, want nil", got)
	}
}

func TestExprEval(t *testing.T) {
	docs := fixtureDocs()
	r := resolverFor(docs)
	acme := docs["acme"]

	tests := []struct {
		name string
		expr Expr
		want bool
	}{
		{"type", TypeIs("software"), true},
		{"wrong type", TypeIs("service"), false},
		{"eq ignores case", Eq(MustPath("category->key"), "CRM"), true},
		{"contains title", Contains(MustPath("title"), "crm"), true},
		{"contains synonym", Contains(MustPath("features[].feature->synonyms"), "sign-on"), true},
		{"prefix", HasPrefix(MustPath("title"), "acm"), true},
		{"prefix mid-word", HasPrefix(MustPath("title"), "crm"), false},
		{"id in", IDIn("other", "acme"), true},
		{"and", And(TypeIs("software"), Contains(MustPath("title"), "suite")), true},
		{"and short circuits", And(TypeIs("software"), Contains(MustPath("title"), "zzz")), false},
		{"or", Or(Contains(MustPath("title"), "zzz"), Contains(MustPath("slug"), "acme")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.expr.Eval(acme, r); got != tt.want {
				t.Errorf("%s.Eval() = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestAndOrFlatten(t *testing.T) {
	e := And(TypeIs("a"), nil, And(TypeIs("b"), TypeIs("c")))
	and, ok := e.(*AndExpr)
	if !ok || len(and.Exprs) != 3 {
		t.Fatalf("And did not flatten: %s", e)
	}
	if single := Or(nil, TypeIs("a")); single.String() != `_type == "a"` {
		t.Errorf("Or with one operand = %s", single)
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("  Acme,  CRM!  (sync) c++ ")
	want := []string{"acme", "crm", "sync", "c++"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
	if len(Tokenize("   ")) != 0 {
		t.Error("Tokenize of blank query should be empty")
	}
}

func TestFiltersActive(t *testing.T) {
	f := Filters{"category": "all", "type": "", "brokerType": "Direct", "author": " ALL "}
	active := f.Active()

	if len(active) != 1 || active["brokerType"] != "Direct" {
		t.Errorf("Active = %v, want only brokerType", active)
	}
	if f.Key() != "brokerType=direct" {
		t.Errorf("Key = %q", f.Key())
	}
}

func TestBuild_TermsAreANDedFieldsAreORed(t *testing.T) {
	docs := fixtureDocs()
	r := resolverFor(docs)

	q, err := Build(softwareEntity, Groups([]string{"acme", "sign-on"}), nil, 10)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if !q.Filter.Eval(docs["acme"], r) {
		t.Errorf("query %s should match acme (title + synonym)", q)
	}

	q, _ = Build(softwareEntity, Groups([]string{"acme", "payroll"}), nil, 10)
	if q.Filter.Eval(docs["acme"], r) {
		t.Errorf("query %s should not match when one term matches nothing", q)
	}
}

func TestBuild_CategoryFilterMatchesKeyOrTitle(t *testing.T) {
	docs := fixtureDocs()
	r := resolverFor(docs)

	for _, v := range []string{"crm", "CRM"} {
		q, err := Build(softwareEntity, nil, Filters{"category": v}, 10)
		if err != nil {
			t.Fatalf("Build error: %v", err)
		}
		if !q.Filter.Eval(docs["acme"], r) {
			t.Errorf("category=%s should match acme", v)
		}
	}

	q, _ := Build(softwareEntity, nil, Filters{"category": "hr"}, 10)
	if q.Filter.Eval(docs["acme"], r) {
		t.Error("category=hr should not match acme")
	}
}

func TestBuild_UnsupportedFilter(t *testing.T) {
	_, err := Build(softwareEntity, nil, Filters{"brokerType": "direct"}, 10)

	var unsupported *UnsupportedFilterError
	if !errors.As(err, &unsupported) || unsupported.Filter != "brokerType" {
		t.Errorf("Build error = %v, want UnsupportedFilterError for brokerType", err)
	}
}

func TestTranslate(t *testing.T) {
	queries, skipped := Translate(
		[]string{TypeSoftware, TypeService, "unknown"},
		nil,
		Filters{"brokerType": "direct"},
		50,
	)

	if len(queries) != 1 || queries[0].Type != TypeService {
		t.Fatalf("queries = %v, want only service", queries)
	}
	if len(skipped) != 2 || !errors.Is(skipped["unknown"], ErrUnknownEntity) {
		t.Errorf("skipped = %v", skipped)
	}
}

func TestQueryString(t *testing.T) {
	q := Query{
		Type:       TypeSoftware,
		Filter:     And(TypeIs("software"), Contains(MustPath("category->title"), "crm")),
		Projection: fields("title", "title"),
		Limit:      5,
	}

	want := `*[(_type == "software" && category->title match "*crm*")]{"title": title}[0..4]`
	if q.String() != want {
		t.Errorf("String() = %s\nwant      %s", q.String(), want)
	}
}

func TestEntityProjectionsHaveAtMostOneArrayStep(t *testing.T) {
	for name, e := range entities {
		for _, f := range e.Projection {
			if f.Path.ArraySteps() > 1 {
				t.Errorf("%s projection %s has %d array steps", name, f.Name, f.Path.ArraySteps())
			}
		}
	}
}
