package prompt_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/valpere/promptadapt/internal/culture"
	"github.com/valpere/promptadapt/internal/prompt"
)

func TestTemplate_Render(t *testing.T) {
	tpl := prompt.Template{
		ID:      "t1",
		Domain:  culture.Business,
		Content: "Send {what} to {who} by {when}.",
		Placeholders: map[string]string{
			"what": "the report",
			"who":  "the team",
		},
	}

	tests := []struct {
		name   string
		values map[string]string
		want   string
	}{
		{
			name: "defaults only",
			want: "Send the report to the team by {when}.",
		},
		{
			name:   "override beats default",
			values: map[string]string{"what": "the invoice"},
			want:   "Send the invoice to the team by {when}.",
		},
		{
			name:   "undeclared placeholder filled from values",
			values: map[string]string{"when": "Friday"},
			want:   "Send the report to the team by Friday.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tpl.Render(tt.values); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTemplate_Validate(t *testing.T) {
	valid := prompt.Template{ID: "t1", Domain: culture.Business, Content: "x"}
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		tpl  prompt.Template
	}{
		{"missing id", prompt.Template{Domain: culture.Business, Content: "x"}},
		{"empty content", prompt.Template{ID: "t1", Domain: culture.Business, Content: "  "}},
		{"unknown domain", prompt.Template{ID: "t1", Domain: "marketing", Content: "x"}},
		{"unknown formality", prompt.Template{ID: "t1", Domain: culture.Business, Content: "x", DefaultFormality: "polite"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.tpl.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestVariant_Key(t *testing.T) {
	v := prompt.Variant{TemplateID: "business_email", Language: "de", Formality: culture.Formal}
	if got, want := v.Key(), "business_email_de_formal"; got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
}

func TestParseCatalog(t *testing.T) {
	data := []byte(`
prompts:
  - id: a
    domain: business
    content: "Do {thing}."
    placeholders:
      thing: "something"
  - id: b
    domain: technical
    default_formality: neutral
    content: "Explain it."
`)
	c, err := prompt.ParseCatalog(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := []string{"a", "b"}; !reflect.DeepEqual(c.IDs(), want) {
		t.Errorf("expected IDs %v, got %v", want, c.IDs())
	}

	tpl, err := c.Get("a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tpl.Render(nil); got != "Do something." {
		t.Errorf("Render() = %q", got)
	}
}

func TestParseCatalog_DuplicateID(t *testing.T) {
	data := []byte(`
prompts:
  - id: a
    domain: business
    content: "x"
  - id: a
    domain: business
    content: "y"
`)
	if _, err := prompt.ParseCatalog(data); err == nil {
		t.Fatal("expected error for duplicate template id")
	}
}

func TestParseCatalog_Empty(t *testing.T) {
	if _, err := prompt.ParseCatalog([]byte("prompts: []")); err == nil {
		t.Fatal("expected error for empty catalog")
	}
}

func TestCatalog_GetUnknown(t *testing.T) {
	data := []byte(`
prompts:
  - id: a
    domain: business
    content: "x"
`)
	c, err := prompt.ParseCatalog(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.Get("nope")
	if err == nil {
		t.Fatal("expected error for unknown template")
	}
	if !strings.Contains(err.Error(), "a") {
		t.Errorf("error should list known IDs, got: %v", err)
	}
}
