// Package report renders adaptation results and their scores as Markdown
// or HTML for the evaluate command.
package report

import (
	"fmt"
	htmltemplate "html/template"
	"io"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/valpere/promptadapt/internal/metrics"
	"github.com/valpere/promptadapt/internal/prompt"
)

// Result pairs one adapted variant with its score reports.
type Result struct {
	Variant prompt.Variant
	Quant   *metrics.QuantReport
	Qual    *metrics.QualReport
}

// Data is everything one report needs.
type Data struct {
	Title       string
	Experiment  string
	Template    prompt.Template
	Results     []Result
	GeneratedAt time.Time
}

var funcs = map[string]any{
	"join": func(ss []string, sep string) string { return strings.Join(ss, sep) },
	"pct":  func(f float64) string { return fmt.Sprintf("%.1f%%", f*100) },
	"f2":   func(f float64) string { return fmt.Sprintf("%.2f", f) },
}

const markdownTemplate = `# {{.Title}}
{{if .Experiment}}
Experiment: {{.Experiment}}
{{end}}
Template: **{{.Template.ID}}** ({{.Template.Domain}})
Generated: {{.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}

{{range .Results}}## {{.Variant.Language}} / {{.Variant.Formality}}

` + "```" + `
{{.Variant.Content}}
` + "```" + `

Refined: {{.Variant.Refined}}

Adaptation notes:
{{range .Variant.Notes}}- {{.}}
{{end}}
{{if .Quant}}| Metric | Value |
|---|---|
| Tokens | {{.Quant.TokenCount}} |
| Words | {{.Quant.WordCount}} |
| Sentences | {{.Quant.SentenceCount}} |
| Lexical diversity | {{f2 .Quant.LexicalDiversity}} |
| Avg sentence length | {{f2 .Quant.AvgSentenceLength}} |
| Greeting / closing | {{.Quant.HasGreeting}} / {{.Quant.HasClosing}} |
| Register match | {{.Quant.RegisterMatch}} |
{{end}}
{{if .Qual}}Cultural appropriateness: **{{f2 .Qual.Score}} / 5.00** ({{.Qual.Rating}})

{{range .Qual.Rationale}}- {{.}}
{{end}}
{{end}}
{{end}}`

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 960px; margin: 2em auto; color: #222; }
pre { background: #f6f6f6; padding: 1em; border-radius: 4px; white-space: pre-wrap; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: 0.3em 0.8em; text-align: left; }
.score { font-size: 1.2em; font-weight: bold; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .Experiment}}<p>Experiment: {{.Experiment}}</p>{{end}}
<p>Template: <strong>{{.Template.ID}}</strong> ({{.Template.Domain}})<br>
Generated: {{.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}</p>
{{range .Results}}
<h2>{{.Variant.Language}} / {{.Variant.Formality}}</h2>
<pre>{{.Variant.Content}}</pre>
<p>Refined: {{.Variant.Refined}}</p>
<ul>
{{range .Variant.Notes}}<li>{{.}}</li>
{{end}}</ul>
{{if .Quant}}<table>
<tr><th>Metric</th><th>Value</th></tr>
<tr><td>Tokens</td><td>{{.Quant.TokenCount}}</td></tr>
<tr><td>Words</td><td>{{.Quant.WordCount}}</td></tr>
<tr><td>Sentences</td><td>{{.Quant.SentenceCount}}</td></tr>
<tr><td>Lexical diversity</td><td>{{f2 .Quant.LexicalDiversity}}</td></tr>
<tr><td>Avg sentence length</td><td>{{f2 .Quant.AvgSentenceLength}}</td></tr>
<tr><td>Greeting / closing</td><td>{{.Quant.HasGreeting}} / {{.Quant.HasClosing}}</td></tr>
<tr><td>Register match</td><td>{{.Quant.RegisterMatch}}</td></tr>
</table>{{end}}
{{if .Qual}}<p class="score">Cultural appropriateness: {{f2 .Qual.Score}} / 5.00 ({{.Qual.Rating}})</p>
<ul>
{{range .Qual.Rationale}}<li>{{.}}</li>
{{end}}</ul>{{end}}
{{end}}
</body>
</html>`

var (
	mdTmpl   = texttemplate.Must(texttemplate.New("markdown").Funcs(funcs).Parse(markdownTemplate))
	htmlTmpl = htmltemplate.Must(htmltemplate.New("html").Funcs(funcs).Parse(htmlTemplate))
)

// Markdown writes the report as Markdown.
func Markdown(w io.Writer, d Data) error {
	if d.Title == "" {
		d.Title = "Adaptation Report"
	}
	return mdTmpl.Execute(w, d)
}

// HTML writes the report as a standalone HTML page.
func HTML(w io.Writer, d Data) error {
	if d.Title == "" {
		d.Title = "Adaptation Report"
	}
	return htmlTmpl.Execute(w, d)
}
