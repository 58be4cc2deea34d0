package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"strconv"
	"text/template"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nodeflow/engine/pkg/graph"
)

// literalPrinter is pinned to a fixed language so that formatting
// numeric literals for generated source never depends on the host
// process's ambient locale — the same input graph must produce
// byte-identical generated source on every machine.
var literalPrinter = message.NewPrinter(language.AmericanEnglish)

// formatFloatLiteral renders v as a Go floating-point literal.
// strconv guarantees a syntactically valid, round-trippable literal;
// literalPrinter additionally renders a locale-pinned decimal form
// used only in the accompanying source comment, so a reviewer reading
// generated code sees the same numeral on any machine regardless of
// host locale, without risking a thousands separator corrupting the
// literal itself.
func formatFloatLiteral(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatFloatDisplay(v float64) string {
	return literalPrinter.Sprintf("%v", v)
}

var tmpl = template.Must(template.New("generated").Funcs(template.FuncMap{
	"coerceFuncFor": coerceFunc,
}).Parse(sourceTemplate))

// Generate translates g into standalone Go source implementing the
// same init/reset/set_input/tick/step/get_output contract as
// pkg/engine for that one loaded graph. packageName is used verbatim
// as the generated file's package clause.
func Generate(g *graph.Graph, packageName string) ([]byte, error) {
	if packageName == "" {
		packageName = "generated"
	}

	m, err := buildModule(g, packageName)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, m); err != nil {
		return nil, fmt.Errorf("codegen: template execution failed: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %v\n--- unformatted source ---\n%s", ErrFormat, err, buf.String())
	}

	return formatted, nil
}
