package tool

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed descriptions/*.tmpl
var descriptionFS embed.FS

var descriptions = template.Must(template.New("descriptions").ParseFS(descriptionFS, "descriptions/*.tmpl"))

// descriptionData is the value templates execute against.
type descriptionData struct {
	Args
	Method   string
	Backend  string
	Viewport string
	Server   string
}

// render executes the template named after the tool.
func render(name Name, data descriptionData) (string, error) {
	var sb strings.Builder
	if err := descriptions.ExecuteTemplate(&sb, string(name)+".tmpl", data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return strings.TrimSpace(sb.String()), nil
}

// templateDescriber renders tools whose description only depends on Args.
type templateDescriber struct {
	name Name
}

func (d templateDescriber) Describe(args Args) (string, error) {
	return render(d.name, descriptionData{Args: args})
}
