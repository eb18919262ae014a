package templates

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerFileTemplates()
	registry.registerInterfaceTemplates()
	registry.registerClientTemplates()
	registry.registerServerTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

// Names returns the registered template names
func (tr *TemplateRegistry) Names() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	return names
}

func (tr *TemplateRegistry) registerFileTemplates() {
	tr.templates["header"] = `// Code generated by synapse. DO NOT EDIT.
{{- if .Source}}
// Source: {{.Source}}
{{- end}}

package {{.Package}}
{{if .Imports}}
import (
{{- range .Imports}}
{{- if .}}
	{{.}}
{{- else}}
{{end}}
{{- end}}
)
{{end}}`
}

func (tr *TemplateRegistry) registerInterfaceTemplates() {
	tr.templates["interface"] = `
// {{.Name}} is the contract shared by the generated client and server.
type {{.Name}} interface {
{{- range .Methods}}
	{{.Name}}{{.Signature}}
{{- end}}
}
`
}

func (tr *TemplateRegistry) registerClientTemplates() {
	tr.templates["client"] = `
// {{.Name}} forwards every {{.Interface}} call as a named message over a synapse.Connection.
type {{.Name}} struct {
{{- range .Fields}}
	{{.Name}} {{.Type}}
{{- end}}
}

// {{.Constructor}} returns a new {{.Name}} that sends its calls over connection.
func {{.Constructor}}({{params .Fields}}) *{{.Name}} {
	return &{{.Name}}{
{{- range .Fields}}
		{{.Name}}: {{.Param}},
{{- end}}
	}
}
{{- if .Conforms}}

var _ {{.Interface}} = (*{{.Name}})(nil)
{{- end}}
{{- range .Methods}}

func ({{$.Receiver}} *{{$.Name}}) {{.Name}}{{.Signature}} {
	{{.Body}}
}
{{- end}}
`
}

func (tr *TemplateRegistry) registerServerTemplates() {
	tr.templates["handler"] = `
// {{.Handler}} is implemented by values that serve {{.Interface}} messages.
type {{.Handler}} interface {
{{- range .Methods}}
	{{.Name}}{{.Signature}}
{{- end}}
}
`

	tr.templates["server"] = `
// {{.Name}} is the base of a {{.Interface}} server. Embed it, override its
// methods and pass the embedding value to {{.Register}}. A method that was not
// overridden panics with synapse.NotImplemented when its message arrives.
type {{.Name}} struct {
{{- range .Fields}}
	{{.Name}} {{.Type}}
{{- end}}
}

// {{.Constructor}} returns a new {{.Name}} bound to listener.
func {{.Constructor}}({{params .Fields}}) *{{.Name}} {
	return &{{.Name}}{
{{- range .Fields}}
		{{.Name}}: {{.Param}},
{{- end}}
	}
}

var _ {{.Handler}} = (*{{.Name}})(nil)
{{- range .Methods}}

func ({{$.Receiver}} *{{$.Name}}) {{.Name}}{{.Signature}} {
	{{.Body}}
}
{{- end}}

// {{.Register}} registers every {{.Handler}} method of impl under its message name.
func ({{.Receiver}} *{{.Name}}) {{.Register}}(impl {{.Handler}}) {
{{- range .Registrations}}
	{{$.Receiver}}.{{$.Listener}}.SetMessageHandler({{.Message}}, impl.{{.Method}})
{{- end}}
}
`
}
