package report

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/fjglira/xraysync/internal/domain"
)

// DefaultTemplate is the name of the built-in summary template.
const DefaultTemplate = "summary"

//go:embed templates/*.tmpl
var builtin embed.FS

// Engine renders grouping summaries.
type Engine interface {
	Markdown(data Data) (string, error)
	HTML(data Data) ([]byte, error)
	ListTemplates() []string
}

// Data is the struct passed to templates.
type Data struct {
	Title         string
	ProjectKey    string
	FeatureNumber string
	Grouping      domain.GroupingMode
	Tests         []domain.Test
	Diagnostics   []domain.Diagnostic
}

// Folder is a repository folder and the tests filed under it.
type Folder struct {
	Name  string
	Tests []domain.Test
}

// Folders groups the tests by repository folder in first-seen order.
func (d Data) Folders() []Folder {
	var folders []Folder
	index := make(map[string]int)
	for _, t := range d.Tests {
		i, ok := index[t.RepositoryFolder]
		if !ok {
			i = len(folders)
			index[t.RepositoryFolder] = i
			folders = append(folders, Folder{Name: t.RepositoryFolder})
		}
		folders[i].Tests = append(folders[i].Tests, t)
	}
	return folders
}

// StepCount returns the number of steps over all tests.
func (d Data) StepCount() int {
	n := 0
	for _, t := range d.Tests {
		n += len(t.Steps)
	}
	return n
}

// DefaultEngine implements Engine with text/template and goldmark.
type DefaultEngine struct {
	templates   map[string]*template.Template
	defaultName string
	markdown    goldmark.Markdown
}

// NewEngine loads the built-in templates, then any .tmpl file in
// templateDir, which may replace a built-in one of the same name.
func NewEngine(templateDir, defaultTemplate string) (*DefaultEngine, error) {
	if defaultTemplate == "" {
		defaultTemplate = DefaultTemplate
	}
	e := &DefaultEngine{
		templates:   make(map[string]*template.Template),
		defaultName: defaultTemplate,
		markdown:    goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}

	entries, err := builtin.ReadDir("templates")
	if err != nil {
		return nil, domain.NewError("report", "templates", 0, "failed to read built-in templates", err)
	}
	for _, entry := range entries {
		content, err := builtin.ReadFile("templates/" + entry.Name())
		if err != nil {
			return nil, domain.NewError("report", entry.Name(), 0, "failed to read built-in template", err)
		}
		if err := e.add(entry.Name(), content); err != nil {
			return nil, err
		}
	}

	if templateDir != "" {
		if err := e.loadDir(templateDir); err != nil {
			return nil, err
		}
	}

	if _, ok := e.templates[e.defaultName]; !ok {
		return nil, domain.NewError("report", templateDir, 0,
			fmt.Sprintf("template %q not found (available: %s)", e.defaultName, strings.Join(e.ListTemplates(), ", ")), nil)
	}
	return e, nil
}

func (e *DefaultEngine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return domain.NewError("report", dir, 0, "failed to read template directory", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tmpl") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return domain.NewError("report", path, 0, "failed to read template file", err)
		}
		if err := e.add(entry.Name(), content); err != nil {
			return err
		}
	}
	return nil
}

func (e *DefaultEngine) add(fileName string, content []byte) error {
	name := strings.TrimSuffix(fileName, ".tmpl")
	tmpl, err := template.New(name).Funcs(CustomFuncMap()).Parse(string(content))
	if err != nil {
		return domain.NewError("report", fileName, 0, "failed to parse template", err)
	}
	e.templates[name] = tmpl
	return nil
}

// Markdown renders data with the default template.
func (e *DefaultEngine) Markdown(data Data) (string, error) {
	var buf bytes.Buffer
	if err := e.templates[e.defaultName].Execute(&buf, data); err != nil {
		return "", domain.NewError("report", data.Title, 0, "failed to execute template", err)
	}
	return buf.String(), nil
}

// HTML renders data to Markdown and converts it into a standalone page.
func (e *DefaultEngine) HTML(data Data) ([]byte, error) {
	md, err := e.Markdown(data)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	if err := e.markdown.Convert([]byte(md), &body); err != nil {
		return nil, domain.NewError("report", data.Title, 0, "failed to convert Markdown", err)
	}

	var page bytes.Buffer
	fmt.Fprintf(&page, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n",
		html.EscapeString(data.Title))
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

// ListTemplates returns the names of all loaded templates, sorted.
func (e *DefaultEngine) ListTemplates() []string {
	names := make([]string, 0, len(e.templates))
	for name := range e.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
