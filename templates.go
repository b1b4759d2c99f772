package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"github.com/ByLCY/slidegen/deck"
)

// Values is a struct that holds variables we make available for output name
// template expansion
type Values struct {
	Title      string
	FileName   string
	Date       string
	Slides     int
	ID         string
	SourceFile string
}

func expandOutputName(field string, doc *deck.Document, srcPath string) (string, error) {
	tmpl, err := template.New("output_name_template").Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse output name template: %w", err)
	}

	values := Values{
		Title:      doc.Title,
		FileName:   doc.FileName,
		Date:       doc.Created.Format("2006-01-02"),
		Slides:     len(doc.Pages),
		ID:         doc.ID,
		SourceFile: strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath)),
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", fmt.Errorf("unable to expand output name template: %w", err)
	}
	name := strings.TrimSpace(buf.String())
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("output name template produced unusable name %q", name)
	}
	return name, nil
}
