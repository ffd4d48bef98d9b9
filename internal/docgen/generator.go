// Package docgen renders the fixed document templates and stores the
// output as Document records.
package docgen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"text/template"
	"time"

	"nexus/internal/domain"
	"nexus/internal/resource"
)

var ErrUnknownTemplate = errors.New("unknown document template")

type Generator struct {
	docs     *resource.Service[domain.Document]
	profiles *resource.Service[domain.UserProfile]
}

func NewGenerator(docs *resource.Service[domain.Document], profiles *resource.Service[domain.UserProfile]) *Generator {
	return &Generator{docs: docs, profiles: profiles}
}

// Generate renders the named template with the caller's fields layered
// over the owner's profile defaults and persists the result.
func (g *Generator) Generate(ctx context.Context, ownerID, templateID, title string, fields map[string]string) (*domain.Document, error) {
	tpl, ok := registry[templateID]
	if !ok {
		return nil, ErrUnknownTemplate
	}

	data := g.defaults(ctx, ownerID)
	for k, v := range fields {
		data[k] = v
	}

	content, err := render(tpl, data)
	if err != nil {
		return nil, err
	}

	if title == "" {
		title = tpl.Name
		if c := data["CompanyName"]; c != "" {
			title = tpl.Name + " - " + c
		}
	}
	doc := domain.Document{Title: title, Kind: tpl.ID, Content: content}
	return g.docs.Create(ctx, ownerID, &doc)
}

// defaults pulls CompanyName/Industry/TeamSize from the owner's profile;
// a missing profile just yields empty defaults.
func (g *Generator) defaults(ctx context.Context, ownerID string) map[string]string {
	data := map[string]string{
		"Date": time.Now().Format("January 2, 2006"),
	}
	profiles, err := g.profiles.List(ctx, ownerID)
	if err != nil || len(profiles) == 0 {
		return data
	}
	p := profiles[0]
	data["CompanyName"] = p.CompanyName
	data["Industry"] = p.Industry
	data["TeamSize"] = p.TeamSize
	return data
}

func render(tpl Template, data map[string]string) (string, error) {
	t, err := template.New(tpl.ID).Option("missingkey=zero").Parse(tpl.body)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", tpl.ID, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", tpl.ID, err)
	}
	return buf.String(), nil
}
