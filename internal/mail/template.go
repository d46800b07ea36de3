// Package mail renders and delivers transactional emails.
package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/appboilerplate/taskmanager/web"
)

// Renderer executes the embedded email templates.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses every template under web/templates/emails.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(web.Emails, "templates/emails/*.html")
	if err != nil {
		return nil, fmt.Errorf("mail: parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render executes the named template with data.
func (r *Renderer) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("mail: render %s: %w", name, err)
	}
	return buf.String(), nil
}

// Welcome is the data of the signup welcome email.
type Welcome struct {
	Name  string
	Email string
	Globals
}

// Globals are the product-wide values every email may reference.
type Globals struct {
	ProductName    string
	LoginURL       string
	SupportEmail   string
	SenderName     string
	CompanyName    string
	CompanyAddress string
}
