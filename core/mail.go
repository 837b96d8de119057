package core

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"net/mail"
	"path"
	"regexp"
	"strings"
	"sync"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

var (
	templates   = make(map[string]*texttmpl.Template) // {name: *Template}
	templatesMu sync.RWMutex

	htmlBreakRegex = regexp.MustCompile(`(?i)<br\s*/?>`)
	htmlTagRegex   = regexp.MustCompile(`<[^>]*>`)
)

type (
	EmailMessage struct {
		To      []mail.Address
		Subject string
		BodyStr string // simple text/plain, non-templated content

		// templated contents
		TemplateName string // without ext
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// Send renders and delivers msg synchronously.
		Send(ctx context.Context, msg *EmailMessage) error
	}
)

// NewHTMLMessage builds a message from an HTML fragment body (using <br> line breaks).
func NewHTMLMessage(to mail.Address, subject, body string) *EmailMessage {
	return &EmailMessage{
		To:          []mail.Address{to},
		Subject:     subject,
		HTMLContent: body,
		TextContent: HTMLToPlainText(body),
	}
}

// HTMLToPlainText turns <br> into newlines and drops any other tag.
func HTMLToPlainText(body string) string {
	s := htmlBreakRegex.ReplaceAllString(body, "")
	s = htmlTagRegex.ReplaceAllString(s, "")
	return strings.ReplaceAll(s, "&emsp;", "\t")
}

func (m *EmailMessage) Render() error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
		return nil
	}
	if m.TemplateName == "" {
		return nil
	}
	out, err := RenderTemplate(m.TemplateName, m.TemplateData)
	if err != nil {
		return err
	}
	m.HTMLContent = out
	m.TextContent = HTMLToPlainText(out)
	return nil
}

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return (m.TextContent != "") || (m.HTMLContent != "") }

// ParseEmailTemplates loads every "*.txt" template under dir of fsys.
// Files starting with "_" are partials and are shared by all templates.
func ParseEmailTemplates(fsys fs.FS, dir string, strict bool) error {
	fps, err := fs.Glob(fsys, path.Join(dir, "*.txt"))
	if err != nil {
		return errors.Wrap(err, "globbing email templates")
	}

	var partials []string
	var pages []string
	for _, fp := range fps {
		if strings.HasPrefix(path.Base(fp), "_") {
			partials = append(partials, fp)
		} else {
			pages = append(pages, fp)
		}
	}

	templatesMu.Lock()
	defer templatesMu.Unlock()
	for _, fp := range pages {
		name := strings.TrimSuffix(path.Base(fp), ".txt")
		tmpl, err := texttmpl.New(path.Base(fp)).ParseFS(fsys, append([]string{fp}, partials...)...)
		if err != nil {
			return errors.Wrapf(err, "parsing email template %s", fp)
		}
		if strict {
			tmpl = tmpl.Option("missingkey=error")
		}
		templates[name] = tmpl
	}
	return nil
}

// RenderTemplate executes the named email template; the trailing newline of the file is dropped.
func RenderTemplate(name string, data interface{}) (string, error) {
	templatesMu.RLock()
	tmpl, ok := templates[name]
	templatesMu.RUnlock()
	if !ok {
		return "", fmt.Errorf("email template %q not found", name)
	}

	var buff bytes.Buffer
	if err := tmpl.Execute(&buff, data); err != nil {
		return "", errors.Wrapf(err, "executing email template %s", name)
	}
	return strings.TrimSuffix(buff.String(), "\n"), nil
}
