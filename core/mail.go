package core

import (
	"bytes"
	"net/mail"
	"sync"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

var (
	tmplMu    sync.RWMutex
	templates = make(map[string]*texttmpl.Template)
)

// RegisterEmailTemplate parses and registers a named text email template.
// Packages register their templates at init time; Render looks them up by name.
func RegisterEmailTemplate(name, body string) {
	tmplMu.Lock()
	defer tmplMu.Unlock()
	templates[name] = texttmpl.Must(texttmpl.New(name).Parse(body))
}

type (
	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Bcc     []mail.Address
		Subject string
		BodyStr string // simple text/plain, non-templated content

		// templated contents
		TemplateName string
		TemplateData interface{}
		TextContent  string
	}

	// ContextData wraps template data with app-wide context.
	ContextData struct {
		FrontendBaseURL string
		AppName         string
		Data            interface{}
	}

	// EmailService is any service that can send emails.
	// Implementations send asynchronously and report failures to their logger.
	EmailService interface {
		SendMessages(messages ...*EmailMessage)
	}
)

// Render resolves the message's template (if any) into TextContent.
func (m *EmailMessage) Render() error {
	if m.TemplateName == "" {
		return nil
	}
	tmplMu.RLock()
	tmpl, ok := templates[m.TemplateName]
	tmplMu.RUnlock()
	if !ok {
		return errors.Errorf("email template %q not registered", m.TemplateName)
	}

	var buf bytes.Buffer
	data := ContextData{
		FrontendBaseURL: Conf.FrontendBaseURL,
		AppName:         Conf.AppName,
		Data:            m.TemplateData,
	}
	if err := tmpl.Execute(&buf, data); err != nil {
		return errors.Wrapf(err, "executing email template %q", m.TemplateName)
	}
	m.TextContent = buf.String()
	return nil
}

func (m *EmailMessage) HasRecipients() bool {
	return len(m.To) > 0 || len(m.Cc) > 0 || len(m.Bcc) > 0
}

func (m *EmailMessage) HasContent() bool {
	return m.BodyStr != "" || m.TextContent != ""
}

// Body returns the best available content for transports without
// multipart support.
func (m *EmailMessage) Body() string {
	if m.TextContent != "" {
		return m.TextContent
	}
	return m.BodyStr
}
