package mailer

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"text/template"
)

const (
	FromName                  = "Store Admin"
	maxRetries                = 3
	OrderConfirmationTemplate = "order_confirmation.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, name, email string, data any) error
}

// OrderConfirmation is the data of OrderConfirmationTemplate.
type OrderConfirmation struct {
	Name       string
	Code       string
	Currency   string
	Address    string
	Items      []OrderLine
	TotalCents int64
}

type OrderLine struct {
	ProductName     string
	Options         string
	Quantity        int
	TotalPriceCents int64
}

// Rendered is one template expanded into the parts of a message.
type Rendered struct {
	Subject   string
	PlainBody string
	HTMLBody  string
}

var funcs = map[string]any{
	"money": Money,
	"upper": strings.ToUpper,
}

// Money formats cents as a decimal amount, e.g. 4999 -> "49.99".
func Money(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// Render expands the subject, plainBody and htmlBody blocks of templateFile.
func Render(templateFile string, data any) (*Rendered, error) {
	path := "templates/" + templateFile

	tmpl, err := template.New("email").Funcs(funcs).ParseFS(FS, path)
	if err != nil {
		return nil, err
	}

	subject := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(subject, "subject", data); err != nil {
		return nil, err
	}
	plain := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(plain, "plainBody", data); err != nil {
		return nil, err
	}

	htmlTmpl, err := htmltemplate.New("email").Funcs(funcs).ParseFS(FS, path)
	if err != nil {
		return nil, err
	}
	html := new(bytes.Buffer)
	if err := htmlTmpl.ExecuteTemplate(html, "htmlBody", data); err != nil {
		return nil, err
	}

	return &Rendered{
		Subject:   strings.TrimSpace(subject.String()),
		PlainBody: plain.String(),
		HTMLBody:  html.String(),
	}, nil
}
