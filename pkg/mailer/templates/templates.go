package templates

import (
	"bytes"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	"reflect"
	"strings"
	texttpl "text/template"
	"time"
)

type EmailType string

// EmailData defines standard fields for email templates.
type EmailData struct {
	// Basic info
	Name           string `json:"Name"`
	Email          string `json:"Email"`
	RecipientEmail string `json:"RecipientEmail"`
	Type           string `json:"Type"`

	// Company info
	CompanyName string `json:"CompanyName"`
	AppName     string `json:"AppName"`

	// URLs
	LogoURL        string `json:"LogoURL"`
	SupportURL     string `json:"SupportURL"`
	UnsubscribeURL string `json:"UnsubscribeURL"`
	DashboardURL   string `json:"DashboardURL"`

	// Companion state
	PetName   string `json:"PetName"`
	Mood      string `json:"Mood"`
	Happiness int    `json:"Happiness"`
	Hunger    int    `json:"Hunger"`
	Affection int    `json:"Affection"`
}

// ToMap converts EmailData to a map[string]any for EmailJob.Data
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	switch x := value.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return fallback
		}
		return x
	case nil:
		return fallback
	default:
		rv := reflect.ValueOf(value)
		if !rv.IsValid() {
			return fallback
		}
		zero := reflect.Zero(rv.Type()).Interface()
		if reflect.DeepEqual(value, zero) {
			return fallback
		}
		return value
	}
}

func baseFuncs() map[string]any {
	return map[string]any{
		"now":        func() time.Time { return time.Now().UTC() },
		"formatTime": func(t time.Time, layout string) string { return t.Format(layout) },
		"upper":      strings.ToUpper,
		"default":    defaultFn,
	}
}

var (
	htmlFuncMap = htmpl.FuncMap(baseFuncs())
	textFuncMap = texttpl.FuncMap(baseFuncs())
)

// ---- Template names ----

const (
	CareReminder = "care_reminder"
)

// sources holds subject/text/html template text per template name.
var sources = map[string]struct {
	subject string
	text    string
	html    string
}{
	CareReminder: {
		subject: careReminderSubject,
		text:    careReminderText,
		html:    careReminderHTML,
	},
}

const careReminderSubject = `{{ .PetName | default "Your companion" }} misses you!`

const careReminderText = `Hi {{ .Name | default "friend" }},

{{ .PetName }} is feeling {{ .Mood | default "lonely" }} and could use some attention.

  Happiness: {{ .Happiness }}/100
  Hunger:    {{ .Hunger }}/100
  Affection: {{ .Affection }}/100

Drop by and give {{ .PetName }} a meal or a pet: {{ .DashboardURL }}

{{ .CompanyName | default "Soul Pet AI" }}
{{ if .UnsubscribeURL }}Unsubscribe: {{ .UnsubscribeURL }}{{ end }}`

const careReminderHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background: #faf7ff; margin: 0; padding: 24px;">
  <div style="max-width: 480px; margin: 0 auto; background: #ffffff; border-radius: 12px; padding: 32px;">
    {{ if .LogoURL }}<img src="{{ .LogoURL }}" alt="{{ .CompanyName }}" style="height: 40px; margin-bottom: 16px;">{{ end }}
    <h2 style="color: #6b46c1; margin-top: 0;">{{ .PetName | default "Your companion" }} misses you!</h2>
    <p>Hi {{ .Name | default "friend" }},</p>
    <p><strong>{{ .PetName }}</strong> is feeling <strong>{{ .Mood | default "lonely" }}</strong> and could use some attention.</p>
    <table style="width: 100%; border-collapse: collapse; margin: 16px 0;">
      <tr><td style="padding: 4px 0;">Happiness</td><td align="right">{{ .Happiness }}/100</td></tr>
      <tr><td style="padding: 4px 0;">Hunger</td><td align="right">{{ .Hunger }}/100</td></tr>
      <tr><td style="padding: 4px 0;">Affection</td><td align="right">{{ .Affection }}/100</td></tr>
    </table>
    <p style="text-align: center; margin: 24px 0;">
      <a href="{{ .DashboardURL }}" style="background: #6b46c1; color: #ffffff; padding: 12px 28px; border-radius: 8px; text-decoration: none;">Visit {{ .PetName }}</a>
    </p>
    <p style="color: #888; font-size: 12px;">
      {{ .CompanyName | default "Soul Pet AI" }}
      {{ if .SupportURL }} &middot; <a href="{{ .SupportURL }}" style="color: #888;">Support</a>{{ end }}
      {{ if .UnsubscribeURL }} &middot; <a href="{{ .UnsubscribeURL }}" style="color: #888;">Unsubscribe</a>{{ end }}
    </p>
  </div>
</body>
</html>`

// renderSource renders template text with the shared func maps.
// isHTML indicates whether to use html/template (true) or text/template (false).
func renderSource(name, src string, isHTML bool, data any) (string, error) {
	var (
		buf bytes.Buffer
		err error
	)

	if isHTML {
		tpl, e := htmpl.New(name).Funcs(htmlFuncMap).Parse(src)
		if e != nil {
			return "", fmt.Errorf("parse html %q: %w", name, e)
		}
		err = tpl.Execute(&buf, data)
	} else {
		tpl, e := texttpl.New(name).Funcs(textFuncMap).Parse(src)
		if e != nil {
			return "", fmt.Errorf("parse text %q: %w", name, e)
		}
		err = tpl.Execute(&buf, data)
	}
	if err != nil {
		return "", fmt.Errorf("exec %q: %w", name, err)
	}
	return buf.String(), nil
}

// Render renders subject, text, and html for the given template name.
func Render(name string, data any) (subject string, text string, html string, err error) {
	src, ok := sources[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown template %q", name)
	}
	subject, err = renderSource(name+".subject", src.subject, false, data)
	if err != nil {
		return "", "", "", err
	}
	text, err = renderSource(name+".text", src.text, false, data)
	if err != nil {
		return "", "", "", err
	}
	html, err = renderSource(name+".html", src.html, true, data)
	if err != nil {
		return "", "", "", err
	}
	return subject, text, html, nil
}
