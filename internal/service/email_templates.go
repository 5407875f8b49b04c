package service

import (
	"html"
	"regexp"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// RenderTemplate подставляет значения вместо {{name}}. Значения экранируются как HTML,
// неизвестные плейсхолдеры заменяются пустой строкой.
func RenderTemplate(tpl string, vars map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(tpl, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		return html.EscapeString(vars[name])
	})
}

// EmailTemplate - тема и HTML-тело письма
type EmailTemplate struct {
	Name    string
	Subject string
	HTML    string
}

// Имена шаблонов (используются в метриках и ключах идемпотентности)
const (
	TemplateBookingNotification = "booking_notification"
	TemplateBookingConfirmation = "booking_confirmation"
	TemplateContactNotification = "contact_notification"
	TemplateContactReply        = "contact_reply"
	TemplateWelcome             = "welcome"
)

const (
	layoutHeader = `<div style="font-family:Georgia,serif;max-width:600px;margin:0 auto;color:#1f2933">` +
		`<h1 style="font-size:22px;font-weight:normal">Continuum Clinic</h1>`
	layoutFooter = `<p style="font-size:12px;color:#7b8794"><a href="{{site_url}}">{{site_url}}</a></p></div>`
)

var emailTemplates = map[string]EmailTemplate{
	TemplateBookingNotification: {
		Name:    TemplateBookingNotification,
		Subject: "New appointment request: {{pet_name}} ({{service}})",
		HTML: layoutHeader +
			`<p>A new appointment request was submitted.</p><table>` +
			`<tr><td>Owner</td><td>{{name}}</td></tr>` +
			`<tr><td>Email</td><td>{{email}}</td></tr>` +
			`<tr><td>Phone</td><td>{{phone}}</td></tr>` +
			`<tr><td>Pet</td><td>{{pet_name}} ({{pet_species}})</td></tr>` +
			`<tr><td>Service</td><td>{{service}}</td></tr>` +
			`<tr><td>Preferred</td><td>{{preferred_date}} {{preferred_time}}</td></tr>` +
			`<tr><td>Locale</td><td>{{locale}}</td></tr>` +
			`</table><p>{{message}}</p>` +
			`<p><a href="{{site_url}}/en/admin/appointments/{{appointment_id}}">Open in admin</a></p>` +
			layoutFooter,
	},
	TemplateBookingConfirmation: {
		Name:    TemplateBookingConfirmation,
		Subject: "We received your request for {{pet_name}}",
		HTML: layoutHeader +
			`<p>Dear {{name}},</p>` +
			`<p>Thank you for requesting a {{service}} appointment for {{pet_name}} on {{preferred_date}}.` +
			` Our team will contact you within one business day to confirm the time.</p>` +
			`<p>Reference: {{appointment_id}}</p>` +
			layoutFooter,
	},
	TemplateContactNotification: {
		Name:    TemplateContactNotification,
		Subject: "Contact form: {{subject}}",
		HTML: layoutHeader +
			`<p>{{name}} ({{email}}, {{phone}}) wrote:</p>` +
			`<blockquote>{{message}}</blockquote>` +
			`<p><a href="{{site_url}}/en/admin/contacts/{{contact_id}}">Reply from admin</a></p>` +
			layoutFooter,
	},
	TemplateContactReply: {
		Name:    TemplateContactReply,
		Subject: "Re: {{subject}}",
		HTML: layoutHeader +
			`<p>Dear {{name}},</p><p>{{reply}}</p>` +
			`<hr><p style="color:#7b8794">Your message:</p><blockquote>{{message}}</blockquote>` +
			layoutFooter,
	},
	TemplateWelcome: {
		Name:    TemplateWelcome,
		Subject: "Welcome to the Continuum Clinic client portal",
		HTML: layoutHeader +
			`<p>Dear {{first_name}},</p>` +
			`<p>Your client portal account is ready. Sign in at ` +
			`<a href="{{site_url}}/{{locale}}/portal/login">{{site_url}}/{{locale}}/portal/login</a>.</p>` +
			`<p>Email: {{email}}<br>Temporary password: {{password}}</p>` +
			`<p>Please change your password after the first sign-in.</p>` +
			layoutFooter,
	},
}

// Template возвращает шаблон по имени
func Template(name string) (EmailTemplate, bool) {
	tpl, ok := emailTemplates[name]
	return tpl, ok
}
