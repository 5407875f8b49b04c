package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/metrics"
)

// EmailMessage - готовое к отправке письмо
type EmailMessage struct {
	To             []string
	ReplyTo        string
	Subject        string
	HTML           string
	IdempotencyKey string
}

// EmailService sends transactional emails.
type EmailService interface {
	Send(ctx context.Context, msg *EmailMessage) error
}

// NoopEmailService is used when RESEND_API_KEY is not configured.
type NoopEmailService struct{}

func (s *NoopEmailService) Send(ctx context.Context, msg *EmailMessage) error {
	log.Printf("[EmailService] noop send to=%s subject=%q", strings.Join(msg.To, ","), msg.Subject)
	return nil
}

// ResendEmailService sends emails via Resend REST API. Повторных попыток нет:
// ошибка возвращается вызывающему, который решает, логировать её или вернуть клиенту.
type ResendEmailService struct {
	from   string
	client *resend.Client
}

func NewResendEmailService(apiKey, from string) (*ResendEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	return &ResendEmailService{
		from:   from,
		client: resend.NewClient(apiKey),
	}, nil
}

func (s *ResendEmailService) Send(ctx context.Context, msg *EmailMessage) error {
	if len(msg.To) == 0 || msg.Subject == "" {
		return fmt.Errorf("recipient and subject are required")
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		ReplyTo: msg.ReplyTo,
	}

	options := &resend.SendEmailOptions{}
	if key := strings.TrimSpace(msg.IdempotencyKey); key != "" {
		options.IdempotencyKey = key
	}

	if _, err := s.client.Emails.SendWithOptions(ctx, params, options); err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}
	return nil
}

// Mailer собирает письма клиники из шаблонов
type Mailer struct {
	sender        EmailService
	clinicAddress string
	siteURL       string
	metrics       *metrics.Metrics
}

// NewMailer создает Mailer. clinicAddress - получатель уведомлений (EMAIL_TO).
func NewMailer(sender EmailService, clinicAddress, siteURL string, m *metrics.Metrics) *Mailer {
	return &Mailer{
		sender:        sender,
		clinicAddress: clinicAddress,
		siteURL:       strings.TrimRight(siteURL, "/"),
		metrics:       m,
	}
}

func (m *Mailer) send(ctx context.Context, templateName string, to []string, replyTo, idempotencyKey string, vars map[string]string) error {
	tpl, ok := Template(templateName)
	if !ok {
		return fmt.Errorf("unknown email template %s", templateName)
	}
	vars["site_url"] = m.siteURL

	err := m.sender.Send(ctx, &EmailMessage{
		To:             to,
		ReplyTo:        replyTo,
		Subject:        RenderTemplate(tpl.Subject, vars),
		HTML:           RenderTemplate(tpl.HTML, vars),
		IdempotencyKey: idempotencyKey,
	})
	m.metrics.EmailResult(templateName, err)
	if err != nil {
		return fmt.Errorf("send %s: %w", templateName, err)
	}
	return nil
}

func appointmentVars(a *entity.Appointment) map[string]string {
	return map[string]string{
		"appointment_id": a.ID,
		"name":           a.Name,
		"email":          a.Email,
		"phone":          a.Phone,
		"pet_name":       a.PetName,
		"pet_species":    a.PetSpecies,
		"service":        a.Service,
		"preferred_date": a.PreferredDate,
		"preferred_time": a.PreferredTime,
		"message":        a.Message,
		"locale":         a.Locale,
	}
}

// SendBookingNotification уведомляет клинику о новой записи
func (m *Mailer) SendBookingNotification(ctx context.Context, a *entity.Appointment) error {
	if m.clinicAddress == "" {
		log.Printf("[Mailer] EMAIL_TO is not set, skipping booking notification for %s", a.ID)
		return nil
	}
	return m.send(ctx, TemplateBookingNotification, []string{m.clinicAddress}, a.Email,
		TemplateBookingNotification+"/"+a.ID, appointmentVars(a))
}

// SendBookingConfirmation подтверждает клиенту получение заявки
func (m *Mailer) SendBookingConfirmation(ctx context.Context, a *entity.Appointment) error {
	return m.send(ctx, TemplateBookingConfirmation, []string{a.Email}, m.clinicAddress,
		TemplateBookingConfirmation+"/"+a.ID, appointmentVars(a))
}

func contactVars(s *entity.ContactSubmission) map[string]string {
	subject := s.Subject
	if subject == "" {
		subject = "Your message to Continuum Clinic"
	}
	return map[string]string{
		"contact_id": s.ID,
		"name":       s.Name,
		"email":      s.Email,
		"phone":      s.Phone,
		"subject":    subject,
		"message":    s.Message,
	}
}

// SendContactNotification пересылает обращение в клинику с reply-to отправителя
func (m *Mailer) SendContactNotification(ctx context.Context, s *entity.ContactSubmission) error {
	if m.clinicAddress == "" {
		log.Printf("[Mailer] EMAIL_TO is not set, skipping contact notification for %s", s.ID)
		return nil
	}
	return m.send(ctx, TemplateContactNotification, []string{m.clinicAddress}, s.Email,
		TemplateContactNotification+"/"+s.ID, contactVars(s))
}

// SendContactReply отправляет ответ администратора автору обращения
func (m *Mailer) SendContactReply(ctx context.Context, s *entity.ContactSubmission, reply entity.ContactReply) error {
	vars := contactVars(s)
	vars["reply"] = reply.Message
	key := fmt.Sprintf("%s/%s/%d", TemplateContactReply, s.ID, len(s.Replies))
	return m.send(ctx, TemplateContactReply, []string{s.Email}, m.clinicAddress, key, vars)
}

// SendWelcome отправляет данные для входа в портал
func (m *Mailer) SendWelcome(ctx context.Context, c *entity.Client, password string) error {
	locale := c.PreferredLocale
	if !entity.IsSupportedLocale(locale) {
		locale = entity.DefaultLocale
	}
	return m.send(ctx, TemplateWelcome, []string{c.Email}, m.clinicAddress, TemplateWelcome+"/"+c.ID, map[string]string{
		"first_name": c.FirstName,
		"email":      c.Email,
		"password":   password,
		"locale":     locale,
	})
}
