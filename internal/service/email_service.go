package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
}

// NewEmailService creates a new email service. An empty fromEmail yields a
// disabled service that logs instead of sending.
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string, debug bool) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, debug: debug}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := sesv2.NewFromConfig(cfg)
	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		debug:      debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendWelcomeEmail sends a welcome email to new users
func (s *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): welcome to %s", toEmail)
		return nil
	}

	subject := "Ongi etorri a GerniBide"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body>
	<h1>¡Bienvenido a GerniBide, %s!</h1>
	<p>Tu cuenta está lista. Explora los puntos de la ruta, completa actividades y sigue tu progreso.</p>
	<p><a href="%s/login">Empezar</a></p>
	<p style="font-size: 12px; color: #666;">Este es un correo automático de GerniBide. Por favor no respondas.</p>
</body>
</html>
`, toName, s.appBaseURL)

	textBody := fmt.Sprintf(`¡Bienvenido a GerniBide, %s!

Tu cuenta está lista. Explora los puntos de la ruta, completa actividades y sigue tu progreso.

Empezar: %s/login

---
Este es un correo automático de GerniBide. Por favor no respondas.
`, toName, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendClassReportEmail sends a teacher a plain summary of one of their classes
func (s *EmailService) SendClassReportEmail(ctx context.Context, toEmail, toName, claseNombre string, numAlumnos int, progresoMedio, notaMedia float64) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): class report to %s", toEmail)
		return nil
	}

	subject := fmt.Sprintf("Resumen de la clase %s", claseNombre)
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body>
	<h1>Resumen de %s</h1>
	<p>Hola %s,</p>
	<ul>
		<li>Alumnos: %d</li>
		<li>Progreso medio: %.1f%%</li>
		<li>Nota media: %.2f</li>
	</ul>
	<p><a href="%s/profesor">Ver el panel completo</a></p>
	<p style="font-size: 12px; color: #666;">Este es un correo automático de GerniBide. Por favor no respondas.</p>
</body>
</html>
`, claseNombre, toName, numAlumnos, progresoMedio, notaMedia, s.appBaseURL)

	textBody := fmt.Sprintf(`Hola %s,

Resumen de la clase %s:
- Alumnos: %d
- Progreso medio: %.1f%%
- Nota media: %.2f

Ver el panel completo: %s/profesor

---
Este es un correo automático de GerniBide. Por favor no respondas.
`, toName, claseNombre, numAlumnos, progresoMedio, notaMedia, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] SES message ID: %s", *result.MessageId)
	}
	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
