package service

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"text/template"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/rs/zerolog"

	"dazhangman/internal/config"
	"dazhangman/internal/models"
)

// EmailSender is the part of the SES client the digest needs
type EmailSender interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// StudentLister provides the dashboard rows rendered into the digest
type StudentLister interface {
	Students(ctx context.Context) ([]models.StudentSummary, error)
}

// ReportService mails the weekly progress digest to teachers via Amazon SES
type ReportService struct {
	client     EmailSender
	students   StudentLister
	fromEmail  string
	fromName   string
	recipients []string
	enabled    bool
	debug      bool
	now        func() time.Time
	logger     zerolog.Logger
}

// NewReportService creates the digest mailer. Without a sender address the
// service is disabled and every send is skipped.
func NewReportService(ctx context.Context, cfg config.EmailConfig, students StudentLister, logger zerolog.Logger) (*ReportService, error) {
	logger = logger.With().Str("component", "report").Logger()
	s := &ReportService{
		students:   students,
		fromEmail:  cfg.FromEmail,
		fromName:   cfg.FromName,
		recipients: cfg.TeacherRecipients,
		debug:      cfg.Debug,
		now:        time.Now,
		logger:     logger,
	}

	if cfg.FromEmail == "" {
		logger.Info().Msg("email disabled: no sender address configured")
		return s, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	s.client = sesv2.NewFromConfig(awsCfg)
	s.enabled = true

	logger.Info().Str("from", cfg.FromEmail).Str("region", cfg.AWSRegion).Msg("email enabled")
	return s, nil
}

// NewReportServiceWithSender is NewReportService with an injected client
func NewReportServiceWithSender(client EmailSender, cfg config.EmailConfig, students StudentLister, logger zerolog.Logger) *ReportService {
	return &ReportService{
		client:     client,
		students:   students,
		fromEmail:  cfg.FromEmail,
		fromName:   cfg.FromName,
		recipients: cfg.TeacherRecipients,
		enabled:    client != nil && cfg.FromEmail != "",
		debug:      cfg.Debug,
		now:        time.Now,
		logger:     logger.With().Str("component", "report").Logger(),
	}
}

// IsEnabled returns whether digests are actually sent
func (s *ReportService) IsEnabled() bool {
	return s.enabled
}

type digestData struct {
	Week     string
	Students []models.StudentSummary
}

var digestFuncs = map[string]interface{}{
	"pct":  func(f float64) float64 { return f * 100 },
	"join": joinLetters,
}

var digestText = template.Must(template.New("digest").Funcs(digestFuncs).Parse(`Weekly progress report ({{.Week}})

{{range .Students}}{{.Username}} [{{.Level}}]: {{.GamesPlayed}} rounds, {{printf "%.0f" (pct .WinRate)}}% won, {{.FailedWords}} words to review, difficulty {{printf "%.2f" .DifficultyModifier}}{{if .ProblemLetters}}, problem letters {{join .ProblemLetters}}{{end}}
{{else}}No students yet.
{{end}}`))

var digestHTML = htmltemplate.Must(htmltemplate.New("digest").Funcs(digestFuncs).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
<h1>Weekly progress report</h1>
<p>{{.Week}}</p>
<table cellpadding="6" style="border-collapse: collapse;">
<tr><th align="left">Student</th><th>Level</th><th>Rounds</th><th>Won</th><th>To review</th><th>Difficulty</th><th align="left">Problem letters</th></tr>
{{range .Students}}<tr><td>{{.Username}}</td><td>{{.Level}}</td><td>{{.GamesPlayed}}</td><td>{{printf "%.0f" (pct .WinRate)}}%</td><td>{{.FailedWords}}</td><td>{{printf "%.2f" .DifficultyModifier}}</td><td>{{join .ProblemLetters}}</td></tr>
{{else}}<tr><td colspan="7">No students yet.</td></tr>
{{end}}</table>
<p style="font-size: 12px; color: #666;">This is an automated email. Please do not reply.</p>
</body>
</html>
`))

func joinLetters(letters []string) string {
	return strings.Join(letters, ", ")
}

// RenderDigest builds the subject, HTML and text bodies of the digest
func (s *ReportService) RenderDigest(ctx context.Context) (subject, htmlBody, textBody string, err error) {
	students, err := s.students.Students(ctx)
	if err != nil {
		return "", "", "", err
	}
	data := digestData{Week: s.now().UTC().Format("2006-01-02"), Students: students}

	var text, html bytes.Buffer
	if err := digestText.Execute(&text, data); err != nil {
		return "", "", "", fmt.Errorf("failed to render digest: %w", err)
	}
	if err := digestHTML.Execute(&html, data); err != nil {
		return "", "", "", fmt.Errorf("failed to render digest: %w", err)
	}
	return "Weekly progress report " + data.Week, html.String(), text.String(), nil
}

// SendDigest mails the digest to every configured teacher
func (s *ReportService) SendDigest(ctx context.Context) error {
	if !s.enabled {
		s.logger.Info().Msg("skipping digest (email disabled)")
		return nil
	}
	if len(s.recipients) == 0 {
		s.logger.Warn().Msg("skipping digest: no teacher recipients configured")
		return nil
	}

	subject, htmlBody, textBody, err := s.RenderDigest(ctx)
	if err != nil {
		return err
	}
	for _, to := range s.recipients {
		if err := s.sendEmail(ctx, to, subject, htmlBody, textBody); err != nil {
			return err
		}
	}
	return nil
}

func (s *ReportService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	if s.debug {
		s.logger.Debug().Str("from", fromAddress).Str("to", toEmail).Str("subject", subject).
			Int("html_bytes", len(htmlBody)).Int("text_bytes", len(textBody)).Msg("calling SES SendEmail")
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

	event := s.logger.Info().Str("to", toEmail).Str("subject", subject)
	if result != nil && result.MessageId != nil {
		event = event.Str("message_id", *result.MessageId)
	}
	event.Msg("email sent")
	return nil
}
