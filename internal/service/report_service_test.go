package service

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dazhangman/internal/config"
	"dazhangman/internal/models"
)

type recordingSender struct {
	inputs []*sesv2.SendEmailInput
	err    error
}

func (r *recordingSender) SendEmail(ctx context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.inputs = append(r.inputs, in)
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

type staticStudents []models.StudentSummary

func (s staticStudents) Students(ctx context.Context) ([]models.StudentSummary, error) {
	return s, nil
}

var digestStudents = staticStudents{{
	LearnerID: "anna", Username: "Anna <3", Level: models.LevelA2, FailedWords: 3,
	ProblemLetters: []string{"r", "s"}, DifficultyModifier: 1.21, GamesPlayed: 8, WinRate: 0.75,
}}

func emailConfig() config.EmailConfig {
	return config.EmailConfig{
		FromEmail:         "noreply@example.org",
		FromName:          "Dazhangman",
		TeacherRecipients: []string{"t1@example.org", "t2@example.org"},
	}
}

func TestSendDigestMailsEveryTeacher(t *testing.T) {
	sender := &recordingSender{}
	svc := NewReportServiceWithSender(sender, emailConfig(), digestStudents, nopLogger)
	require.True(t, svc.IsEnabled())

	require.NoError(t, svc.SendDigest(context.Background()))
	require.Len(t, sender.inputs, 2)

	in := sender.inputs[0]
	assert.Equal(t, "Dazhangman <noreply@example.org>", aws.ToString(in.FromEmailAddress))
	assert.Equal(t, []string{"t1@example.org"}, in.Destination.ToAddresses)
	text := aws.ToString(in.Content.Simple.Body.Text.Data)
	assert.Contains(t, text, "Anna <3 [A2]: 8 rounds, 75% won, 3 words to review, difficulty 1.21, problem letters r, s")
	html := aws.ToString(in.Content.Simple.Body.Html.Data)
	assert.Contains(t, html, "Anna &lt;3")
}

func TestSendDigestDisabledWithoutSender(t *testing.T) {
	cfg := emailConfig()
	cfg.FromEmail = ""
	sender := &recordingSender{}
	svc := NewReportServiceWithSender(sender, cfg, digestStudents, nopLogger)

	assert.False(t, svc.IsEnabled())
	assert.NoError(t, svc.SendDigest(context.Background()))
	assert.Empty(t, sender.inputs)
}

func TestSendDigestPropagatesSESFailure(t *testing.T) {
	sender := &recordingSender{err: errStorage}
	svc := NewReportServiceWithSender(sender, emailConfig(), digestStudents, nopLogger)

	err := svc.SendDigest(context.Background())
	assert.ErrorIs(t, err, errStorage)
}

func TestRenderDigestWithoutStudents(t *testing.T) {
	svc := NewReportServiceWithSender(&recordingSender{}, emailConfig(), staticStudents{}, nopLogger)

	_, _, text, err := svc.RenderDigest(context.Background())
	require.NoError(t, err)
	assert.Contains(t, text, "No students yet.")
}
