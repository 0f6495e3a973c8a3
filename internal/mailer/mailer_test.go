package mailer

import (
	"context"
	"strings"
	"testing"
	"time"

	"portfolio/internal/config"
	"portfolio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func disabledMailer(t *testing.T) *Mailer {
	t.Helper()
	m, err := New(&config.Config{})
	require.NoError(t, err)
	return m
}

func TestSendContactMessageValidation(t *testing.T) {
	m := disabledMailer(t)
	ctx := context.Background()

	tests := []struct {
		name                      string
		vName, email, subject, mg string
	}{
		{"Missing name", "", "a@b.co", "Hi", "msg"},
		{"Missing email", "Ann", "", "Hi", "msg"},
		{"Missing subject", "Ann", "a@b.co", "", "msg"},
		{"Missing message", "Ann", "a@b.co", "Hi", "   "},
		{"Malformed email", "Ann", "not-an-email", "Hi", "msg"},
		{"Email with spaces", "Ann", "a b@c.co", "Hi", "msg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.SendContactMessage(ctx, tt.vName, tt.email, tt.subject, tt.mg)
			var appErr *models.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		})
	}
}

func TestSendContactMessageDisabledMailerIsDeliveryError(t *testing.T) {
	m := disabledMailer(t)

	err := m.SendContactMessage(context.Background(), "Ann", "ann@example.com", "Hi", "Hello there")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "DELIVERY_ERROR", appErr.Code)
}

func TestNotifyOnDisabledMailerFails(t *testing.T) {
	m := disabledMailer(t)

	assert.Error(t, m.NotifyLike(context.Background(), "Ann", "preview"))
	assert.Error(t, m.NotifyComment(context.Background(), "Ann", "hi", "preview"))
}

func TestBodiesEscapeUserInput(t *testing.T) {
	now := time.Now()

	like := buildLikeBody(`<script>alert(1)</script>`, `B & "C"`, now)
	assert.NotContains(t, like, "<script>")
	assert.Contains(t, like, "&lt;script&gt;")
	assert.Contains(t, like, "&amp;")

	comment := buildCommentBody("Ann", "<img src=x>", "preview", now)
	assert.NotContains(t, comment, "<img")
	assert.Contains(t, comment, "&lt;img src=x&gt;")

	contact := buildContactBody("Ann", "a@b.co", "<b>Hi</b>", "line1\nline2")
	assert.NotContains(t, contact, "<b>Hi</b>")
	assert.Contains(t, contact, "line1<br>line2")
}

func TestContactBodyStructure(t *testing.T) {
	body := buildContactBody("Ann", "ann@example.com", "Hello", "msg")
	for _, want := range []string{"Portfolio Contact Form", "Ann", "ann@example.com", "Hello", "msg"} {
		assert.True(t, strings.Contains(body, want), "body should contain %q", want)
	}
}
