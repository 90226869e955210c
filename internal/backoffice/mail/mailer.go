package mail

import (
	"context"
	"fmt"
	"log/slog"
)

// Message is a single outbound email. Text is required; HTML optional.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers messages. All callers treat sends as best-effort:
// delivery failures are logged, never propagated to the client.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes messages to the log instead of delivering them.
// Used in tests and when SMTP is unconfigured.
type LogMailer struct {
	Log *slog.Logger
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	log := m.Log
	if log == nil {
		log = slog.Default()
	}
	log.Info("mail_not_delivered",
		"to", msg.To,
		"subject", msg.Subject,
		"text", msg.Text,
	)
	return nil
}

// ResetPasswordMessage builds the reset email. The link carries the
// account id and the plaintext secret; the secret exists nowhere else.
func ResetPasswordMessage(to, frontendURL, accountID, secret string) Message {
	link := fmt.Sprintf("%s/set-password/%s/%s", frontendURL, accountID, secret)
	return Message{
		To:      to,
		Subject: "Reset your password",
		Text: "A password reset was requested for your account.\n\n" +
			"Follow this link within 5 minutes to choose a new password:\n" +
			link + "\n\n" +
			"If you did not request this, you can ignore this email.",
	}
}

// EmailChangedMessage notifies the old address after a login email
// change.
func EmailChangedMessage(to, newEmail string) Message {
	return Message{
		To:      to,
		Subject: "Your login email was changed",
		Text: "The login email on your account was changed to " + newEmail + ".\n\n" +
			"If this was not you, contact another administrator immediately.",
	}
}

// PasswordChangedMessage notifies the account after a password change.
func PasswordChangedMessage(to string) Message {
	return Message{
		To:      to,
		Subject: "Your password was changed",
		Text: "The password on your account was just changed.\n\n" +
			"If this was not you, reset your password immediately.",
	}
}
