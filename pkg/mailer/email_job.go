package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// HTML is optional; Text is recommended as fallback.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text,omitempty"`
	HTML    string `json:"html,omitempty"`
}

// WelcomeEmail builds the job queued when a new account registers.
func WelcomeEmail(to, username string) EmailJob {
	return EmailJob{
		To:      to,
		Subject: "Welcome to Task Management",
		Text: "Hi " + username + ",\n\n" +
			"Your account is ready. Sign in to start organizing your tasks.\n",
	}
}
