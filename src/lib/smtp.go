package lib

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/wneessen/go-mail"
)

func GetSMTPClient() (*mail.Client, error) {
	host := os.Getenv("SMTP_HOST")
	portEnv := os.Getenv("SMTP_PORT")
	port, err := strconv.Atoi(portEnv)
	if err != nil {
		port = 587
	}
	user := os.Getenv("SMTP_USERNAME")
	pass := os.Getenv("SMTP_PASSWORD")
	c, err := mail.NewClient(host, mail.WithPort(port), mail.WithSMTPAuth(mail.SMTPAuthPlain), mail.WithUsername(user), mail.WithPassword(pass))
	if err != nil {
		log.Printf("Could not initialize smtp client: %s\n", err.Error())
		return nil, err
	}
	return c, nil
}

type SendMailInput struct {
	From     string
	FromName string
	To       []string
	Subject  string
	Body     string
	Html     bool
}

func SendMail(inputParams *SendMailInput) error {
	c, err := GetSMTPClient()
	if err != nil {
		return err
	}
	msg := mail.NewMsg()
	if err := msg.FromFormat(inputParams.FromName, inputParams.From); err != nil {
		log.Printf("Failed to set From address: %s\n", err.Error())
	}
	if err := msg.To(inputParams.To...); err != nil {
		log.Printf("Failed to set To address: %s\n", err.Error())
	}
	msg.Subject(inputParams.Subject)
	if inputParams.Html {
		msg.SetBodyString(mail.TypeTextHTML, inputParams.Body)
	} else {
		msg.SetBodyString(mail.TypeTextPlain, inputParams.Body)
	}
	if err := c.DialAndSend(msg); err != nil {
		return err
	}
	return nil
}

// SendPasswordResetMail delivers a reset token to the account's email.
// Mail delivery is best effort; callers log and continue on error.
func SendPasswordResetMail(email, token string) error {
	if os.Getenv("SMTP_HOST") == "" {
		log.Printf("SMTP not configured, skipping password reset mail to %s\n", email)
		return nil
	}
	from := os.Getenv("MAIL_FROM")
	if from == "" {
		from = "no-reply@eventplanning.local"
	}
	body := fmt.Sprintf("Use the following token to reset your password: %s\n\nThe token expires in 15 minutes.", token)
	return SendMail(&SendMailInput{
		From:     from,
		FromName: "Event Planning",
		To:       []string{email},
		Subject:  "Password reset request",
		Body:     body,
	})
}
