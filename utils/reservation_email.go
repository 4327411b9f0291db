package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

// SendReservationEmail notifies a student that their reservation changed
// state. Callers treat it as fire-and-forget: a delivery failure must not
// roll back the reservation write that triggered it.
func SendReservationEmail(recipientEmail, studentName, referenceCode, accommodationAddress, status string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USERNAME")
	smtpPass := os.Getenv("SMTP_PASSWORD")
	fromName := os.Getenv("SMTP_FROM_NAME")

	if smtpUser == "" || smtpPass == "" || smtpHost == "" || smtpPort == "" {
		log.Printf("[MOCK EMAIL] reservation %s -> %s status:%s", referenceCode, recipientEmail, status)
		return nil
	}

	safe := func(s string) string {
		return strings.ReplaceAll(strings.TrimSpace(s), "\r\n", " ")
	}

	studentName = safe(studentName)
	referenceCode = safe(referenceCode)
	accommodationAddress = safe(accommodationAddress)
	status = safe(status)

	from := fmt.Sprintf("%s <%s>", fromName, smtpUser)
	to := []string{recipientEmail}
	auth := smtp.PlainAuth("", smtpUser, smtpPass, smtpHost)
	addr := fmt.Sprintf("%s:%s", smtpHost, smtpPort)

	subject := fmt.Sprintf("Reservation %s is now %s", referenceCode, status)

	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your reservation status has changed.\n\n"+
			"Reservation Details:\n"+
			"- Reference: %s\n"+
			"- Accommodation: %s\n"+
			"- Status: %s\n\n"+
			"Thank you for using UniHaven!\n",
		studentName, referenceCode, accommodationAddress, status,
	)

	msg := []byte(
		"From: " + from + "\r\n" +
			"To: " + recipientEmail + "\r\n" +
			"Subject: " + subject + "\r\n" +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/plain; charset=\"utf-8\"\r\n" +
			"\r\n" + body,
	)

	if err := smtp.SendMail(addr, auth, smtpUser, to, msg); err != nil {
		return fmt.Errorf("failed to send reservation email: %w", err)
	}
	return nil
}
