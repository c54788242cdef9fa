package mailer

import (
	"context"
	"fmt"
)

// Message is a single HTML mail to one recipient.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Notifier delivers messages to end users.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// PincodeMessage builds the confirmation mail asking the user to enter the
// pincode in Boekhoud Source before the bank statements are released.
func PincodeMessage(to, pincode string) Message {
	html := fmt.Sprintf(`
		<h1>Boekhoud Source - Bizcuit download</h1>
		<p style="text-align:center">Please use the following code to download your bankstatements from Bizcuit into Boekhoud Source</p>
		<h2 style="text-align:center">%s</h2>
	`, pincode)

	return Message{
		To:      to,
		Subject: "Pincode for Bizcuit download",
		HTML:    html,
	}
}
