package services

import (
	"fmt"
	"html"
	"strings"

	"github.com/shabeb-irshed/portal/internal/models"
)

const messageSeparator = "━━━━━━━━━━━━━━━━━━━━"

// escapeHTML escapes text for Telegram's HTML parse mode
func escapeHTML(s string) string {
	return html.EscapeString(s)
}

func formatRegistrationMessage(reg *models.Registration) string {
	var b strings.Builder

	b.WriteString("<b>👤 New membership application</b>\n")
	b.WriteString(messageSeparator + "\n")
	b.WriteString("<b>📍 Personal details:</b>\n")
	fmt.Fprintf(&b, "• <b>Name:</b> %s\n", escapeHTML(reg.FullName))
	fmt.Fprintf(&b, "• <b>Birth date:</b> %s\n", escapeHTML(reg.BirthDate))
	fmt.Fprintf(&b, "• <b>Birth place:</b> %s\n", escapeHTML(reg.BirthPlace))
	fmt.Fprintf(&b, "• <b>Wilaya:</b> %s\n", escapeHTML(reg.Wilaya))
	fmt.Fprintf(&b, "• <b>Address:</b> %s\n\n", escapeHTML(reg.Address))

	b.WriteString("<b>📞 Contact:</b>\n")
	fmt.Fprintf(&b, "• <b>Phone:</b> <code>%s</code>\n", escapeHTML(reg.Phone))
	if reg.FacebookLink != "" {
		fmt.Fprintf(&b, "• <b>Facebook:</b> <a href=\"%s\">profile link</a>\n\n", escapeHTML(reg.FacebookLink))
	} else {
		b.WriteString("• <b>Facebook:</b> <i>not provided</i>\n\n")
	}

	b.WriteString("<b>🎓 Education:</b>\n")
	fmt.Fprintf(&b, "• <b>Level:</b> %s\n", escapeHTML(reg.EducationLevel))
	fmt.Fprintf(&b, "• <b>Specialization:</b> %s\n\n", escapeHTML(reg.Specialization))

	b.WriteString("<b>🤝 Volunteering:</b>\n")
	volunteered := "No"
	if reg.HasVolunteeredBefore == "yes" {
		volunteered = "Yes"
	}
	fmt.Fprintf(&b, "• <b>Previous experience:</b> %s\n", volunteered)
	if reg.PreviousVolunteeringDetails != "" {
		fmt.Fprintf(&b, "• <b>Details:</b> %s\n", escapeHTML(reg.PreviousVolunteeringDetails))
	}
	cell := reg.SelectedCell
	if cell == "" {
		cell = "not selected"
	}
	fmt.Fprintf(&b, "• <b>Selected cell:</b>\n<i>%s</i>\n\n", escapeHTML(cell))

	fee := "declined"
	if reg.AgreesToFee {
		fee = "agreed"
	}
	b.WriteString("<b>✅ Status:</b>\n")
	fmt.Fprintf(&b, "• <b>Membership fee:</b> %s\n", fee)
	b.WriteString(messageSeparator + "\n")
	b.WriteString("#new_registration #membership")

	return b.String()
}

func formatContactMessage(msg *models.ContactMessage) string {
	subject := msg.Subject
	if subject == "" {
		subject = "(no subject)"
	}

	var b strings.Builder
	b.WriteString("<b>🔔 New contact message</b>\n")
	b.WriteString(messageSeparator + "\n")
	fmt.Fprintf(&b, "<b>👤 From:</b> %s\n", escapeHTML(msg.Name))
	fmt.Fprintf(&b, "<b>📧 Email:</b> <code>%s</code>\n", escapeHTML(msg.Email))
	fmt.Fprintf(&b, "<b>📌 Subject:</b> %s\n\n", escapeHTML(subject))
	b.WriteString("<b>📝 Message:</b>\n")
	fmt.Fprintf(&b, "<i>%s</i>\n\n", escapeHTML(msg.Message))
	b.WriteString(messageSeparator + "\n")
	b.WriteString("#contact_message")

	return b.String()
}
