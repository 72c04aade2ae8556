package usecase

import (
	"fmt"
	"net/url"
	"strings"

	"recruitment-service/internal/domain"
)

// Notification message templates for each phase/decision outcome. Messages
// are staff-reviewed before sending, so they stay in French regardless of the
// candidate's form language, as in the original system.

func phase1SelectedMessage(candidateName, jobTitle, interviewDate string, hasPDF bool) (subject, body, whatsapp string) {
	subject = fmt.Sprintf("Félicitations %s - Entretien pour %s", candidateName, jobTitle)

	pdfNote := ""
	if hasPDF {
		pdfNote = "\nIMPORTANT : Vous trouverez en pièce jointe votre CONVOCATION OFFICIELLE.\nCe document est OBLIGATOIRE pour accéder à nos locaux. Veuillez le présenter à l'accueil le jour de l'entretien.\n"
	}
	body = fmt.Sprintf(`Bonjour %s,

Nous avons le plaisir de vous informer que votre candidature pour le poste de %s a retenu notre attention.

Nous souhaitons vous rencontrer pour un entretien qui aura lieu le %s.
%s
Merci de confirmer votre présence en répondant à ce message.

Cordialement,
L'équipe de recrutement
Salsabil`, candidateName, jobTitle, interviewDate, pdfNote)

	waPDFNote := ""
	if hasPDF {
		waPDFNote = "\n\nIMPORTANT : Vous recevrez également par email votre CONVOCATION OFFICIELLE (PDF). Ce document est OBLIGATOIRE pour accéder à nos locaux le jour de l'entretien."
	}
	whatsapp = fmt.Sprintf(`Bonjour %s,

Félicitations ! Votre candidature pour le poste de %s a été retenue.

Nous souhaitons vous rencontrer pour un entretien le %s.%s

Merci de confirmer votre présence.

Cordialement,
L'équipe Salsabil`, candidateName, jobTitle, interviewDate, waPDFNote)
	return subject, body, whatsapp
}

func phase1RejectedMessage(candidateName, jobTitle, reason string) (subject, body, whatsapp string) {
	subject = fmt.Sprintf("Candidature pour %s", jobTitle)

	reasonLine := "Cette décision ne remet pas en question vos qualités professionnelles."
	if reason != "" {
		reasonLine = "Raison : " + reason
	}
	body = fmt.Sprintf(`Bonjour %s,

Nous vous remercions pour l'intérêt que vous portez à notre entreprise et pour votre candidature pour le poste de %s.

Après avoir étudié attentivement votre profil, nous sommes au regret de vous informer que nous ne pouvons pas donner suite à votre candidature pour ce poste.

%s

Nous conservons votre candidature et n'hésiterons pas à vous recontacter si une opportunité correspondant à votre profil se présente.

Cordialement,
L'équipe de recrutement
Salsabil`, candidateName, jobTitle, reasonLine)

	whatsapp = fmt.Sprintf(`Bonjour %s,

Merci pour votre candidature au poste de %s.

Après étude de votre profil, nous ne pouvons malheureusement pas donner suite à votre candidature pour ce poste.

Nous conservons votre CV et vous recontacterons si une opportunité se présente.

Cordialement,
L'équipe Salsabil`, candidateName, jobTitle)
	return subject, body, whatsapp
}

func phase2AcceptedMessage(candidateName, jobTitle string) (subject, body, whatsapp string) {
	subject = fmt.Sprintf("Bienvenue dans l'équipe Salsabil - %s", jobTitle)

	body = fmt.Sprintf(`Bonjour %s,

Suite à votre entretien, nous avons le plaisir de vous proposer le poste de %s au sein de notre entreprise.

Nous prendrons contact avec vous très prochainement pour discuter des détails de votre intégration (date de début, contrat, etc.).

Bienvenue dans l'équipe Salsabil !

Cordialement,
L'équipe de recrutement
Salsabil`, candidateName, jobTitle)

	whatsapp = fmt.Sprintf(`Bonjour %s,

Excellente nouvelle ! Nous sommes ravis de vous proposer le poste de %s au sein de Salsabil.

Nous prendrons contact avec vous très prochainement pour finaliser les détails.

Bienvenue dans l'équipe !

Cordialement,
L'équipe Salsabil`, candidateName, jobTitle)
	return subject, body, whatsapp
}

func phase2RejectedMessage(candidateName, jobTitle, reason string) (subject, body, whatsapp string) {
	subject = fmt.Sprintf("Suite à votre entretien - %s", jobTitle)

	reasonLine := "Nous avons apprécié notre échange et tenons à souligner vos qualités professionnelles."
	if reason != "" {
		reasonLine = "Retour : " + reason
	}
	body = fmt.Sprintf(`Bonjour %s,

Nous vous remercions d'avoir pris le temps de participer à l'entretien pour le poste de %s.

Après mûre réflexion, nous avons décidé de poursuivre avec un autre candidat dont le profil correspond davantage aux besoins du poste.

%s

Nous conservons votre candidature et n'hésiterons pas à vous recontacter pour de futures opportunités.

Cordialement,
L'équipe de recrutement
Salsabil`, candidateName, jobTitle, reasonLine)

	whatsapp = fmt.Sprintf(`Bonjour %s,

Merci d'avoir participé à l'entretien pour le poste de %s.

Après réflexion, nous avons décidé de poursuivre avec un autre candidat.

Nous conservons votre candidature pour de futures opportunités.

Cordialement,
L'équipe Salsabil`, candidateName, jobTitle)
	return subject, body, whatsapp
}

// EmailLink builds a mailto: link with pre-filled subject and body.
func EmailLink(to, subject, body string) string {
	return fmt.Sprintf("mailto:%s?subject=%s&body=%s", to, url.QueryEscape(subject), url.QueryEscape(body))
}

// WhatsAppLink builds a wa.me link with a pre-filled message.
func WhatsAppLink(phone, message string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", FormatPhoneForWhatsApp(phone), url.QueryEscape(message))
}

// FormatPhoneForWhatsApp strips separators and prefixes the country code for
// local numbers (leading 0).
func FormatPhoneForWhatsApp(phone string) string {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
	switch {
	case strings.HasPrefix(cleaned, "0"):
		return "212" + cleaned[1:]
	case strings.HasPrefix(cleaned, "+"):
		return strings.TrimPrefix(cleaned, "+")
	case strings.HasPrefix(cleaned, "212"):
		return cleaned
	default:
		return "212" + cleaned
	}
}

// PrepareNotification formats the outbound messages and contact links for a
// committed decision. It has no state and performs no I/O; sending remains an
// explicit staff action.
func PrepareNotification(app *domain.Application, phase int, decision, interviewDate, rejectionReason, pdfPath string) *NotificationLinks {
	name := app.CandidateName()
	title := app.EffectiveJobTitle()

	var subject, body, whatsapp string
	if phase == 1 {
		if decision == DecisionSelectedForInterview {
			subject, body, whatsapp = phase1SelectedMessage(name, title, interviewDate, pdfPath != "")
		} else {
			subject, body, whatsapp = phase1RejectedMessage(name, title, rejectionReason)
		}
	} else {
		if decision == DecisionAccepted {
			subject, body, whatsapp = phase2AcceptedMessage(name, title)
		} else {
			subject, body, whatsapp = phase2RejectedMessage(name, title, rejectionReason)
		}
	}

	return &NotificationLinks{
		EmailSubject:    subject,
		EmailBody:       body,
		EmailLink:       EmailLink(app.Email, subject, body),
		WhatsAppMessage: whatsapp,
		WhatsAppLink:    WhatsAppLink(app.Phone, whatsapp),
		PDFPath:         pdfPath,
	}
}
