package email

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

const layout = `{{define "layout"}}<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><meta name="viewport" content="width=device-width, initial-scale=1.0"></head>
<body style="margin:0;padding:0;font-family:Arial,sans-serif;background-color:#f4f4f4;">
<table width="100%" cellpadding="0" cellspacing="0" style="background-color:#f4f4f4;padding:20px;"><tr><td align="center">
<table width="600" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;overflow:hidden;">
<tr><td style="background-color:#9A80B8;padding:32px 30px;text-align:center;"><h1 style="margin:0;color:#ffffff;font-size:26px;">{{.Title}}</h1></td></tr>
<tr><td style="padding:32px 30px;color:#2C2C2C;font-size:15px;line-height:1.6;">{{template "body" .}}</td></tr>
<tr><td style="background-color:#f8f9fa;padding:16px 30px;text-align:center;border-top:1px solid #e9ecef;color:#999999;font-size:12px;">© {{.Year}} Cozetik</td></tr>
</table></td></tr></table>
</body>
</html>{{end}}`

const candidatureConfirmationBody = `{{define "body"}}
<h2 style="margin:0 0 16px 0;">Bonjour {{.Data.FirstName}} {{.Data.LastName}},</h2>
<p>Nous avons bien reçu votre candidature pour la formation <strong>{{.Data.Formation}}</strong>.</p>
<p>Notre équipe pédagogique l'étudiera attentivement et vous contactera sous 48 heures.</p>
<p>Cordialement,<br>L'équipe Cozetik</p>
{{end}}`

const candidatureAdminBody = `{{define "body"}}
<h2 style="margin:0 0 16px 0;">Nouvelle candidature reçue</h2>
<p><strong>Nom :</strong> {{.Data.Civility}} {{.Data.FirstName}} {{.Data.LastName}}</p>
<p><strong>Email :</strong> <a href="mailto:{{.Data.Email}}">{{.Data.Email}}</a></p>
<p><strong>Téléphone :</strong> {{.Data.Phone}}</p>
<p><strong>Date de naissance :</strong> {{.Data.BirthDate}}</p>
<p><strong>Catégorie :</strong> {{.Data.CategoryFormation}}</p>
<p><strong>Formation :</strong> {{.Data.Formation}}</p>
<p><strong>Niveau d'études :</strong> {{.Data.EducationLevel}}</p>
<p><strong>Situation :</strong> {{.Data.CurrentSituation}}</p>
<p><strong>Motivation :</strong></p>
<p style="white-space:pre-wrap;">{{.Data.Motivation}}</p>
{{with .Data.CVURL}}<p><strong>CV :</strong> <a href="{{.}}">Télécharger</a></p>{{end}}
{{with .Data.CoverLetterURL}}<p><strong>Lettre de motivation :</strong> <a href="{{.}}">Télécharger</a></p>{{end}}
{{with .Data.OtherDocumentURL}}<p><strong>Autre document :</strong> <a href="{{.}}">Télécharger</a></p>{{end}}
{{end}}`

const contactConfirmationBody = `{{define "body"}}
<h2 style="margin:0 0 16px 0;">Bonjour {{.Data.Name}},</h2>
<p>Nous avons bien reçu votre message et nous vous répondrons dans les plus brefs délais.</p>
<p><strong>Votre message :</strong></p>
<p style="white-space:pre-wrap;">{{.Data.Message}}</p>
<p>L'équipe Cozetik</p>
{{end}}`

const contactAdminBody = `{{define "body"}}
<h2 style="margin:0 0 16px 0;">Nouveau contact reçu</h2>
<p><strong>Nom :</strong> {{.Data.Name}}</p>
<p><strong>Email :</strong> <a href="mailto:{{.Data.Email}}">{{.Data.Email}}</a></p>
<p><strong>Message :</strong></p>
<p style="white-space:pre-wrap;">{{.Data.Message}}</p>
{{end}}`

const inscriptionConfirmationBody = `{{define "body"}}
<h2 style="margin:0 0 16px 0;">Bonjour {{.Data.Name}},</h2>
<p>Votre demande d'inscription à la formation <strong>{{.Data.FormationTitle}}</strong> a bien été enregistrée.</p>
<p><strong>Prochaine session :</strong> {{.Data.SessionDate}}</p>
<p>Notre équipe vous recontactera rapidement pour finaliser votre inscription.</p>
<p>L'équipe Cozetik</p>
{{end}}`

const inscriptionAdminBody = `{{define "body"}}
<h2 style="margin:0 0 16px 0;">Nouvelle inscription reçue</h2>
<p><strong>Formation :</strong> {{.Data.FormationTitle}}</p>
<p><strong>Nom :</strong> {{.Data.Name}}</p>
<p><strong>Email :</strong> <a href="mailto:{{.Data.Email}}">{{.Data.Email}}</a></p>
<p><strong>Téléphone :</strong> {{.Data.Phone}}</p>
<p><strong>Message :</strong></p>
<p style="white-space:pre-wrap;">{{.Data.Message}}</p>
{{end}}`

const customBody = `{{define "body"}}
<h2 style="margin:0 0 16px 0;">Bonjour {{.Data.Name}},</h2>
<p style="white-space:pre-wrap;">{{.Data.Message}}</p>
<p>L'équipe Cozetik</p>
{{end}}`

var (
	candidatureConfirmationTmpl = mustParse("candidature_confirmation", candidatureConfirmationBody)
	candidatureAdminTmpl        = mustParse("candidature_admin", candidatureAdminBody)
	contactConfirmationTmpl     = mustParse("contact_confirmation", contactConfirmationBody)
	contactAdminTmpl            = mustParse("contact_admin", contactAdminBody)
	inscriptionConfirmationTmpl = mustParse("inscription_confirmation", inscriptionConfirmationBody)
	inscriptionAdminTmpl        = mustParse("inscription_admin", inscriptionAdminBody)
	customTmpl                  = mustParse("custom", customBody)
)

func mustParse(name, body string) *template.Template {
	return template.Must(template.Must(template.New(name).Parse(layout)).Parse(body))
}

// CandidatureData feeds the candidature templates.
type CandidatureData struct {
	Civility          string
	FirstName         string
	LastName          string
	Email             string
	Phone             string
	BirthDate         string
	CategoryFormation string
	Formation         string
	EducationLevel    string
	CurrentSituation  string
	Motivation        string
	CVURL             string
	CoverLetterURL    string
	OtherDocumentURL  string
}

// ContactData feeds the contact templates.
type ContactData struct {
	Name    string
	Email   string
	Message string
}

// InscriptionData feeds the formation inscription templates. SessionDate
// is already formatted for display.
type InscriptionData struct {
	Name           string
	Email          string
	Phone          string
	Message        string
	FormationTitle string
	SessionDate    string
}

// CustomData feeds free-form admin messages.
type CustomData struct {
	Name    string
	Message string
}

type page struct {
	Title string
	Year  int
	Data  any
}

func render(t *template.Template, title string, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page{Title: title, Year: time.Now().Year(), Data: data}); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// CandidatureConfirmation is sent to the applicant after intake.
func CandidatureConfirmation(to string, d CandidatureData) (Message, error) {
	html, err := render(candidatureConfirmationTmpl, "Candidature reçue", d)
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "Confirmation de votre candidature - Cozetik", HTML: html}, nil
}

// CandidatureAdminNotification is sent to the admin mailbox after intake.
func CandidatureAdminNotification(to string, d CandidatureData) (Message, error) {
	html, err := render(candidatureAdminTmpl, "Nouvelle candidature", d)
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "Nouvelle candidature - " + d.Formation, HTML: html}, nil
}

// ContactConfirmation is sent to a visitor who used the contact form.
func ContactConfirmation(to string, d ContactData) (Message, error) {
	html, err := render(contactConfirmationTmpl, "Demande reçue", d)
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "Confirmation de votre demande - Cozetik", HTML: html}, nil
}

// ContactAdminNotification is sent to the admin mailbox for new contact requests.
func ContactAdminNotification(to string, d ContactData) (Message, error) {
	html, err := render(contactAdminTmpl, "Nouvelle demande", d)
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "Nouvelle demande de contact - " + d.Name, HTML: html}, nil
}

// InscriptionConfirmation is sent to a visitor who asked to join a formation.
func InscriptionConfirmation(to string, d InscriptionData) (Message, error) {
	html, err := render(inscriptionConfirmationTmpl, "Inscription reçue", d)
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "Confirmation inscription - " + d.FormationTitle, HTML: html}, nil
}

// InscriptionAdminNotification is sent to the admin mailbox for new inscriptions.
func InscriptionAdminNotification(to string, d InscriptionData) (Message, error) {
	html, err := render(inscriptionAdminTmpl, "Nouvelle inscription", d)
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "Nouvelle inscription - " + d.FormationTitle, HTML: html}, nil
}

// Custom wraps an admin-authored message in the standard layout.
func Custom(to, subject string, d CustomData) (Message, error) {
	html, err := render(customTmpl, subject, d)
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: subject, HTML: html}, nil
}
