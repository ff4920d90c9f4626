package candidatures

import (
	"time"

	"cozetik-backend/internal/shared/leadstatus"
)

// Attachment is one uploaded document. URL and Key are empty when the file
// was not provided or its optional upload failed.
type Attachment struct {
	URL      string
	Filename string
	Key      string
}

// Present reports whether the attachment was stored.
func (a Attachment) Present() bool { return a.URL != "" }

// Candidature is one application submitted through the intake form.
type Candidature struct {
	ID                string
	Civility          string
	FirstName         string
	LastName          string
	BirthDate         time.Time
	Email             string
	Phone             string
	Address           string
	PostalCode        string
	City              string
	CategoryFormation string
	Formation         string
	EducationLevel    string
	CurrentSituation  string
	StartDate         string
	Motivation        string
	CV                Attachment
	CoverLetter       Attachment
	OtherDocument     Attachment
	AcceptPrivacy     bool
	AcceptNewsletter  bool
	Status            leadstatus.Status
	CreatedAt         time.Time
}

// Document names an attachment slot.
type Document string

const (
	DocumentCV            Document = "cv"
	DocumentCoverLetter   Document = "coverLetter"
	DocumentOtherDocument Document = "otherDocument"
)

// Attachment returns the slot named by doc.
func (c Candidature) Attachment(doc Document) (Attachment, bool) {
	switch doc {
	case DocumentCV:
		return c.CV, true
	case DocumentCoverLetter:
		return c.CoverLetter, true
	case DocumentOtherDocument:
		return c.OtherDocument, true
	default:
		return Attachment{}, false
	}
}

func (c Candidature) attachmentKeys() []string {
	var keys []string
	for _, a := range []Attachment{c.CV, c.CoverLetter, c.OtherDocument} {
		if a.Key != "" {
			keys = append(keys, a.Key)
		}
	}
	return keys
}
