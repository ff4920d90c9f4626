package candidatures

import "time"

type createdResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// Response is the admin JSON view of a candidature.
type Response struct {
	ID                    string    `json:"id"`
	Civility              string    `json:"civility,omitempty"`
	FirstName             string    `json:"firstName"`
	LastName              string    `json:"lastName"`
	BirthDate             string    `json:"birthDate"`
	Email                 string    `json:"email"`
	Phone                 string    `json:"phone"`
	Address               *string   `json:"address"`
	PostalCode            *string   `json:"postalCode"`
	City                  *string   `json:"city"`
	CategoryFormation     string    `json:"categoryFormation"`
	Formation             string    `json:"formation"`
	EducationLevel        *string   `json:"educationLevel"`
	CurrentSituation      string    `json:"currentSituation"`
	StartDate             *string   `json:"startDate"`
	Motivation            string    `json:"motivation"`
	CVURL                 *string   `json:"cvUrl"`
	CVFilename            *string   `json:"cvFilename"`
	CoverLetterURL        *string   `json:"coverLetterUrl"`
	CoverLetterFilename   *string   `json:"coverLetterFilename"`
	OtherDocumentURL      *string   `json:"otherDocumentUrl"`
	OtherDocumentFilename *string   `json:"otherDocumentFilename"`
	AcceptPrivacy         bool      `json:"acceptPrivacy"`
	AcceptNewsletter      bool      `json:"acceptNewsletter"`
	Status                string    `json:"status"`
	CreatedAt             time.Time `json:"createdAt"`
}

type listResponse struct {
	Items  []Response `json:"items"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

type sendEmailRequest struct {
	Subject string `json:"subject" binding:"required,max=200"`
	Message string `json:"message" binding:"required"`
}

type resumeTextResponse struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func toResponse(c Candidature) Response {
	return Response{
		ID:                    c.ID,
		Civility:              c.Civility,
		FirstName:             c.FirstName,
		LastName:              c.LastName,
		BirthDate:             c.BirthDate.Format("2006-01-02"),
		Email:                 c.Email,
		Phone:                 c.Phone,
		Address:               optional(c.Address),
		PostalCode:            optional(c.PostalCode),
		City:                  optional(c.City),
		CategoryFormation:     c.CategoryFormation,
		Formation:             c.Formation,
		EducationLevel:        optional(c.EducationLevel),
		CurrentSituation:      c.CurrentSituation,
		StartDate:             optional(c.StartDate),
		Motivation:            c.Motivation,
		CVURL:                 optional(c.CV.URL),
		CVFilename:            optional(c.CV.Filename),
		CoverLetterURL:        optional(c.CoverLetter.URL),
		CoverLetterFilename:   optional(c.CoverLetter.Filename),
		OtherDocumentURL:      optional(c.OtherDocument.URL),
		OtherDocumentFilename: optional(c.OtherDocument.Filename),
		AcceptPrivacy:         c.AcceptPrivacy,
		AcceptNewsletter:      c.AcceptNewsletter,
		Status:                string(c.Status),
		CreatedAt:             c.CreatedAt,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
