package inscriptions

import "time"

type createdResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ID        string `json:"id"`
	Formation string `json:"formation"`
}

type formationResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// Response is the admin JSON view of an inscription.
type Response struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Phone       string            `json:"phone"`
	Message     string            `json:"message"`
	FormationID string            `json:"formationId"`
	Formation   formationResponse `json:"formation"`
	Status      string            `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func toResponse(in Inscription) Response {
	return Response{
		ID:          in.ID,
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		Message:     in.Message,
		FormationID: in.FormationID,
		Formation: formationResponse{
			ID:    in.Formation.ID,
			Title: in.Formation.Title,
			Slug:  in.Formation.Slug,
		},
		Status:    string(in.Status),
		CreatedAt: in.CreatedAt,
	}
}
