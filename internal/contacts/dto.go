package contacts

import "time"

type createdResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id"`
}

// Response is the admin JSON view of a contact request.
type Response struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func toResponse(c ContactRequest) Response {
	return Response{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Message:   c.Message,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
	}
}
