package admins

import "github.com/google/uuid"

type AdminAuthResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	VenueID     *uuid.UUID `json:"venueId"`
	AccessToken string     `json:"accessToken"`
	TokenType   string     `json:"tokenType"`
}
