package auth

import "fieldbook/internal/customers"

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int64  `json:"expiresIn"`
}

type AuthResponse struct {
	Customer *customers.Customer `json:"customer"`
	Token    *TokenPair          `json:"token"`
}
