package models

import "movecalc/internal/model"

// SaveConfigRequest is the body of POST /api/v1/configs.
// Inputs decode leniently; see model.Inputs.UnmarshalJSON.
type SaveConfigRequest struct {
	Name   string       `json:"name"`
	Inputs model.Inputs `json:"inputs"`
}

// CredentialsRequest is the body of the sign-up and sign-in endpoints.
type CredentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
