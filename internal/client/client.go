package client

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("client not found")

// Client is a company the firm issues documents for.
type Client struct {
	ID           uuid.UUID `json:"id"`
	Nom          string    `json:"nom"`
	Adresse      string    `json:"adresse"`
	RC           string    `json:"rc,omitempty"`
	NIF          string    `json:"nif,omitempty"`
	NIS          string    `json:"nis,omitempty"`
	AI           string    `json:"ai,omitempty"`
	Email        string    `json:"email,omitempty"`
	Telephone    string    `json:"telephone,omitempty"`
	DateCreation time.Time `json:"dateCreation"`
}

// Name is the company name shown on documents.
func (c *Client) Name() string {
	if c == nil {
		return ""
	}

	return c.Nom
}
