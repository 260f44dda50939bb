package dto

import "ritcompass/internal/models"

type AskRequest struct {
	Msg    string `json:"msg" example:"How do I apply for a scholarship?"`
	ChatID string `json:"chat_id" example:"c1"`
}

type AskResponse struct {
	Status     string                  `json:"status" example:"categorized"`
	Categories []string                `json:"categories"`
	Data       models.ExtractionResult `json:"data"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}
