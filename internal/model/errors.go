package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Room errors
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomFull      = errors.New("room is full")
	ErrWrongPassword = errors.New("wrong password")
	ErrAlreadyInRoom = errors.New("player is already in a room")

	// Moderation errors
	ErrAddressBanned = errors.New("address is banned")

	// Character errors
	ErrInvalidCharacterName = errors.New("invalid character name")
	ErrUnknownClass         = errors.New("unknown character class")
	ErrCharacterExists      = errors.New("character already exists")
	ErrCharacterNotFound    = errors.New("character not found")
)
