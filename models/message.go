package models

import "time"

// Message is a note from a buyer to the seller of a listing.
type Message struct {
	ID             string    `json:"id"`
	SenderID       string    `json:"senderId"`
	SenderUsername string    `json:"senderUsername"`
	RecipientID    string    `json:"recipientId"`
	ItemID         int64     `json:"itemId"`
	ItemName       string    `json:"itemName"`
	Body           string    `json:"body"`
	Timestamp      time.Time `json:"timestamp"`
}

// Conversation groups one sender's messages to a seller, oldest first.
type Conversation struct {
	SenderID       string    `json:"senderId"`
	SenderUsername string    `json:"senderUsername"`
	Messages       []Message `json:"messages"`
}
