package messages

import "time"

type Message struct {
	ID          int64      `json:"id"`
	ApplicantID *int64     `json:"applicant_id"`
	SenderID    int64      `json:"sender_id"`
	RecipientID *int64     `json:"recipient_id"`
	Body        string     `json:"body"`
	CreatedAt   time.Time  `json:"created_at"`
	ReadAt      *time.Time `json:"read_at"`
}
