package entity

import (
	"time"

	"github.com/google/uuid"
)

// Answer is what the question-answering service returns for one question.
type Answer struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// QARecord is a persisted question/answer pair with its source citations.
type QARecord struct {
	ID        uuid.UUID `json:"id" bson:"id"`
	Question  string    `json:"question" bson:"question"`
	Answer    string    `json:"answer" bson:"answer"`
	Sources   []string  `json:"sources" bson:"sources"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// NewQARecord stamps a QA pair for persistence.
func NewQARecord(question string, ans Answer) QARecord {
	return QARecord{
		ID:        uuid.New(),
		Question:  question,
		Answer:    ans.Answer,
		Sources:   ans.Sources,
		Timestamp: time.Now().UTC(),
	}
}
