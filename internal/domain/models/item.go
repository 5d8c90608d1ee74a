package models

import "time"

// Item represents a single stocked item and its current quantity.
type Item struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// MovementVerb enumerates the mutations recorded in the movement journal.
type MovementVerb string

const (
	MovementAdd    MovementVerb = "add"
	MovementRemove MovementVerb = "remove"
	// MovementDelete is recorded when a removal drains an item to zero or
	// below and the entry is dropped from stock.
	MovementDelete MovementVerb = "delete"
)

// Movement is one journal entry describing a successful stock mutation.
type Movement struct {
	ID        string       `bson:"_id" json:"id"`
	Verb      MovementVerb `bson:"verb" json:"verb"`
	Item      string       `bson:"item" json:"item"`
	Quantity  int          `bson:"quantity" json:"quantity"`
	Remaining int          `bson:"remaining" json:"remaining"`
	Sender    string       `bson:"sender,omitempty" json:"sender,omitempty"`
	At        time.Time    `bson:"at" json:"at"`
}
