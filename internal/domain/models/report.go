package models

import "time"

// InventoryReport represents a point-in-time view of all stocked items.
type InventoryReport struct {
	GeneratedAt time.Time `json:"generated_at"`
	Items       []Item    `json:"items"`
	TotalItems  int       `json:"total_items"`
	TotalUnits  int       `json:"total_units"`
}

// DailySnapshot represents the aggregated daily inventory state to be stored in MongoDB.
type DailySnapshot struct {
	Date       time.Time      `bson:"date" json:"date"`
	Stock      map[string]int `bson:"stock" json:"stock"`
	TotalItems int            `bson:"total_items" json:"total_items"`
	TotalUnits int            `bson:"total_units" json:"total_units"`
	LowStock   []string       `bson:"low_stock" json:"low_stock"`
	CreatedAt  time.Time      `bson:"created_at" json:"created_at"`
}

// CommandReply describes the response that will be sent back to the operator based on
// the dispatched command.
type CommandReply struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}
