// model.go defines the table layout for imported detection events
package datastore

import "time"

// EventRecord is one aggregated detection event as stored in the output table.
// The table name is chosen per import, so the model carries no TableName method.
type EventRecord struct {
	ID             uint   `gorm:"primaryKey"`
	ImportID       string `gorm:"size:36;index"` // run that wrote the row
	Date           string `gorm:"size:10;index"` // recording date, YYYY-MM-DD
	Time           string `gorm:"size:8"`        // detection time of day, HH:MM:SS
	Location       string `gorm:"index"`
	Filename       string
	FileID         string `gorm:"index"`
	Prefix         string
	StartDetection float64
	EndDetection   float64
	Duration       float64
	Label          string
	ScientificName string `gorm:"index"`
	CommonName     string
	Confidence     float64
	HR             float64           `gorm:"column:hr"`
	Rows           int               // raw rows merged into the event
	Extra          map[string]string `gorm:"serializer:json"` // unmapped input columns of the closing row
	CreatedAt      time.Time
}
