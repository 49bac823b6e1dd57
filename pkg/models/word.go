package models

// DailyWord is the vocabulary word of the day. At most one record exists at
// a time; it is valid only for the calendar day recorded in Date.
type DailyWord struct {
	Word    string `json:"word"`
	Meaning string `json:"meaning"`
	Example string `json:"example"`
	Date    string `json:"date"`
}
