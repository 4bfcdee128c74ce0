package domain

import "time"

// GenerateRequest carries everything a generator needs to build an itinerary.
type GenerateRequest struct {
	Destination    string
	StartDate      time.Time
	EndDate        time.Time
	Budget         float64
	Travelers      int
	Accommodation  string
	Transportation string
	Scores         Scores
	DNA            DNASnapshot
}

// Days returns the inclusive number of days the request spans.
func (r GenerateRequest) Days() int {
	return DaysInclusive(r.StartDate, r.EndDate)
}

// Params returns the non-DNA inputs that shape generation.
func (r GenerateRequest) Params() TripParams {
	return TripParams{
		Accommodation:  r.Accommodation,
		Transportation: r.Transportation,
		Travelers:      r.Travelers,
		Duration:       r.Days(),
	}
}
