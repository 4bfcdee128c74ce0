package itinerarycache

import (
	"strconv"
	"strings"

	"github.com/heartmarshall/intellitrip-backend/internal/domain"
)

const fingerprintSep = "|"

// Fingerprint derives the cache key of an itinerary request. Two requests
// get the same fingerprint exactly when destination (case and spacing
// insensitive), DNA snapshot and trip parameters match.
//
// Field order: destination, adventure, culture, foodie, budget, pace,
// accommodation, transportation, travelers, duration.
func Fingerprint(destination string, dna domain.DNASnapshot, params domain.TripParams) string {
	parts := []string{
		domain.DestinationKey(destination),
		formatFloat(dna.Adventure),
		formatFloat(dna.Culture),
		formatFloat(dna.Foodie),
		formatFloat(dna.Budget),
		domain.NormalizeText(string(dna.Pace)),
		domain.NormalizeText(params.Accommodation),
		domain.NormalizeText(params.Transportation),
		strconv.Itoa(params.Travelers),
		strconv.Itoa(params.Duration),
	}
	return strings.Join(parts, fingerprintSep)
}

// FingerprintOf is Fingerprint for a generation request.
func FingerprintOf(req domain.GenerateRequest) string {
	return Fingerprint(req.Destination, req.DNA, req.Params())
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
