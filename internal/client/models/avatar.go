package models

import "fmt"

// CandidateCount is the number of candidate avatars offered per provisioning
// attempt.
const CandidateCount = 4

// CandidateSet holds the base64 payloads of one provisioning attempt, in
// fetch order.
type CandidateSet [CandidateCount]string

// At returns the payload at index i.
func (s CandidateSet) At(i int) (string, bool) {
	if i < 0 || i >= len(s) {
		return "", false
	}
	return s[i], true
}

// DataURI renders a base64 SVG payload as an inline image URI.
func DataURI(payload string) string {
	return fmt.Sprintf("data:image/svg+xml;base64,%s", payload)
}
