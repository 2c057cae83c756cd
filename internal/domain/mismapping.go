package domain

// MismapReason explains why an interaction endpoint could not be scored.
type MismapReason string

const (
	ReasonNotInIdentifierMap MismapReason = "NotInIdentifierMap"
	ReasonNotInHypergraph    MismapReason = "NotInHypergraph"
)

// UnmappedPrimaryID is reported when the identifier map has no entry.
const UnmappedPrimaryID = "NA"

// Mismapping records an endpoint excluded from scoring.
type Mismapping struct {
	ExternalID string
	PrimaryID  string
	Reason     MismapReason
}
