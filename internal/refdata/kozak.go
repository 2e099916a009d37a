// Package refdata provides the immutable reference tables (5'UTRs, uORFs,
// introns) the annotation engine runs against.
package refdata

// KozakStrength is the ordinal strength of a translation-initiation context.
// Unknown is not comparable: callers fall back to the previously known
// strength instead of promoting or demoting on an Unknown classification.
type KozakStrength int8

const (
	KozakUnknown  KozakStrength = -1
	KozakWeak     KozakStrength = 0
	KozakAdequate KozakStrength = 1
	KozakStrong   KozakStrength = 2
)

// String returns the table representation of the strength.
func (s KozakStrength) String() string {
	switch s {
	case KozakWeak:
		return "Weak"
	case KozakAdequate:
		return "Adequate"
	case KozakStrong:
		return "Strong"
	default:
		return ""
	}
}

// Known reports whether the strength can participate in ordinal comparison.
func (s KozakStrength) Known() bool {
	return s >= KozakWeak
}

// UnmarshalCSV parses the table representation when loading with gocsv.
func (s *KozakStrength) UnmarshalCSV(field string) error {
	*s = ParseKozakStrength(field)
	return nil
}

// MarshalCSV renders the table representation.
func (s KozakStrength) MarshalCSV() (string, error) {
	return s.String(), nil
}

// ParseKozakStrength maps a table value to its ordinal strength.
// Unrecognized or empty values are Unknown.
func ParseKozakStrength(s string) KozakStrength {
	switch s {
	case "Weak":
		return KozakWeak
	case "Adequate":
		return KozakAdequate
	case "Strong":
		return KozakStrong
	default:
		return KozakUnknown
	}
}
