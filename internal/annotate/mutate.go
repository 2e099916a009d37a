package annotate

import (
	"fmt"

	"github.com/mchaldebas/5ULTRA/internal/refdata"
)

var stopCodons = map[string]bool{"TAA": true, "TAG": true, "TGA": true}

// IsStopCodon returns true if the codon is a stop codon (TAA, TAG, TGA).
func IsStopCodon(codon string) bool {
	return stopCodons[codon]
}

// Complement returns the complement of a single base. N and the deletion
// placeholder '*' map to themselves; unrecognized bases map to N.
func Complement(base byte) byte {
	switch base {
	case 'A':
		return 'T'
	case 'T':
		return 'A'
	case 'G':
		return 'C'
	case 'C':
		return 'G'
	case 'N':
		return 'N'
	case '*':
		return '*'
	default:
		return 'N'
	}
}

// ReverseComplement returns the reverse complement of a DNA sequence.
func ReverseComplement(seq string) string {
	n := len(seq)
	// Stack-allocate for typical allele lengths.
	var buf [64]byte
	var result []byte
	if n <= len(buf) {
		result = buf[:n]
	} else {
		result = make([]byte, n)
	}
	for i := 0; i < n; i++ {
		result[i] = Complement(seq[n-1-i])
	}
	return string(result)
}

// ApplyEdit splices alt into the wild-type transcript sequence at the given
// relative position, replacing len(ref) bases. The transcript sequence is
// stored 5'->3', so on the reverse strand the incoming alleles are
// reverse-complemented first.
func ApplyEdit(wtSeq string, relPos int64, ref, alt, strand string) (string, error) {
	if relPos < 0 || relPos+int64(len(ref)) > int64(len(wtSeq)) {
		return "", fmt.Errorf("edit out of range: relative position %d, ref %q, sequence length %d",
			relPos, ref, len(wtSeq))
	}
	ins := alt
	if strand != "+" {
		ins = ReverseComplement(alt)
	}
	return wtSeq[:relPos] + ins + wtSeq[relPos+int64(len(ref)):], nil
}

// codonAt returns the three bases starting at pos, shortened at the
// sequence boundaries. A short or empty return never equals a real codon.
func codonAt(seq string, pos int64) string {
	if pos < 0 || pos >= int64(len(seq)) {
		return ""
	}
	end := pos + 3
	if end > int64(len(seq)) {
		end = int64(len(seq))
	}
	return seq[pos:end]
}

// window returns seq[lo:hi] clamped to the sequence boundaries.
func window(seq string, lo, hi int64) string {
	if lo < 0 {
		lo = 0
	}
	if hi > int64(len(seq)) {
		hi = int64(len(seq))
	}
	if lo >= hi {
		return ""
	}
	return seq[lo:hi]
}

// scanStop returns the relative position of the first in-frame stop codon
// at or after start. When no stop exists the scan runs off the end of the
// sequence and the returned position points past it, matching the
// boundedness contract of uORF discovery.
func scanStop(seq string, start int64) int64 {
	codon := start
	for {
		if IsStopCodon(codonAt(seq, codon)) {
			return codon
		}
		if codon >= int64(len(seq)) {
			return codon
		}
		codon += 3
	}
}

// ClassifyKozak scores a 9-nt context around a start codon. The context
// spans positions -4..+4 of the A of ATG, so index 1 is the -3 position and
// index 7 the +4 position. Anything other than an exact 9-nt context is
// Unknown.
func ClassifyKozak(context string) refdata.KozakStrength {
	if len(context) != 9 {
		return refdata.KozakUnknown
	}
	minus3 := context[1] == 'A' || context[1] == 'G'
	plus4 := context[7] == 'G'
	switch {
	case minus3 && plus4:
		return refdata.KozakStrong
	case minus3 || plus4:
		return refdata.KozakAdequate
	default:
		return refdata.KozakWeak
	}
}
