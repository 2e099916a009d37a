package annotate

import "github.com/mchaldebas/5ULTRA/internal/refdata"

// ToRelative converts a genomic position to its distance from the 5' cap.
// Exons are walked in transcript order: ascending genomic order on the
// forward strand, descending on the reverse. The caller guarantees the
// position falls within the exon set's genomic span; intronic positions are
// pre-filtered upstream.
func ToRelative(exons refdata.ExonList, strand string, pos int64) int64 {
	var distance int64
	if strand == "+" {
		for _, e := range exons {
			if e.End < pos {
				distance += e.Length()
			} else if e.Start < pos {
				distance += pos - e.Start
				break
			}
		}
		return distance
	}
	for i := len(exons) - 1; i >= 0; i-- {
		e := exons[i]
		if e.Start > pos {
			distance += e.Length()
		} else if e.End > pos {
			distance += e.End - pos
			break
		}
	}
	return distance
}

// ToGenomic converts a distance from the 5' cap back to a genomic position.
// The second return value is false when the distance exceeds the total exon
// length; in that case the position is extrapolated past the final exon
// bound, preserving the arithmetic downstream consumers expect for stop
// scans that run off the end of the stored sequence.
func ToGenomic(exons refdata.ExonList, strand string, distance int64) (int64, bool) {
	if len(exons) == 0 {
		return 0, false
	}
	remaining := distance
	if strand == "+" {
		for _, e := range exons {
			if remaining <= e.Length() {
				return e.Start + remaining, true
			}
			remaining -= e.Length()
		}
		return exons[len(exons)-1].Start + remaining, false
	}
	for i := len(exons) - 1; i >= 0; i-- {
		e := exons[i]
		if remaining <= e.Length() {
			return e.End - remaining, true
		}
		remaining -= e.Length()
	}
	return exons[0].End - remaining, false
}
