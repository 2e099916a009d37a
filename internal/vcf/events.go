package vcf

// Splice remapping event labels, recorded as provenance on synthetic
// variants. The label encodes the SpliceAI event kind (acceptor or donor
// gain), whether the transcript gains or loses sequence, and the strand.
const (
	EventAGInsertionPlus  = "AG_insertion_+"
	EventAGInsertionMinus = "AG_insertion_-"
	EventAGDeletionPlus   = "AG_deletion_+"
	EventAGDeletionMinus  = "AG_deletion_-"
	EventDGInsertionPlus  = "DG_insertion_+"
	EventDGInsertionMinus = "DG_insertion_-"
	EventDGDeletionPlus   = "DG_deletion_+"
	EventDGDeletionMinus  = "DG_deletion_-"
)
