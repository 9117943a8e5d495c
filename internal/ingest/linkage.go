package ingest

import "strings"

// creditCardPrefix marks a credit-card selection in the opaque selection
// string the UI sends. This is the only place the prefix is interpreted;
// everything downstream carries the discriminated AccountRef.
const creditCardPrefix = "cc_"

// ResolveAccountSelection turns an opaque account selection into an
// AccountRef. It never fails: an absent or empty selection degrades to
// "no linkage" rather than an error, and every ingestion modality funnels
// through this one function so linkage semantics cannot drift per entry
// point.
func ResolveAccountSelection(selection string) AccountRef {
	selection = strings.TrimSpace(selection)
	if selection == "" {
		return AccountRef{}
	}
	if rest := strings.TrimPrefix(selection, creditCardPrefix); rest != selection {
		if rest == "" {
			return AccountRef{}
		}
		return AccountRef{Kind: RefCreditCard, ID: rest}
	}
	return AccountRef{Kind: RefAccount, ID: selection}
}

// applyRef writes the resolved linkage onto a transaction, keeping the
// two linkage fields mutually exclusive.
func applyRef(tx *Transaction, ref AccountRef) {
	switch ref.Kind {
	case RefAccount:
		tx.LinkedAccountID = ref.ID
		tx.LinkedCreditCardID = ""
	case RefCreditCard:
		tx.LinkedCreditCardID = ref.ID
		tx.LinkedAccountID = ""
	default:
		tx.LinkedAccountID = ""
		tx.LinkedCreditCardID = ""
	}
}
