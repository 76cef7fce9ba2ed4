package petting

// ItemStatus is the per-gotchi probe result fed to the eligibility scan.
// ReadFailed marks a gotchi whose lastInteracted read failed; the scan treats
// it as due (fail-open) so one bad read cannot block the rest of the batch.
type ItemStatus struct {
	TokenID        string
	LastInteracted int64 // unix seconds, ledger time
	ReadFailed     bool
}

// ReadyToPet decides which token ids the cycle should pet. The policy is
// all-or-nothing: petting is batched into a single interact call, so as soon
// as any gotchi is due the whole set goes — one transaction amortized across
// every id. A gotchi is due when at least intervalHours have elapsed since
// its last interaction (inclusive bound). The scan follows input order and
// stops at the first due item.
//
// force returns the full set unconditionally. An empty input always returns
// nil.
func ReadyToPet(items []ItemStatus, now int64, intervalHours float64, force bool) []string {
	if len(items) == 0 {
		return nil
	}
	if force {
		return tokenIDs(items)
	}
	for _, it := range items {
		if it.ReadFailed {
			return tokenIDs(items)
		}
		hoursSince := float64(now-it.LastInteracted) / 3600.0
		if hoursSince >= intervalHours {
			return tokenIDs(items)
		}
	}
	return nil
}

func tokenIDs(items []ItemStatus) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.TokenID
	}
	return ids
}
