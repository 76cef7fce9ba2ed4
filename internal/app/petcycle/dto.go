package petcycle

// Result is the outcome of one petting cycle. Success with Petted == 0 means
// the cycle ran and found nothing to do; an error from RunCycle means the
// cycle attempted the batched call and failed (or could not run at all).
type Result struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	Petted          int    `json:"petted"`
	TransactionHash string `json:"transactionHash,omitempty"`
	BlockNumber     int64  `json:"blockNumber,omitempty"`
}
