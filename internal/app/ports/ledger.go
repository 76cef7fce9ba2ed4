package ports

import "context"

// PetReceipt is the confirmation of one batched interact call.
type PetReceipt struct {
	Hash        string
	BlockNumber int64
	GasUsed     string
	GasCostWei  string
}

// LedgerGateway is the contract boundary to the Aavegotchi diamond. Reads
// and the single write are remote calls with asynchronous confirmation;
// SubmitPet blocks until the transaction is confirmed or the context
// expires.
type LedgerGateway interface {
	TokenIDsOfOwner(ctx context.Context, owner string) ([]string, error)
	// LastInteracted returns the gotchi's last interaction time in unix
	// seconds (ledger time).
	LastInteracted(ctx context.Context, tokenID string) (int64, error)
	// CurrentTimestamp returns the chain head timestamp in unix seconds.
	CurrentTimestamp(ctx context.Context) (int64, error)
	SubmitPet(ctx context.Context, tokenIDs []string) (PetReceipt, error)
	// IsPetOperator reports whether owner has granted operator approval to
	// the keeper wallet.
	IsPetOperator(ctx context.Context, owner string) (bool, error)
}
