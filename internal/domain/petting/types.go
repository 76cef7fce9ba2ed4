package petting

// Timestamps on records are unix milliseconds (wall clock at write time).
// Ledger timestamps (lastInteracted, chain head) are unix seconds.

type BotState struct {
	Running        bool   `json:"running"`
	LastRun        int64  `json:"lastRun,omitempty"`
	LastError      string `json:"lastError,omitempty"`
	LastRunMessage string `json:"lastRunMessage,omitempty"`
}

type Transaction struct {
	Hash        string   `json:"hash"`
	Timestamp   int64    `json:"timestamp"`
	BlockNumber int64    `json:"blockNumber"`
	GasUsed     string   `json:"gasUsed"`
	GasCostWei  string   `json:"gasCostWei,omitempty"`
	TokenIDs    []string `json:"tokenIds"`
}

type ErrorLog struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Message   string `json:"message"`
	Type      string `json:"type"`
}

// ErrorTypePetting classifies failures of the batched interact call.
const ErrorTypePetting = "PettingError"

type ManualTriggerLog struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Message   string `json:"message"`
	Petted    int    `json:"petted,omitempty"`
}

type LogLevel string

const (
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

type WorkerLogEntry struct {
	Timestamp int64    `json:"timestamp"`
	Level     LogLevel `json:"level"`
	Message   string   `json:"message"`
}

// History bounds: transactions, errors and manual triggers keep the most
// recent 100 entries, worker logs the most recent 200. Oldest entries are
// evicted by trimming after each insert.
const (
	TransactionHistoryCap   = 100
	ErrorHistoryCap         = 100
	ManualTriggerHistoryCap = 100
	WorkerLogHistoryCap     = 200
)
