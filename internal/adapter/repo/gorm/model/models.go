// Package model holds the persistence row types for the Postgres store.
// Columns mirror the domain records; histories carry a seq column so
// bounded trimming can evict the oldest rows.
package model

type BotState struct {
	ID             int16 `gorm:"primaryKey"`
	Running        bool
	LastRun        int64
	LastError      string
	LastRunMessage string
}

func (BotState) TableName() string { return "bot_state" }

type Setting struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

func (Setting) TableName() string { return "settings" }

type Transaction struct {
	Seq         int64 `gorm:"primaryKey;autoIncrement"`
	Hash        string
	Timestamp   int64
	BlockNumber int64
	GasUsed     string
	GasCostWei  string
	TokenIDs    []byte `gorm:"column:token_ids;type:jsonb"`
}

func (Transaction) TableName() string { return "transactions" }

type ErrorLog struct {
	Seq       int64  `gorm:"primaryKey;autoIncrement"`
	LogID     string `gorm:"column:log_id"`
	Timestamp int64
	Message   string
	Type      string
}

func (ErrorLog) TableName() string { return "error_logs" }

type ManualTrigger struct {
	Seq       int64  `gorm:"primaryKey;autoIncrement"`
	TriggerID string `gorm:"column:trigger_id"`
	Timestamp int64
	Message   string
	Petted    int32
}

func (ManualTrigger) TableName() string { return "manual_triggers" }

type WorkerLog struct {
	Seq       int64 `gorm:"primaryKey;autoIncrement"`
	Timestamp int64
	Level     string
	Message   string
}

func (WorkerLog) TableName() string { return "worker_logs" }

type DelegatedOwner struct {
	Seq     int64  `gorm:"primaryKey;autoIncrement"`
	Address string `gorm:"uniqueIndex"`
}

func (DelegatedOwner) TableName() string { return "delegated_owners" }
