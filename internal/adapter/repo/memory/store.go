package memory

import (
	"sync"

	"petkeeper/internal/domain/petting"
)

// Store is the in-process backing for all repositories; used in tests and
// as the dev fallback when no Redis or Postgres is configured.
type Store struct {
	mu sync.RWMutex

	state    petting.BotState
	stateSet bool

	intervalHours float64
	intervalSet   bool

	owners []string

	transactions *petting.History[petting.Transaction]
	errorLogs    *petting.History[petting.ErrorLog]
	manuals      *petting.History[petting.ManualTriggerLog]
	workerLogs   *petting.History[petting.WorkerLogEntry]
}

func NewStore() *Store {
	return &Store{
		transactions: petting.NewHistory[petting.Transaction](petting.TransactionHistoryCap),
		errorLogs:    petting.NewHistory[petting.ErrorLog](petting.ErrorHistoryCap),
		manuals:      petting.NewHistory[petting.ManualTriggerLog](petting.ManualTriggerHistoryCap),
		workerLogs:   petting.NewHistory[petting.WorkerLogEntry](petting.WorkerLogHistoryCap),
	}
}

// SeedState is a test helper.
func (s *Store) SeedState(state petting.BotState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.stateSet = true
}

// SeedOwners is a test helper.
func (s *Store) SeedOwners(owners ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners = append([]string{}, owners...)
}
