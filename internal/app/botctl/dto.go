package botctl

type Config struct {
	BaseRpcURL           string  `json:"baseRpcUrl"`
	PettingIntervalHours float64 `json:"pettingIntervalHours"`
	Running              bool    `json:"running"`
}
