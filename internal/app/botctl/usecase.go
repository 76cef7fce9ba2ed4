package botctl

import (
	"context"
	"errors"

	"petkeeper/internal/app/ports"
	"petkeeper/internal/domain/petting"
)

var ErrIntervalOutOfRange = errors.New("pettingIntervalHours must be between 30 seconds and 24 hours")

// UseCase exposes the bot control operations: start/stop flip the Running
// flag and preserve everything else; Status returns the persisted state
// verbatim. None of these run a cycle.
type UseCase struct {
	State      ports.StateRepository
	BaseRpcURL string
}

func (u UseCase) Start(ctx context.Context) (petting.BotState, error) {
	return u.setRunning(ctx, true)
}

func (u UseCase) Stop(ctx context.Context) (petting.BotState, error) {
	return u.setRunning(ctx, false)
}

func (u UseCase) setRunning(ctx context.Context, running bool) (petting.BotState, error) {
	state, err := u.State.GetBotState(ctx)
	if err != nil {
		return petting.BotState{}, err
	}
	state.Running = running
	if err := u.State.SetBotState(ctx, state); err != nil {
		return petting.BotState{}, err
	}
	return state, nil
}

func (u UseCase) Status(ctx context.Context) (petting.BotState, error) {
	return u.State.GetBotState(ctx)
}

func (u UseCase) Config(ctx context.Context) (Config, error) {
	hours, err := u.State.GetIntervalHours(ctx)
	if err != nil {
		return Config{}, err
	}
	state, err := u.State.GetBotState(ctx)
	if err != nil {
		return Config{}, err
	}
	return Config{
		BaseRpcURL:           u.BaseRpcURL,
		PettingIntervalHours: hours,
		Running:              state.Running,
	}, nil
}

func (u UseCase) Frequency(ctx context.Context) (float64, error) {
	return u.State.GetIntervalHours(ctx)
}

// SetFrequency rejects out-of-range values rather than clamping them; the
// stored value is always one an operator asked for.
func (u UseCase) SetFrequency(ctx context.Context, hours float64) error {
	if !petting.ValidIntervalHours(hours) {
		return ErrIntervalOutOfRange
	}
	return u.State.SetIntervalHours(ctx, hours)
}
