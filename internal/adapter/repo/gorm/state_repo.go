package gormrepo

import (
	"context"
	"errors"
	"strconv"

	"petkeeper/internal/adapter/repo/gorm/model"
	"petkeeper/internal/domain/petting"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// botStateRowID pins the state table to a single row.
const botStateRowID = int16(1)

const intervalSettingKey = "petting_interval_hours"

type StateRepo struct {
	db *gorm.DB
}

func NewStateRepo(db *gorm.DB) StateRepo {
	return StateRepo{db: db}
}

func (r StateRepo) GetBotState(ctx context.Context) (petting.BotState, error) {
	var m model.BotState
	err := getDBFromCtx(ctx, r.db).Where("id = ?", botStateRowID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return petting.BotState{Running: false}, nil
	}
	if err != nil {
		return petting.BotState{}, err
	}
	return petting.BotState{
		Running:        m.Running,
		LastRun:        m.LastRun,
		LastError:      m.LastError,
		LastRunMessage: m.LastRunMessage,
	}, nil
}

func (r StateRepo) SetBotState(ctx context.Context, state petting.BotState) error {
	m := model.BotState{
		ID:             botStateRowID,
		Running:        state.Running,
		LastRun:        state.LastRun,
		LastError:      state.LastError,
		LastRunMessage: state.LastRunMessage,
	}
	return getDBFromCtx(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&m).Error
}

func (r StateRepo) GetIntervalHours(ctx context.Context) (float64, error) {
	var m model.Setting
	err := getDBFromCtx(ctx, r.db).Where("key = ?", intervalSettingKey).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return petting.DefaultIntervalHours, nil
	}
	if err != nil {
		return 0, err
	}
	hours, err := strconv.ParseFloat(m.Value, 64)
	if err != nil {
		return petting.DefaultIntervalHours, nil
	}
	return petting.IntervalOrDefault(hours), nil
}

func (r StateRepo) SetIntervalHours(ctx context.Context, hours float64) error {
	m := model.Setting{
		Key:   intervalSettingKey,
		Value: strconv.FormatFloat(petting.ClampIntervalHours(hours), 'f', -1, 64),
	}
	return getDBFromCtx(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			UpdateAll: true,
		}).
		Create(&m).Error
}
