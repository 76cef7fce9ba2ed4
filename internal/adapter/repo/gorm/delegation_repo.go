package gormrepo

import (
	"context"

	"petkeeper/internal/adapter/repo/gorm/model"
	"petkeeper/internal/app/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DelegationRepo struct {
	db *gorm.DB
}

func NewDelegationRepo(db *gorm.DB) DelegationRepo {
	return DelegationRepo{db: db}
}

// Owners returns registered addresses in registration order.
func (r DelegationRepo) Owners(ctx context.Context) ([]string, error) {
	var rows []model.DelegatedOwner
	if err := getDBFromCtx(ctx, r.db).Order("seq ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Address)
	}
	return out, nil
}

func (r DelegationRepo) Add(ctx context.Context, owner string) error {
	m := model.DelegatedOwner{Address: owner}
	return getDBFromCtx(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "address"}},
			DoNothing: true,
		}).
		Create(&m).Error
}

func (r DelegationRepo) Remove(ctx context.Context, owner string) error {
	res := getDBFromCtx(ctx, r.db).Where("address = ?", owner).Delete(&model.DelegatedOwner{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r DelegationRepo) Contains(ctx context.Context, owner string) (bool, error) {
	var count int64
	err := getDBFromCtx(ctx, r.db).
		Model(&model.DelegatedOwner{}).
		Where("address = ?", owner).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r DelegationRepo) Clear(ctx context.Context) (int, error) {
	db := getDBFromCtx(ctx, r.db)
	var count int64
	if err := db.Model(&model.DelegatedOwner{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.DelegatedOwner{}).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}
