package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/goatfarm_backend/config"
	"bitbucket.org/mmdatafocus/goatfarm_backend/utils"
	"github.com/shopspring/decimal"
)

type WeightRecord struct {
	ID         int             `gorm:"primary_key" json:"id"`
	BusinessId string          `gorm:"index;not null" json:"business_id" binding:"required"`
	GoatId     int             `gorm:"index;not null" json:"goat_id" binding:"required"`
	RecordDate time.Time       `gorm:"not null" json:"record_date" binding:"required"`
	Weight     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"weight" binding:"required"`
	Notes      string          `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type NewWeightRecord struct {
	GoatId     int             `json:"goat_id" binding:"required"`
	RecordDate time.Time       `json:"record_date" binding:"required"`
	Weight     decimal.Decimal `json:"weight" binding:"required"`
	Notes      string          `json:"notes"`
}

type WeightRecordsEdge Edge[WeightRecord]

type WeightRecordsConnection struct {
	PageInfo *PageInfo            `json:"pageInfo"`
	Edges    []*WeightRecordsEdge `json:"edges"`
}

func (w WeightRecord) GetId() int {
	return w.ID
}

func (w WeightRecord) GetBusinessId() string {
	return w.BusinessId
}

// implements Cursor
func (w WeightRecord) GetCursor() string {
	return w.RecordDate.String()
}

// CreateWeightRecord inserts the record and refreshes the goat's cached
// current weight in the same transaction. The goats table is never updated
// with a weight by any other path.
func CreateWeightRecord(ctx context.Context, input *NewWeightRecord) (*WeightRecord, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	if !input.Weight.IsPositive() {
		return nil, utils.NewValidationError("WeightRecord", "weight", "must be positive")
	}
	if input.RecordDate.IsZero() {
		return nil, utils.NewValidationError("WeightRecord", "record_date", "is required")
	}
	if err := utils.ValidateResourceId[Goat](ctx, businessId, input.GoatId); err != nil {
		return nil, &utils.NotFoundError{Entity: "Goat", Id: input.GoatId}
	}

	record := WeightRecord{
		BusinessId: businessId,
		GoatId:     input.GoatId,
		RecordDate: input.RecordDate,
		Weight:     input.Weight,
		Notes:      input.Notes,
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Create(&record).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	// only the newest record drives the cache
	var newer int64
	err := tx.WithContext(ctx).Model(&WeightRecord{}).
		Where("business_id = ? AND goat_id = ? AND record_date > ?", businessId, input.GoatId, input.RecordDate).
		Count(&newer).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if newer == 0 {
		err = tx.WithContext(ctx).Model(&Goat{ID: input.GoatId, BusinessId: businessId}).
			UpdateColumn("CurrentWeight", input.Weight).Error
		if err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisItem[Goat](input.GoatId); err != nil {
		return nil, err
	}

	return &record, nil
}

func GetWeightRecord(ctx context.Context, id int) (*WeightRecord, error) {
	return GetResource[WeightRecord](ctx, id)
}

func PaginateWeightRecords(ctx context.Context, limit *int, after *string, goatId *int, fromDate *MyDateString, toDate *MyDateString) (*WeightRecordsConnection, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)

	business, err := GetBusiness(ctx)
	if err != nil {
		return nil, errors.New("business id is required")
	}
	if err := fromDate.StartOfDayUTCTime(business.Timezone); err != nil {
		return nil, err
	}
	if err := toDate.EndOfDayUTCTime(business.Timezone); err != nil {
		return nil, err
	}

	if goatId != nil && *goatId > 0 {
		dbCtx.Where("goat_id = ?", *goatId)
	}
	if fromDate != nil && toDate != nil {
		dbCtx = dbCtx.Where("record_date BETWEEN ? AND ?", fromDate, toDate)
	}

	edges, pageInfo, err := FetchPageCompositeCursor[WeightRecord](dbCtx, *limit, after, "record_date", ">")
	if err != nil {
		return nil, err
	}
	var connection WeightRecordsConnection
	connection.PageInfo = pageInfo
	for _, edge := range edges {
		recordsEdge := WeightRecordsEdge(edge)
		connection.Edges = append(connection.Edges, &recordsEdge)
	}

	return &connection, err
}
