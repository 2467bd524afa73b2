package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/goatfarm_backend/config"
	"bitbucket.org/mmdatafocus/goatfarm_backend/utils"
	"github.com/shopspring/decimal"
)

// HealthRecord is always goat-specific. Its cost feeds the per-goat
// allocation but never the shared pool.
type HealthRecord struct {
	ID         int             `gorm:"primary_key" json:"id"`
	BusinessId string          `gorm:"index;not null" json:"business_id" binding:"required"`
	GoatId     int             `gorm:"index;not null" json:"goat_id" binding:"required"`
	RecordDate time.Time       `gorm:"not null" json:"record_date" binding:"required"`
	Condition  string          `gorm:"size:255" json:"condition"`
	Treatment  string          `gorm:"type:text" json:"treatment"`
	Cost       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cost"`
	Status     HealthStatus    `gorm:"type:enum('Healthy','Sick','Recovering');default:Healthy" json:"status"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewHealthRecord struct {
	GoatId     int             `json:"goat_id" binding:"required"`
	RecordDate time.Time       `json:"record_date" binding:"required"`
	Condition  string          `json:"condition"`
	Treatment  string          `json:"treatment"`
	Cost       decimal.Decimal `json:"cost"`
	Status     HealthStatus    `json:"status"`
}

type HealthRecordsEdge Edge[HealthRecord]

type HealthRecordsConnection struct {
	PageInfo *PageInfo            `json:"pageInfo"`
	Edges    []*HealthRecordsEdge `json:"edges"`
}

func (h HealthRecord) GetId() int {
	return h.ID
}

func (h HealthRecord) GetBusinessId() string {
	return h.BusinessId
}

// implements Cursor
func (h HealthRecord) GetCursor() string {
	return h.RecordDate.String()
}

func (input *NewHealthRecord) validate(ctx context.Context, businessId string, _ int) error {
	if input.Cost.IsNegative() {
		return utils.NewValidationError("HealthRecord", "cost", "must not be negative")
	}
	if input.RecordDate.IsZero() {
		return utils.NewValidationError("HealthRecord", "record_date", "is required")
	}
	if err := utils.ValidateResourceId[Goat](ctx, businessId, input.GoatId); err != nil {
		return &utils.NotFoundError{Entity: "Goat", Id: input.GoatId}
	}
	return nil
}

func CreateHealthRecord(ctx context.Context, input *NewHealthRecord) (*HealthRecord, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	if err := input.validate(ctx, businessId, 0); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = HealthStatusHealthy
	}

	record := HealthRecord{
		BusinessId: businessId,
		GoatId:     input.GoatId,
		RecordDate: input.RecordDate,
		Condition:  input.Condition,
		Treatment:  input.Treatment,
		Cost:       input.Cost,
		Status:     status,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func UpdateHealthRecord(ctx context.Context, id int, input *NewHealthRecord) (*HealthRecord, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if _, err := utils.FetchModel[HealthRecord](ctx, businessId, id); err != nil {
		return nil, &utils.NotFoundError{Entity: "HealthRecord", Id: id}
	}
	if err := input.validate(ctx, businessId, id); err != nil {
		return nil, err
	}

	update := HealthRecord{
		ID:         id,
		BusinessId: businessId,
	}

	db := config.GetDB()
	err := db.WithContext(ctx).Model(&update).Updates(map[string]interface{}{
		"GoatId":     input.GoatId,
		"RecordDate": input.RecordDate,
		"Condition":  input.Condition,
		"Treatment":  input.Treatment,
		"Cost":       input.Cost,
		"Status":     input.Status,
	}).Error
	if err != nil {
		return nil, err
	}

	return utils.FetchModel[HealthRecord](ctx, businessId, id)
}

func DeleteHealthRecord(ctx context.Context, id int) (*HealthRecord, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	result, err := utils.FetchModel[HealthRecord](ctx, businessId, id)
	if err != nil {
		return nil, &utils.NotFoundError{Entity: "HealthRecord", Id: id}
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func GetHealthRecord(ctx context.Context, id int) (*HealthRecord, error) {
	return GetResource[HealthRecord](ctx, id)
}

func PaginateHealthRecords(ctx context.Context, limit *int, after *string, goatId *int, status *HealthStatus, fromDate *MyDateString, toDate *MyDateString) (*HealthRecordsConnection, error) {
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
	if status != nil && *status != "" {
		dbCtx.Where("status = ?", *status)
	}
	if fromDate != nil && toDate != nil {
		dbCtx = dbCtx.Where("record_date BETWEEN ? AND ?", fromDate, toDate)
	}

	edges, pageInfo, err := FetchPageCompositeCursor[HealthRecord](dbCtx, *limit, after, "record_date", ">")
	if err != nil {
		return nil, err
	}
	var connection HealthRecordsConnection
	connection.PageInfo = pageInfo
	for _, edge := range edges {
		recordsEdge := HealthRecordsEdge(edge)
		connection.Edges = append(connection.Edges, &recordsEdge)
	}

	return &connection, err
}
