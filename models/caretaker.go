package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/goatfarm_backend/config"
	"bitbucket.org/mmdatafocus/goatfarm_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Caretaker carries its own payment model. A NULL PaymentModelType means the
// row predates the per-caretaker model and is waiting for
// MigrateLegacyPaymentModels to backfill it.
type Caretaker struct {
	ID                 int               `gorm:"primary_key" json:"id"`
	BusinessId         string            `gorm:"index;not null" json:"business_id" binding:"required"`
	Name               string            `gorm:"size:100;not null" json:"name" binding:"required"`
	Phone              string            `gorm:"size:20" json:"phone"`
	Address            string            `gorm:"type:text" json:"address"`
	PaymentModelType   *PaymentModelType `gorm:"type:enum('Percentage','Monthly');default:null" json:"payment_model_type"`
	PaymentModelAmount decimal.Decimal   `gorm:"type:decimal(20,4);default:0" json:"payment_model_amount"`
	// TotalEarnings is accrued inside sale transactions, never recomputed in
	// place. Reports recompute from the ledger for comparison.
	TotalEarnings decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_earnings"`
	IsActive      *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCaretaker struct {
	Name               string            `json:"name" binding:"required"`
	Phone              string            `json:"phone"`
	Address            string            `json:"address"`
	PaymentModelType   *PaymentModelType `json:"payment_model_type"`
	PaymentModelAmount decimal.Decimal   `json:"payment_model_amount"`
}

type CaretakersEdge Edge[Caretaker]

type CaretakersConnection struct {
	PageInfo *PageInfo         `json:"pageInfo"`
	Edges    []*CaretakersEdge `json:"edges"`
}

func (c Caretaker) GetId() int {
	return c.ID
}

func (c Caretaker) GetBusinessId() string {
	return c.BusinessId
}

// implements Cursor
func (c Caretaker) GetCursor() string {
	return c.CreatedAt.String()
}

// validate input for both create & update. (id = 0 for create)
func (input *NewCaretaker) validate(ctx context.Context, businessId string, id int) error {
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return utils.NewValidationError("Caretaker", "phone", "is not a valid phone number")
		}
	}
	if input.PaymentModelAmount.IsNegative() {
		return utils.NewValidationError("Caretaker", "payment_model_amount", "must not be negative")
	}
	if input.PaymentModelType != nil && *input.PaymentModelType == PaymentModelTypePercentage {
		if input.PaymentModelAmount.GreaterThan(decimal.NewFromInt(100)) {
			return utils.NewValidationError("Caretaker", "payment_model_amount", "percentage must not exceed 100")
		}
	}

	// name unique within the business
	if err := utils.ValidateUnique[Caretaker](ctx, businessId, "name", input.Name, id); err != nil {
		return utils.NewValidationError("Caretaker", "name", "is already in use")
	}

	return nil
}

func CreateCaretaker(ctx context.Context, input *NewCaretaker) (*Caretaker, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	if err := input.validate(ctx, businessId, 0); err != nil {
		return nil, err
	}

	caretaker := Caretaker{
		BusinessId:         businessId,
		Name:               input.Name,
		Phone:              input.Phone,
		Address:            input.Address,
		PaymentModelType:   input.PaymentModelType,
		PaymentModelAmount: input.PaymentModelAmount,
		TotalEarnings:      decimal.Zero,
		IsActive:           utils.NewTrue(),
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Create(&caretaker).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := createHistory(tx.WithContext(ctx), "*CREATE*", caretaker.ID, "caretakers", nil, caretaker, "Caretaker "+caretaker.Name+" added."); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &caretaker, nil
}

func UpdateCaretaker(ctx context.Context, id int, input *NewCaretaker) (*Caretaker, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	beforeUpdate, err := utils.FetchModel[Caretaker](ctx, businessId, id)
	if err != nil {
		return nil, &utils.NotFoundError{Entity: "Caretaker", Id: id}
	}
	if err := input.validate(ctx, businessId, id); err != nil {
		return nil, err
	}

	update := Caretaker{
		ID:         id,
		BusinessId: businessId,
	}

	db := config.GetDB()
	tx := db.Begin()

	err = tx.WithContext(ctx).Model(&update).Updates(map[string]interface{}{
		"Name":               input.Name,
		"Phone":              input.Phone,
		"Address":            input.Address,
		"PaymentModelType":   input.PaymentModelType,
		"PaymentModelAmount": input.PaymentModelAmount,
	}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := createHistory(tx.WithContext(ctx), "*UPDATE*", id, "caretakers", beforeUpdate, input, "Caretaker "+input.Name+" updated."); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisItem[Caretaker](id); err != nil {
		return nil, err
	}

	return utils.FetchModel[Caretaker](ctx, businessId, id)
}

// DeactivateCaretaker keeps the row (the ledger references it) but blocks new
// goat assignments at the host layer.
func DeactivateCaretaker(ctx context.Context, id int) (*Caretaker, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	caretaker, err := utils.FetchModel[Caretaker](ctx, businessId, id)
	if err != nil {
		return nil, &utils.NotFoundError{Entity: "Caretaker", Id: id}
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&Caretaker{ID: id, BusinessId: businessId}).
		UpdateColumn("IsActive", false).Error
	if err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisItem[Caretaker](id); err != nil {
		return nil, err
	}

	caretaker.IsActive = utils.NewFalse()
	return caretaker, nil
}

func GetCaretaker(ctx context.Context, id int) (*Caretaker, error) {
	caretaker, err := GetResource[Caretaker](ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			return nil, &utils.NotFoundError{Entity: "Caretaker", Id: id}
		}
		return nil, err
	}
	return caretaker, nil
}

// AccrueCaretakerEarnings adds a sale share to the caretaker's running total
// inside the caller's sale transaction.
func AccrueCaretakerEarnings(tx *gorm.DB, businessId string, caretakerId int, share decimal.Decimal) error {
	if share.IsZero() {
		return nil
	}
	err := tx.Model(&Caretaker{}).
		Where("business_id = ? AND id = ?", businessId, caretakerId).
		UpdateColumn("total_earnings", gorm.Expr("total_earnings + ?", share)).Error
	if err != nil {
		return err
	}
	return utils.RemoveRedisItem[Caretaker](caretakerId)
}

func PaginateCaretakers(ctx context.Context, limit *int, after *string, activeOnly *bool) (*CaretakersConnection, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)

	if activeOnly != nil && *activeOnly {
		dbCtx.Where("is_active = ?", true)
	}

	edges, pageInfo, err := FetchPageCompositeCursor[Caretaker](dbCtx, *limit, after, "created_at", ">")
	if err != nil {
		return nil, err
	}
	var connection CaretakersConnection
	connection.PageInfo = pageInfo
	for _, edge := range edges {
		caretakersEdge := CaretakersEdge(edge)
		connection.Edges = append(connection.Edges, &caretakersEdge)
	}

	return &connection, err
}
