// Package workflow coordinates the multi-table postings that must land
// atomically, chiefly the sale of a goat.
package workflow

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/goatfarm_backend/allocation"
	"bitbucket.org/mmdatafocus/goatfarm_backend/config"
	"bitbucket.org/mmdatafocus/goatfarm_backend/models"
	"bitbucket.org/mmdatafocus/goatfarm_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type NewGoatSale struct {
	GoatId    int             `json:"goat_id" binding:"required"`
	SalePrice decimal.Decimal `json:"sale_price" binding:"required"`
	SaleDate  time.Time       `json:"sale_date" binding:"required"`
	Buyer     string          `json:"buyer"`
}

// SellGoat posts a sale: goat flips to Sold, the ledger entry is written, the
// caretaker's earnings accrue, and the audit row lands, all in one database
// transaction. The allocation snapshot is read inside the transaction before
// any write, so the goat being sold still counts in its own shared expense
// denominator. Sales for one business are serialized by a redis lock plus a
// MySQL advisory lock.
func SellGoat(ctx context.Context, input *NewGoatSale) (*models.SaleTransaction, error) {
	logger := config.GetLogger()

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	var sale *models.SaleTransaction
	err := utils.BusinessLock(ctx, businessId, "sale", "workflow", "SellGoat", func() error {
		var err error
		sale, err = sellGoatLocked(ctx, businessId, input)
		return err
	})
	if err != nil {
		config.LogError(logger, "workflow", "SellGoat", "sale posting", input, err)
		return nil, err
	}
	return sale, nil
}

func sellGoatLocked(ctx context.Context, businessId string, input *NewGoatSale) (*models.SaleTransaction, error) {

	goat, err := utils.FetchModel[models.Goat](ctx, businessId, input.GoatId)
	if err != nil {
		return nil, &utils.NotFoundError{Entity: "Goat", Id: input.GoatId}
	}
	if goat.Status != models.GoatStatusActive {
		return nil, &utils.InvalidStateError{Entity: "Goat", Id: goat.ID, Status: string(goat.Status), Operation: "sell"}
	}
	if !input.SalePrice.IsPositive() {
		return nil, utils.NewValidationError("Goat", "sale_price", "must be positive")
	}
	if input.SaleDate.IsZero() {
		return nil, utils.NewValidationError("Goat", "sale_date", "is required")
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, &utils.ConsistencyError{Operation: "sell goat", Err: tx.Error}
	}

	if err := AcquireBusinessPostingLock(tx, businessId); err != nil {
		tx.Rollback()
		return nil, &utils.ConsistencyError{Operation: "sell goat", Err: err}
	}
	defer ReleaseBusinessPostingLock(tx, businessId)

	// snapshot before any write
	snap, err := FetchAllocationSnapshot(tx, businessId)
	if err != nil {
		tx.Rollback()
		return nil, &utils.ConsistencyError{Operation: "sell goat", Err: err}
	}

	// The pre-lock status check ran on data that may be stale by the time the
	// posting lock is held; the row inside the transaction decides.
	goat, err = activeGoatFromSnapshot(snap, goat.ID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	breakdown := allocation.Allocate(goat, snap)
	grossProfit := allocation.GrossProfit(input.SalePrice, goat.PurchasePrice)
	netProfit := allocation.NetProfit(input.SalePrice, goat.PurchasePrice, breakdown.Total)

	// the caretaker is read on the transaction so the payment model cannot
	// change between the share computation and the accrual
	caretakerShare := decimal.Zero
	var caretaker *models.Caretaker
	if goat.CaretakerId > 0 {
		caretaker = &models.Caretaker{}
		if err := tx.Where("business_id = ?", businessId).First(caretaker, goat.CaretakerId).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &utils.NotFoundError{Entity: "Caretaker", Id: goat.CaretakerId}
			}
			return nil, &utils.ConsistencyError{Operation: "sell goat", Err: err}
		}
		caretakerShare = allocation.CaretakerShare(netProfit, caretaker.PaymentModelType, caretaker.PaymentModelAmount)
	}

	saleDate := input.SaleDate
	err = tx.Model(&models.Goat{ID: goat.ID, BusinessId: businessId}).
		Updates(map[string]interface{}{
			"Status":    models.GoatStatusSold,
			"SalePrice": input.SalePrice,
			"SaleDate":  &saleDate,
			"Buyer":     input.Buyer,
		}).Error
	if err != nil {
		tx.Rollback()
		return nil, &utils.ConsistencyError{Operation: "sell goat", Err: err}
	}

	sale := models.SaleTransaction{
		BusinessId:     businessId,
		GoatId:         goat.ID,
		Amount:         input.SalePrice,
		SaleDate:       input.SaleDate,
		Buyer:          input.Buyer,
		CaretakerId:    goat.CaretakerId,
		CaretakerShare: caretakerShare,
		GrossProfit:    grossProfit,
		NetProfit:      netProfit,
		Description:    models.DescribeSale(goat.TagNumber, input.SalePrice, grossProfit, netProfit, caretakerShare),
	}
	if err := tx.Create(&sale).Error; err != nil {
		tx.Rollback()
		return nil, &utils.ConsistencyError{Operation: "sell goat", Err: err}
	}

	if caretaker != nil && !caretakerShare.IsZero() {
		if err := models.AccrueCaretakerEarnings(tx, businessId, caretaker.ID, caretakerShare); err != nil {
			tx.Rollback()
			return nil, &utils.ConsistencyError{Operation: "sell goat", Err: err}
		}
	}

	if err := models.CreateHistoryEntry(tx, "*SELL*", goat.ID, "goats", goat, sale, sale.Description); err != nil {
		tx.Rollback()
		return nil, &utils.ConsistencyError{Operation: "sell goat", Err: err}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, &utils.ConsistencyError{Operation: "sell goat", Err: err}
	}
	if err := utils.RemoveRedisItem[models.Goat](goat.ID); err != nil {
		return nil, err
	}

	return &sale, nil
}

// activeGoatFromSnapshot picks the goat's row out of the in-transaction
// snapshot and confirms it is still Active. The caller's earlier fetch ran
// before the posting lock was held, so a concurrent sale may already have
// flipped the row.
func activeGoatFromSnapshot(snap *allocation.Snapshot, goatId int) (*models.Goat, error) {
	for _, goat := range snap.Goats {
		if goat.ID != goatId {
			continue
		}
		if goat.Status != models.GoatStatusActive {
			return nil, &utils.InvalidStateError{Entity: "Goat", Id: goat.ID, Status: string(goat.Status), Operation: "sell"}
		}
		return goat, nil
	}
	return nil, &utils.NotFoundError{Entity: "Goat", Id: goatId}
}

// SuggestGoatPrice is the read-only advisor endpoint behind the pricing
// engine: it gathers the goat's specific expenses and asks for a price as of
// today.
func SuggestGoatPrice(ctx context.Context, goatId int) (decimal.Decimal, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return decimal.Zero, errors.New("business id is required")
	}

	goat, err := utils.FetchModel[models.Goat](ctx, businessId, goatId)
	if err != nil {
		return decimal.Zero, &utils.NotFoundError{Entity: "Goat", Id: goatId}
	}

	db := config.GetDB()
	snap, err := FetchAllocationSnapshot(db.WithContext(ctx), businessId)
	if err != nil {
		return decimal.Zero, err
	}

	return allocation.SuggestPrice(goat, allocation.SpecificExpenseTotal(snap, goatId), time.Now().UTC())
}
