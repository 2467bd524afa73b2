package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/goatfarm_backend/config"
	"bitbucket.org/mmdatafocus/goatfarm_backend/utils"
	"github.com/shopspring/decimal"
)

// SaleTransaction is the ledger row written by the sale workflow. The profit
// figures are frozen at sale time from the pre-sale allocation snapshot so a
// later expense cannot rewrite a settled sale.
type SaleTransaction struct {
	ID             int             `gorm:"primary_key" json:"id"`
	BusinessId     string          `gorm:"index;not null" json:"business_id" binding:"required"`
	GoatId         int             `gorm:"index;not null" json:"goat_id" binding:"required"`
	Amount         decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount" binding:"required"`
	SaleDate       time.Time       `gorm:"not null" json:"sale_date" binding:"required"`
	Buyer          string          `gorm:"size:255" json:"buyer"`
	CaretakerId    int             `gorm:"index" json:"caretaker_id"`
	CaretakerShare decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"caretaker_share"`
	GrossProfit    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"gross_profit"`
	NetProfit      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"net_profit"`
	Description    string          `gorm:"type:text" json:"description"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type SaleTransactionsEdge Edge[SaleTransaction]

type SaleTransactionsConnection struct {
	PageInfo *PageInfo               `json:"pageInfo"`
	Edges    []*SaleTransactionsEdge `json:"edges"`
}

func (s SaleTransaction) GetId() int {
	return s.ID
}

func (s SaleTransaction) GetBusinessId() string {
	return s.BusinessId
}

// implements Cursor
func (s SaleTransaction) GetCursor() string {
	return s.SaleDate.String()
}

// DescribeSale renders the human readable ledger line from the structured
// columns, so the text can always be regenerated.
func DescribeSale(tagNumber string, amount, grossProfit, netProfit, caretakerShare decimal.Decimal) string {
	return fmt.Sprintf("Sold goat %s for %s (gross profit %s, net profit %s, caretaker share %s).",
		tagNumber,
		amount.StringFixed(2),
		grossProfit.StringFixed(2),
		netProfit.StringFixed(2),
		caretakerShare.StringFixed(2))
}

func GetSaleTransaction(ctx context.Context, id int) (*SaleTransaction, error) {
	sale, err := GetResource[SaleTransaction](ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			return nil, &utils.NotFoundError{Entity: "SaleTransaction", Id: id}
		}
		return nil, err
	}
	return sale, nil
}

// SoldGoatsBetween returns the ledger rows whose sale date falls in the range,
// oldest first. Report aggregation reads from here, not from the goats table.
func SoldGoatsBetween(ctx context.Context, businessId string, from, to time.Time) ([]*SaleTransaction, error) {
	db := config.GetDB()
	var sales []*SaleTransaction
	err := db.WithContext(ctx).
		Where("business_id = ? AND sale_date BETWEEN ? AND ?", businessId, from, to).
		Order("sale_date ASC").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

func PaginateSaleTransactions(ctx context.Context, limit *int, after *string, goatId *int, caretakerId *int, fromDate *MyDateString, toDate *MyDateString) (*SaleTransactionsConnection, error) {
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
	if caretakerId != nil && *caretakerId > 0 {
		dbCtx.Where("caretaker_id = ?", *caretakerId)
	}
	if fromDate != nil && toDate != nil {
		dbCtx = dbCtx.Where("sale_date BETWEEN ? AND ?", fromDate, toDate)
	}

	edges, pageInfo, err := FetchPageCompositeCursor[SaleTransaction](dbCtx, *limit, after, "sale_date", ">")
	if err != nil {
		return nil, err
	}
	var connection SaleTransactionsConnection
	connection.PageInfo = pageInfo
	for _, edge := range edges {
		salesEdge := SaleTransactionsEdge(edge)
		connection.Edges = append(connection.Edges, &salesEdge)
	}

	return &connection, err
}
