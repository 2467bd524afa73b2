package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/goatfarm_backend/config"
	"bitbucket.org/mmdatafocus/goatfarm_backend/utils"
	"github.com/shopspring/decimal"
)

// Expense is a cost of running the business. GoatId null marks it a shared
// expense divided across active goats at allocation time; a set GoatId pins
// it to one goat.
type Expense struct {
	ID              int             `gorm:"primary_key" json:"id"`
	BusinessId      string          `gorm:"index;not null" json:"business_id" binding:"required"`
	GoatId          *int            `gorm:"index;default:null" json:"goat_id"`
	Category        ExpenseCategory `gorm:"type:enum('Feed','Medicine','Shelter','Transport','Labor','Utilities','Maintenance','Other');default:Other" json:"category"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	ExpenseDate     time.Time       `gorm:"not null" json:"expense_date" binding:"required"`
	ReferenceNumber string          `gorm:"size:255" json:"reference_number"`
	Notes           string          `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewExpense struct {
	GoatId          *int            `json:"goat_id"`
	Category        ExpenseCategory `json:"category"`
	Amount          decimal.Decimal `json:"amount"`
	ExpenseDate     time.Time       `json:"expense_date" binding:"required"`
	ReferenceNumber string          `json:"reference_number"`
	Notes           string          `json:"notes"`
}

type ExpensesEdge Edge[Expense]

type ExpensesConnection struct {
	PageInfo *PageInfo       `json:"pageInfo"`
	Edges    []*ExpensesEdge `json:"edges"`
}

func (e Expense) GetId() int {
	return e.ID
}

func (e Expense) GetBusinessId() string {
	return e.BusinessId
}

// implements Cursor
func (e Expense) GetCursor() string {
	return e.ExpenseDate.String()
}

func (e Expense) IsShared() bool {
	return e.GoatId == nil
}

// validate input for both create & update. (id = 0 for create)
func (input *NewExpense) validate(ctx context.Context, businessId string, _ int) error {
	if input.Amount.IsNegative() {
		return utils.NewValidationError("Expense", "amount", "must not be negative")
	}
	if input.ExpenseDate.IsZero() {
		return utils.NewValidationError("Expense", "expense_date", "is required")
	}

	// exists goat
	if input.GoatId != nil {
		if err := utils.ValidateResourceId[Goat](ctx, businessId, *input.GoatId); err != nil {
			return &utils.NotFoundError{Entity: "Goat", Id: *input.GoatId}
		}
	}

	return nil
}

func CreateExpense(ctx context.Context, input *NewExpense) (*Expense, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	if err := input.validate(ctx, businessId, 0); err != nil {
		return nil, err
	}

	category := input.Category
	if category == "" {
		category = ExpenseCategoryOther
	}

	expense := Expense{
		BusinessId:      businessId,
		GoatId:          input.GoatId,
		Category:        category,
		Amount:          input.Amount,
		ExpenseDate:     input.ExpenseDate,
		ReferenceNumber: input.ReferenceNumber,
		Notes:           input.Notes,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&expense).Error; err != nil {
		return nil, err
	}

	return &expense, nil
}

// UpdateExpense edits amount, category, date and notes. The goat attribution
// is immutable once written: moving a cost between goats (or between the
// shared pool and a goat) would silently rewrite historical allocations.
func UpdateExpense(ctx context.Context, id int, input *NewExpense) (*Expense, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	beforeUpdate, err := utils.FetchModel[Expense](ctx, businessId, id)
	if err != nil {
		return nil, &utils.NotFoundError{Entity: "Expense", Id: id}
	}
	if err := input.validate(ctx, businessId, id); err != nil {
		return nil, err
	}

	if !sameGoatAttribution(beforeUpdate.GoatId, input.GoatId) {
		return nil, utils.NewValidationError("Expense", "goat_id", "attribution is immutable")
	}

	update := Expense{
		ID:         id,
		BusinessId: businessId,
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&update).Updates(map[string]interface{}{
		"Category":        input.Category,
		"Amount":          input.Amount,
		"ExpenseDate":     input.ExpenseDate,
		"ReferenceNumber": input.ReferenceNumber,
		"Notes":           input.Notes,
	}).Error
	if err != nil {
		return nil, err
	}

	return utils.FetchModel[Expense](ctx, businessId, id)
}

func sameGoatAttribution(a, b *int) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

func DeleteExpense(ctx context.Context, id int) (*Expense, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	result, err := utils.FetchModel[Expense](ctx, businessId, id)
	if err != nil {
		return nil, &utils.NotFoundError{Entity: "Expense", Id: id}
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func GetExpense(ctx context.Context, id int) (*Expense, error) {
	return GetResource[Expense](ctx, id)
}

func PaginateExpenses(ctx context.Context, limit *int, after *string, goatId *int, sharedOnly *bool, category *ExpenseCategory, fromDate *MyDateString, toDate *MyDateString) (*ExpensesConnection, error) {
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
	if sharedOnly != nil && *sharedOnly {
		dbCtx.Where("goat_id IS NULL")
	}
	if category != nil && *category != "" {
		dbCtx.Where("category = ?", *category)
	}
	if fromDate != nil && toDate != nil {
		dbCtx = dbCtx.Where("expense_date BETWEEN ? AND ?", fromDate, toDate)
	}

	edges, pageInfo, err := FetchPageCompositeCursor[Expense](dbCtx, *limit, after, "expense_date", ">")
	if err != nil {
		return nil, err
	}
	var expensesConnection ExpensesConnection
	expensesConnection.PageInfo = pageInfo
	for _, edge := range edges {
		expensesEdge := ExpensesEdge(edge)
		expensesConnection.Edges = append(expensesConnection.Edges, &expensesEdge)
	}

	return &expensesConnection, err
}
