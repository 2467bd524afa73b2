package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/goatfarm_backend/config"
	"bitbucket.org/mmdatafocus/goatfarm_backend/utils"
	"github.com/shopspring/decimal"
)

type Goat struct {
	ID            int             `gorm:"primary_key" json:"id"`
	BusinessId    string          `gorm:"index;not null" json:"business_id" binding:"required"`
	TagNumber     string          `gorm:"size:100;not null" json:"tag_number" binding:"required"`
	Name          string          `gorm:"size:100" json:"name"`
	Breed         string          `gorm:"size:100" json:"breed"`
	Gender        string          `gorm:"size:10" json:"gender"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"purchase_price"`
	PurchaseDate  time.Time       `gorm:"not null" json:"purchase_date" binding:"required"`
	// CurrentWeight is a write-through cache of the latest WeightRecord,
	// updated only by CreateWeightRecord.
	CurrentWeight decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"current_weight"`
	Status        GoatStatus      `gorm:"type:enum('Active','Sold','Deceased','Archived');default:Active" json:"status"`
	CaretakerId   int             `gorm:"index" json:"caretaker_id"`
	// SalePrice and SaleDate are written together by the sale workflow, never
	// individually (both-or-neither).
	SalePrice decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"sale_price"`
	SaleDate  *time.Time      `json:"sale_date"`
	Buyer     string          `gorm:"size:255" json:"buyer"`
	Notes     string          `gorm:"type:text" json:"notes"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewGoat struct {
	TagNumber     string          `json:"tag_number" binding:"required"`
	Name          string          `json:"name"`
	Breed         string          `json:"breed"`
	Gender        string          `json:"gender"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	PurchaseDate  time.Time       `json:"purchase_date" binding:"required"`
	CurrentWeight decimal.Decimal `json:"current_weight"`
	CaretakerId   int             `json:"caretaker_id"`
	Notes         string          `json:"notes"`
}

type GoatsEdge Edge[Goat]

type GoatsConnection struct {
	PageInfo *PageInfo    `json:"pageInfo"`
	Edges    []*GoatsEdge `json:"edges"`
}

func (g Goat) GetId() int {
	return g.ID
}

func (g Goat) GetBusinessId() string {
	return g.BusinessId
}

// implements Cursor
func (g Goat) GetCursor() string {
	return g.PurchaseDate.String()
}

func (g Goat) IsActive() bool {
	return g.Status == GoatStatusActive
}

// validate input for both create & update. (id = 0 for create)
func (input *NewGoat) validate(ctx context.Context, businessId string, id int) error {
	if input.PurchasePrice.IsNegative() {
		return utils.NewValidationError("Goat", "purchase_price", "must not be negative")
	}
	if input.CurrentWeight.IsNegative() {
		return utils.NewValidationError("Goat", "current_weight", "must not be negative")
	}
	if input.PurchaseDate.IsZero() {
		return utils.NewValidationError("Goat", "purchase_date", "is required")
	}

	// tag number unique within the business
	if err := utils.ValidateUnique[Goat](ctx, businessId, "tag_number", input.TagNumber, id); err != nil {
		return utils.NewValidationError("Goat", "tag_number", "is already in use")
	}

	// exists caretaker
	if input.CaretakerId > 0 {
		if err := utils.ValidateResourceId[Caretaker](ctx, businessId, input.CaretakerId); err != nil {
			return &utils.NotFoundError{Entity: "Caretaker", Id: input.CaretakerId}
		}
	}

	return nil
}

func CreateGoat(ctx context.Context, input *NewGoat) (*Goat, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	if err := input.validate(ctx, businessId, 0); err != nil {
		return nil, err
	}

	goat := Goat{
		BusinessId:    businessId,
		TagNumber:     input.TagNumber,
		Name:          input.Name,
		Breed:         input.Breed,
		Gender:        input.Gender,
		PurchasePrice: input.PurchasePrice,
		PurchaseDate:  input.PurchaseDate,
		CurrentWeight: input.CurrentWeight,
		Status:        GoatStatusActive,
		CaretakerId:   input.CaretakerId,
		Notes:         input.Notes,
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Create(&goat).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := createHistory(tx.WithContext(ctx), "*CREATE*", goat.ID, "goats", nil, goat, "Goat "+goat.TagNumber+" added to inventory."); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &goat, nil
}

// UpdateGoat edits descriptive fields only. Status, sale fields and
// current weight are owned by their dedicated commands.
func UpdateGoat(ctx context.Context, id int, input *NewGoat) (*Goat, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	beforeUpdate, err := utils.FetchModel[Goat](ctx, businessId, id)
	if err != nil {
		return nil, &utils.NotFoundError{Entity: "Goat", Id: id}
	}
	if err := input.validate(ctx, businessId, id); err != nil {
		return nil, err
	}

	update := Goat{
		ID:         id,
		BusinessId: businessId,
	}

	db := config.GetDB()
	tx := db.Begin()

	err = tx.WithContext(ctx).Model(&update).Updates(map[string]interface{}{
		"TagNumber":     input.TagNumber,
		"Name":          input.Name,
		"Breed":         input.Breed,
		"Gender":        input.Gender,
		"PurchasePrice": input.PurchasePrice,
		"PurchaseDate":  input.PurchaseDate,
		"CaretakerId":   input.CaretakerId,
		"Notes":         input.Notes,
	}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := createHistory(tx.WithContext(ctx), "*UPDATE*", id, "goats", beforeUpdate, input, "Goat "+input.TagNumber+" updated."); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisItem[Goat](id); err != nil {
		return nil, err
	}

	return utils.FetchModel[Goat](ctx, businessId, id)
}

func GetGoat(ctx context.Context, id int) (*Goat, error) {
	goat, err := GetResource[Goat](ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			return nil, &utils.NotFoundError{Entity: "Goat", Id: id}
		}
		return nil, err
	}
	return goat, nil
}

// markGoatStatus performs the simple status writes (Deceased, Archived).
// Active -> Sold is owned by the sale workflow and rejected here.
func markGoatStatus(ctx context.Context, id int, status GoatStatus, description string) (*Goat, error) {
	if status == GoatStatusSold {
		return nil, errors.New("sold status is set by the sale workflow")
	}

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	goat, err := utils.FetchModel[Goat](ctx, businessId, id)
	if err != nil {
		return nil, &utils.NotFoundError{Entity: "Goat", Id: id}
	}
	if goat.Status != GoatStatusActive {
		return nil, &utils.InvalidStateError{Entity: "Goat", Id: id, Status: string(goat.Status), Operation: "status change"}
	}

	db := config.GetDB()
	tx := db.Begin()

	err = tx.WithContext(ctx).Model(&Goat{ID: id, BusinessId: businessId}).
		UpdateColumn("Status", status).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := createHistory(tx.WithContext(ctx), "*STATUS*", id, "goats", goat.Status, status, description); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisItem[Goat](id); err != nil {
		return nil, err
	}

	goat.Status = status
	return goat, nil
}

func MarkGoatDeceased(ctx context.Context, id int) (*Goat, error) {
	return markGoatStatus(ctx, id, GoatStatusDeceased, "Goat marked deceased.")
}

func ArchiveGoat(ctx context.Context, id int) (*Goat, error) {
	return markGoatStatus(ctx, id, GoatStatusArchived, "Goat archived.")
}

func AssignCaretaker(ctx context.Context, goatId int, caretakerId int) (*Goat, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	goat, err := utils.FetchModel[Goat](ctx, businessId, goatId)
	if err != nil {
		return nil, &utils.NotFoundError{Entity: "Goat", Id: goatId}
	}
	if caretakerId > 0 {
		if err := utils.ValidateResourceId[Caretaker](ctx, businessId, caretakerId); err != nil {
			return nil, &utils.NotFoundError{Entity: "Caretaker", Id: caretakerId}
		}
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&Goat{ID: goatId, BusinessId: businessId}).
		UpdateColumn("CaretakerId", caretakerId).Error
	if err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisItem[Goat](goatId); err != nil {
		return nil, err
	}

	goat.CaretakerId = caretakerId
	return goat, nil
}

func PaginateGoats(ctx context.Context, limit *int, after *string, status *GoatStatus, breed *string, caretakerId *int, fromDate *MyDateString, toDate *MyDateString) (*GoatsConnection, error) {
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

	if status != nil && *status != "" {
		dbCtx.Where("status = ?", *status)
	}
	if breed != nil && *breed != "" {
		dbCtx.Where("breed = ?", *breed)
	}
	if caretakerId != nil && *caretakerId > 0 {
		dbCtx.Where("caretaker_id = ?", *caretakerId)
	}
	if fromDate != nil && toDate != nil {
		dbCtx = dbCtx.Where("purchase_date BETWEEN ? AND ?", fromDate, toDate)
	}

	edges, pageInfo, err := FetchPageCompositeCursor[Goat](dbCtx, *limit, after, "purchase_date", ">")
	if err != nil {
		return nil, err
	}
	var goatsConnection GoatsConnection
	goatsConnection.PageInfo = pageInfo
	for _, edge := range edges {
		goatsEdge := GoatsEdge(edge)
		goatsConnection.Edges = append(goatsConnection.Edges, &goatsEdge)
	}

	return &goatsConnection, err
}
