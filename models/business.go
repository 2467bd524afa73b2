package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/goatfarm_backend/config"
	"bitbucket.org/mmdatafocus/goatfarm_backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Business struct {
	ID          uuid.UUID `gorm:"primary_key" json:"id"`
	Name        string    `gorm:"index;size:100;not null" json:"name" binding:"required"`
	ContactName string    `gorm:"size:100" json:"contact_name"`
	Email       string    `gorm:"size:255" json:"email"`
	Phone       string    `gorm:"size:20" json:"phone"`
	Address     string    `gorm:"type:text" json:"address"`
	Timezone    string    `gorm:"size:50" json:"timezone"`

	// Legacy business-wide caretaker payment default. Superseded by the
	// per-caretaker payment model; kept only as a migration source and cleared
	// by MigrateLegacyPaymentModels.
	LegacyPaymentModelType   *PaymentModelType `gorm:"type:enum('Percentage','Monthly');default:null" json:"legacy_payment_model_type"`
	LegacyPaymentModelAmount decimal.Decimal   `gorm:"type:decimal(20,4);default:0" json:"legacy_payment_model_amount"`

	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewBusiness struct {
	Name        string `json:"name" binding:"required"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email" binding:"required"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Timezone    string `json:"timezone"`
}

func (business *Business) StoreRedis() error {
	return config.SetRedisObject("Business:"+fmt.Sprint(business.ID), business, 0)
}

func (business *Business) RemoveRedis() error {
	return config.RemoveRedisKey("Business:" + fmt.Sprint(business.ID))
}

func CreateBusiness(ctx context.Context, input *NewBusiness) (*Business, error) {
	if !utils.IsValidEmail(input.Email) {
		return nil, utils.NewValidationError("Business", "email", "is not a valid email address")
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return nil, utils.NewValidationError("Business", "phone", "is not a valid phone number")
		}
	}

	business := Business{
		ID:          uuid.New(),
		Name:        input.Name,
		ContactName: input.ContactName,
		Email:       input.Email,
		Phone:       input.Phone,
		Address:     input.Address,
		Timezone:    input.Timezone,
		IsActive:    utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&business).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func GetBusinessById(ctx context.Context, id string) (*Business, error) {
	// find in redis
	var business Business
	exists, err := config.GetRedisObject("Business:"+id, &business)
	if err != nil {
		return nil, err
	}
	if exists {
		return &business, nil
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Where("id = ?", id).First(&business).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	if err := business.StoreRedis(); err != nil {
		return nil, err
	}
	return &business, nil
}

func GetBusiness(ctx context.Context) (*Business, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return GetBusinessById(ctx, businessId)
}

// MigrateLegacyPaymentModels copies the business-wide payment default onto every
// caretaker that has no payment model of its own, then clears the legacy fields.
// The per-caretaker model is canonical afterwards.
func MigrateLegacyPaymentModels(ctx context.Context, businessId string) (int64, error) {
	business, err := GetBusinessById(ctx, businessId)
	if err != nil {
		return 0, err
	}
	if business.LegacyPaymentModelType == nil {
		return 0, nil
	}

	db := config.GetDB()
	tx := db.Begin()

	result := tx.WithContext(ctx).Model(&Caretaker{}).
		Where("business_id = ? AND payment_model_type IS NULL", businessId).
		Updates(map[string]interface{}{
			"PaymentModelType":   *business.LegacyPaymentModelType,
			"PaymentModelAmount": business.LegacyPaymentModelAmount,
		})
	if result.Error != nil {
		tx.Rollback()
		return 0, result.Error
	}

	err = tx.WithContext(ctx).Model(&Business{}).Where("id = ?", businessId).
		Updates(map[string]interface{}{
			"LegacyPaymentModelType":   nil,
			"LegacyPaymentModelAmount": decimal.Zero,
		}).Error
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}
	if err := business.RemoveRedis(); err != nil {
		return 0, err
	}
	return result.RowsAffected, nil
}
