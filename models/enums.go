package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"time"
)

type GoatStatus string

const (
	GoatStatusActive   GoatStatus = "Active"
	GoatStatusSold     GoatStatus = "Sold"
	GoatStatusDeceased GoatStatus = "Deceased"
	GoatStatusArchived GoatStatus = "Archived"
)

func (t GoatStatus) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

func (t *GoatStatus) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("goat status must be string")
	}

	goatStatus := map[string]GoatStatus{
		"Active":   GoatStatusActive,
		"Sold":     GoatStatusSold,
		"Deceased": GoatStatusDeceased,
		"Archived": GoatStatusArchived,
	}

	var ok bool
	*t, ok = goatStatus[str]
	if !ok {
		return errors.New("invalid goat status")
	}

	return nil
}

type HealthStatus string

const (
	HealthStatusHealthy    HealthStatus = "Healthy"
	HealthStatusSick       HealthStatus = "Sick"
	HealthStatusRecovering HealthStatus = "Recovering"
)

func (t HealthStatus) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

func (t *HealthStatus) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("health status must be string")
	}

	healthStatus := map[string]HealthStatus{
		"Healthy":    HealthStatusHealthy,
		"Sick":       HealthStatusSick,
		"Recovering": HealthStatusRecovering,
	}

	var ok bool
	*t, ok = healthStatus[str]
	if !ok {
		return errors.New("invalid health status")
	}

	return nil
}

type PaymentModelType string

const (
	PaymentModelTypePercentage PaymentModelType = "Percentage"
	PaymentModelTypeMonthly    PaymentModelType = "Monthly"
)

func (t PaymentModelType) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

func (t *PaymentModelType) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("payment model type must be string")
	}

	paymentModelType := map[string]PaymentModelType{
		"Percentage": PaymentModelTypePercentage,
		"Monthly":    PaymentModelTypeMonthly,
	}

	var ok bool
	*t, ok = paymentModelType[str]
	if !ok {
		return errors.New("invalid payment model type")
	}

	return nil
}

type ExpenseCategory string

const (
	ExpenseCategoryFeed        ExpenseCategory = "Feed"
	ExpenseCategoryMedicine    ExpenseCategory = "Medicine"
	ExpenseCategoryShelter     ExpenseCategory = "Shelter"
	ExpenseCategoryTransport   ExpenseCategory = "Transport"
	ExpenseCategoryLabor       ExpenseCategory = "Labor"
	ExpenseCategoryUtilities   ExpenseCategory = "Utilities"
	ExpenseCategoryMaintenance ExpenseCategory = "Maintenance"
	ExpenseCategoryOther       ExpenseCategory = "Other"
)

func (t ExpenseCategory) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

func (t *ExpenseCategory) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("expense category must be string")
	}

	expenseCategory := map[string]ExpenseCategory{
		"Feed":        ExpenseCategoryFeed,
		"Medicine":    ExpenseCategoryMedicine,
		"Shelter":     ExpenseCategoryShelter,
		"Transport":   ExpenseCategoryTransport,
		"Labor":       ExpenseCategoryLabor,
		"Utilities":   ExpenseCategoryUtilities,
		"Maintenance": ExpenseCategoryMaintenance,
		"Other":       ExpenseCategoryOther,
	}

	var ok bool
	*t, ok = expenseCategory[str]
	if !ok {
		return errors.New("invalid expense category")
	}

	return nil
}

type MyDateString time.Time

func (t MyDateString) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(time.Time(t).Format("2006-01-02T15:04:05"))), nil
}

// Parse the string into time.Time object
func (t *MyDateString) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("MyDateString must be string")
	}

	// Parse the date string into a time.Time object
	localTime, err := time.Parse("2006-01-02T15:04:05", str)
	if err != nil {
		// accept a bare date too
		localTime, err = time.Parse("2006-01-02", str)
		if err != nil {
			return errors.New("error parsing datetime")
		}
	}
	*t = MyDateString(localTime)

	return nil
}

func (t *MyDateString) StartOfDayUTCTime(timezone string) error {
	// do nothing if the pointer is nil
	if t == nil {
		return nil
	}

	localTime := time.Time(*t)

	if timezone == "" {
		timezone = "Asia/Yangon"
	}

	location, err := time.LoadLocation(timezone)
	if err != nil {
		return err
	}

	localTimeInZone := time.Date(
		localTime.Year(), localTime.Month(), localTime.Day(),
		0, 0, 0, 0,
		location,
	)

	utcTime := localTimeInZone.In(time.UTC)
	*t = MyDateString(utcTime)

	return nil
}

func (t *MyDateString) EndOfDayUTCTime(timezone string) error {
	// do nothing if the pointer is nil
	if t == nil {
		return nil
	}

	localTime := time.Time(*t)

	if timezone == "" {
		timezone = "Asia/Yangon"
	}

	location, err := time.LoadLocation(timezone)
	if err != nil {
		return err
	}

	localTimeInZone := time.Date(
		localTime.Year(), localTime.Month(), localTime.Day(),
		23, 59, 59, 999, // Max nanoseconds
		location,
	)

	utcTime := localTimeInZone.In(time.UTC)
	*t = MyDateString(utcTime)

	return nil
}

// Value implements the driver.Valuer interface
func (t MyDateString) Value() (driver.Value, error) {
	return time.Time(t), nil
}

// Scan implements the sql.Scanner interface
func (t *MyDateString) Scan(value interface{}) error {
	if value == nil {
		*t = MyDateString(time.Time{})
		return nil
	}
	switch v := value.(type) {
	case time.Time:
		*t = MyDateString(v)
	default:
		return fmt.Errorf("cannot convert %T to MyDateString", value)
	}
	return nil
}

func (t *MyDateString) SetDefaultNowIfNil() *MyDateString {
	if t == nil {
		now := MyDateString(time.Now())
		return &now
	}
	return t
}
