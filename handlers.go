package main

import (
	"net/http"
	"strconv"
	"time"

	"bitbucket.org/mmdatafocus/goatfarm_backend/models"
	"bitbucket.org/mmdatafocus/goatfarm_backend/models/reports"
	"bitbucket.org/mmdatafocus/goatfarm_backend/utils"
	"bitbucket.org/mmdatafocus/goatfarm_backend/workflow"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// respondError maps the error taxonomy onto HTTP codes.
func respondError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	switch {
	case utils.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case utils.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case utils.IsInvalidStateError(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		if ok := asValidatorErrors(err, &validationErrors); ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(validationErrors)})
			return
		}
		if err.Error() == "business id is required" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func asValidatorErrors(err error, target *validator.ValidationErrors) bool {
	ve, ok := err.(validator.ValidationErrors)
	if ok {
		*target = ve
	}
	return ok
}

func pathId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string) *int {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &value
}

func queryBool(c *gin.Context, name string) *bool {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	value := raw == "true"
	return &value
}

func queryString(c *gin.Context, name string) *string {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	return &raw
}

func queryDate(c *gin.Context, name string) *models.MyDateString {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	date := models.MyDateString(parsed)
	return &date
}

func queryLimit(c *gin.Context) *int {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			limit = value
		}
	}
	return &limit
}

func queryAfter(c *gin.Context) *string {
	raw := c.Query("after")
	if raw == "" {
		return nil
	}
	return &raw
}

/* businesses */

func createBusinessHandler(c *gin.Context) {
	var input models.NewBusiness
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	business, err := models.CreateBusiness(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, business)
}

func migratePaymentModelsHandler(c *gin.Context) {
	businessId := c.Param("id")
	migrated, err := models.MigrateLegacyPaymentModels(c.Request.Context(), businessId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"business_id": businessId, "caretakers_migrated": migrated})
}

/* goats */

func createGoatHandler(c *gin.Context) {
	var input models.NewGoat
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	goat, err := models.CreateGoat(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, goat)
}

func getGoatHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	goat, err := models.GetGoat(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goat)
}

func updateGoatHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewGoat
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	goat, err := models.UpdateGoat(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goat)
}

func paginateGoatsHandler(c *gin.Context) {
	var status *models.GoatStatus
	if raw := queryString(c, "status"); raw != nil {
		s := models.GoatStatus(*raw)
		status = &s
	}
	connection, err := models.PaginateGoats(c.Request.Context(), queryLimit(c), queryAfter(c),
		status, queryString(c, "breed"), queryInt(c, "caretaker_id"),
		queryDate(c, "from"), queryDate(c, "to"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, connection)
}

func markGoatDeceasedHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	goat, err := models.MarkGoatDeceased(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goat)
}

func archiveGoatHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	goat, err := models.ArchiveGoat(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goat)
}

type assignCaretakerRequest struct {
	CaretakerId int `json:"caretaker_id" binding:"required"`
}

func assignCaretakerHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var req assignCaretakerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, err)
		return
	}
	goat, err := models.AssignCaretaker(c.Request.Context(), id, req.CaretakerId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goat)
}

func sellGoatHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input workflow.NewGoatSale
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	input.GoatId = id
	sale, err := workflow.SellGoat(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

func suggestedPriceHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	price, err := workflow.SuggestGoatPrice(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goat_id": id, "suggested_price": price})
}

/* weight records */

func createWeightRecordHandler(c *gin.Context) {
	var input models.NewWeightRecord
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	record, err := models.CreateWeightRecord(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func paginateWeightRecordsHandler(c *gin.Context) {
	connection, err := models.PaginateWeightRecords(c.Request.Context(), queryLimit(c), queryAfter(c),
		queryInt(c, "goat_id"), queryDate(c, "from"), queryDate(c, "to"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, connection)
}

/* expenses */

func createExpenseHandler(c *gin.Context) {
	var input models.NewExpense
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	expense, err := models.CreateExpense(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

func getExpenseHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	expense, err := models.GetExpense(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

func updateExpenseHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewExpense
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	expense, err := models.UpdateExpense(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

func deleteExpenseHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	expense, err := models.DeleteExpense(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

func paginateExpensesHandler(c *gin.Context) {
	var category *models.ExpenseCategory
	if raw := queryString(c, "category"); raw != nil {
		cat := models.ExpenseCategory(*raw)
		category = &cat
	}
	connection, err := models.PaginateExpenses(c.Request.Context(), queryLimit(c), queryAfter(c),
		queryInt(c, "goat_id"), queryBool(c, "shared_only"), category,
		queryDate(c, "from"), queryDate(c, "to"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, connection)
}

/* health records */

func createHealthRecordHandler(c *gin.Context) {
	var input models.NewHealthRecord
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	record, err := models.CreateHealthRecord(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func getHealthRecordHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	record, err := models.GetHealthRecord(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func updateHealthRecordHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewHealthRecord
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	record, err := models.UpdateHealthRecord(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func deleteHealthRecordHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	record, err := models.DeleteHealthRecord(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func paginateHealthRecordsHandler(c *gin.Context) {
	var status *models.HealthStatus
	if raw := queryString(c, "status"); raw != nil {
		s := models.HealthStatus(*raw)
		status = &s
	}
	connection, err := models.PaginateHealthRecords(c.Request.Context(), queryLimit(c), queryAfter(c),
		queryInt(c, "goat_id"), status, queryDate(c, "from"), queryDate(c, "to"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, connection)
}

/* caretakers */

func createCaretakerHandler(c *gin.Context) {
	var input models.NewCaretaker
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	caretaker, err := models.CreateCaretaker(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, caretaker)
}

func getCaretakerHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	caretaker, err := models.GetCaretaker(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, caretaker)
}

func updateCaretakerHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewCaretaker
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	caretaker, err := models.UpdateCaretaker(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, caretaker)
}

func deactivateCaretakerHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	caretaker, err := models.DeactivateCaretaker(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, caretaker)
}

func paginateCaretakersHandler(c *gin.Context) {
	connection, err := models.PaginateCaretakers(c.Request.Context(), queryLimit(c), queryAfter(c),
		queryBool(c, "active_only"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, connection)
}

/* sales */

func getSaleTransactionHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	sale, err := models.GetSaleTransaction(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

func paginateSaleTransactionsHandler(c *gin.Context) {
	connection, err := models.PaginateSaleTransactions(c.Request.Context(), queryLimit(c), queryAfter(c),
		queryInt(c, "goat_id"), queryInt(c, "caretaker_id"),
		queryDate(c, "from"), queryDate(c, "to"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, connection)
}

/* reports */

func inventoryReportHandler(c *gin.Context) {
	report, err := reports.GetInventoryReport(c.Request.Context(), queryDate(c, "from"), queryDate(c, "to"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func financialReportHandler(c *gin.Context) {
	report, err := reports.GetFinancialReport(c.Request.Context(), queryDate(c, "from"), queryDate(c, "to"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func healthReportHandler(c *gin.Context) {
	report, err := reports.GetHealthReport(c.Request.Context(), queryDate(c, "from"), queryDate(c, "to"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func caretakerPerformanceReportHandler(c *gin.Context) {
	report, err := reports.GetCaretakerPerformanceReport(c.Request.Context(), queryDate(c, "from"), queryDate(c, "to"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
