package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"notemart-api/models"
	"notemart-api/mq"
	"notemart-api/pkg/events"
	"notemart-api/repository"
	"notemart-api/types"

	"github.com/gin-gonic/gin"
)

type EarningsHandler struct {
	repo     *repository.EarningsRepository
	notes    *repository.NotesRepository
	settings *repository.SettingsRepository
	rabbit   *mq.RabbitMQ
}

func NewEarningsHandler(
	repo *repository.EarningsRepository,
	notes *repository.NotesRepository,
	settings *repository.SettingsRepository,
	rabbit *mq.RabbitMQ,
) *EarningsHandler {
	return &EarningsHandler{repo: repo, notes: notes, settings: settings, rabbit: rabbit}
}

func (h *EarningsHandler) GetSummary(c *gin.Context) {
	summary, err := h.repo.GetSummary(c.GetInt("userId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(summary))
}

func (h *EarningsHandler) GetHistory(c *gin.Context) {
	p := types.ParsePaginationParams(c)
	items, total, err := h.repo.ListHistory(c.GetInt("userId"), p.Page, p.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(p.BuildResponse(items, total)))
}

// minWithdrawalAmount reads the configurable floor, defaulting when the
// setting is missing or malformed.
func (h *EarningsHandler) minWithdrawalAmount() float64 {
	setting, err := h.settings.GetAppSetting("min_withdrawal_amount")
	if err != nil || setting == nil {
		return 10
	}
	v, err := strconv.ParseFloat(setting.Value, 64)
	if err != nil || v <= 0 {
		return 10
	}
	return v
}

// maxTipAmount reads the configurable tip ceiling, defaulting when the
// setting is missing or malformed.
func (h *EarningsHandler) maxTipAmount() float64 {
	setting, err := h.settings.GetAppSetting("support_tip_max")
	if err != nil || setting == nil {
		return 100
	}
	v, err := strconv.ParseFloat(setting.Value, 64)
	if err != nil || v <= 0 {
		return 100
	}
	return v
}

// RequestWithdrawal places a hold on the balance. The balance check runs
// inside the repository transaction, so concurrent requests cannot both pass.
func (h *EarningsHandler) RequestWithdrawal(c *gin.Context) {
	userID := c.GetInt("userId")
	var req struct {
		Amount float64 `json:"amount" binding:"required"`
		Method string  `json:"method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	if min := h.minWithdrawalAmount(); req.Amount < min {
		c.JSON(http.StatusBadRequest, types.NewErrorResponseWithDetails(
			types.ErrorCodeValidation,
			"Amount is below the minimum withdrawal",
			map[string]interface{}{"minimum": min}))
		return
	}

	txn, err := h.repo.RequestWithdrawal(userID, req.Amount, req.Method)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeInsufficientBalance, "Withdrawable balance is too low"))
			return
		}
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, types.NewSuccessResponse(txn))
}

// SendTip credits the uploader of a note with a support tip from the caller.
// Amounts are bounded above by the support_tip_max app setting.
func (h *EarningsHandler) SendTip(c *gin.Context) {
	noteID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID := c.GetInt("userId")
	var req struct {
		Amount float64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "A positive amount is required"))
		return
	}
	if max := h.maxTipAmount(); req.Amount > max {
		c.JSON(http.StatusBadRequest, types.NewErrorResponseWithDetails(
			types.ErrorCodeValidation,
			"Amount is above the maximum tip",
			map[string]interface{}{"maximum": max}))
		return
	}

	note, err := h.notes.GetNoteByID(noteID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if note == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Note not found"))
		return
	}
	if note.UploaderID == userID {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "You cannot tip your own note"))
		return
	}

	txn, err := h.repo.AddEarning(note.UploaderID, &noteID, models.EarningTypeSupportTip, req.Amount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}

	if body, err := json.Marshal(events.Engagement{
		Type:    events.TypeTipReceived,
		NoteID:  noteID,
		ActorID: userID,
		OwnerID: note.UploaderID,
		Amount:  req.Amount,
	}); err == nil {
		_ = h.rabbit.Publish(mq.EngagementQueue, body)
	}
	c.JSON(http.StatusCreated, types.NewSuccessResponse(txn))
}

// ListPendingWithdrawals is the admin review queue, oldest first.
func (h *EarningsHandler) ListPendingWithdrawals(c *gin.Context) {
	p := types.ParsePaginationParams(c)
	items, total, err := h.repo.ListPendingWithdrawals(p.Page, p.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(p.BuildResponse(items, total)))
}

// SettleWithdrawal completes or rejects a pending withdrawal. Rejection frees
// the held balance without any compensating write.
func (h *EarningsHandler) SettleWithdrawal(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	if req.Status != models.EarningStatusCompleted && req.Status != models.EarningStatusRejected {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "status must be completed or rejected"))
		return
	}

	settled, err := h.repo.SettleWithdrawal(id, req.Status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if !settled {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "No pending withdrawal with that id"))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"id": id, "status": req.Status}))
}
