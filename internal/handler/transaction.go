package handler

import (
	"net/http"
	"strconv"
	"time"

	"pocketbook/internal/ledger"
	"pocketbook/internal/models"
	"pocketbook/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TransactionHandler exposes transaction CRUD over the ledger store.
type TransactionHandler struct {
	Store *ledger.Store
}

func NewTransactionHandler(store *ledger.Store) *TransactionHandler {
	return &TransactionHandler{Store: store}
}

// transactionReq is shared by create and update: update is a full
// replace of the mutable fields, not a patch.
type transactionReq struct {
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	CategoryID uint            `json:"category_id" binding:"required"`
	Note       string          `json:"note" binding:"max=255"`
	CreatedAt  string          `json:"created_at"`
}

type transactionResp struct {
	ID         uint      `json:"id"`
	Amount     string    `json:"amount"` // fixed 2dp
	CategoryID uint      `json:"category_id"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func toTransactionResp(t *models.Transaction) transactionResp {
	return transactionResp{
		ID:         t.ID,
		Amount:     t.Amount.StringFixed(2),
		CategoryID: t.CategoryID,
		Note:       t.Note,
		CreatedAt:  t.CreatedAt,
	}
}

func (h *TransactionHandler) bindInput(c *gin.Context) (ledger.TransactionInput, bool) {
	var req transactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return ledger.TransactionInput{}, false
	}

	ts, ok := parseTimestamp(req.CreatedAt)
	if !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid created_at, use RFC3339 or YYYY-MM-DD")
		return ledger.TransactionInput{}, false
	}

	return ledger.TransactionInput{
		Amount:     req.Amount,
		CategoryID: req.CategoryID,
		Note:       req.Note,
		CreatedAt:  ts,
	}, true
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	in, ok := h.bindInput(c)
	if !ok {
		return
	}

	txn, err := h.Store.CreateTransaction(user.ID, in)
	if err != nil {
		storeError(c, err)
		return
	}

	util.Success(c, util.Response{
		"transaction": toTransactionResp(txn),
	})
}

func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	txns, err := h.Store.ListTransactions(user.ID)
	if err != nil {
		storeError(c, err)
		return
	}

	items := make([]transactionResp, 0, len(txns))
	for i := range txns {
		items = append(items, toTransactionResp(&txns[i]))
	}

	util.Success(c, util.Response{
		"transactions": items,
	})
}

func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	in, ok := h.bindInput(c)
	if !ok {
		return
	}

	txn, err := h.Store.UpdateTransaction(user.ID, uint(id), in)
	if err != nil {
		storeError(c, err)
		return
	}

	util.Success(c, util.Response{
		"transaction": toTransactionResp(txn),
	})
}

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	if err := h.Store.DeleteTransaction(user.ID, uint(id)); err != nil {
		storeError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "transaction deleted",
	})
}
