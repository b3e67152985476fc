// internal/interfaces/http/handlers/response.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/productlist-backend/internal/domain/productlist"
	"github.com/your-org/productlist-backend/internal/pkg/messages"
)

const (
	msgRequestInvalid = "request.invalid.msg"
	msgServerError    = "server.error.msg"

	// maxPage bounds the cumulative list and search windows
	maxPage = 10000
)

var statusByKind = map[productlist.ErrorKind]int{
	productlist.ErrNotFound:        http.StatusNotFound,
	productlist.ErrUnauthorized:    http.StatusUnauthorized,
	productlist.ErrForbidden:       http.StatusForbidden,
	productlist.ErrValidation:      http.StatusBadRequest,
	productlist.ErrDuplicate:       http.StatusConflict,
	productlist.ErrOperationFailed: http.StatusInternalServerError,
}

// responder writes the JSON envelopes shared by all handlers
type responder struct {
	messages *messages.Bundle
}

func (r responder) fail(c *gin.Context, status int, key string, args ...any) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":       r.messages.Lookup(key, args...),
		"message_key": key,
	})
}

// domainError maps a list engine error to its status code
func (r responder) domainError(c *gin.Context, err error) {
	status, ok := statusByKind[productlist.KindOf(err)]
	if !ok {
		status = http.StatusInternalServerError
	}
	key := productlist.MessageKeyOf(err)
	if key == "" {
		key = msgServerError
	}
	_ = c.Error(err)
	r.fail(c, status, key)
}

func (r responder) badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":       r.messages.Lookup(msgRequestInvalid),
		"message_key": msgRequestInvalid,
		"details":     err.Error(),
	})
}

func (r responder) ok(c *gin.Context, status int, key string, data any) {
	body := gin.H{"data": data}
	if key != "" {
		body["message"] = r.messages.Lookup(key)
		body["message_key"] = key
	}
	c.JSON(status, body)
}

func (r responder) result(c *gin.Context, status int, res *productlist.Result, data any) {
	if data == nil {
		data = res
	}
	r.ok(c, status, res.MessageKey, data)
}

// queryInt parses a positive integer query parameter no larger than limit
func queryInt(c *gin.Context, name string, fallback, limit int) int {
	if v, err := strconv.Atoi(c.Query(name)); err == nil && v > 0 {
		return min(v, limit)
	}
	return fallback
}

func queryBool(c *gin.Context, name string) bool {
	v, err := strconv.ParseBool(c.Query(name))
	return err == nil && v
}

// optionFromQuery reads option_id/value_id into a selected option
func optionFromQuery(c *gin.Context) *productlist.SelectedOption {
	optionID, valueID := c.Query("option_id"), c.Query("value_id")
	if optionID == "" || valueID == "" {
		return nil
	}
	return &productlist.SelectedOption{OptionID: optionID, ValueID: valueID}
}

var errNoOwner = errors.New("request carries neither an account nor a guest token")
