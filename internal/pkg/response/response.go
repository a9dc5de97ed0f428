package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	CodeSuccess            = 0
	CodeParamError         = 1000
	CodeAuthFailed         = 1001
	CodePermissionDenied   = 1002
	CodeResourceNotFound   = 1003
	CodeRateLimited        = 1004
	CodeDuplicateAction    = 1005
	CodeInvalidTier        = 1006
	CodePaymentFailed      = 1007
	CodeFeatureUnavailable = 1008
	CodeServerError        = 5000
	CodeWriteFailed        = 5001
)

var codeMessages = map[int]string{
	CodeSuccess:            "success",
	CodeParamError:         "invalid parameters",
	CodeAuthFailed:         "authentication required",
	CodePermissionDenied:   "permission denied",
	CodeResourceNotFound:   "resource not found",
	CodeRateLimited:        "too many requests, please slow down",
	CodeDuplicateAction:    "duplicate action",
	CodeInvalidTier:        "the selected plan is no longer available, please choose again",
	CodePaymentFailed:      "payment failed",
	CodeFeatureUnavailable: "this feature is temporarily unavailable, please try again",
	CodeServerError:        "internal server error",
	CodeWriteFailed:        "something went wrong while saving, our team has been notified",
}

// Response is the common response envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// PageData wraps a paginated list.
type PageData struct {
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Items    interface{} `json:"items"`
}

// Success writes a success response.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage writes a success response with a custom message.
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: message,
		Data:    data,
	})
}

// SuccessPage writes a paginated success response.
func SuccessPage(c *gin.Context, total int64, page, pageSize int, items interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data: PageData{
			Total:    total,
			Page:     page,
			PageSize: pageSize,
			Items:    items,
		},
	})
}

// Error writes an error response. An empty message falls back to the code's default.
func Error(c *gin.Context, code int, message string) {
	ErrorWithData(c, code, message, nil)
}

// ErrorWithData writes an error response carrying extra data for the client.
func ErrorWithData(c *gin.Context, code int, message string, data interface{}) {
	if message == "" {
		message = codeMessages[code]
	}
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

func ParamError(c *gin.Context, message string) {
	Error(c, CodeParamError, message)
}

func AuthError(c *gin.Context, message string) {
	Error(c, CodeAuthFailed, message)
}

// AuthRedirect asks the client to sign in and come back to redirect afterwards.
func AuthRedirect(c *gin.Context, redirect string) {
	ErrorWithData(c, CodeAuthFailed, "", gin.H{"redirect": redirect})
}

func PermissionError(c *gin.Context, message string) {
	Error(c, CodePermissionDenied, message)
}

func NotFoundError(c *gin.Context, message string) {
	Error(c, CodeResourceNotFound, message)
}

func RateLimitError(c *gin.Context, message string) {
	Error(c, CodeRateLimited, message)
}

func DuplicateError(c *gin.Context, message string) {
	Error(c, CodeDuplicateAction, message)
}

func ServerError(c *gin.Context, message string) {
	Error(c, CodeServerError, message)
}
