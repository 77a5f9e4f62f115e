package code

import "net/http"

// 错误码消息映射
var codeMessageMap = map[string]string{
	ErrInvalidRequest:  "Invalid request body",
	ErrUnauthorized:    "Login required",
	ErrForbidden:       "Not allowed for this role",
	ErrTooManyRequests: "Too many requests, please try again later",
	ErrDatabase:        "Database error",
	ErrInternal:        "Internal error",
	ErrNotFound:        "Resource not found",

	ErrPhoneRequired:        "Phone number is required",
	ErrInvalidPhone:         "Phone number is invalid",
	ErrInvalidRole:          "Role must be elderly or family",
	ErrPhoneAndCodeRequired: "Phone number and code are required",
	ErrOTPNotFound:          "No active code for this phone, request a new one",
	ErrOTPInvalid:           "Code does not match",
	ErrOTPExpired:           "Code has expired, request a new one",

	ErrUserNotFound:      "No user with this phone number",
	ErrCannotAddSelf:     "You cannot add yourself",
	ErrNotAContact:       "This user is not in your contacts",
	ErrInvalidContactID:  "Contact id is invalid",
	ErrContentRequired:   "Message content is required",
	ErrRecipientRequired: "Recipient is required",

	ErrInvalidExercise: "Exercise values are out of range",
	ErrInvalidDate:     "Date must be YYYY-MM-DD",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[string]int{
	ErrInvalidRequest:  http.StatusBadRequest,
	ErrUnauthorized:    http.StatusUnauthorized,
	ErrForbidden:       http.StatusForbidden,
	ErrTooManyRequests: http.StatusTooManyRequests,
	ErrDatabase:        http.StatusInternalServerError,
	ErrInternal:        http.StatusInternalServerError,
	ErrNotFound:        http.StatusNotFound,

	ErrPhoneRequired:        http.StatusBadRequest,
	ErrInvalidPhone:         http.StatusBadRequest,
	ErrInvalidRole:          http.StatusBadRequest,
	ErrPhoneAndCodeRequired: http.StatusBadRequest,
	ErrOTPNotFound:          http.StatusBadRequest,
	ErrOTPInvalid:           http.StatusBadRequest,
	ErrOTPExpired:           http.StatusBadRequest,

	ErrUserNotFound:      http.StatusNotFound,
	ErrCannotAddSelf:     http.StatusBadRequest,
	ErrNotAContact:       http.StatusForbidden,
	ErrInvalidContactID:  http.StatusBadRequest,
	ErrContentRequired:   http.StatusBadRequest,
	ErrRecipientRequired: http.StatusBadRequest,

	ErrInvalidExercise: http.StatusBadRequest,
	ErrInvalidDate:     http.StatusBadRequest,
}
