package code

import "net/http"

// 通用错误码
const (
	ErrInvalidRequest  = "invalid_request"
	ErrUnauthorized    = "unauthorized"
	ErrForbidden       = "forbidden"
	ErrTooManyRequests = "too_many_requests"
	ErrDatabase        = "db_error"
	ErrInternal        = "internal_error"
	ErrNotFound        = "not_found"
)

// 认证相关错误码
const (
	ErrPhoneRequired        = "phone_required"
	ErrInvalidPhone         = "invalid_phone"
	ErrInvalidRole          = "invalid_role"
	ErrPhoneAndCodeRequired = "phone_and_code_required"
	ErrOTPNotFound          = "otp_not_found"
	ErrOTPInvalid           = "otp_invalid"
	ErrOTPExpired           = "otp_expired"
)

// 联系人与消息相关错误码
const (
	ErrUserNotFound      = "user_not_found"
	ErrCannotAddSelf     = "cannot_add_self"
	ErrNotAContact       = "not_a_contact"
	ErrInvalidContactID  = "invalid_contact_id"
	ErrContentRequired   = "content_required"
	ErrRecipientRequired = "recipient_required"
)

// 运动记录相关错误码
const (
	ErrInvalidExercise = "invalid_exercise"
	ErrInvalidDate     = "invalid_date"
)

// GetStatus 错误码对应的HTTP状态码，未登记的错误码按500处理
func GetStatus(errorCode string) int {
	if status, ok := codeStatusMap[errorCode]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// GetMessage 错误码对应的提示信息
func GetMessage(errorCode string) string {
	if msg, ok := codeMessageMap[errorCode]; ok {
		return msg
	}
	return "Unknown error"
}
