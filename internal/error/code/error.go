package code

import "errors"

// Error 携带错误码的业务错误
type Error struct {
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New 创建只有错误码的错误
func New(errorCode string) error {
	return &Error{Code: errorCode}
}

// Wrap 用错误码包装底层错误
func Wrap(errorCode string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: errorCode, Err: err}
}

// Of 提取错误码，非业务错误一律视为数据库错误
func Of(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrDatabase
}

// Is 判断错误是否为指定错误码
func Is(err error, errorCode string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == errorCode
}
