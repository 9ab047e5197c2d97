package httperr

import "errors"

// BusinessError is a rule violation the caller can fix; Code is the
// stable error_code sent to clients.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

// Is makes errors.Is(err, ErrBusiness(code)) match on the code alone.
func (e BusinessError) Is(target error) bool {
	t, ok := target.(BusinessError)
	return ok && t.Code == e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// BusinessCode extracts the code of a wrapped BusinessError.
func BusinessCode(err error) (string, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}
