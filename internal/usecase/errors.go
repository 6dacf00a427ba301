package usecase

// DomainError: expected business outcomes (not found, invalid input).
// TechnicalError: infrastructure failures (store unreachable, queue down).
// Handlers map the former to 4xx and the latter to 5xx.

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

type TechnicalError struct {
	Code    string
	Message string
	Cause   error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Cause
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}

func technical(code, message string, cause error) *TechnicalError {
	return &TechnicalError{Code: code, Message: message, Cause: cause}
}
