package shared

// DomainError pairs a stable machine-readable code with a message safe
// to show clients. The HTTP layer maps codes to status codes.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Sentinel errors shared across the domain packages. Compare with
// errors.Is so wrapped errors still match.
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidCredentials  = NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	ErrEmailTaken          = NewDomainError("EMAIL_TAKEN", "Email is already registered")
	ErrInvalidQuantity     = NewDomainError("INVALID_QUANTITY", "Quantity must be a positive integer")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrEmptyCart           = NewDomainError("EMPTY_CART", "Cart is empty")
	ErrInvalidTransition   = NewDomainError("INVALID_TRANSITION", "Operation not allowed in current order status")
	ErrCannotCancelShipped = NewDomainError("CANNOT_CANCEL_SHIPPED", "Shipped orders cannot be cancelled")
	ErrGateway             = NewDomainError("GATEWAY_ERROR", "Payment gateway request failed")
	ErrStorage             = NewDomainError("STORAGE_ERROR", "Storage operation failed")
)
