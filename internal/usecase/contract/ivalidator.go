package usecasecontract

// IValidator validates user-supplied values before they reach business logic.
type IValidator interface {
	ValidateEmail(email string) error
	ValidatePasswordStrength(password string) error
	ValidateReview(rating int, comment string) error
}
