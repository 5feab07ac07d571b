package usecase

// Códigos de erro de domínio (viram status HTTP no handler)
const (
	CodeLeadNotFound     = "LEAD_NOT_FOUND"
	CodeStatusNotFound   = "STATUS_NOT_FOUND"
	CodeInvalidStatus    = "INVALID_STATUS"
	CodeOwnerNotFound    = "OWNER_NOT_FOUND"
	CodeFollowupNotFound = "FOLLOWUP_NOT_FOUND"
	CodeCampaignNotFound = "CAMPAIGN_NOT_FOUND"
	CodeInvalidState     = "INVALID_STATE"
	CodeQuotaExceeded    = "QUOTA_EXCEEDED"
	CodeValidationError  = "VALIDATION_ERROR"
)

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
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}
