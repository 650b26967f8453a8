package domain

// ErrorType classifies a defect found during a pallet check.
type ErrorType string

const (
	ErrorTypeShortage          ErrorType = "SHORTAGE"
	ErrorTypeSurplus           ErrorType = "SURPLUS"
	ErrorTypeQualityDefect     ErrorType = "QUALITY_DEFECT"
	ErrorTypePalletHeight      ErrorType = "PALLET_HEIGHT"
	ErrorTypePalletNotProvided ErrorType = "PALLET_NOT_PROVIDED"
)

func (t ErrorType) String() string { return string(t) }

func (t ErrorType) IsValid() bool {
	switch t {
	case ErrorTypeShortage, ErrorTypeSurplus, ErrorTypeQualityDefect,
		ErrorTypePalletHeight, ErrorTypePalletNotProvided:
		return true
	}
	return false
}

// RequiresProduct reports whether reports of this type carry product details
// (code, name, quantity, unit). Only the product-related subset does.
func (t ErrorType) RequiresProduct() bool {
	switch t {
	case ErrorTypeShortage, ErrorTypeSurplus, ErrorTypeQualityDefect:
		return true
	}
	return false
}

// CheckPhase is the lifecycle state of the current pallet check.
type CheckPhase string

const (
	PhaseIdle                 CheckPhase = "IDLE"
	PhaseAwaitingConfirmation CheckPhase = "AWAITING_CONFIRMATION"
	PhaseInProgress           CheckPhase = "IN_PROGRESS"
	PhaseErrorDecision        CheckPhase = "ERROR_DECISION"
	PhaseErrorCollection      CheckPhase = "ERROR_COLLECTION"
)

func (p CheckPhase) String() string { return string(p) }

// Role identifies the access level of an operator account.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
	RoleUser     Role = "user"
)

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleOperator, RoleUser:
		return true
	}
	return false
}
