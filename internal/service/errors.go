package service

import "errors"

// Connection access
var (
	ErrConfigUnavailable  = errors.New("feature temporarily unavailable")
	ErrNotAuthenticated   = errors.New("sign in to continue")
	ErrInvalidTier        = errors.New("invalid access tier")
	ErrPaymentFailed      = errors.New("payment failed")
	ErrWriteFailed        = errors.New("payment received but the connection could not be recorded")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrOrderNotFound      = errors.New("order not found")
	ErrDuplicatePayment   = errors.New("payment already used")
	ErrConnectionNotFound = errors.New("connection not found")
)

// Accounts
var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrOAuthFailed        = errors.New("sign-in with Google failed")
)

// Providers and catalog
var (
	ErrProviderNotFound   = errors.New("provider not found")
	ErrProviderExists     = errors.New("provider profile already exists")
	ErrNotProvider        = errors.New("only provider accounts can do this")
	ErrOnboardingStep     = errors.New("complete the previous onboarding steps first")
	ErrOnboardingLocked   = errors.New("profile is under review and cannot be edited")
	ErrInvalidStatus      = errors.New("action not allowed in the current status")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCategorySlugExists = errors.New("category slug already exists")
	ErrCategoryInUse      = errors.New("category still has providers")
	ErrInvalidFileType    = errors.New("unsupported file type")
	ErrFileTooLarge       = errors.New("file too large")
	ErrUploadUnavailable  = errors.New("photo uploads are not available")
)

// Reviews, notifications, complaints
var (
	ErrBookingNotFound      = errors.New("pending review not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrComplaintNotFound    = errors.New("complaint not found")
	ErrComplaintResolved    = errors.New("complaint already resolved")
)
