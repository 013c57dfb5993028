package services

import "errors"

// Validation rejections. A rejected operation leaves state untouched.
var (
	ErrProductNotFound       = errors.New("product not found")
	ErrDuplicateProductName  = errors.New("a product with that name already exists")
	ErrEmptyProductName      = errors.New("product name is required")
	ErrNegativePrice         = errors.New("price cannot be negative")
	ErrNoPresentations       = errors.New("select at least one presentation")
	ErrPresentationNotFound  = errors.New("presentation not found")
	ErrDuplicatePresentation = errors.New("a presentation with that name already exists")
	ErrEmptyPresentationName = errors.New("presentation name is required")
	ErrInvalidVolume         = errors.New("volume must be greater than zero")
	ErrProtectedPresentation = errors.New("protected presentations cannot be deleted")

	ErrEmptySelection    = errors.New("select at least one product to start the day")
	ErrSessionActive     = errors.New("a day is already open")
	ErrNoActiveSession   = errors.New("no day is open")
	ErrItemNotFound      = errors.New("product or presentation is not part of the open day")
	ErrNegativeCount     = errors.New("count cannot go below zero")
	ErrNothingToUndo     = errors.New("nothing to undo")
	ErrEmptyCloseConfirm = errors.New("nothing was sold today; confirm to close anyway")

	ErrSaleNotFound      = errors.New("sale not found")
	ErrExpenseNotFound   = errors.New("expense not found")
	ErrCategoryNotFound  = errors.New("expense category not found")
	ErrDuplicateCategory = errors.New("an expense category with that name already exists")
	ErrEmptyCategoryName = errors.New("category name is required")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
)
