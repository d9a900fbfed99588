package dto

// TransactionCreateRequest represents the request payload for creating a
// transaction. All fields are required; Amount is a pointer so a missing
// amount can be told apart from zero.
type TransactionCreateRequest struct {
	Description string   `json:"description"`
	Amount      *float64 `json:"amount"`
	Category    string   `json:"category"`
	Icon        string   `json:"icon"`
	Owner       string   `json:"owner"`
	Date        string   `json:"date"`
}

// TransactionUpdateRequest is the patch payload for updating a transaction.
// Only fields present in the JSON body are applied.
type TransactionUpdateRequest struct {
	Description *string  `json:"description,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Icon        *string  `json:"icon,omitempty"`
	Owner       *string  `json:"owner,omitempty"`
	Date        *string  `json:"date,omitempty"`
}
