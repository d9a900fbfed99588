package models

// Transaction represents one spending or income record in the flat-file
// store. Owner is "me", "partner" or "shared"; Date is a display string
// (e.g. "Dec 28") carried through unchanged from the client.
type Transaction struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Icon        string  `json:"icon"`
	Owner       string  `json:"owner"`
	Date        string  `json:"date"`
}
