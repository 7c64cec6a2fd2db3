package models

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CategoryRule assigns Category to transactions matching every non-blank
// predicate. Description and IBAN match as substrings, Type by equality.
type CategoryRule struct {
	ID             int64           `json:"id"`
	Description    string          `json:"description"`
	IBAN           string          `json:"iBAN"`
	Type           TransactionType `json:"type"`
	Category       Category        `json:"category"`
	ApplyOnHistory bool            `json:"applyOnHistory"`
}

func (r CategoryRule) Equal(o CategoryRule) bool {
	return r == o
}
