package core

// Identity identifies the author of a write batch. Every committed batch
// is attributed to an identity in the underlying store.
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
