package domain

// AccountEventOp is the operation tag carried as the message key on the
// account event channel.
type AccountEventOp string

const (
	AccountEventCreate AccountEventOp = "create"
	AccountEventUpdate AccountEventOp = "update"
	AccountEventDelete AccountEventOp = "delete"
)

// AccountEventPayload is the JSON body of a create/update account event.
// Pointer fields serialise as explicit nulls when unset: an update event
// carrying nulls overwrites the mirrored fields with nulls (full-overwrite
// semantics, not a partial merge).
type AccountEventPayload struct {
	Username  string  `json:"username"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Role      Role    `json:"role"`
	PublicID  string  `json:"user_public_id"`
}

// AccountDeletePayload is the JSON body of a delete account event. Only the
// public identity crosses the boundary.
type AccountDeletePayload struct {
	UserID string `json:"user_id"`
}

// AccountEvent is one message on the account channel: an operation tag plus
// its raw JSON payload, decoded by the consumer according to the tag.
type AccountEvent struct {
	Op      AccountEventOp
	Payload []byte
}
