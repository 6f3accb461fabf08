package core

// Caller is the resolved identity of whoever issued a request. It is either a
// RegisteredUser or a GrantHolder; a missing identity is a nil Caller.
type Caller interface {
	caller()
}

// RegisteredUser is a caller with a standing account, identified upstream.
type RegisteredUser struct {
	UserID string
}

// GrantHolder is a caller presenting a session token minted from an access grant.
type GrantHolder struct {
	Token string
}

func (RegisteredUser) caller() {}
func (GrantHolder) caller()    {}

var (
	_ Caller = RegisteredUser{}
	_ Caller = GrantHolder{}
)
