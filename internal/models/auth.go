package models

// RegisterRequest is the body of the register endpoint
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of the login endpoint
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenRequest carries a single token in a request body
type TokenRequest struct {
	Token string `json:"token"`
}

// TokenPair is an access/refresh token pair
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// Introspection is the result of a token introspection.
// Inactive tokens only carry Active and Error.
type Introspection struct {
	Active bool   `json:"active"`
	Sub    string `json:"sub,omitempty"`
	Typ    string `json:"typ,omitempty"`
	Exp    int64  `json:"exp,omitempty"`
	JTI    string `json:"jti,omitempty"`
	Error  string `json:"error,omitempty"`
}
