// Package auth issues and validates the JWTs that gate the REST API.
// Validation is stateless: a token is valid iff its HMAC signature checks
// out against the current secret and it has not expired. Rotating the
// secret therefore invalidates every outstanding token at once.
package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMissingToken           = errors.New("auth: missing token")
	ErrTokenExpired           = errors.New("auth: token expired")
	ErrInvalidToken           = errors.New("auth: invalid token")
	ErrInsufficientPermission = errors.New("auth: insufficient permission")
	ErrBadCredentials         = errors.New("auth: bad credentials")
)

type Role string

const (
	RoleAdmin        Role = "admin"
	RoleInvestigator Role = "investigator"
	RoleAnalyst      Role = "analyst"
	RoleViewer       Role = "viewer"
)

// rolePermissions is the flat permission matrix checked by the middleware.
var rolePermissions = map[Role][]string{
	RoleAdmin: {
		"create_investigation", "read_investigation", "update_investigation",
		"delete_investigation", "read_tasks", "create_tasks", "read_evidence",
		"create_evidence", "read_activities", "read_status", "manage_users",
		"view_audit_logs", "admin",
	},
	RoleInvestigator: {
		"create_investigation", "read_investigation", "update_investigation",
		"read_tasks", "create_tasks", "read_evidence", "create_evidence",
		"read_activities", "read_status",
	},
	RoleAnalyst: {
		"read_investigation", "update_investigation", "read_tasks",
		"create_tasks", "read_evidence", "create_evidence",
		"read_activities", "read_status",
	},
	RoleViewer: {
		"read_investigation", "read_tasks", "read_evidence",
		"read_activities", "read_status",
	},
}

// Permissions returns the permission set for a role. Unknown roles get none.
func Permissions(role Role) []string {
	return rolePermissions[role]
}

// Claims is the sealed JWT payload. Every token the service issues decodes
// into exactly this shape; ValidateToken is the only decode path.
type Claims struct {
	Role        Role     `json:"role"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// HasPermission reports whether the claims carry the named permission.
func (c *Claims) HasPermission(perm string) bool {
	for _, p := range c.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// Credential is an operator account the token endpoint accepts. The
// password is stored as a bcrypt hash; plaintext never touches the config.
type Credential struct {
	UserID       string
	PasswordHash string
	Role         Role
}

type Service struct {
	secret      []byte
	ttl         time.Duration
	issuer      string
	credentials map[string]Credential
}

func NewService(secret string, ttl time.Duration) *Service {
	return &Service{
		secret:      []byte(secret),
		ttl:         ttl,
		issuer:      "relaynode",
		credentials: make(map[string]Credential),
	}
}

// RegisterCredential adds an operator account to the token endpoint.
func (s *Service) RegisterCredential(cred Credential) {
	s.credentials[cred.UserID] = cred
}

// Authenticate checks a user/password pair and returns the account's role.
func (s *Service) Authenticate(userID, password string) (Role, error) {
	cred, ok := s.credentials[userID]
	if !ok {
		return "", ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return "", ErrBadCredentials
	}
	return cred.Role, nil
}

// IssueToken signs a JWT for the given subject and role.
func (s *Service) IssueToken(userID string, role Role) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:        role,
		Permissions: Permissions(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken parses and verifies a token string. It distinguishes
// expiry from every other failure so the handler layer can report
// "token expired" precisely.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// HashPassword produces a bcrypt hash suitable for RegisterCredential.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
