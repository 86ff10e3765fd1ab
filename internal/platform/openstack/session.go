package openstack

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-logr/logr"
)

// Credentials are the password-method inputs of a project-scoped token.
type Credentials struct {
	Username        string
	Password        string
	UserDomainID    string
	ProjectName     string
	ProjectDomainID string
}

// Session is an issued token. It is immutable after Authenticate returns and
// is never refreshed.
type Session struct {
	Token     string
	ExpiresAt time.Time
	UserID    string
	ProjectID string
	Project   string
}

// Expired reports whether the token's server-side expiry has passed. It is
// informational; the client does not renew sessions.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Authenticator exchanges credentials for a Session.
type Authenticator struct {
	IdentityURL string
	HTTPClient  *http.Client
	Metrics     *Metrics
	Logger      logr.Logger
}

type authRequest struct {
	Auth struct {
		Identity struct {
			Methods  []string `json:"methods"`
			Password struct {
				User struct {
					Name     string   `json:"name"`
					Domain   domainID `json:"domain"`
					Password string   `json:"password"`
				} `json:"user"`
			} `json:"password"`
		} `json:"identity"`
		Scope struct {
			Project struct {
				Name   string   `json:"name"`
				Domain domainID `json:"domain"`
			} `json:"project"`
		} `json:"scope"`
	} `json:"auth"`
}

type domainID struct {
	ID string `json:"id"`
}

type authResponse struct {
	Token struct {
		ExpiresAt string `json:"expires_at"`
		User      struct {
			ID string `json:"id"`
		} `json:"user"`
		Project struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"project"`
	} `json:"token"`
}

// Authenticate performs POST {identity}/auth/tokens. Only a 201 response
// with a non-empty X-Subject-Token header succeeds; everything else is an
// *AuthError, or a *TransportError when no response was received.
func (a *Authenticator) Authenticate(ctx context.Context, creds Credentials) (*Session, error) {
	var body authRequest
	body.Auth.Identity.Methods = []string{"password"}
	body.Auth.Identity.Password.User.Name = creds.Username
	body.Auth.Identity.Password.User.Domain = domainID{ID: creds.UserDomainID}
	body.Auth.Identity.Password.User.Password = creds.Password
	body.Auth.Scope.Project.Name = creds.ProjectName
	body.Auth.Scope.Project.Domain = domainID{ID: creds.ProjectDomainID}

	httpClient := a.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	t := &transport{httpClient: httpClient, metrics: a.Metrics, logger: a.Logger}

	url := strings.TrimRight(a.IdentityURL, "/") + "/auth/tokens"
	resp, err := t.send(ctx, ServiceIdentity, http.MethodPost, url, "", body)
	if err != nil {
		return nil, err
	}

	if resp.status != http.StatusCreated {
		return nil, &AuthError{StatusCode: resp.status, Body: resp.body}
	}

	token := resp.header.Get("X-Subject-Token")
	if token == "" {
		return nil, &AuthError{StatusCode: resp.status, Body: resp.body, Reason: "response carried no X-Subject-Token header"}
	}

	session := &Session{Token: token, Project: creds.ProjectName}

	// The token body is optional detail; a 201 with a token is enough.
	var parsed authResponse
	if err := json.Unmarshal(resp.body, &parsed); err == nil {
		session.UserID = parsed.Token.User.ID
		session.ProjectID = parsed.Token.Project.ID
		if ts, err := time.Parse(time.RFC3339, parsed.Token.ExpiresAt); err == nil {
			session.ExpiresAt = ts
		}
	}

	a.Logger.Info("authenticated", "project", creds.ProjectName, "user", creds.Username, "expires_at", session.ExpiresAt)

	return session, nil
}
