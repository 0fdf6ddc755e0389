package auth

import (
	"context"
)

// validator adapts a token check function to Authenticator.
type validator func(token string) (identity string, err error)

// BearerAuth creates an Authenticator from a validation function, the
// shortest way to plug an external token service into the compile service:
//
//	authn := auth.BearerAuth(func(token string) (string, error) {
//	    claims, err := verifier.Verify(token)
//	    if err != nil {
//	        return "", auth.ErrUnauthenticated
//	    }
//	    return claims.Subject, nil
//	})
func BearerAuth(validate func(token string) (identity string, err error)) Authenticator {
	return validator(validate)
}

// Authenticate implements Authenticator. A canceled context fails before
// the validation function runs.
func (v validator) Authenticate(ctx context.Context, token string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return v(token)
}

// TokenAuth returns an Authenticator for a fixed token table mapping tokens
// to identities, as loaded from a configuration file.
func TokenAuth(tokens map[string]string) Authenticator {
	table := make(map[string]string, len(tokens))
	for token, identity := range tokens {
		table[token] = identity
	}
	return BearerAuth(func(token string) (string, error) {
		identity, ok := table[token]
		if !ok {
			return "", ErrUnauthenticated
		}
		return identity, nil
	})
}
