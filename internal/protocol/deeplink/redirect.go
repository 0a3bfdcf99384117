package deeplink

import (
	"net/url"
	"strings"

	"walletlink/internal/domain"
)

// ParseRedirectURL extracts the response parameters from a redirect.
//
// Custom-scheme URLs (wene://phantom/connect?...) are split manually at the
// first '?'; http(s) URLs go through net/url. Fragments are ignored. A
// redirect carrying errorCode or errorMessage is returned without requiring
// data or nonce.
func ParseRedirectURL(raw string) (domain.Redirect, error) {
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	if raw == "" {
		return domain.Redirect{}, invalid("empty redirect URL")
	}

	var path, query string
	if isHTTP(raw) {
		u, err := url.Parse(raw)
		if err != nil {
			return domain.Redirect{}, invalidErr("redirect URL", err)
		}
		path, query = u.Path, u.RawQuery
	} else {
		i := strings.IndexByte(raw, '?')
		if i < 0 {
			return domain.Redirect{}, invalid("redirect URL has no query string")
		}
		path, query = raw[:i], raw[i+1:]
	}
	if query == "" {
		return domain.Redirect{}, invalid("redirect URL has no query string")
	}

	q, err := url.ParseQuery(query)
	if err != nil {
		return domain.Redirect{}, invalidErr("redirect query", err)
	}

	r := domain.Redirect{
		Action:        actionOf(path),
		PeerPublicKey: q.Get(ParamPeerEncryptionPublicKey),
		ErrorCode:     q.Get(ParamErrorCode),
		ErrorMessage:  q.Get(ParamErrorMessage),
	}
	if r.IsError() {
		return r, nil
	}

	r.Data = q.Get(ParamData)
	if r.Data == "" {
		r.Data = q.Get(ParamPayload)
	}
	r.Nonce = q.Get(ParamNonce)
	if r.Data == "" {
		return domain.Redirect{}, invalidErr("redirect", fmtMissing(ParamData))
	}
	if r.Nonce == "" {
		return domain.Redirect{}, invalidErr("redirect", fmtMissing(ParamNonce))
	}
	return r, nil
}

func isHTTP(raw string) bool {
	l := strings.ToLower(raw)
	return strings.HasPrefix(l, "https://") || strings.HasPrefix(l, "http://")
}

// actionOf returns the last non-empty path segment.
func actionOf(path string) domain.OperationKind {
	if i := strings.Index(path, "://"); i >= 0 {
		path = path[i+3:]
	}
	path = strings.TrimRight(path, "/")
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		path = path[i+1:]
	}
	return domain.OperationKind(path)
}

type missingParamError struct{ name string }

func (e missingParamError) Error() string { return "missing " + e.name + " parameter" }

func (e missingParamError) Is(target error) bool { return target == ErrMissingParam }

func fmtMissing(name string) error { return missingParamError{name: name} }
