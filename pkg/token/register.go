package token

import (
	"strings"
	"sync"
)

var (
	registryMu      sync.RWMutex
	nextTokenID     = maxBuiltin
	dynamicTokens   = make(map[TokenType]string)
	dynamicKeywords = make(map[string]TokenType)
)

// Register registers a keyword token with the given name and returns its type.
// Registering the same name twice returns the same type. Lookups are
// case-insensitive, so "PRAGMA" and "pragma" resolve to one token.
func Register(name string) TokenType {
	upper := strings.ToUpper(name)
	lower := strings.ToLower(name)

	registryMu.Lock()
	defer registryMu.Unlock()

	if t, ok := dynamicKeywords[lower]; ok {
		return t
	}
	nextTokenID++
	t := nextTokenID
	dynamicTokens[t] = upper
	dynamicKeywords[lower] = t
	return t
}

func getDynamicName(t TokenType) (string, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	name, ok := dynamicTokens[t]
	return name, ok
}

// LookupDynamicKeyword returns the token type for a registered keyword.
// Returns IDENT and false if the keyword is not registered.
func LookupDynamicKeyword(name string) (TokenType, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if tok, ok := dynamicKeywords[strings.ToLower(name)]; ok {
		return tok, true
	}
	return IDENT, false
}

// IsDynamic returns true if the token type is a dynamically registered token.
func IsDynamic(t TokenType) bool {
	return t > maxBuiltin
}
