// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"encoding/json"
	"errors"
	"fmt"
)

// errMalformedState marks a stored value that cannot be decoded.
var errMalformedState = errors.New("session: malformed persisted state")

// persisted is the complete durable subset of a [Session].
type persisted struct {
	Token *string `json:"token"`
}

// encodePersisted serializes the only field that survives a restart.
func encodePersisted(token string) ([]byte, error) {
	b, err := json.Marshal(persisted{Token: &token})
	if err != nil {
		return nil, fmt.Errorf("session: encode persisted state: %w", err)
	}
	return b, nil
}

// decodePersisted extracts the credential. A value without a string "token"
// field is malformed.
func decodePersisted(raw []byte) (string, error) {
	var decoded persisted
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("%w: %v", errMalformedState, err)
	}
	if decoded.Token == nil {
		return "", fmt.Errorf("%w: token field missing", errMalformedState)
	}
	return *decoded.Token, nil
}
