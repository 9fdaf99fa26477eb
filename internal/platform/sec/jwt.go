// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides the cryptographic primitives of the storefront backend
// double and the CLI's credential inspection.
//
// # Architecture
//
// Token signing and password hashing live here, away from the handlers that
// use them. The client itself never verifies a credential; it only peeks at
// the expiry claim for display via [PeekExpiry].
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/storefront/pkg/uuid"
)

// Claims is the payload embedded inside a bearer credential.
type Claims struct {
	jwt.RegisteredClaims

	Account string `json:"acc"`
	Role    string `json:"rol"`
}

// TokenService issues and verifies HS256 credentials.
type TokenService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewTokenService creates a TokenService. A nil clock means [time.Now].
func NewTokenService(secret []byte, issuer string, now func() time.Time) *TokenService {
	if now == nil {
		now = time.Now
	}
	return &TokenService{secret: secret, issuer: issuer, now: now}
}

// Issue signs a credential for account that expires after timeToLive.
//
// Every credential carries a fresh ID, so two credentials issued within the
// same second still differ.
func (service *TokenService) Issue(account string, role UserRole, timeToLive time.Duration) (string, error) {
	currentTime := service.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New(),
			Subject:   account,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		Account: account,
		Role:    string(role),
	}

	signedToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}
	return signedToken, nil
}

// Verify checks the signature, issuer and expiry of a credential.
// Use [IsExpired] on the error to tell an expired credential from a forged one.
func (service *TokenService) Verify(tokenString string) (*Claims, error) {
	return service.parse(tokenString,
		jwt.WithIssuer(service.issuer),
		jwt.WithTimeFunc(service.now),
	)
}

// VerifySignature checks only the signature. Expired credentials pass.
func (service *TokenService) VerifySignature(tokenString string) (*Claims, error) {
	return service.parse(tokenString, jwt.WithoutClaimsValidation())
}

func (service *TokenService) parse(tokenString string, options ...jwt.ParserOption) (*Claims, error) {
	options = append(options, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return service.secret, nil
	}, options...)
	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}
	return claims, nil
}

// IsExpired reports whether err came from an otherwise valid, expired credential.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}

// PeekExpiry reads the expiry claim without verifying the signature.
func PeekExpiry(tokenString string) (time.Time, bool) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
