// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns used by the Postgres state backend.
package schema

// ClientStateTable represents the 'client.state' table
type ClientStateTable struct {
	Table     string
	Key       string
	Value     string
	UpdatedAt string
}

var ClientState = ClientStateTable{
	Table:     "client.state",
	Key:       "key",
	Value:     "value",
	UpdatedAt: "updatedat",
}
