// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package model

// Client is a service client with its operations in declaration order.
type Client struct {
	Name        string
	Package     string
	Description string
	Operations  []*Operation
}

// Operation is one client method.
type Operation struct {
	Name        string
	Description string
	Parameters  []*Parameter
	// Response is nil for operations without a body.
	Response Type
	// Paging is set for operations that return one page at a time.
	Paging *Paging
	// LongRunning operations are polled until they finish.
	LongRunning bool
}

// Parameter is one operation argument.
type Parameter struct {
	Name     string
	Type     Type
	Required bool
}

// Paging describes how pages of a paged operation are read.
type Paging struct {
	// ItemName is the response property holding the page items.
	ItemName string
	// NextLinkName is the response property holding the next page link.
	NextLinkName string
	// Item is the element type of the items property.
	Item Type
}

// Example is a named sample value of a declared type.
type Example struct {
	Name        string
	Description string
	Type        Type
	Value       Node
	Line        int
}
