// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package main

import (
	"github.com/albertocavalcante/clientgen/generator"
	"github.com/albertocavalcante/clientgen/generators/golang"
	"github.com/albertocavalcante/clientgen/generators/java"
)

func init() {
	generator.Register(java.NewGenerator())
	generator.Register(golang.NewGenerator())
}
