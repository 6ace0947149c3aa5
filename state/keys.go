// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

const (
	Read     Permissions = 1
	Allocate             = 1<<1 | Read
	Write                = 1<<2 | Read

	None Permissions = 0
	All              = Read | Allocate | Write
)

// Keys maps a state key to the permissions a request needed for it.
type Keys map[string]Permissions

type Permissions byte

// Add unions [permission] into whatever is already recorded for [name].
func (k Keys) Add(name string, permission Permissions) {
	k[name] |= permission
}

// Has returns true if [p] has all the permissions that are contained in require
func (p Permissions) Has(require Permissions) bool {
	return require&^p == 0
}

// Writes returns the keys that were allocated, modified or removed.
func (k Keys) Writes() []string {
	var out []string
	for name, p := range k {
		if p.Has(Write) || p.Has(Allocate) {
			out = append(out, name)
		}
	}
	return out
}
